// Package schema defines the structured-data model shared by the extractor,
// grouper, and crawl orchestrator: items, deduplicated snippets, and the
// inferred connections between them.
package schema

// Format identifies the markup syntax an item was extracted from.
type Format string

// Supported structured-data formats.
const (
	FormatJSONLD    Format = "JSON-LD"
	FormatMicrodata Format = "Microdata"
	FormatRDFa      Format = "RDFa"
	FormatOpenGraph Format = "OpenGraph"
	FormatTwitter   Format = "Twitter Cards"
	// FormatMixed marks a snippet whose member items disagree on format.
	FormatMixed Format = "Mixed"
)

// Item is one occurrence of structured data found on one page. Items are
// created by the extractor and never mutated afterwards.
type Item struct {
	// URL is the canonical page URL the item was found on.
	URL string `json:"url"`
	// Format is the markup syntax the item came from.
	Format Format `json:"format"`
	// Type is the best-effort semantic type (e.g. "Product"), if any.
	Type string `json:"type,omitempty"`
	// Data is the parsed key/value payload.
	Data map[string]any `json:"data"`
	// ID is a stable identifier probed from the payload, if any.
	ID string `json:"id,omitempty"`
	// Hash fingerprints Data over a key-sorted serialization, so it is
	// stable across key insertion order.
	Hash string `json:"hash"`
}

// ConnectionType classifies an inferred edge by the payload property that
// produced it.
type ConnectionType string

// Connection types, from most to least specific.
const (
	ConnectionSameAs     ConnectionType = "sameAs"
	ConnectionMainEntity ConnectionType = "mainEntity"
	ConnectionAbout      ConnectionType = "about"
	ConnectionAuthor     ConnectionType = "author"
	ConnectionPublisher  ConnectionType = "publisher"
	ConnectionReference  ConnectionType = "reference"
)

// Connection is a directed inferred edge from one snippet to another.
type Connection struct {
	Type ConnectionType `json:"type"`
	// TargetID is the identifier string that matched.
	TargetID string `json:"target_id"`
	// TargetHash is the hash of the snippet owning TargetID, when resolved.
	TargetHash string `json:"target_hash,omitempty"`
	// Property is the dotted/bracketed path where the identifier occurs,
	// e.g. "author.@id" or "mentions[2]".
	Property string `json:"property"`
	// Value is the raw identifier string as found in the payload.
	Value string `json:"value"`
}

// Snippet is the deduplicated unit of content: all items sharing one hash.
type Snippet struct {
	Hash   string `json:"hash"`
	Type   string `json:"type,omitempty"`
	Format Format `json:"format"`
	// Items holds every member item in discovery order.
	Items []Item `json:"items"`
	// Connections are the outgoing edges computed from the representative
	// (first) item's payload.
	Connections []Connection `json:"connections,omitempty"`
}

// DuplicateCount reports how many times this snippet's content was seen.
func (s Snippet) DuplicateCount() int { return len(s.Items) }

// Representative returns the first member item. Snippets produced by the
// grouper always have at least one item.
func (s Snippet) Representative() Item {
	if len(s.Items) == 0 {
		return Item{}
	}
	return s.Items[0]
}
