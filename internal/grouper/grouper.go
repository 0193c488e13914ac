// Package grouper deduplicates extracted structured-data items into snippets
// keyed by content hash and infers directed reference edges between snippets
// by resolving identifier strings against a global identifier index.
package grouper

import (
	"sort"
	"strings"

	"github.com/schemascan/schemascan/internal/schema"
)

// linkSeedProperties are payload property names commonly used for linking.
// They seed the connection search ahead of the unconditional full payload
// walk; duplicates between the two passes are suppressed by a seen-set.
var linkSeedProperties = []string{
	"@id", "id", "sameAs", "mainEntity", "about", "author", "publisher",
	"mainEntityOfPage", "url", "itemid", "resource", "isPartOf", "hasPart",
	"creator", "mentions", "citation", "workExample", "exampleOfWork",
}

// Group rebuilds the full snippet list from scratch. Items sharing a content
// hash collapse into one snippet (members in first-seen order); connections
// are inferred from each snippet's representative item. The result is sorted
// by duplicate count descending so site-wide boilerplate surfaces first.
//
// Group is a pure function: it holds no state between calls and callers are
// expected to re-run it over the full accumulated item list as data arrives.
func Group(items []schema.Item) []schema.Snippet {
	index := buildIdentifierIndex(items)
	snippets := groupByHash(items)
	for i := range snippets {
		resolveConnections(&snippets[i], index)
	}
	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].DuplicateCount() > snippets[j].DuplicateCount()
	})
	return snippets
}

// buildIdentifierIndex maps every identifier string to the hash of the item
// that declares it: the "@id" of any payload object that carries further
// properties, plus each item's extracted id. An object holding nothing but an
// "@id" is a reference to an entity declared elsewhere, not a declaration,
// and claims nothing. The index is built over all items before any edges are
// computed, since an identifier referenced by one item may be declared by an
// item seen later. A later declaration overwrites an earlier claim to the
// same identifier (last-write-wins, deliberately preserved).
func buildIdentifierIndex(items []schema.Item) map[string]string {
	index := make(map[string]string)
	for _, item := range items {
		hash := item.Hash
		recordDeclaration(item.Data, hash, index)
		schema.Walk(item.Data, func(_ string, value any) {
			if m, ok := value.(map[string]any); ok {
				recordDeclaration(m, hash, index)
			}
		})
		if item.ID != "" {
			index[item.ID] = hash
		}
	}
	return index
}

func recordDeclaration(m map[string]any, hash string, index map[string]string) {
	if len(m) < 2 {
		return
	}
	if s, ok := m["@id"].(string); ok && s != "" {
		index[s] = hash
	}
}

// groupByHash partitions items into snippets by content hash, preserving
// first-seen order of both snippets and members. Format flips to Mixed the
// moment a second distinct format appears within a group.
func groupByHash(items []schema.Item) []schema.Snippet {
	byHash := make(map[string]int)
	snippets := make([]schema.Snippet, 0)
	for _, item := range items {
		idx, ok := byHash[item.Hash]
		if !ok {
			byHash[item.Hash] = len(snippets)
			snippets = append(snippets, schema.Snippet{
				Hash:   item.Hash,
				Type:   item.Type,
				Format: item.Format,
				Items:  []schema.Item{item},
			})
			continue
		}
		if snippets[idx].Format != item.Format {
			snippets[idx].Format = schema.FormatMixed
		}
		snippets[idx].Items = append(snippets[idx].Items, item)
	}
	return snippets
}

// resolveConnections inspects only the snippet's representative item. Every
// string value anywhere in the payload is checked against the identifier
// index; a hit on a different snippet's hash emits an edge. Self-references
// and duplicate edges (same type+target+path) are suppressed. An object that
// carries its own @id is not a dead end: its remaining properties keep being
// walked.
func resolveConnections(sn *schema.Snippet, index map[string]string) {
	rep := sn.Representative()
	seen := make(map[string]struct{})

	visit := func(path string, value any) {
		s, ok := value.(string)
		if !ok || s == "" {
			return
		}
		targetHash, known := index[s]
		if !known || targetHash == sn.Hash {
			return
		}
		edgeType := classifyEdge(path)
		key := string(edgeType) + "\x00" + s + "\x00" + path
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		sn.Connections = append(sn.Connections, schema.Connection{
			Type:       edgeType,
			TargetID:   s,
			TargetHash: targetHash,
			Property:   path,
			Value:      s,
		})
	}

	for _, key := range linkSeedProperties {
		if value, ok := rep.Data[key]; ok {
			schema.WalkValue(key, value, visit)
		}
	}
	schema.Walk(rep.Data, visit)
}

// classifyEdge types an edge purely from the textual property path that
// produced it, by case-insensitive substring match in fixed priority order.
func classifyEdge(path string) schema.ConnectionType {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "sameas"):
		return schema.ConnectionSameAs
	case strings.Contains(p, "mainentity"):
		return schema.ConnectionMainEntity
	case strings.Contains(p, "about"):
		return schema.ConnectionAbout
	case strings.Contains(p, "author"), strings.Contains(p, "creator"):
		return schema.ConnectionAuthor
	case strings.Contains(p, "publisher"):
		return schema.ConnectionPublisher
	default:
		return schema.ConnectionReference
	}
}

// pathKey returns the final property name of a dotted path. List indices
// never carry keys, so "mentions[2]" stays distinct from a map key.
func pathKey(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
