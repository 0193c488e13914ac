// Package extractor discovers machine-readable structured data embedded in
// HTML: JSON-LD script blocks, Microdata and RDFa attribute markup, and
// OpenGraph / Twitter Card meta tags.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/schema"
)

// Extractor turns raw HTML into typed structured-data items. It is stateless
// apart from its logger and safe for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

// New constructs an Extractor. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract parses htmlText and returns every structured-data item found,
// across all five supported formats. pageURL should be the canonical URL of
// the page; it is recorded on each item. Extraction is best-effort: malformed
// blocks are skipped with a warning, never fatal to the page.
func (e *Extractor) Extract(htmlText, pageURL string) []schema.Item {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		e.logger.Warn("failed to parse HTML document",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		return nil
	}

	var items []schema.Item
	items = append(items, e.extractJSONLD(doc, pageURL)...)
	items = append(items, e.extractMicrodata(doc, pageURL)...)
	items = append(items, e.extractRDFa(doc, pageURL)...)
	if item, ok := e.extractMetaItem(doc, pageURL, "property", "og:", schema.FormatOpenGraph); ok {
		items = append(items, item)
	}
	if item, ok := e.extractMetaItem(doc, pageURL, "name", "twitter:", schema.FormatTwitter); ok {
		items = append(items, item)
	}
	return items
}

// finalize hashes the payload, probes for a stable identifier, and assembles
// the immutable item.
func (e *Extractor) finalize(pageURL string, format schema.Format, itemType string, data map[string]any) (schema.Item, bool) {
	hash, err := schema.Hash(data)
	if err != nil {
		e.logger.Warn("failed to hash payload",
			zap.String("url", pageURL),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return schema.Item{}, false
	}
	return schema.Item{
		URL:    pageURL,
		Format: format,
		Type:   itemType,
		Data:   data,
		ID:     schema.ExtractID(data),
		Hash:   hash,
	}, true
}

// addProperty inserts a property value, accumulating repeats into a list
// instead of overwriting.
func addProperty(data map[string]any, name string, value any) {
	existing, ok := data[name]
	if !ok {
		data[name] = value
		return
	}
	if list, isList := existing.([]any); isList {
		data[name] = append(list, value)
		return
	}
	data[name] = []any{existing, value}
}

// lastPathSegment reduces a type URI like "https://schema.org/Product" or a
// prefixed name like "schema:Person" to its trailing segment.
func lastPathSegment(uri string) string {
	uri = strings.TrimSpace(uri)
	for _, sep := range []string{"/", "#", ":"} {
		if idx := strings.LastIndex(uri, sep); idx >= 0 {
			uri = uri[idx+1:]
		}
	}
	return uri
}
