package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/schema"
)

// extractJSONLD parses every <script type="application/ld+json"> block on the
// page. A block holding a JSON array fans out into one candidate per element;
// only object candidates become items. A malformed block is skipped with a
// warning and does not affect the rest of the page.
func (e *Extractor) extractJSONLD(doc *goquery.Document, pageURL string) []schema.Item {
	var items []schema.Item
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			e.logger.Warn("skipping malformed JSON-LD block",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			return
		}
		candidates := []any{parsed}
		if list, ok := parsed.([]any); ok {
			candidates = list
		}
		for _, candidate := range candidates {
			obj, ok := candidate.(map[string]any)
			if !ok {
				continue
			}
			if item, ok := e.finalize(pageURL, schema.FormatJSONLD, jsonLDType(obj), obj); ok {
				items = append(items, item)
			}
		}
	})
	return items
}

// jsonLDType derives the semantic type of a JSON-LD object: its @type,
// "Graph" for @graph containers, "Unknown" otherwise.
func jsonLDType(obj map[string]any) string {
	switch typed := obj["@type"].(type) {
	case string:
		if typed != "" {
			return typed
		}
	case []any:
		for _, element := range typed {
			if s, ok := element.(string); ok && s != "" {
				return s
			}
		}
	}
	if _, ok := obj["@graph"]; ok {
		return "Graph"
	}
	return "Unknown"
}
