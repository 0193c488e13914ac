package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/schemascan/schemascan/internal/schema"
)

// extractMetaItem collapses all <meta> tags whose attr value starts with
// prefix into a single item with the prefix stripped from each key. Both
// OpenGraph (property="og:*") and Twitter Cards (name="twitter:*") follow
// this shape. No item is emitted when the page carries no matching tag.
func (e *Extractor) extractMetaItem(doc *goquery.Document, pageURL, attr, prefix string, format schema.Format) (schema.Item, bool) {
	data := make(map[string]any)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr(attr)
		if !ok || !strings.HasPrefix(name, prefix) {
			return
		}
		key := strings.TrimPrefix(name, prefix)
		if key == "" {
			return
		}
		addProperty(data, key, sel.AttrOr("content", ""))
	})
	if len(data) == 0 {
		return schema.Item{}, false
	}
	return e.finalize(pageURL, format, metaType(data, format), data)
}

// metaType picks a best-effort semantic type: og:type for OpenGraph,
// twitter:card for Twitter Cards, absent otherwise.
func metaType(data map[string]any, format schema.Format) string {
	key := ""
	switch format {
	case schema.FormatOpenGraph:
		key = "type"
	case schema.FormatTwitter:
		key = "card"
	}
	if key == "" {
		return ""
	}
	if value, ok := data[key].(string); ok {
		return value
	}
	return ""
}
