package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/schemascan/schemascan/internal/schema"
)

// extractMicrodata collects one item per itemscope element. Descendant
// itemprop elements populate the payload; the scope's itemtype and itemid
// attributes are folded into the payload and the itemtype's last path segment
// becomes the item type.
func (e *Extractor) extractMicrodata(doc *goquery.Document, pageURL string) []schema.Item {
	var items []schema.Item
	doc.Find("[itemscope]").Each(func(_ int, scope *goquery.Selection) {
		data := make(map[string]any)

		scope.Find("[itemprop]").Each(func(_ int, prop *goquery.Selection) {
			name := strings.TrimSpace(prop.AttrOr("itemprop", ""))
			if name == "" {
				return
			}
			if value := elementValue(prop); value != "" {
				addProperty(data, name, value)
			}
		})

		itemType := ""
		if itemtype, ok := scope.Attr("itemtype"); ok && strings.TrimSpace(itemtype) != "" {
			itemtype = strings.TrimSpace(itemtype)
			data["itemtype"] = itemtype
			itemType = lastPathSegment(itemtype)
		}
		if itemid, ok := scope.Attr("itemid"); ok && strings.TrimSpace(itemid) != "" {
			data["itemid"] = strings.TrimSpace(itemid)
		}

		if len(data) == 0 {
			return
		}
		if item, ok := e.finalize(pageURL, schema.FormatMicrodata, itemType, data); ok {
			items = append(items, item)
		}
	})
	return items
}

// elementValue extracts the value an element contributes, in fixed precedence:
// content attribute, then href/src, then datetime, then trimmed text content.
func elementValue(sel *goquery.Selection) string {
	for _, attr := range []string{"content", "href", "src", "datetime"} {
		if value, ok := sel.Attr(attr); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return strings.TrimSpace(sel.Text())
}
