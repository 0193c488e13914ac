package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/schemascan/schemascan/internal/schema"
)

// extractRDFa opens one item scope per element carrying a typeof attribute.
// Descendant property-bearing elements populate the payload unless a nested
// typeof scope claims them first. about/resource attributes on the scope are
// preserved under @about/@resource.
func (e *Extractor) extractRDFa(doc *goquery.Document, pageURL string) []schema.Item {
	var items []schema.Item
	doc.Find("[typeof]").Each(func(_ int, scope *goquery.Selection) {
		data := make(map[string]any)

		scope.Find("[property]").Each(func(_ int, prop *goquery.Selection) {
			if !claimedBy(prop, scope) {
				return
			}
			name := strings.TrimSpace(prop.AttrOr("property", ""))
			if name == "" {
				return
			}
			if value := elementValue(prop); value != "" {
				addProperty(data, name, value)
			}
		})

		if about, ok := scope.Attr("about"); ok && strings.TrimSpace(about) != "" {
			data["@about"] = strings.TrimSpace(about)
		}
		if resource, ok := scope.Attr("resource"); ok && strings.TrimSpace(resource) != "" {
			data["@resource"] = strings.TrimSpace(resource)
		}

		if len(data) == 0 {
			return
		}
		itemType := lastPathSegment(scope.AttrOr("typeof", ""))
		if item, ok := e.finalize(pageURL, schema.FormatRDFa, itemType, data); ok {
			items = append(items, item)
		}
	})
	return items
}

// claimedBy reports whether scope is the nearest typeof scope enclosing prop.
// A property element that itself carries typeof opens its own scope and is
// never claimed by an ancestor.
func claimedBy(prop, scope *goquery.Selection) bool {
	owner := prop.Closest("[typeof]")
	if owner.Length() == 0 || scope.Length() == 0 {
		return false
	}
	return owner.Nodes[0] == scope.Nodes[0]
}
