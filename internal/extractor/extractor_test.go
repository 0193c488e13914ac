package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schemascan/schemascan/internal/schema"
)

const pageURL = "https://example.com/page"

func itemsByFormat(items []schema.Item, format schema.Format) []schema.Item {
	var out []schema.Item
	for _, item := range items {
		if item.Format == format {
			out = append(out, item)
		}
	}
	return out
}

func TestExtractJSONLD(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<script type="application/ld+json">
{"@type": "Product", "@id": "https://example.com/#widget", "name": "Widget"}
</script>
</head><body></body></html>`

	items := New(nil).Extract(html, pageURL)
	require.Len(t, items, 1)

	item := items[0]
	require.Equal(t, schema.FormatJSONLD, item.Format)
	require.Equal(t, "Product", item.Type)
	require.Equal(t, "https://example.com/#widget", item.ID)
	require.Equal(t, "Widget", item.Data["name"])
	require.Equal(t, pageURL, item.URL)
	require.NotEmpty(t, item.Hash)
}

func TestExtractJSONLDArrayFansOut(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">
[{"@type": "Person", "name": "Ada"}, {"@type": "Person", "name": "Grace"}, "stray string"]
</script>`

	items := New(nil).Extract(html, pageURL)
	require.Len(t, items, 2, "each object element becomes an item; non-objects are dropped")
	require.Equal(t, "Ada", items[0].Data["name"])
	require.Equal(t, "Grace", items[1].Data["name"])
}

func TestExtractJSONLDMalformedBlockSkipped(t *testing.T) {
	t.Parallel()

	html := `
<script type="application/ld+json">{not valid json</script>
<script type="application/ld+json">{"@type": "Article", "headline": "Still here"}</script>`

	items := New(nil).Extract(html, pageURL)
	require.Len(t, items, 1)
	require.Equal(t, "Article", items[0].Type)
}

func TestJSONLDTypeFallbacks(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Product", jsonLDType(map[string]any{"@type": "Product"}))
	require.Equal(t, "Person", jsonLDType(map[string]any{"@type": []any{"Person", "Author"}}))
	require.Equal(t, "Graph", jsonLDType(map[string]any{"@graph": []any{}}))
	require.Equal(t, "Unknown", jsonLDType(map[string]any{"name": "nothing typed"}))
}

func TestExtractMicrodata(t *testing.T) {
	t.Parallel()

	html := `
<div itemscope itemtype="https://schema.org/Product" itemid="https://example.com/#widget">
  <span itemprop="name">Widget</span>
  <meta itemprop="sku" content="W-1">
  <a itemprop="url" href="https://example.com/widget">details</a>
</div>`

	items := New(nil).Extract(html, pageURL)
	micro := itemsByFormat(items, schema.FormatMicrodata)
	require.Len(t, micro, 1)

	item := micro[0]
	require.Equal(t, "Product", item.Type)
	require.Equal(t, "Widget", item.Data["name"])
	require.Equal(t, "W-1", item.Data["sku"], "content attribute wins over text")
	require.Equal(t, "https://example.com/widget", item.Data["url"])
	require.Equal(t, "https://schema.org/Product", item.Data["itemtype"])
	require.Equal(t, "https://example.com/#widget", item.Data["itemid"])
}

func TestExtractMicrodataRepeatedPropsAccumulate(t *testing.T) {
	t.Parallel()

	html := `
<div itemscope itemtype="https://schema.org/Recipe">
  <span itemprop="ingredient">flour</span>
  <span itemprop="ingredient">sugar</span>
</div>`

	items := itemsByFormat(New(nil).Extract(html, pageURL), schema.FormatMicrodata)
	require.Len(t, items, 1)
	require.Equal(t, []any{"flour", "sugar"}, items[0].Data["ingredient"])
}

func TestExtractMicrodataEmptyScopeSkipped(t *testing.T) {
	t.Parallel()

	items := New(nil).Extract(`<div itemscope></div>`, pageURL)
	require.Empty(t, itemsByFormat(items, schema.FormatMicrodata))
}

func TestExtractRDFa(t *testing.T) {
	t.Parallel()

	html := `
<div typeof="schema:Person" about="https://example.com/#ada">
  <span property="name">Ada Lovelace</span>
  <div typeof="schema:Organization">
    <span property="name">Analytical Engines Ltd</span>
  </div>
</div>`

	items := itemsByFormat(New(nil).Extract(html, pageURL), schema.FormatRDFa)
	require.Len(t, items, 2)

	person := items[0]
	require.Equal(t, "Person", person.Type)
	require.Equal(t, "Ada Lovelace", person.Data["name"], "nested scope must not leak its properties upward")
	require.Equal(t, "https://example.com/#ada", person.Data["@about"])

	org := items[1]
	require.Equal(t, "Organization", org.Type)
	require.Equal(t, "Analytical Engines Ltd", org.Data["name"])
}

func TestExtractOpenGraphCollapsesToOneItem(t *testing.T) {
	t.Parallel()

	html := `<head>
<meta property="og:title" content="Widget Page">
<meta property="og:type" content="product">
<meta property="og:image" content="https://example.com/a.png">
<meta property="og:image" content="https://example.com/b.png">
</head>`

	items := itemsByFormat(New(nil).Extract(html, pageURL), schema.FormatOpenGraph)
	require.Len(t, items, 1, "all og: metas collapse into a single item")

	item := items[0]
	require.Equal(t, "product", item.Type)
	require.Equal(t, "Widget Page", item.Data["title"])
	require.Equal(t, []any{"https://example.com/a.png", "https://example.com/b.png"}, item.Data["image"])
}

func TestExtractTwitterCards(t *testing.T) {
	t.Parallel()

	html := `<head>
<meta name="twitter:card" content="summary_large_image">
<meta name="twitter:title" content="Widget">
</head>`

	items := itemsByFormat(New(nil).Extract(html, pageURL), schema.FormatTwitter)
	require.Len(t, items, 1)
	require.Equal(t, "summary_large_image", items[0].Type)
	require.Equal(t, "Widget", items[0].Data["title"])
}

func TestExtractNoMetaTagsNoItem(t *testing.T) {
	t.Parallel()

	items := New(nil).Extract(`<head><meta name="viewport" content="width=device-width"></head>`, pageURL)
	require.Empty(t, items)
}

func TestExtractAllFormatsTogether(t *testing.T) {
	t.Parallel()

	html := `<html><head>
<script type="application/ld+json">{"@type": "Product", "name": "Widget"}</script>
<meta property="og:title" content="Widget">
<meta name="twitter:card" content="summary">
</head><body>
<div itemscope itemtype="https://schema.org/Offer"><span itemprop="price">9.99</span></div>
<div typeof="schema:Review"><span property="reviewBody">Great.</span></div>
</body></html>`

	items := New(nil).Extract(html, pageURL)
	require.Len(t, items, 5)
	for _, format := range []schema.Format{
		schema.FormatJSONLD, schema.FormatMicrodata, schema.FormatRDFa,
		schema.FormatOpenGraph, schema.FormatTwitter,
	} {
		require.Len(t, itemsByFormat(items, format), 1, "format %s", format)
	}
}

func TestLastPathSegment(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"https://schema.org/Product", "Product"},
		{"http://example.com/ns#Person", "Person"},
		{"schema:Review", "Review"},
		{"Plain", "Plain"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, lastPathSegment(tc.in), "input %q", tc.in)
	}
}
