package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashIgnoresKeyOrder(t *testing.T) {
	t.Parallel()

	first := map[string]any{
		"name": "Widget",
		"offers": map[string]any{
			"price":         "9.99",
			"priceCurrency": "USD",
		},
	}
	second := map[string]any{
		"offers": map[string]any{
			"priceCurrency": "USD",
			"price":         "9.99",
		},
		"name": "Widget",
	}

	h1, err := Hash(first)
	require.NoError(t, err)
	h2, err := Hash(second)
	require.NoError(t, err)
	require.Equal(t, h1, h2, "deep-equal payloads must hash identically")
	require.Len(t, h1, 64, "expected a hex-encoded SHA-256 digest")
}

func TestHashDistinguishesPayloads(t *testing.T) {
	t.Parallel()

	h1, err := Hash(map[string]any{"name": "Widget"})
	require.NoError(t, err)
	h2, err := Hash(map[string]any{"name": "Gadget"})
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestWalkPaths(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"author": map[string]any{
			"@id": "https://example.com/#author",
		},
		"mentions": []any{"first", "second"},
	}

	paths := make(map[string]any)
	Walk(data, func(path string, value any) {
		paths[path] = value
	})

	require.Equal(t, "https://example.com/#author", paths["author.@id"])
	require.Equal(t, "first", paths["mentions[0]"])
	require.Equal(t, "second", paths["mentions[1]"])
	// Intermediate containers are visited too.
	require.Contains(t, paths, "author")
	require.Contains(t, paths, "mentions")
}

func TestWalkDepthCap(t *testing.T) {
	t.Parallel()

	// A payload with a cycle would be impossible from decoded JSON, but the
	// walk must still terminate on one.
	inner := map[string]any{}
	inner["self"] = inner

	visits := 0
	Walk(map[string]any{"root": inner}, func(string, any) { visits++ })
	require.Positive(t, visits)
	require.LessOrEqual(t, visits, maxWalkDepth+2)
}

func TestExtractID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{
			name: "at-id wins over url",
			data: map[string]any{"@id": "https://example.com/#org", "url": "https://example.com"},
			want: "https://example.com/#org",
		},
		{
			name: "sameAs list unwraps first string",
			data: map[string]any{"sameAs": []any{"https://social.example/org", "https://other.example"}},
			want: "https://social.example/org",
		},
		{
			name: "non-string values are skipped",
			data: map[string]any{"@id": 42.0, "url": "https://example.com/page"},
			want: "https://example.com/page",
		},
		{
			name: "no identifier",
			data: map[string]any{"name": "Widget"},
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ExtractID(tc.data))
		})
	}
}

func TestSnippetHelpers(t *testing.T) {
	t.Parallel()

	sn := Snippet{
		Hash:  "abc",
		Items: []Item{{URL: "https://example.com/a"}, {URL: "https://example.com/b"}},
	}
	require.Equal(t, 2, sn.DuplicateCount())
	require.Equal(t, "https://example.com/a", sn.Representative().URL)
	require.Equal(t, Item{}, Snippet{}.Representative())
}
