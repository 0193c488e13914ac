package crawler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEquivalentForms(t *testing.T) {
	t.Parallel()

	// Common variants of the same page all land on one canonical string.
	variants := []string{
		"http://www.example.com/products/?b=2&a=1#reviews",
		"https://example.com/products?a=1&b=2",
		"https://WWW.EXAMPLE.COM/products/?a=1&b=2",
	}
	want := "https://example.com/products?a=1&b=2"
	for _, raw := range variants {
		require.Equal(t, want, Normalize(raw, "example.com"), "input %q", raw)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"http://www.example.com/a/b/?z=9&a=1#frag",
		"https://example.com/",
		"https://example.com/path",
		"not a url at all \x7f",
	}
	for _, raw := range inputs {
		once := Normalize(raw, "example.com")
		require.Equal(t, once, Normalize(once, "example.com"), "input %q", raw)
	}
}

func TestNormalizeRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		pinned string
		want   string
	}{
		{
			name:   "root path normalizes to slash",
			raw:    "https://example.com",
			pinned: "example.com",
			want:   "https://example.com/",
		},
		{
			name:   "trailing slash stripped off non-root path",
			raw:    "https://example.com/about/",
			pinned: "example.com",
			want:   "https://example.com/about",
		},
		{
			name:   "fragment dropped",
			raw:    "https://example.com/page#section",
			pinned: "example.com",
			want:   "https://example.com/page",
		},
		{
			name:   "other domain keeps its scheme",
			raw:    "http://other.org/page",
			pinned: "example.com",
			want:   "http://other.org/page",
		},
		{
			name:   "repeated query keys keep value order",
			raw:    "https://example.com/p?b=2&a=first&a=second",
			pinned: "example.com",
			want:   "https://example.com/p?a=first&a=second&b=2",
		},
		{
			name:   "bare question mark dropped",
			raw:    "https://example.com/p?",
			pinned: "example.com",
			want:   "https://example.com/p",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Normalize(tc.raw, tc.pinned))
		})
	}
}

func TestSeedURL(t *testing.T) {
	t.Parallel()

	seed, err := seedURL("www.Example.com")
	require.NoError(t, err)
	require.Equal(t, "https", seed.Scheme)
	require.Equal(t, "example.com", seed.Host)
	require.Equal(t, "/", seed.Path)

	seed, err = seedURL("http://example.com/start")
	require.NoError(t, err)
	require.Equal(t, "https", seed.Scheme, "scheme is always forced to https")
	require.Equal(t, "/start", seed.Path)

	_, err = seedURL("   ")
	require.Error(t, err)
	_, err = seedURL("https://")
	require.Error(t, err)
}
