package crawler

import (
	"net/url"
	"strings"
)

// Normalize produces the canonical string form of a URL used for visited-set
// and frontier identity. Two URLs that are "the same page" under common site
// conventions normalize to an identical string, which is the primary defense
// against duplicate and infinite crawling. The function is idempotent.
//
// Rules, in order: unparseable input is returned unchanged; a host equal to
// pinnedDomain (with or without "www.") is forced to https; a leading "www."
// is stripped; the fragment is dropped; an empty path becomes "/" and any
// other path loses a single trailing slash; query parameters are reordered by
// key, ties keeping their original relative order.
func Normalize(rawURL, pinnedDomain string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if pinnedDomain != "" {
		if strings.EqualFold(u.Host, pinnedDomain) || strings.EqualFold(u.Host, "www."+pinnedDomain) {
			u.Scheme = "https"
		}
	}

	u.Host = strings.ToLower(u.Host)
	u.Host = strings.TrimPrefix(u.Host, "www.")
	u.Fragment = ""

	switch u.Path {
	case "", "/":
		u.Path = "/"
	default:
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	// url.Values.Encode sorts by key and keeps per-key value order, exactly
	// the stable reordering wanted here. A bare "?" is dropped entirely.
	u.ForceQuery = false
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String()
}
