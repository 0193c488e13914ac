package schema

import "fmt"

// maxWalkDepth caps payload recursion. Decoded JSON payloads are trees, but
// the cap keeps a cyclic payload constructed in code from hanging the walk.
const maxWalkDepth = 64

// Visitor receives every value in a payload together with its
// dotted/bracketed path, e.g. "author.@id" or "mentions[2]".
type Visitor func(path string, value any)

// Walk traverses a payload depth-first and invokes visit for every value it
// contains: map values, slice elements, and scalars. The root map itself is
// not visited.
func Walk(data map[string]any, visit Visitor) {
	walkMap("", data, visit, 0)
}

// WalkValue traverses a single payload value rooted at path.
func WalkValue(path string, value any, visit Visitor) {
	walkAny(path, value, visit, 0)
}

func walkMap(prefix string, m map[string]any, visit Visitor, depth int) {
	if depth > maxWalkDepth {
		return
	}
	for key, value := range m {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		walkAny(path, value, visit, depth+1)
	}
}

func walkAny(path string, value any, visit Visitor, depth int) {
	if depth > maxWalkDepth {
		return
	}
	visit(path, value)
	switch typed := value.(type) {
	case map[string]any:
		walkMap(path, typed, visit, depth)
	case []any:
		for i, element := range typed {
			walkAny(fmt.Sprintf("%s[%d]", path, i), element, visit, depth+1)
		}
	}
}

// idProbeKeys are checked in priority order when extracting an item's stable
// identifier from its payload.
var idProbeKeys = []string{"@id", "id", "itemid", "url", "sameAs", "mainEntityOfPage"}

// ExtractID probes well-known identifier properties in the payload and
// returns the first string value found, or "" when none is present.
func ExtractID(data map[string]any) string {
	for _, key := range idProbeKeys {
		value, ok := data[key]
		if !ok {
			continue
		}
		if s := firstString(value); s != "" {
			return s
		}
	}
	return ""
}

// firstString unwraps a string value, or the first string element of a list
// value. Identifier properties like sameAs are frequently lists.
func firstString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []any:
		for _, element := range typed {
			if s, ok := element.(string); ok {
				return s
			}
		}
	}
	return ""
}
