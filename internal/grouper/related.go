package grouper

import "github.com/schemascan/schemascan/internal/schema"

// RelatedSets answers the graph query behind "related snippets": the outgoing
// set is every snippet reachable through one of the subject's connection
// target hashes; the incoming set is every other snippet with a connection
// whose target hash equals the subject's hash, or whose target id matches any
// identifier the subject owns. Both sets exclude the subject and contain no
// duplicates. The subject hash not being present yields two empty sets.
func RelatedSets(snippets []schema.Snippet, hash string) (outgoing, incoming []schema.Snippet) {
	var subject *schema.Snippet
	byHash := make(map[string]*schema.Snippet, len(snippets))
	for i := range snippets {
		byHash[snippets[i].Hash] = &snippets[i]
		if snippets[i].Hash == hash {
			subject = &snippets[i]
		}
	}
	if subject == nil {
		return nil, nil
	}

	added := make(map[string]struct{})
	for _, conn := range subject.Connections {
		if conn.TargetHash == "" || conn.TargetHash == hash {
			continue
		}
		if _, dup := added[conn.TargetHash]; dup {
			continue
		}
		target, ok := byHash[conn.TargetHash]
		if !ok {
			continue
		}
		added[conn.TargetHash] = struct{}{}
		outgoing = append(outgoing, *target)
	}

	owned := ownedIdentifiers(*subject)
	for i := range snippets {
		other := &snippets[i]
		if other.Hash == hash {
			continue
		}
		if pointsAt(other, hash, owned) {
			incoming = append(incoming, *other)
		}
	}
	return outgoing, incoming
}

func pointsAt(sn *schema.Snippet, hash string, owned map[string]struct{}) bool {
	for _, conn := range sn.Connections {
		if conn.TargetHash == hash {
			return true
		}
		if _, ok := owned[conn.TargetID]; ok {
			return true
		}
	}
	return false
}

// ownedIdentifiers collects every identifier the snippet's representative
// item exposes: its extracted id, any @id at any payload depth, and string
// values under url and sameAs.
func ownedIdentifiers(sn schema.Snippet) map[string]struct{} {
	rep := sn.Representative()
	owned := make(map[string]struct{})
	if rep.ID != "" {
		owned[rep.ID] = struct{}{}
	}
	schema.Walk(rep.Data, func(path string, value any) {
		s, ok := value.(string)
		if !ok || s == "" {
			return
		}
		if pathKey(path) == "@id" {
			owned[s] = struct{}{}
		}
	})
	for _, key := range []string{"url", "sameAs"} {
		collectStrings(rep.Data[key], owned)
	}
	return owned
}

func collectStrings(value any, into map[string]struct{}) {
	switch typed := value.(type) {
	case string:
		if typed != "" {
			into[typed] = struct{}{}
		}
	case []any:
		for _, element := range typed {
			if s, ok := element.(string); ok && s != "" {
				into[s] = struct{}{}
			}
		}
	}
}
