// Package robots interprets the subset of robots.txt this crawler honors:
// Disallow/Allow path-prefix rules inside User-agent blocks that apply to us.
// Rule matching is first-match in parse order, not longest-prefix; that
// mirrors the behavior this tool has always had and is kept deliberately.
package robots

import (
	"net/url"
	"strings"
)

// AgentToken identifies this crawler when matching User-agent blocks.
const AgentToken = "schemascan"

type rule struct {
	prefix string
	allow  bool
}

// Rules is the flat ordered rule table produced by Parse.
type Rules struct {
	rules []rule
}

// Parse scans robotsText line by line. Rules accumulate from every block
// whose agent is "*", empty, or contains AgentToken (case-insensitive).
// An empty Disallow value means allow-all and records no rule. Lines outside
// any User-agent block are treated as applying to everyone.
func Parse(robotsText string) *Rules {
	r := &Rules{}
	relevant := true
	for _, line := range strings.Split(robotsText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		directive, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		directive = strings.ToLower(strings.TrimSpace(directive))
		value = strings.TrimSpace(value)
		switch directive {
		case "user-agent":
			agent := strings.ToLower(value)
			relevant = agent == "*" || agent == "" || strings.Contains(agent, AgentToken)
		case "disallow":
			if relevant && value != "" {
				r.rules = append(r.rules, rule{prefix: value, allow: false})
			}
		case "allow":
			if relevant && value != "" {
				r.rules = append(r.rules, rule{prefix: value, allow: true})
			}
		}
	}
	return r
}

// Len reports how many rules were parsed.
func (r *Rules) Len() int {
	if r == nil {
		return 0
	}
	return len(r.rules)
}

// IsAllowed evaluates rawURL against the table. An empty table allows
// everything; a URL that cannot be parsed is denied fail-safe; otherwise the
// first rule whose prefix matches the URL path decides, defaulting to allow.
func (r *Rules) IsAllowed(rawURL string) bool {
	if r == nil || len(r.rules) == 0 {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}
	for _, rl := range r.rules {
		if strings.HasPrefix(path, rl.prefix) {
			return rl.allow
		}
	}
	return true
}
