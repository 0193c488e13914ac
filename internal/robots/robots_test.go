package robots

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAndIsAllowed(t *testing.T) {
	t.Parallel()

	robotsText := `
# site policy
User-agent: *
Disallow: /admin
Allow: /admin-help

User-agent: badbot
Disallow: /
`
	rules := Parse(robotsText)
	// The badbot block does not apply to us.
	require.Equal(t, 2, rules.Len())

	require.False(t, rules.IsAllowed("https://example.com/admin"))
	require.False(t, rules.IsAllowed("https://example.com/admin/users"))
	require.True(t, rules.IsAllowed("https://example.com/public"))
	require.True(t, rules.IsAllowed("https://example.com/"))
}

func TestFirstMatchWins(t *testing.T) {
	t.Parallel()

	// Disallow /a appears before the more specific Allow /a/b, so /a/b is
	// denied; matching is first-match in parse order, not longest-prefix.
	rules := Parse("User-agent: *\nDisallow: /a\nAllow: /a/b\n")
	require.False(t, rules.IsAllowed("https://example.com/a/b"))

	// Reversing the order flips the outcome.
	rules = Parse("User-agent: *\nAllow: /a/b\nDisallow: /a\n")
	require.True(t, rules.IsAllowed("https://example.com/a/b"))
	require.False(t, rules.IsAllowed("https://example.com/a/c"))
}

func TestAgentBlockSelection(t *testing.T) {
	t.Parallel()

	robotsText := `
User-agent: googlebot
Disallow: /private

User-agent: schemascan
Disallow: /internal
`
	rules := Parse(robotsText)
	require.Equal(t, 1, rules.Len())
	require.True(t, rules.IsAllowed("https://example.com/private"))
	require.False(t, rules.IsAllowed("https://example.com/internal"))
}

func TestEmptyDisallowRecordsNothing(t *testing.T) {
	t.Parallel()

	rules := Parse("User-agent: *\nDisallow:\n")
	require.Equal(t, 0, rules.Len())
	require.True(t, rules.IsAllowed("https://example.com/anything"))
}

func TestEmptyTableAllowsEverything(t *testing.T) {
	t.Parallel()

	require.True(t, Parse("").IsAllowed("https://example.com/any"))

	var nilRules *Rules
	require.True(t, nilRules.IsAllowed("https://example.com/any"))
}

func TestUnparseableURLDeniedWithRules(t *testing.T) {
	t.Parallel()

	rules := Parse("User-agent: *\nDisallow: /admin\n")
	require.False(t, rules.IsAllowed("https://example.com/%zz\x7f"))
}

func TestEmptyPathTreatedAsRoot(t *testing.T) {
	t.Parallel()

	rules := Parse("User-agent: *\nDisallow: /\n")
	require.False(t, rules.IsAllowed("https://example.com"))
}
