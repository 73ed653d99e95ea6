package answer

import "strings"

// MatchKind reports which heuristic rule accepted an answer.
type MatchKind string

const (
	MatchNone      MatchKind = "none"
	MatchExact     MatchKind = "exact"
	MatchAlias     MatchKind = "alias"
	MatchSubstring MatchKind = "substring"
)

// Alias ties a riddle phrasing to answers that are accepted for it. The
// pattern and its answers together form one equivalence group.
type Alias struct {
	Pattern string
	Answers []string
}

// DefaultAliases holds the riddles that are known to be answered by
// restating the riddle itself.
var DefaultAliases = []Alias{
	{Pattern: "keys but no locks space but no room", Answers: []string{"keyboard", "qwerty"}},
	{Pattern: "keyboard", Answers: []string{"keys but no locks", "space but no room", "qwerty"}},
}

type aliasGroup struct {
	pattern string
	answers map[string]struct{}
	members map[string]struct{}
}

// Matcher is the local, non-AI correctness check.
type Matcher struct {
	groups []aliasGroup
}

func NewMatcher(aliases []Alias) *Matcher {
	m := &Matcher{}
	for _, a := range aliases {
		g := aliasGroup{
			pattern: Normalize(a.Pattern),
			answers: make(map[string]struct{}, len(a.Answers)),
			members: make(map[string]struct{}, len(a.Answers)+1),
		}
		g.members[g.pattern] = struct{}{}
		for _, ans := range a.Answers {
			n := Normalize(ans)
			g.answers[n] = struct{}{}
			g.members[n] = struct{}{}
		}
		m.groups = append(m.groups, g)
	}
	return m
}

var defaultMatcher = NewMatcher(DefaultAliases)

// IsCorrect reports whether user answers the riddle whose expected answer is
// correct. riddleText may be empty.
func IsCorrect(correct, user, riddleText string) bool {
	return defaultMatcher.Match(correct, user, riddleText) != MatchNone
}

// Match applies, in order: exact comparison, the alias table, and substring
// containment in either direction.
func (m *Matcher) Match(correct, user, riddleText string) MatchKind {
	nc, nu := Normalize(correct), Normalize(user)
	if nu == nc {
		return MatchExact
	}

	var nr string
	if riddleText != "" {
		nr = Normalize(riddleText)
	}
	for _, g := range m.groups {
		if nr != "" && g.pattern != "" && strings.Contains(nr, g.pattern) {
			if _, ok := g.answers[nu]; ok {
				return MatchAlias
			}
		}
		_, okCorrect := g.members[nc]
		_, okUser := g.members[nu]
		if okCorrect && okUser {
			return MatchAlias
		}
	}

	// An empty string is contained in everything; it never counts.
	if nc != "" && nu != "" && (strings.Contains(nu, nc) || strings.Contains(nc, nu)) {
		return MatchSubstring
	}
	return MatchNone
}
