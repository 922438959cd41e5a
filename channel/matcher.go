package channel

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultPatterns are the name patterns that identify an assistant terminal.
var DefaultPatterns = []string{"claude", "anthropic"}

// Matcher matches terminal names against case-insensitive patterns.
type Matcher struct {
	patterns []*regexp.Regexp
}

// NewMatcher compiles patterns. Each pattern is a regular expression matched
// case-insensitively anywhere in the name.
func NewMatcher(patterns ...string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// MustMatcher is like NewMatcher but panics on an invalid pattern.
func MustMatcher(patterns ...string) *Matcher {
	m, err := NewMatcher(patterns...)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether name matches any pattern.
func (m *Matcher) Match(name string) bool {
	name = strings.ToLower(name)
	for _, re := range m.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source of each compiled pattern.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	for i, re := range m.patterns {
		out[i] = strings.TrimPrefix(re.String(), "(?i)")
	}
	return out
}
