package parser

import (
	"regexp"
	"strings"
)

// DefaultPlaceholder is the hint written on the first line of a new scratch file.
const DefaultPlaceholder = "This is a temporary editor for Claude Code. Enter your prompt for Claude here."

// commentRegex matches HTML comments, non-greedy, across line breaks.
var commentRegex = regexp.MustCompile(`(?s)<!--.*?-->`)

// StripComments removes every <!-- ... --> block from s and trims the
// surrounding whitespace. An unterminated "<!--" is left in place.
func StripComments(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(commentRegex.ReplaceAllString(s, ""))
}

// Comments returns the inner text of every HTML comment in s, in order.
func Comments(s string) []string {
	matches := commentRegex.FindAllString(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[len("<!--"):len(m)-len("-->")])
	}
	return out
}

// CommentLine renders text as a single HTML comment line terminated by a
// newline. Any "-->" inside text is removed so the comment cannot close early.
func CommentLine(text string) string {
	text = strings.ReplaceAll(text, "-->", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return "<!--" + text + " -->\n"
}

// IsBlank reports whether s has no content once comments are removed.
func IsBlank(s string) bool {
	return StripComments(s) == ""
}
