package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "comment and spaces", input: "<!--x-->  ", want: ""},
		{name: "no comments", input: "  Summarize this file\n", want: "Summarize this file"},
		{
			name:  "placeholder line then prompt",
			input: CommentLine(DefaultPlaceholder) + "Summarize this file\n",
			want:  "Summarize this file",
		},
		{
			name:  "multiline comment",
			input: "before\n<!--\nline one\nline two\n-->\nafter",
			want:  "before\n\nafter",
		},
		{
			name:  "several comments non greedy",
			input: "<!--a-->keep<!--b-->this<!--c-->",
			want:  "keepthis",
		},
		{
			name:  "unterminated comment kept",
			input: "text <!-- open",
			want:  "text <!-- open",
		},
		{
			name:  "inner text preserved",
			input: "line 1\n  indented\nline 3\n",
			want:  "line 1\n  indented\nline 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripComments(tt.input))
		})
	}
}

func TestStripComments_RemovesEveryBlock(t *testing.T) {
	inputs := []string{
		"<!--a-->",
		"x<!--a\nb-->y<!--c-->z",
		"\n\n<!---->\n",
		"<!-- <!-- nested --> tail",
	}
	for _, in := range inputs {
		out := StripComments(in)
		assert.Empty(t, commentRegex.FindAllString(out, -1), "input %q", in)
		assert.Equal(t, strings.TrimSpace(out), out)
	}
}

func TestPlaceholderAloneIsBlank(t *testing.T) {
	assert.True(t, IsBlank(CommentLine(DefaultPlaceholder)))
	assert.True(t, IsBlank(CommentLine("custom hint")+"\n\n   "))
	assert.False(t, IsBlank(CommentLine("hint")+"go"))
}

func TestCommentLine(t *testing.T) {
	assert.Equal(t, "<!--hello -->\n", CommentLine("hello"))

	line := CommentLine("tricky --> end\nsecond")
	assert.Len(t, Comments(line), 1)
	assert.Equal(t, "", StripComments(line))
}

func TestComments(t *testing.T) {
	got := Comments("a<!--one-->b<!--\ntwo\n-->")
	assert.Equal(t, []string{"one", "\ntwo\n"}, got)
	assert.Empty(t, Comments("nothing"))
}
