// Package parser handles the comment markup of scratch prompts.
//
// A scratch file starts with a placeholder hint written as an HTML comment.
// Everything inside <!-- ... --> is ignored when the prompt is sent:
//
//	text := parser.StripComments("<!-- hint -->\nSummarize this file")
//	// text == "Summarize this file"
//
// IsBlank reports whether a buffer holds nothing but comments and whitespace.
package parser
