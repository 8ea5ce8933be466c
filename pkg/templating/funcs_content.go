package templating

import (
	"html/template"
	"unicode/utf8"

	"github.com/CTAG07/pasties/pkg/bbcode"
)

// sanitize renders bracket markup as safe HTML.
func sanitize(raw string) template.HTML {
	return bbcode.HTML(raw)
}

// strip removes bracket markup, leaving plain text for html/template to escape.
func strip(raw string) string {
	return bbcode.Strip(raw)
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(n int, s string) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
