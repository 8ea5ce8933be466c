package bbcode

import (
	"html/template"
	"strings"

	"golang.org/x/net/html"
)

// Replacement is a single literal substitution applied after escaping.
type Replacement struct {
	Tag  string
	HTML string
}

// replacements is applied in order. Order matters only for readability since
// no pattern is a substring of another.
var replacements = []Replacement{
	{Tag: "[b]", HTML: `<b class="bb-bold">`},
	{Tag: "[/b]", HTML: `</b>`},
	{Tag: "[i]", HTML: `<i class="bb-italic">`},
	{Tag: "[/i]", HTML: `</i>`},
	{Tag: "[u]", HTML: `<u class="bb-underline">`},
	{Tag: "[/u]", HTML: `</u>`},
	{Tag: "[s]", HTML: `<s class="bb-strikeout">`},
	{Tag: "[/s]", HTML: `</s>`},
}

var (
	newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	replacer = newReplacer(func(r Replacement) string { return r.HTML })
	stripper = newReplacer(func(Replacement) string { return "" })
)

func newReplacer(to func(Replacement) string) *strings.Replacer {
	pairs := make([]string, 0, len(replacements)*2)
	for _, r := range replacements {
		pairs = append(pairs, r.Tag, to(r))
	}
	return strings.NewReplacer(pairs...)
}

// Replacements returns a copy of the ordered substitution list.
func Replacements() []Replacement {
	out := make([]Replacement, len(replacements))
	copy(out, replacements)
	return out
}

// Sanitize escapes raw for literal HTML insertion and then re-introduces the
// whitelisted tag pairs. Matching is case-sensitive and global; unbalanced
// tags are substituted independently. Line endings are normalized to LF.
// The result must be assigned as markup, never re-escaped.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return replacer.Replace(html.EscapeString(newlines.Replace(raw)))
}

// HTML is Sanitize typed for html/template.
func HTML(raw string) template.HTML {
	return template.HTML(Sanitize(raw))
}

// Strip removes the whitelisted bracket tags and returns the remaining text
// unescaped. Unknown bracket tags are kept.
func Strip(raw string) string {
	return stripper.Replace(raw)
}
