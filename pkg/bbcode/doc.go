/*
Package bbcode converts snippet text written with a tiny bulletin-board markup
subset into HTML that is safe to inject as markup.

Only four tag pairs are recognised: [b], [i], [u] and [s], each with its
closing form. Everything else, including unknown bracket tags such as [a] or
[script], is left as literal text.

This is not an HTML parser. Sanitize escapes the whole input first and only
then substitutes the whitelisted bracket tags, so the output can contain no
markup other than the eight replacement strings.
*/
package bbcode
