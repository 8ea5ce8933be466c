package render

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/CTAG07/pasties/pkg/bbcode"
	"github.com/CTAG07/pasties/pkg/dom"
	"github.com/CTAG07/pasties/pkg/pasty"
	"golang.org/x/net/html"
)

const (
	// ClassBlock tags the wrapping element of every pasty.
	ClassBlock = "pasty"
	// ClassContent tags the element holding the sanitized markup.
	ClassContent = "pasty-content"
	// ClassCopy tags the copy control.
	ClassCopy = "pasty-copy"
	// CopyLabel is the text of the copy control.
	CopyLabel = "Copy content"

	runtimeAttr = "data-pasty-runtime"
)

//go:embed assets/pasty.js
var script string

// Script returns the browser runtime that wires the block handlers.
func Script() string {
	return script
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScript controls whether the browser runtime is appended to the body.
// It is on by default.
func WithScript(enabled bool) Option {
	return func(r *Renderer) {
		r.withScript = enabled
	}
}

// Renderer turns pasties into blocks.
type Renderer struct {
	logger     *slog.Logger
	withScript bool
}

// NewRenderer creates a Renderer. A nil logger discards output.
func NewRenderer(logger *slog.Logger, opts ...Option) *Renderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Renderer{logger: logger, withScript: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render appends one block per pasty, in input order, to the element matched
// by selector. Duplicate IDs are rendered as separate blocks. If the mount
// point is missing the document is left untouched and the error wraps
// dom.ErrElementNotFound.
func (r *Renderer) Render(doc *dom.Document, pasties []pasty.Pasty, selector string) ([]*Block, error) {
	container, err := doc.Find(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to locate pasty container: %w", err)
	}

	blocks := make([]*Block, 0, len(pasties))
	for _, p := range pasties {
		b, err := r.build(doc, p)
		if err != nil {
			return blocks, fmt.Errorf("failed to render pasty %q: %w", p.ID, err)
		}
		container.AppendChild(b.Element)
		blocks = append(blocks, b)
	}

	if r.withScript {
		if err = appendRuntime(doc); err != nil {
			return blocks, err
		}
	}

	r.logger.Debug("Rendered pasties", "selector", selector, "count", len(blocks))
	return blocks, nil
}

func (r *Renderer) build(doc *dom.Document, p pasty.Pasty) (*Block, error) {
	attrs := map[string]string{"class": ClassBlock, "data-pasty-id": p.ID}
	if title := bbcode.Strip(p.Title); title != "" {
		attrs["title"] = title
	}
	element := dom.Make("div", attrs)

	content := dom.Make("div", map[string]string{"class": ClassContent})
	if err := dom.SetInnerHTML(content, bbcode.Sanitize(p.Content)); err != nil {
		return nil, err
	}
	element.AppendChild(content)

	control := dom.Make("button", map[string]string{"class": ClassCopy, "type": "button"})
	dom.SetText(control, CopyLabel)
	element.AppendChild(control)

	b := &Block{
		Pasty:   p,
		Element: element,
		Content: content,
		Control: control,
		doc:     doc,
	}
	b.setState(Locked)

	doc.AddEventListener(content, "click", func() {
		b.setState(Editable)
		doc.Focus(content)
	})
	doc.AddEventListener(content, "blur", func() {
		b.setState(Locked)
	})
	doc.AddEventListener(control, "click", func() {
		sel := doc.Selection()
		sel.SelectNodeContents(content)
		if !doc.ExecCopy() {
			r.logger.Debug("Copy command had no effect", "pasty_id", p.ID)
		}
		sel.RemoveAllRanges()
	})

	return b, nil
}

// appendRuntime adds the browser script to the body once per document.
func appendRuntime(doc *dom.Document) error {
	if _, err := doc.Find("script[" + runtimeAttr + "]"); err == nil {
		return nil
	}
	body, err := doc.Find("body")
	if err != nil {
		return fmt.Errorf("failed to locate document body: %w", err)
	}
	s := dom.Make("script", map[string]string{runtimeAttr: ""})
	s.AppendChild(&html.Node{Type: html.TextNode, Data: script})
	body.AppendChild(s)
	return nil
}
