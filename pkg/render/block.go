package render

import (
	"github.com/CTAG07/pasties/pkg/dom"
	"github.com/CTAG07/pasties/pkg/pasty"
	"golang.org/x/net/html"
)

// State is the editable toggle of a content element.
type State int

const (
	Locked State = iota
	Editable
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Editable:
		return "editable"
	default:
		return "unknown"
	}
}

// Block is the rendered subtree of a single pasty.
type Block struct {
	Pasty   pasty.Pasty
	Element *html.Node
	Content *html.Node
	Control *html.Node

	doc   *dom.Document
	state State
}

// State returns the current editable toggle.
func (b *Block) State() State {
	return b.state
}

// Editable reports whether the content element is user-modifiable.
func (b *Block) Editable() bool {
	return b.state == Editable
}

// Activate clicks the content element.
func (b *Block) Activate() {
	b.doc.Click(b.Content)
}

// Blur removes focus from the content element if it has it.
func (b *Block) Blur() {
	if b.doc.ActiveElement() == b.Content {
		b.doc.Blur()
	}
}

// Copy clicks the copy control.
func (b *Block) Copy() {
	b.doc.Click(b.Control)
}

func (b *Block) setState(s State) {
	b.state = s
	if s == Editable {
		dom.SetAttr(b.Content, "contenteditable", "true")
	} else {
		dom.SetAttr(b.Content, "contenteditable", "false")
	}
}
