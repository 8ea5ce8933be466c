package dom

import (
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrElementNotFound is returned when a selector matches nothing.
var ErrElementNotFound = errors.New("dom: element not found")

// NotFoundError reports the selector that failed to match.
type NotFoundError struct {
	Selector string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dom: unable to find element selector=%s", e.Selector)
}

// Is makes errors.Is(err, ErrElementNotFound) hold.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}

// Listener is an event handler. It runs to completion before Dispatch returns.
type Listener func()

// Document is a parsed page plus its host environment state.
type Document struct {
	doc       *goquery.Document
	active    *html.Node
	selection *TextSelection
	clipboard Clipboard
	listeners map[*html.Node]map[string][]Listener
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return NewDocument(doc), nil
}

// NewDocument wraps an already parsed goquery document.
func NewDocument(doc *goquery.Document) *Document {
	return &Document{
		doc:       doc,
		selection: &TextSelection{},
		listeners: make(map[*html.Node]map[string][]Listener),
	}
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.doc.Nodes[0]
}

// Query exposes the underlying goquery document.
func (d *Document) Query() *goquery.Document {
	return d.doc
}

// Find returns the first element matching selector. If nothing matches, the
// error is a *NotFoundError.
func (d *Document) Find(selector string) (*html.Node, error) {
	sel := d.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, &NotFoundError{Selector: selector}
	}
	return sel.Get(0), nil
}

// AddEventListener registers fn for event on n. Listeners for the same
// node and event run in registration order.
func (d *Document) AddEventListener(n *html.Node, event string, fn Listener) {
	byEvent, ok := d.listeners[n]
	if !ok {
		byEvent = make(map[string][]Listener)
		d.listeners[n] = byEvent
	}
	byEvent[event] = append(byEvent[event], fn)
}

// Dispatch runs every listener registered for event on n.
func (d *Document) Dispatch(n *html.Node, event string) {
	if n == nil {
		return
	}
	// Copy so a listener registering another listener doesn't affect this run.
	fns := append([]Listener(nil), d.listeners[n][event]...)
	for _, fn := range fns {
		fn()
	}
}

// ListenerCount returns how many listeners are registered for event on n.
func (d *Document) ListenerCount(n *html.Node, event string) int {
	return len(d.listeners[n][event])
}

// Click performs a primary activation on n. Focusable elements take focus
// first, which blurs whatever was focused before.
func (d *Document) Click(n *html.Node) {
	if focusable(n) && d.active != n {
		d.Focus(n)
	}
	d.Dispatch(n, "click")
}

// Focus moves input focus to n, dispatching blur on the previous element.
func (d *Document) Focus(n *html.Node) {
	if d.active == n {
		return
	}
	d.Blur()
	d.active = n
	d.Dispatch(n, "focus")
}

// Blur removes focus from the active element, if any.
func (d *Document) Blur() {
	prev := d.active
	if prev == nil {
		return
	}
	d.active = nil
	d.Dispatch(prev, "blur")
}

// ActiveElement returns the focused element or nil.
func (d *Document) ActiveElement() *html.Node {
	return d.active
}

// Selection returns the document's single text selection.
func (d *Document) Selection() *TextSelection {
	return d.selection
}

// SetClipboard installs the clipboard used by ExecCopy. A nil clipboard
// makes every copy a no-op.
func (d *Document) SetClipboard(c Clipboard) {
	d.clipboard = c
}

// ExecCopy copies the current selection to the clipboard. It reports whether
// anything was copied; failures are not surfaced.
func (d *Document) ExecCopy() bool {
	if d.clipboard == nil || d.selection.Empty() {
		return false
	}
	return d.clipboard.WriteText(d.selection.String()) == nil
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// WriteTo renders the whole document to w.
func (d *Document) WriteTo(w io.Writer) error {
	return html.Render(w, d.Root())
}

func focusable(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "button", "input", "select", "textarea":
		return true
	case "a":
		return HasAttr(n, "href")
	}
	return GetAttr(n, "contenteditable") == "true"
}
