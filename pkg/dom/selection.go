package dom

import (
	"sync"

	"golang.org/x/net/html"
)

// TextSelection holds at most one range, which always spans the full
// contents of a single node.
type TextSelection struct {
	node *html.Node
}

// SelectNodeContents replaces the selection with the contents of n.
func (s *TextSelection) SelectNodeContents(n *html.Node) {
	s.node = n
}

// RemoveAllRanges clears the selection.
func (s *TextSelection) RemoveAllRanges() {
	s.node = nil
}

// Empty reports whether nothing is selected.
func (s *TextSelection) Empty() bool {
	return s.node == nil
}

// String returns the selected text.
func (s *TextSelection) String() string {
	if s.node == nil {
		return ""
	}
	return TextContent(s.node)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// MemoryClipboard keeps the last copied text in memory.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// WriteText replaces the stored text.
func (c *MemoryClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// Text returns the last copied text.
func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}
