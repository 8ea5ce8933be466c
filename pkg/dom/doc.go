/*
Package dom is a small typed accessor over an HTML document tree.

It wraps a goquery document and adds the pieces of a host page that the
renderer needs: selector lookups that fail with ErrElementNotFound, element
construction, event listeners, a single focused element, a single text
selection and a clipboard. None of it is safe for concurrent use; a Document
behaves like a page driven from one UI thread.
*/
package dom
