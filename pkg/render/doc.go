/*
Package render builds one editable, copyable block per pasty inside a mount
point of a dom.Document.

Each block is a div.pasty holding a div.pasty-content with the sanitized
markup and a "Copy content" button. Content elements start Locked; a click
makes them Editable and focuses them, and losing focus locks them again. The
copy button selects the content's full text, copies it through the document's
clipboard and clears the selection.

The same behavior is shipped to browsers as an inline script appended to the
document body.
*/
package render
