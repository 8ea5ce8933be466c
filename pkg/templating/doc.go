/*
Package templating provides a filesystem-based html/template engine for the
page shell that pasties are rendered into.

Full pages are files named *.tmpl.html and partials are *.part.html. An
embedded page.tmpl.html is always available and can be overridden by a file
of the same name in the template directory. Templates can be reloaded with
Refresh without restarting a watch session.
*/
package templating
