// Package dom provides the Go-side element tree the selection engine works
// on. A Document is produced either by the browser mirror (structure,
// geometry and JS property bags from CDP) or by ParseHTML (structure only,
// from a raw HTML snapshot).
//
// Elements are non-owning references to page content: they are valid until
// the next DOM mutation. Consumers that need durability must re-resolve
// through the stored path (see domquery.Find).
package dom

import "strings"

// MarkerAttr is the reserved attribute that tags every node the engine
// injects into the page (overlay, spotlight, live rectangle). Any element
// carrying it, or contained in one carrying it, is invisible to selection,
// area queries and introspection. This attribute name is the one contract
// other code must respect to be excluded from selection.
const MarkerAttr = "data-designx-ui"

// Element is a single element node. Fields are populated by the producer;
// geometry and Props are present only on mirror-built documents.
type Element struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   map[string]string

	// Text is the element's own text content (direct text children only,
	// whitespace-collapsed). Use TextContent for the subtree.
	Text string

	// Bounds is the border-box rectangle in viewport coordinates.
	Bounds Rect

	// Props holds the element's own enumerable JS properties, materialised
	// from the page. Framework internals (React fibers) live here.
	Props map[string]any

	// OuterHTML is a best-effort serialisation of the element, used for
	// report rendering. May be empty.
	OuterHTML string

	parent   *Element
	children []*Element
}

// Parent returns the parent element, or nil at the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's child elements in document order.
// The returned slice is owned by the element; callers must not mutate it.
func (e *Element) Children() []*Element { return e.children }

// AppendChild attaches c as the last child of e.
func (e *Element) AppendChild(c *Element) {
	c.parent = e
	e.children = append(e.children, c)
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	if e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// Marked reports whether the element is part of the engine's own UI: it or
// any ancestor carries MarkerAttr.
func (e *Element) Marked() bool {
	for n := e; n != nil; n = n.parent {
		if n.Attrs != nil {
			if _, ok := n.Attrs[MarkerAttr]; ok {
				return true
			}
		}
	}
	return false
}

// TextContent returns the concatenated, whitespace-collapsed text of the
// element's subtree.
func (e *Element) TextContent() string {
	var parts []string
	var walk func(*Element)
	walk = func(n *Element) {
		if t := strings.TrimSpace(n.Text); t != "" {
			parts = append(parts, t)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(e)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Document is a snapshot of the page the engine operates on.
type Document struct {
	// Body is the root for selection paths; paths stop below it.
	Body *Element

	// Viewport is the visible area in viewport coordinates.
	Viewport Rect

	// URL is the page URL, if known.
	URL string

	// Globals holds materialised page globals of interest (e.g. "React"),
	// used for framework version detection.
	Globals map[string]any

	// ScriptSrcs lists the src attributes of the page's script tags,
	// gathered document-wide (including outside body).
	ScriptSrcs []string
}

// Elements returns every element in the document in depth-first document
// order, starting at Body.
func (d *Document) Elements() []*Element {
	if d.Body == nil {
		return nil
	}
	var out []*Element
	var walk func(*Element)
	walk = func(n *Element) {
		out = append(out, n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(d.Body)
	return out
}

// ElementAt returns the innermost unmarked element whose bounds contain the
// point, preferring later (topmost) elements at equal depth. Returns nil if
// nothing is hit.
func (d *Document) ElementAt(x, y float64) *Element {
	var hit *Element
	for _, el := range d.Elements() {
		if el.Marked() {
			continue
		}
		if el.Bounds.Contains(x, y) {
			hit = el // later in document order wins
		}
	}
	return hit
}
