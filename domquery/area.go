package domquery

import "github.com/akhatua2/designx/dom"

// Intersecting returns every element in the document whose bounding box
// overlaps r, in document order. Overlap uses the separating axis test, so
// containment in either direction and touching edges both count. Elements
// that are part of the engine's own UI (marker attribute on themselves or
// an ancestor) are always excluded regardless of geometry.
//
// This is an O(n) scan over the whole document. It runs once per completed
// drag gesture, never during drag-move, so the cost is acceptable.
func Intersecting(doc *dom.Document, r dom.Rect) []*dom.Element {
	if doc == nil {
		return nil
	}
	var out []*dom.Element
	for _, el := range doc.Elements() {
		if el.Marked() {
			continue
		}
		if el.Bounds.Intersects(r) {
			out = append(out, el)
		}
	}
	return out
}
