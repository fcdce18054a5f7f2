// Package domquery holds the pure element queries of the selection engine:
// stable path resolution, path re-resolution against a snapshot, and the
// rectangle intersection scan behind area selections.
package domquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akhatua2/designx/dom"
)

// Resolve builds a human-readable path for el: one segment per ancestor
// from the top down to el, excluding body. Each segment is the lowercase
// tag, "#id" when present, ".class" for every class token in original
// order, and ":nth-child(k)" only when the element has siblings of the
// same tag, with k the 1-based position among those same-tag siblings.
//
// Scoping nth-child to same-tag siblings keeps paths stable when unrelated
// siblings of a different tag are added or removed.
func Resolve(el *dom.Element) string {
	if el == nil {
		return ""
	}
	if el.Tag == "body" {
		return "body"
	}
	var segs []string
	for n := el; n != nil && n.Tag != "body"; n = n.Parent() {
		segs = append(segs, segment(n))
	}
	// Reverse into top-down order.
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, " > ")
}

func segment(el *dom.Element) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(el.Tag))
	if el.ID != "" {
		b.WriteString("#")
		b.WriteString(el.ID)
	}
	for _, c := range el.Classes {
		if c != "" {
			b.WriteString(".")
			b.WriteString(c)
		}
	}
	if idx, total := sameTagPosition(el); total > 1 {
		fmt.Fprintf(&b, ":nth-child(%d)", idx)
	}
	return b.String()
}

// sameTagPosition returns el's 1-based position among siblings sharing its
// tag, and how many such siblings exist (including el itself). Engine
// chrome siblings are invisible here: injected nodes must not perturb
// user-facing paths.
func sameTagPosition(el *dom.Element) (idx, total int) {
	parent := el.Parent()
	if parent == nil {
		return 1, 1
	}
	for _, sib := range parent.Children() {
		if sib.Tag != el.Tag || sib.Marked() {
			continue
		}
		total++
		if sib == el {
			idx = total
		}
	}
	return idx, total
}

// Find re-resolves a path produced by Resolve against a Document. It
// returns nil when the path no longer matches — the caller decides whether
// that means the content changed or the snapshot is stale. Area paths
// ("area(...)") never resolve to a single element.
func Find(doc *dom.Document, path string) *dom.Element {
	if doc == nil || doc.Body == nil || path == "" || strings.HasPrefix(path, "area(") {
		return nil
	}

	current := doc.Body
	for _, raw := range strings.Split(path, " > ") {
		seg, ok := parseSegment(strings.TrimSpace(raw))
		if !ok {
			return nil
		}
		next := matchChild(current, seg)
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

type pathSegment struct {
	tag     string
	id      string
	classes []string
	nth     int // 0 = unspecified
}

func parseSegment(raw string) (pathSegment, bool) {
	var seg pathSegment
	if raw == "" {
		return seg, false
	}

	if i := strings.Index(raw, ":nth-child("); i >= 0 {
		rest := raw[i+len(":nth-child("):]
		j := strings.IndexByte(rest, ')')
		if j < 0 {
			return seg, false
		}
		n, err := strconv.Atoi(rest[:j])
		if err != nil || n < 1 {
			return seg, false
		}
		seg.nth = n
		raw = raw[:i]
	}

	// Split on "#" and "." markers, keeping the leading tag.
	tag := raw
	if i := strings.IndexAny(tag, "#."); i >= 0 {
		rest := tag[i:]
		tag = tag[:i]
		for rest != "" {
			marker := rest[0]
			rest = rest[1:]
			end := strings.IndexAny(rest, "#.")
			var token string
			if end < 0 {
				token, rest = rest, ""
			} else {
				token, rest = rest[:end], rest[end:]
			}
			switch marker {
			case '#':
				seg.id = token
			case '.':
				seg.classes = append(seg.classes, token)
			}
		}
	}
	seg.tag = strings.ToLower(tag)
	return seg, seg.tag != ""
}

func matchChild(parent *dom.Element, seg pathSegment) *dom.Element {
	sameTag := 0
	for _, c := range parent.Children() {
		if c.Tag != seg.tag || c.Marked() {
			continue
		}
		sameTag++
		if seg.nth > 0 && sameTag != seg.nth {
			continue
		}
		if seg.id != "" && c.ID != seg.id {
			continue
		}
		if !hasClasses(c, seg.classes) {
			continue
		}
		return c
	}
	return nil
}

func hasClasses(el *dom.Element, want []string) bool {
	for _, w := range want {
		found := false
		for _, c := range el.Classes {
			if c == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
