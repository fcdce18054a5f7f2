// CLAUDE:SUMMARY Mirrors the live page DOM into Go structs via CDP so path and area logic run without round trips.
package browser

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-rod/rod/lib/proto"

	"github.com/akhatua2/designx/dom"
)

// Mirror is the Go-side snapshot of the page DOM. Structure is rebuilt
// with DOM.getDocument; geometry is refreshed in bulk before queries that
// need fresh bounds.
type Mirror struct {
	s *Session

	mu        sync.RWMutex
	doc       *dom.Document
	nodeIDs   map[*dom.Element]proto.DOMNodeID
	byBackend map[proto.DOMBackendNodeID]*dom.Element
}

func newMirror(s *Session) *Mirror {
	return &Mirror{s: s}
}

// Document returns the current page snapshot.
func (m *Mirror) Document() *dom.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc
}

// Rebuild re-reads the full DOM tree from the browser. depth=-1 with
// pierce makes every node CDP-addressable; without it deep nodes cannot
// be resolved for geometry or property reads.
func (m *Mirror) Rebuild() error {
	page := m.s.Page

	depth := -1
	res, err := proto.DOMGetDocument{Depth: &depth, Pierce: true}.Call(page)
	if err != nil {
		return fmt.Errorf("browser: DOM.getDocument: %w", err)
	}

	doc := &dom.Document{
		URL:     m.s.PageURL,
		Globals: map[string]any{},
	}
	nodeIDs := make(map[*dom.Element]proto.DOMNodeID)
	byBackend := make(map[proto.DOMBackendNodeID]*dom.Element)

	var bodyNode *proto.DOMNode
	var findBody func(n *proto.DOMNode)
	findBody = func(n *proto.DOMNode) {
		if bodyNode != nil || n == nil {
			return
		}
		if n.NodeType == 1 && strings.EqualFold(n.LocalName, "body") {
			bodyNode = n
			return
		}
		for _, c := range n.Children {
			findBody(c)
		}
	}
	findBody(res.Root)
	if bodyNode == nil {
		return fmt.Errorf("browser: page has no body")
	}

	// Script sources come from the whole document, head included.
	var collectScripts func(n *proto.DOMNode)
	collectScripts = func(n *proto.DOMNode) {
		if n == nil {
			return
		}
		if n.NodeType == 1 && strings.EqualFold(n.LocalName, "script") {
			if src := nodeAttr(n, "src"); src != "" {
				doc.ScriptSrcs = append(doc.ScriptSrcs, src)
			}
		}
		for _, c := range n.Children {
			collectScripts(c)
		}
	}
	collectScripts(res.Root)

	var convert func(n *proto.DOMNode) *dom.Element
	convert = func(n *proto.DOMNode) *dom.Element {
		el := &dom.Element{
			Tag:   strings.ToLower(n.LocalName),
			Attrs: map[string]string{},
		}
		for i := 0; i+1 < len(n.Attributes); i += 2 {
			el.Attrs[n.Attributes[i]] = n.Attributes[i+1]
		}
		el.ID = el.Attrs["id"]
		if cls := el.Attrs["class"]; cls != "" {
			el.Classes = strings.Fields(cls)
		}

		nodeIDs[el] = n.NodeID
		byBackend[n.BackendNodeID] = el

		var text strings.Builder
		for _, c := range n.Children {
			switch c.NodeType {
			case 1:
				el.AppendChild(convert(c))
			case 3:
				text.WriteString(c.NodeValue)
			}
		}
		el.Text = text.String()
		return el
	}
	doc.Body = convert(bodyNode)

	// Viewport from layout metrics.
	if lm, err := (proto.PageGetLayoutMetrics{}).Call(page); err == nil && lm.CSSVisualViewport != nil {
		doc.Viewport = dom.Rect{
			Width:  lm.CSSVisualViewport.ClientWidth,
			Height: lm.CSSVisualViewport.ClientHeight,
		}
	}

	// React version global, if exposed.
	if res, err := page.Eval(`() => (window.React && window.React.version) || ""`); err == nil {
		if v := res.Value.Str(); v != "" {
			doc.Globals["React"] = map[string]any{"version": v}
		}
	}

	m.mu.Lock()
	m.doc = doc
	m.nodeIDs = nodeIDs
	m.byBackend = byBackend
	m.mu.Unlock()

	if err := m.RefreshGeometry(); err != nil {
		return err
	}
	return nil
}

// RefreshGeometry reloads every element's bounding rect in one Eval. The
// JS walk and the mirror walk are both preorder over body, so positions
// line up index for index; a count mismatch means the page mutated since
// the last Rebuild, so rebuild once and retry.
func (m *Mirror) RefreshGeometry() error {
	return m.refreshGeometry(true)
}

func (m *Mirror) refreshGeometry(retry bool) error {
	res, err := m.s.Page.Eval(`() => {
		const out = [];
		const walk = (el) => {
			const r = el.getBoundingClientRect();
			out.push([r.x, r.y, r.width, r.height]);
			for (const c of el.children) walk(c);
		};
		if (document.body) walk(document.body);
		return out;
	}`)
	if err != nil {
		return fmt.Errorf("browser: read geometry: %w", err)
	}

	rects := res.Value.Arr()

	m.mu.Lock()
	doc := m.doc
	m.mu.Unlock()
	if doc == nil {
		return fmt.Errorf("browser: mirror not built")
	}

	els := doc.Elements()
	if len(rects) != len(els) {
		if !retry {
			return fmt.Errorf("browser: geometry count mismatch: %d rects, %d elements", len(rects), len(els))
		}
		if err := m.Rebuild(); err != nil {
			return err
		}
		return nil
	}

	m.mu.Lock()
	for i, el := range els {
		q := rects[i].Arr()
		if len(q) != 4 {
			continue
		}
		el.Bounds = dom.Rect{X: q[0].Num(), Y: q[1].Num(), Width: q[2].Num(), Height: q[3].Num()}
	}
	m.mu.Unlock()
	return nil
}

// ElementAt resolves the element under the viewport point via CDP hit
// testing, then walks out of engine chrome if the hit landed in it.
// Falls back to the mirror's own geometry when the CDP call fails.
func (m *Mirror) ElementAt(x, y float64) *dom.Element {
	res, err := proto.DOMGetNodeForLocation{X: int(x), Y: int(y)}.Call(m.s.Page)
	if err == nil {
		m.mu.RLock()
		el := m.byBackend[res.BackendNodeID]
		m.mu.RUnlock()
		for el != nil && el.Marked() {
			el = el.Parent()
		}
		if el != nil {
			return el
		}
	}

	m.mu.RLock()
	doc := m.doc
	m.mu.RUnlock()
	if doc == nil {
		return nil
	}
	return doc.ElementAt(x, y)
}

// SetCursor sets the page cursor. Empty restores the default.
func (m *Mirror) SetCursor(cursor string) error {
	_, err := m.s.Page.Eval(`(c) => { document.documentElement.style.cursor = c; }`, cursor)
	if err != nil {
		return fmt.Errorf("browser: set cursor: %w", err)
	}
	return nil
}

// nodeID returns the CDP node ID for a mirror element, or 0.
func (m *Mirror) nodeID(el *dom.Element) proto.DOMNodeID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nodeIDs[el]
}

func nodeAttr(n *proto.DOMNode, name string) string {
	for i := 0; i+1 < len(n.Attributes); i += 2 {
		if n.Attributes[i] == name {
			return n.Attributes[i+1]
		}
	}
	return ""
}
