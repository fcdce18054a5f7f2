// CLAUDE:SUMMARY Materialises JS expando properties (React fiber graphs) into bounded Go value graphs via Runtime.getProperties.
package browser

import (
	"fmt"
	"regexp"

	"github.com/go-rod/rod/lib/proto"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/selection/region"
)

// Materialisation bounds. The fiber graph is cyclic and huge; depth and
// width limits keep a single read from dragging the whole React tree over
// the wire. Chain fields (fiber return links, hook next links) get their
// own budgets because they routinely run far past the object depth limit.
const (
	maxPropDepth   = 4
	maxPropsPerObj = 64
	maxReturnChain = 64
	maxHookChain   = 32
)

// skipFields are fiber links that would pull in the rest of the tree
// without contributing to component identity, props, state or hooks.
var skipFields = map[string]bool{
	"alternate":    true,
	"child":        true,
	"sibling":      true,
	"updateQueue":  true,
	"dependencies": true,
	"deletions":    true,
	"firstEffect":  true,
	"lastEffect":   true,
	"nextEffect":   true,
	"_owner":       true,
	"_debugOwner":  true,
}

var funcNameRe = regexp.MustCompile(`^(?:async\s+)?(?:function\*?\s+|class\s+)([A-Za-z_$][A-Za-z0-9_$]*)`)

// MaterializeProps reads the element's own JS properties (where React
// attaches its fiber expandos) into el.Props, and does the same for every
// ancestor so an introspection walk can find a fiber further up.
func (m *Mirror) MaterializeProps(el *dom.Element) error {
	var firstErr error
	for n := el; n != nil; n = n.Parent() {
		if n.Props != nil {
			continue
		}
		props, err := m.readOwnProps(n)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			n.Props = map[string]any{}
			continue
		}
		n.Props = props
	}
	return firstErr
}

// readOwnProps fetches the element's own properties. Standard DOM
// properties live on the prototype chain, so ownProperties=true returns
// mostly framework expandos.
func (m *Mirror) readOwnProps(el *dom.Element) (map[string]any, error) {
	id := m.nodeID(el)
	if id == 0 {
		return nil, fmt.Errorf("browser: element not in mirror")
	}

	obj, err := proto.DOMResolveNode{NodeID: id}.Call(m.s.Page)
	if err != nil {
		return nil, fmt.Errorf("browser: DOM.resolveNode: %w", err)
	}

	mat := &materializer{m: m}
	return mat.object(obj.Object.ObjectID, materializeState{depth: 0, returns: maxReturnChain, nexts: maxHookChain})
}

// OuterHTML fetches the element's outer HTML on demand and caches it on
// the mirror element.
func (m *Mirror) OuterHTML(el *dom.Element) (string, error) {
	if el.OuterHTML != "" {
		return el.OuterHTML, nil
	}
	id := m.nodeID(el)
	if id == 0 {
		return "", fmt.Errorf("browser: element not in mirror")
	}
	res, err := proto.DOMGetOuterHTML{NodeID: id}.Call(m.s.Page)
	if err != nil {
		return "", fmt.Errorf("browser: DOM.getOuterHTML: %w", err)
	}
	el.OuterHTML = res.OuterHTML
	return res.OuterHTML, nil
}

type materializeState struct {
	depth   int
	returns int // remaining fiber return links
	nexts   int // remaining hook list links
}

type materializer struct {
	m *Mirror
}

// object materialises one remote object into a map, recursing with the
// given budgets.
func (mt *materializer) object(id proto.RuntimeRemoteObjectID, st materializeState) (map[string]any, error) {
	res, err := proto.RuntimeGetProperties{
		ObjectID:      id,
		OwnProperties: true,
	}.Call(mt.m.s.Page)
	if err != nil {
		return nil, fmt.Errorf("browser: Runtime.getProperties: %w", err)
	}

	out := make(map[string]any)
	count := 0
	for _, p := range res.Result {
		if p.Value == nil || skipFields[p.Name] {
			continue
		}
		if count >= maxPropsPerObj {
			break
		}
		out[p.Name] = mt.value(p.Name, p.Value, st)
		count++
	}
	return out, nil
}

// value converts one remote value. Chain fields keep recursing with a
// fresh depth but a decremented chain budget; everything else obeys the
// depth limit.
func (mt *materializer) value(name string, v *proto.RuntimeRemoteObject, st materializeState) any {
	switch v.Type {
	case proto.RuntimeRemoteObjectTypeUndefined:
		return nil
	case proto.RuntimeRemoteObjectTypeString:
		return v.Value.Str()
	case proto.RuntimeRemoteObjectTypeNumber:
		return v.Value.Num()
	case proto.RuntimeRemoteObjectTypeBoolean:
		return v.Value.Bool()
	case proto.RuntimeRemoteObjectTypeFunction:
		return mt.function(name, v)
	case proto.RuntimeRemoteObjectTypeObject:
		// fallthrough below
	default:
		return nil
	}

	switch v.Subtype {
	case proto.RuntimeRemoteObjectSubtypeNull:
		return nil
	case proto.RuntimeRemoteObjectSubtypeNode:
		return map[string]any{"$typeof": "HTMLElement"}
	case proto.RuntimeRemoteObjectSubtypeArray:
		return mt.array(v, st)
	}

	next := st
	switch name {
	case "return":
		if st.returns <= 0 {
			return nil
		}
		next.returns--
		next.depth = 0
	case "next":
		if st.nexts <= 0 {
			return nil
		}
		next.nexts--
		next.depth = 0
	default:
		if st.depth >= maxPropDepth {
			return nil
		}
		next.depth++
	}

	if v.ObjectID == "" {
		return nil
	}
	obj, err := mt.object(v.ObjectID, next)
	if err != nil {
		return nil
	}
	return obj
}

// function converts a JS function into its Go stand-in. Component
// identity fields additionally read displayName off the function object.
func (mt *materializer) function(name string, v *proto.RuntimeRemoteObject) region.FuncValue {
	fn := region.FuncValue{Name: funcName(v.Description)}

	if (name == "type" || name == "elementType" || name == "render") && v.ObjectID != "" {
		res, err := proto.RuntimeGetProperties{
			ObjectID:      v.ObjectID,
			OwnProperties: true,
		}.Call(mt.m.s.Page)
		if err == nil {
			for _, p := range res.Result {
				switch p.Name {
				case "displayName":
					if p.Value != nil && p.Value.Type == proto.RuntimeRemoteObjectTypeString {
						fn.DisplayName = p.Value.Value.Str()
					}
				case "name":
					if fn.Name == "" && p.Value != nil && p.Value.Type == proto.RuntimeRemoteObjectTypeString {
						fn.Name = p.Value.Value.Str()
					}
				}
			}
		}
	}
	return fn
}

func (mt *materializer) array(v *proto.RuntimeRemoteObject, st materializeState) any {
	if v.ObjectID == "" || st.depth >= maxPropDepth {
		return []any{}
	}
	res, err := proto.RuntimeGetProperties{
		ObjectID:      v.ObjectID,
		OwnProperties: true,
	}.Call(mt.m.s.Page)
	if err != nil {
		return []any{}
	}
	next := st
	next.depth++
	var out []any
	for _, p := range res.Result {
		if p.Name == "length" || p.Value == nil {
			continue
		}
		if len(out) >= maxPropsPerObj {
			break
		}
		out = append(out, mt.value(p.Name, p.Value, next))
	}
	return out
}

// funcName extracts a function or class name from a CDP description
// string such as "function SaveButton(props) { ... }".
func funcName(desc string) string {
	m := funcNameRe.FindStringSubmatch(desc)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
