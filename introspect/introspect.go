// Package introspect recovers best-effort React component metadata from a
// DOM node by structural pattern matching over the renderer's internal
// fiber graph.
//
// The fiber graph is an undocumented, versioned data structure. Everything
// here is heuristic by design: when React changes its internal object
// layout, detection silently degrades to "not detected". That degradation
// is the contract, not a bug. Detect never panics into the caller.
package introspect

import (
	"strings"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/selection/region"
)

// Known property-key prefixes under which React attaches its internals to
// DOM elements. fiber keys carry the internal tree node; the props key is
// the fallback when no fiber is reachable.
var fiberKeyPrefixes = []string{
	"__reactFiber$",
	"__reactInternalInstance$", // React 16
}

const (
	propsKeyPrefix     = "__reactProps$"
	containerKeyPrefix = "__reactContainer$"
	rootMarkerAttr     = "data-reactroot"
)

// maxFiberWalk bounds the return-chain and hook-list walks so a cyclic or
// corrupted graph cannot hang the caller.
const maxFiberWalk = 500

// Detect inspects el and returns whatever component metadata could be
// recovered. The result is self-contained and sanitised. On any internal
// failure the result is the zero FrameworkInfo (Detected false) — this
// routine never throws into the caller.
func Detect(doc *dom.Document, el *dom.Element) (info region.FrameworkInfo) {
	defer func() {
		if r := recover(); r != nil {
			info = region.FrameworkInfo{}
		}
	}()
	if el == nil {
		return region.FrameworkInfo{}
	}

	info.Version = detectVersion(doc)

	fiber, ok := findFiber(el)
	if ok {
		if fillFromFiber(&info, fiber) {
			info.Detected = true
			return info
		}
		// A fiber was present but no component entry matched; the node is
		// still framework-managed.
		info.Detected = true
		return info
	}

	// Fallback (a): a props key directly on the node.
	if props, ok := findProps(el); ok {
		info.Detected = true
		info.Props = region.SanitizeMap(props)
		return info
	}

	// Fallback (b): container key or root marker on the node or an
	// ancestor flags a framework-managed subtree.
	if hasContainerMarker(el) {
		info.Detected = true
		return info
	}

	if info.Version == "" {
		return region.FrameworkInfo{}
	}
	// Version alone does not make the node detected.
	return region.FrameworkInfo{Version: info.Version}
}

// findFiber scans el's own property names for a fiber key, walking up
// through ancestors until a match or the root.
func findFiber(el *dom.Element) (map[string]any, bool) {
	for n := el; n != nil; n = n.Parent() {
		for key, val := range n.Props {
			for _, prefix := range fiberKeyPrefixes {
				if strings.HasPrefix(key, prefix) {
					if m, ok := val.(map[string]any); ok {
						return m, true
					}
				}
			}
		}
	}
	return nil, false
}

func findProps(el *dom.Element) (map[string]any, bool) {
	for key, val := range el.Props {
		if strings.HasPrefix(key, propsKeyPrefix) {
			if m, ok := val.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

func hasContainerMarker(el *dom.Element) bool {
	for n := el; n != nil; n = n.Parent() {
		for key := range n.Props {
			if strings.HasPrefix(key, containerKeyPrefix) {
				return true
			}
		}
		if _, ok := n.Attr(rootMarkerAttr); ok {
			return true
		}
	}
	return false
}

// fillFromFiber walks the fiber's return chain to the nearest component
// entry and extracts identity, props, state and hooks. Reports whether a
// component entry was found.
func fillFromFiber(info *region.FrameworkInfo, fiber map[string]any) bool {
	node := fiber
	for i := 0; node != nil && i < maxFiberWalk; i++ {
		if extractComponent(info, node) {
			return true
		}
		node, _ = field(node, "return")
	}
	return false
}

// extractComponent interprets a single fiber entry. A function-valued
// "type" is a function component; an object "type" carrying a "render"
// field is a class-style component.
func extractComponent(info *region.FrameworkInfo, node map[string]any) bool {
	typ, ok := node["type"]
	if !ok || typ == nil {
		return false
	}

	isFunc := false
	switch t := typ.(type) {
	case region.FuncValue:
		isFunc = true
		info.ComponentName = t.Name
		info.DisplayName = t.DisplayName
	case *region.FuncValue:
		isFunc = true
		info.ComponentName = t.Name
		info.DisplayName = t.DisplayName
	case map[string]any:
		if _, hasRender := t["render"]; !hasRender {
			return false
		}
		info.ComponentName, _ = t["name"].(string)
		if dn, ok := t["displayName"].(string); ok {
			info.DisplayName = dn
		}
	default:
		return false
	}
	if info.DisplayName == "" {
		info.DisplayName = info.ComponentName
	}

	if props, ok := field(node, "memoizedProps"); ok {
		info.Props = region.SanitizeMap(props)
	}
	if inst, ok := field(node, "stateNode"); ok {
		if state, ok := field(inst, "state"); ok {
			info.State = region.SanitizeMap(state)
		}
	}
	if isFunc {
		if ms, ok := field(node, "memoizedState"); ok {
			info.Hooks = collectHooks(ms)
		}
	}
	if src, ok := field(node, "_debugSource"); ok {
		info.FilePath, _ = src["fileName"].(string)
		switch ln := src["lineNumber"].(type) {
		case int:
			info.LineNumber = ln
		case float64:
			info.LineNumber = int(ln)
		}
	}
	return true
}

// collectHooks walks the memoizedState linked list, classifying each entry
// by shape. Presence of a queue field means a state hook, create means an
// effect hook, deps means a memo hook; anything else is unknown.
func collectHooks(head map[string]any) []region.Hook {
	var hooks []region.Hook
	node := head
	for i := 0; node != nil && i < maxFiberWalk; i++ {
		hooks = append(hooks, region.Hook{
			Kind:  classifyHook(node),
			Value: region.Sanitize(node["memoizedState"]),
		})
		node, _ = field(node, "next")
	}
	return hooks
}

func classifyHook(node map[string]any) string {
	if _, ok := node["queue"]; ok {
		return "state"
	}
	ms, _ := node["memoizedState"].(map[string]any)
	if _, ok := node["create"]; ok {
		return "effect"
	}
	if ms != nil {
		if _, ok := ms["create"]; ok {
			return "effect"
		}
	}
	if _, ok := node["deps"]; ok {
		return "memo"
	}
	return "unknown"
}

// field reads a named child of a materialised graph node, succeeding only
// when the child is itself an object.
func field(node map[string]any, name string) (map[string]any, bool) {
	if node == nil {
		return nil, false
	}
	v, ok := node[name]
	if !ok || v == nil {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
