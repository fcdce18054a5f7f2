package introspect

import (
	"regexp"

	"github.com/akhatua2/designx/dom"
)

// semverRe matches a semantic-version-looking substring inside a script
// URL, e.g. "react-dom.18.2.0.min.js" or "react@17.0.2/umd/react.js".
var semverRe = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// reactScriptRe restricts URL sniffing to scripts that plausibly ship the
// framework itself.
var reactScriptRe = regexp.MustCompile(`(?i)react(-dom)?[^/]*$`)

// detectVersion recovers the framework version string: first from the
// materialised React global, then by pattern-matching script URLs.
// Returns "" when nothing matches.
func detectVersion(doc *dom.Document) string {
	if doc == nil {
		return ""
	}

	if g, ok := doc.Globals["React"].(map[string]any); ok {
		if v, ok := g["version"].(string); ok && v != "" {
			return v
		}
	}

	for _, src := range doc.ScriptSrcs {
		if !reactScriptRe.MatchString(src) {
			continue
		}
		if m := semverRe.FindString(src); m != "" {
			return m
		}
	}
	return ""
}
