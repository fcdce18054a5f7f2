// Package region defines the committed output of a selection cycle: the
// SelectedRegion tagged union and the framework metadata attached to
// element selections. A region is immutable once emitted — the controller
// is the sole producer and holds no reference to past regions.
package region

import (
	"fmt"
	"strings"

	"github.com/akhatua2/designx/dom"
)

// Kind discriminates the two region shapes.
type Kind string

const (
	KindElement Kind = "element"
	KindArea    Kind = "area"
)

// maxInfoText caps the text excerpt embedded in ElementInfo.
const maxInfoText = 50

// SelectedRegion is the terminal output of one controller activation
// cycle. Element and ElementsInArea are non-owning references into the
// live page, valid only until the next DOM mutation; they are excluded
// from serialisation. Everything else is plain data safe to ship to sinks.
type SelectedRegion struct {
	ID          string         `json:"id"`
	Kind        Kind           `json:"kind"`
	DOMPath     string         `json:"dom_path"`
	ElementInfo string         `json:"element_info"`
	Bounds      dom.Rect       `json:"bounds"`
	Framework   *FrameworkInfo `json:"framework,omitempty"`
	PageURL     string         `json:"page_url,omitempty"`
	CapturedAt  int64          `json:"captured_at"` // unix millis

	// ElementCount is the size of ElementsInArea, carried separately so
	// it survives serialisation.
	ElementCount int `json:"element_count,omitempty"`

	// Screenshot is an optional PNG of the region, attached by the engine
	// when screenshot capture is enabled.
	Screenshot []byte `json:"screenshot,omitempty"`

	Element        *dom.Element   `json:"-"`
	ElementsInArea []*dom.Element `json:"-"`
}

// FrameworkInfo is best-effort component metadata recovered from a DOM
// node. All fields except Detected may be absent; values in Props, State
// and Hooks are sanitised (see Sanitize) before they ever reach this
// struct.
type FrameworkInfo struct {
	Detected      bool           `json:"detected"`
	ComponentName string         `json:"component_name,omitempty"`
	DisplayName   string         `json:"display_name,omitempty"`
	FilePath      string         `json:"file_path,omitempty"`
	LineNumber    int            `json:"line_number,omitempty"`
	Version       string         `json:"version,omitempty"`
	Props         map[string]any `json:"props,omitempty"`
	State         map[string]any `json:"state,omitempty"`
	Hooks         []Hook         `json:"hooks,omitempty"`
}

// Hook is one entry of a component's hook list, classified heuristically
// by the shape of its internal record.
type Hook struct {
	Kind  string `json:"kind"` // state | effect | memo | unknown
	Value any    `json:"value,omitempty"`
}

// Describe produces the ElementInfo string for an element selection:
// "<tag#id.firstclass> \"excerpt\"". Only the first class token appears —
// the full class list lives in the path.
func Describe(el *dom.Element) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(strings.ToLower(el.Tag))
	if el.ID != "" {
		b.WriteString("#")
		b.WriteString(el.ID)
	}
	if len(el.Classes) > 0 && el.Classes[0] != "" {
		b.WriteString(".")
		b.WriteString(el.Classes[0])
	}
	b.WriteString(">")

	if text := truncate(el.TextContent(), maxInfoText); text != "" {
		fmt.Fprintf(&b, " %q", text)
	}
	return b.String()
}

// AreaPath synthesises the DOMPath for an area selection.
func AreaPath(r dom.Rect) string {
	return fmt.Sprintf("area(%.0f,%.0f,%.0fx%.0f)", r.X, r.Y, r.Width, r.Height)
}

// DescribeArea produces the ElementInfo string for an area selection.
func DescribeArea(r dom.Rect, count int) string {
	noun := "elements"
	if count == 1 {
		noun = "element"
	}
	return fmt.Sprintf("%.0fx%.0f area containing %d %s", r.Width, r.Height, count, noun)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
