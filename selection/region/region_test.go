package region

import (
	"strings"
	"testing"

	"github.com/akhatua2/designx/dom"
)

func TestSanitize_MixedProps(t *testing.T) {
	in := map[string]any{
		"fn":  func() {},
		"obj": map[string]any{"nested": 1},
		"s":   "hello",
	}
	got := SanitizeMap(in)

	if got["fn"] != PlaceholderFunction {
		t.Errorf("fn: got %v, want %q", got["fn"], PlaceholderFunction)
	}
	if got["obj"] != PlaceholderObject {
		t.Errorf("obj: got %v, want %q", got["obj"], PlaceholderObject)
	}
	if got["s"] != "hello" {
		t.Errorf("s: got %v, want original string", got["s"])
	}
}

func TestSanitize_ArrayAndElement(t *testing.T) {
	if got := Sanitize([]any{1, 2, 3}); got != "[Array(3)]" {
		t.Errorf("array: got %v, want %q", got, "[Array(3)]")
	}
	el := map[string]any{"$$typeof": "Symbol(react.element)", "type": "div"}
	if got := Sanitize(el); got != PlaceholderElement {
		t.Errorf("react element: got %v, want %q", got, PlaceholderElement)
	}
	if got := Sanitize(FuncValue{Name: "onClick"}); got != PlaceholderFunction {
		t.Errorf("FuncValue: got %v, want %q", got, PlaceholderFunction)
	}
}

func TestSanitize_PrimitivesPassThrough(t *testing.T) {
	for _, v := range []any{"s", true, 42, int64(7), 3.14, nil} {
		if got := Sanitize(v); got != v {
			t.Errorf("Sanitize(%v): got %v", v, got)
		}
	}
}

func TestSanitizeMap_Empty(t *testing.T) {
	if got := SanitizeMap(nil); got != nil {
		t.Errorf("nil map: got %v", got)
	}
	if got := SanitizeMap(map[string]any{}); got != nil {
		t.Errorf("empty map: got %v", got)
	}
}

func TestDescribe_ButtonWithText(t *testing.T) {
	el := &dom.Element{Tag: "button", ID: "save", Classes: []string{"btn", "primary"}, Text: "Save"}
	got := Describe(el)
	want := `<button#save.btn> "Save"`
	if got != want {
		t.Errorf("Describe: got %q, want %q", got, want)
	}
}

func TestDescribe_TruncatesLongText(t *testing.T) {
	el := &dom.Element{Tag: "p", Text: strings.Repeat("x", 200)}
	got := Describe(el)
	if len(got) > len("<p> ")+maxInfoText+2 {
		t.Errorf("Describe not truncated: %d chars", len(got))
	}
}

func TestDescribe_NoTextNoQuote(t *testing.T) {
	el := &dom.Element{Tag: "img", ID: "logo"}
	if got := Describe(el); got != "<img#logo>" {
		t.Errorf("Describe: got %q, want %q", got, "<img#logo>")
	}
}

func TestAreaPath_Format(t *testing.T) {
	r := dom.Rect{X: 10, Y: 10, Width: 100, Height: 50}
	if got := AreaPath(r); got != "area(10,10,100x50)" {
		t.Errorf("AreaPath: got %q", got)
	}
}

func TestDescribeArea_Pluralises(t *testing.T) {
	r := dom.Rect{X: 0, Y: 0, Width: 100, Height: 50}
	if got := DescribeArea(r, 3); got != "100x50 area containing 3 elements" {
		t.Errorf("plural: got %q", got)
	}
	if got := DescribeArea(r, 1); got != "100x50 area containing 1 element" {
		t.Errorf("singular: got %q", got)
	}
}
