package report

import (
	"strings"
	"testing"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/selection/region"
)

func TestRender_ElementSelection(t *testing.T) {
	r := NewRenderer()

	sel := region.SelectedRegion{
		ID:          "sel_a1",
		Kind:        region.KindElement,
		DOMPath:     "div#app > button#save.btn.primary",
		ElementInfo: `<button#save.btn> "Save"`,
		Bounds:      dom.Rect{X: 10, Y: 10, Width: 80, Height: 30},
		PageURL:     "https://example.test/editor",
		Framework: &region.FrameworkInfo{
			Detected:      true,
			ComponentName: "SaveButton",
			DisplayName:   "SaveButton",
			FilePath:      "src/SaveButton.jsx",
			LineNumber:    14,
			Version:       "18.2.0",
			Props:         map[string]any{"onClick": "[Function]", "label": "Save"},
			Hooks: []region.Hook{
				{Kind: "state"}, {Kind: "state"}, {Kind: "effect"},
			},
		},
		Element: &dom.Element{
			Tag:       "button",
			OuterHTML: `<button id="save"><b>Save</b></button>`,
		},
	}

	md, err := r.Render(sel)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"## Selected element",
		"`div#app > button#save.btn.primary`",
		"10,10 80x30",
		"https://example.test/editor",
		"`SaveButton`",
		"`src/SaveButton.jsx:14`",
		"18.2.0",
		"`label=Save`",
		"2 state, 1 effect",
		"**Save**",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestRender_AreaSelection(t *testing.T) {
	r := NewRenderer()

	sel := region.SelectedRegion{
		Kind:         region.KindArea,
		DOMPath:      "area(10,10,100x50)",
		ElementInfo:  "100x50 area containing 3 elements",
		Bounds:       dom.Rect{X: 10, Y: 10, Width: 100, Height: 50},
		ElementCount: 3,
	}

	md, err := r.Render(sel)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(md, "## Selected area") {
		t.Fatalf("missing area heading:\n%s", md)
	}
	if !strings.Contains(md, "- **Elements:** 3") {
		t.Fatalf("missing element count:\n%s", md)
	}
	if strings.Contains(md, "### Component") {
		t.Fatalf("area report must not carry component section:\n%s", md)
	}
}

func TestRender_StripsScripts(t *testing.T) {
	r := NewRenderer()

	sel := region.SelectedRegion{
		Kind:    region.KindElement,
		DOMPath: "body > div",
		Element: &dom.Element{
			Tag:       "div",
			OuterHTML: `<div>hello<script>alert(1)</script></div>`,
		},
	}

	md, err := r.Render(sel)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(md, "alert(1)") {
		t.Fatalf("script content leaked:\n%s", md)
	}
	if !strings.Contains(md, "hello") {
		t.Fatalf("text content lost:\n%s", md)
	}
}
