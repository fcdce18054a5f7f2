package controller

import (
	"testing"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/overlay"
	"github.com/akhatua2/designx/selection/region"
)

// fakePage implements Page over an in-memory document.
type fakePage struct {
	doc     *dom.Document
	cursor  string
	refresh int
}

func (p *fakePage) Document() *dom.Document { return p.doc }

func (p *fakePage) ElementAt(x, y float64) *dom.Element { return p.doc.ElementAt(x, y) }

func (p *fakePage) RefreshGeometry() error {
	p.refresh++
	return nil
}

func (p *fakePage) SetCursor(cursor string) error {
	p.cursor = cursor
	return nil
}

// applierRecorder tracks overlay calls.
type applierRecorder struct {
	spotlights []overlay.Frame
	rects      []dom.Rect
	rectClears int
	clears     int
}

func (a *applierRecorder) ApplySpotlight(f overlay.Frame) error {
	a.spotlights = append(a.spotlights, f)
	return nil
}
func (a *applierRecorder) ApplyRect(r dom.Rect) error {
	a.rects = append(a.rects, r)
	return nil
}
func (a *applierRecorder) ClearRect() error { a.rectClears++; return nil }
func (a *applierRecorder) Clear() error     { a.clears++; return nil }

// fixture wires a controller over a small page with geometry:
// a save button at (10,10,80x30) inside an app div, plus engine chrome.
type fixture struct {
	ctrl    *Controller
	page    *fakePage
	applier *applierRecorder
	regions []region.SelectedRegion
	states  []State
	button  *dom.Element
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc, err := dom.ParseHTMLString(`<body>
		<div id="app">
			<button id="save" class="btn primary">Save</button>
			<p>paragraph</p>
		</div>
		<div id="shade" data-designx-ui="overlay"></div>
	</body>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	app := doc.Body.Children()[0]
	btn := app.Children()[0]
	p := app.Children()[1]
	shade := doc.Body.Children()[1]

	doc.Body.Bounds = dom.Rect{Width: 800, Height: 600}
	app.Bounds = dom.Rect{X: 0, Y: 0, Width: 400, Height: 300}
	btn.Bounds = dom.Rect{X: 10, Y: 10, Width: 80, Height: 30}
	p.Bounds = dom.Rect{X: 10, Y: 60, Width: 200, Height: 40}
	shade.Bounds = dom.Rect{X: 0, Y: 0, Width: 800, Height: 600}

	f := &fixture{
		page:    &fakePage{doc: doc},
		applier: &applierRecorder{},
		button:  btn,
	}
	f.ctrl = New(Config{
		Page:          f.page,
		Overlay:       overlay.New(f.applier, overlay.Config{}),
		DragThreshold: 5,
	})
	f.ctrl.OnElementSelected(func(r region.SelectedRegion) { f.regions = append(f.regions, r) })
	f.ctrl.OnStateChange(func(s State) { f.states = append(f.states, s) })
	return f
}

func (f *fixture) click(x, y float64) {
	f.ctrl.PointerMove(PointerEvent{X: x, Y: y})
	f.ctrl.PointerDown(PointerEvent{X: x, Y: y})
	f.ctrl.PointerUp(PointerEvent{X: x, Y: y})
}

func (f *fixture) drag(x1, y1, x2, y2 float64) {
	f.ctrl.PointerDown(PointerEvent{X: x1, Y: y1})
	f.ctrl.PointerMove(PointerEvent{X: x2, Y: y2})
	f.ctrl.PointerUp(PointerEvent{X: x2, Y: y2})
}

func TestActivate_SetsCrosshairAndHovering(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	if f.ctrl.State() != StateHovering {
		t.Fatalf("state: got %v", f.ctrl.State())
	}
	if f.page.cursor != "crosshair" {
		t.Errorf("cursor: got %q", f.page.cursor)
	}
	if !f.ctrl.IsActive() {
		t.Errorf("IsActive false")
	}
}

func TestClick_EmitsElementRegion(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()
	f.click(20, 20)

	if len(f.regions) != 1 {
		t.Fatalf("regions: got %d, want 1", len(f.regions))
	}
	sel := f.regions[0]
	if sel.Kind != region.KindElement {
		t.Fatalf("kind: got %q", sel.Kind)
	}
	wantPath := "div#app > button#save.btn.primary"
	if sel.DOMPath != wantPath {
		t.Errorf("path: got %q, want %q", sel.DOMPath, wantPath)
	}
	wantInfo := `<button#save.btn> "Save"`
	if sel.ElementInfo != wantInfo {
		t.Errorf("info: got %q, want %q", sel.ElementInfo, wantInfo)
	}
	if sel.Element != f.button {
		t.Errorf("element reference mismatch")
	}
	if f.ctrl.State() != StatePaused {
		t.Errorf("state after commit: got %v", f.ctrl.State())
	}
}

func TestClick_ZeroDisplacementNeverArea(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	// Press and release at the same point: must be an element region.
	f.ctrl.PointerDown(PointerEvent{X: 20, Y: 20})
	f.ctrl.PointerMove(PointerEvent{X: 20, Y: 20})
	f.ctrl.PointerUp(PointerEvent{X: 20, Y: 20})

	if len(f.regions) != 1 || f.regions[0].Kind != region.KindElement {
		t.Fatalf("zero displacement: got %+v", f.regions)
	}
}

func TestJitteryClick_BelowThresholdIsClick(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	f.ctrl.PointerMove(PointerEvent{X: 20, Y: 20})
	f.ctrl.PointerDown(PointerEvent{X: 20, Y: 20})
	f.ctrl.PointerMove(PointerEvent{X: 23, Y: 22}) // below 5px threshold
	f.ctrl.PointerUp(PointerEvent{X: 23, Y: 22})

	if len(f.regions) != 1 || f.regions[0].Kind != region.KindElement {
		t.Fatalf("jittery click: got %+v", f.regions)
	}
}

func TestDrag_EmitsNormalisedAreaRegion(t *testing.T) {
	want := dom.Rect{X: 10, Y: 10, Width: 100, Height: 50}

	for name, coords := range map[string][4]float64{
		"forward": {10, 10, 110, 60},
		"reverse": {110, 60, 10, 10},
	} {
		f := newFixture(t)
		f.ctrl.Activate()
		f.drag(coords[0], coords[1], coords[2], coords[3])

		if len(f.regions) != 1 {
			t.Fatalf("%s: regions got %d, want 1", name, len(f.regions))
		}
		sel := f.regions[0]
		if sel.Kind != region.KindArea {
			t.Fatalf("%s: kind got %q", name, sel.Kind)
		}
		if sel.Bounds != want {
			t.Errorf("%s: bounds got %+v, want %+v", name, sel.Bounds, want)
		}
		if sel.DOMPath != "area(10,10,100x50)" {
			t.Errorf("%s: path got %q", name, sel.DOMPath)
		}
	}
}

func TestDrag_AreaMembersExcludeChrome(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()
	f.drag(0, 0, 300, 200)

	sel := f.regions[0]
	if sel.ElementCount != len(sel.ElementsInArea) {
		t.Errorf("count mismatch: %d vs %d", sel.ElementCount, len(sel.ElementsInArea))
	}
	for _, el := range sel.ElementsInArea {
		if el.Marked() {
			t.Errorf("chrome element leaked into area: %s", el.Tag)
		}
	}
	if f.page.refresh != 1 {
		t.Errorf("geometry refreshes: got %d, want 1", f.page.refresh)
	}
}

func TestDrag_LiveRectangleFollowsPointer(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	f.ctrl.PointerDown(PointerEvent{X: 10, Y: 10})
	f.ctrl.PointerMove(PointerEvent{X: 50, Y: 40})
	f.ctrl.PointerMove(PointerEvent{X: 90, Y: 70})

	if f.ctrl.State() != StateDragging {
		t.Fatalf("state: got %v", f.ctrl.State())
	}
	if len(f.applier.rects) != 2 {
		t.Fatalf("rect updates: got %d, want 2", len(f.applier.rects))
	}
	last := f.applier.rects[1]
	if last != (dom.Rect{X: 10, Y: 10, Width: 80, Height: 60}) {
		t.Errorf("live rect: got %+v", last)
	}
}

func TestEscape_DuringDragCancelsDragOnly(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	f.ctrl.PointerDown(PointerEvent{X: 10, Y: 10})
	f.ctrl.PointerMove(PointerEvent{X: 100, Y: 100})
	f.ctrl.Key(KeyEvent{Key: "Escape"})

	if f.ctrl.State() != StateHovering {
		t.Fatalf("state after escape: got %v, want hovering", f.ctrl.State())
	}
	if f.applier.rectClears == 0 {
		t.Errorf("live rectangle not cleared")
	}
	if len(f.regions) != 0 {
		t.Errorf("region emitted from cancelled drag")
	}

	// Next click still works.
	f.click(20, 20)
	if len(f.regions) != 1 || f.regions[0].Kind != region.KindElement {
		t.Errorf("click after cancelled drag: got %+v", f.regions)
	}
}

func TestEscape_WhileHoveringDeactivates(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()
	f.ctrl.Key(KeyEvent{Key: "Escape"})

	if f.ctrl.State() != StateInactive {
		t.Fatalf("state: got %v", f.ctrl.State())
	}
	if f.page.cursor != "" {
		t.Errorf("cursor not restored: %q", f.page.cursor)
	}
	if f.applier.clears == 0 {
		t.Errorf("overlay not cleared on deactivate")
	}
}

func TestPauseResume_Cycle(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()
	f.click(20, 20)

	if !f.ctrl.IsPaused() {
		t.Fatalf("not paused after commit")
	}

	clearsBefore := f.applier.clears
	f.ctrl.Resume()

	if f.ctrl.State() != StateHovering {
		t.Fatalf("state after resume: got %v", f.ctrl.State())
	}
	if f.applier.clears <= clearsBefore {
		t.Errorf("committed spotlight not cleared on resume")
	}

	// Selection works again after resume.
	f.click(50, 80)
	if len(f.regions) != 2 {
		t.Errorf("regions after resume: got %d, want 2", len(f.regions))
	}
}

func TestPointerEvents_OnChromeIgnored(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	f.ctrl.PointerDown(PointerEvent{X: 20, Y: 20, InChrome: true})
	f.ctrl.PointerUp(PointerEvent{X: 20, Y: 20, InChrome: true})

	if len(f.regions) != 0 {
		t.Fatalf("chrome click emitted a region")
	}
	if f.ctrl.State() != StateHovering {
		t.Errorf("state: got %v", f.ctrl.State())
	}
}

func TestSecondaryButton_NeverDragsOrClicks(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	f.ctrl.PointerDown(PointerEvent{X: 10, Y: 10, Button: 2})
	f.ctrl.PointerMove(PointerEvent{X: 200, Y: 200})
	f.ctrl.PointerUp(PointerEvent{X: 200, Y: 200, Button: 2})

	if f.ctrl.State() == StateDragging {
		t.Fatalf("secondary button started a drag")
	}
	if len(f.regions) != 0 {
		t.Errorf("secondary button emitted a region")
	}
}

func TestHover_SwapsOverlayTarget(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()

	f.ctrl.PointerMove(PointerEvent{X: 20, Y: 20}) // button
	f.ctrl.PointerMove(PointerEvent{X: 22, Y: 21}) // still button, no repaint
	f.ctrl.PointerMove(PointerEvent{X: 50, Y: 80}) // paragraph

	if len(f.applier.spotlights) != 2 {
		t.Fatalf("spotlights: got %d, want 2", len(f.applier.spotlights))
	}
}

func TestInactive_IgnoresInput(t *testing.T) {
	f := newFixture(t)

	f.click(20, 20)
	f.ctrl.Key(KeyEvent{Key: "Escape"})

	if len(f.regions) != 0 || len(f.applier.spotlights) != 0 {
		t.Fatalf("inactive controller reacted to input")
	}
}

func TestCleanup_DropsCallbacks(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Activate()
	f.ctrl.Cleanup()

	if f.ctrl.IsActive() {
		t.Fatalf("active after cleanup")
	}

	f.ctrl.Activate()
	f.click(20, 20)
	if len(f.regions) != 0 {
		t.Errorf("callback survived cleanup")
	}
}

func TestDetector_AttachedToElementRegions(t *testing.T) {
	f := newFixture(t)
	detected := 0
	f.ctrl.cfg.Detect = func(doc *dom.Document, el *dom.Element) region.FrameworkInfo {
		detected++
		return region.FrameworkInfo{Detected: true, ComponentName: "SaveButton"}
	}

	f.ctrl.Activate()
	f.click(20, 20)

	if detected != 1 {
		t.Fatalf("detector calls: got %d, want 1", detected)
	}
	sel := f.regions[0]
	if sel.Framework == nil || sel.Framework.ComponentName != "SaveButton" {
		t.Errorf("framework info: got %+v", sel.Framework)
	}
}

func TestResume_FromHandlerDoesNotDeadlock(t *testing.T) {
	f := newFixture(t)
	f.ctrl.OnElementSelected(func(region.SelectedRegion) { f.ctrl.Resume() })

	f.ctrl.Activate()
	f.click(20, 20)

	if f.ctrl.State() != StateHovering {
		t.Errorf("state after in-handler resume: got %v", f.ctrl.State())
	}
}

func TestStateCallback_RunsOutsideLock(t *testing.T) {
	f := newFixture(t)

	// A state callback may block or re-enter the controller; both require
	// it to run with the internal lock released.
	var seen []State
	f.ctrl.OnStateChange(func(s State) {
		seen = append(seen, f.ctrl.State())
	})

	f.ctrl.Activate()
	f.ctrl.Pause()
	f.ctrl.Deactivate()

	want := []State{StateHovering, StatePaused, StateInactive}
	if len(seen) != len(want) {
		t.Fatalf("re-entrant reads: got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("transition %d: got %v, want %v", i, seen[i], want[i])
		}
	}
}
