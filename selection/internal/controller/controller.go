// Package controller implements the selection state machine: it turns raw
// pointer and keyboard input into a committed SelectedRegion, driving the
// overlay for hover highlighting and drag feedback along the way.
//
// All input funnels through one controller instance; handlers run
// synchronously in the caller's event loop. There is at most one active
// controller per page.
package controller

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/domquery"
	"github.com/akhatua2/designx/idgen"
	"github.com/akhatua2/designx/overlay"
	"github.com/akhatua2/designx/selection/region"
)

// State enumerates the controller modes.
type State int

const (
	StateInactive State = iota
	StateHovering
	StateDragging
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateHovering:
		return "hovering"
	case StateDragging:
		return "dragging"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// primaryButton is the only pointer button that participates in click and
// drag detection.
const primaryButton = 0

// PointerEvent is one pointer input sample in viewport coordinates.
// InChrome is set by the event source when the event target is, or is
// contained in, an element bearing the engine marker attribute.
type PointerEvent struct {
	X, Y     float64
	Button   int
	InChrome bool
}

// KeyEvent is one keyboard input sample.
type KeyEvent struct {
	Key string // DOM key value, e.g. "Escape"
}

// Page is what the controller needs from the page under selection.
type Page interface {
	// Document returns the current page snapshot.
	Document() *dom.Document
	// ElementAt returns the unmarked element under the point, or nil.
	ElementAt(x, y float64) *dom.Element
	// RefreshGeometry reloads element bounds before an area query.
	RefreshGeometry() error
	// SetCursor sets the page cursor ("crosshair" while selecting, ""
	// to restore).
	SetCursor(cursor string) error
}

// Detector recovers framework metadata for an element selection.
// Introspection must never fail the selection: implementations return a
// zero FrameworkInfo when nothing is recoverable.
type Detector func(doc *dom.Document, el *dom.Element) region.FrameworkInfo

// Config configures a Controller.
type Config struct {
	Page    Page
	Overlay *overlay.Renderer

	// DragThreshold is the cumulative pointer displacement, in px, past
	// which a held primary button becomes a drag instead of a click.
	// Deliberately small: it distinguishes an intentional drag from a
	// slightly jittery click.
	DragThreshold float64

	// Detect recovers framework metadata. Nil disables introspection.
	Detect Detector

	// IDs generates region IDs. Nil uses the sel_-prefixed default.
	IDs idgen.Generator

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.DragThreshold <= 0 {
		c.DragThreshold = 5
	}
	if c.IDs == nil {
		c.IDs = idgen.Prefixed("sel_", idgen.Default)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Controller is the selection state machine. Construct one per page with
// New; it is safe for concurrent use, though input normally arrives from a
// single event loop.
type Controller struct {
	mu  sync.Mutex
	cfg Config

	state   State
	hovered *dom.Element

	// Press tracking for drag-vs-click disambiguation.
	pressed      bool
	downX, downY float64

	// Transitions queued under mu, delivered by flushStateChanges once
	// the lock is released.
	pendingStates []State

	stateCbs    []func(State)
	selectedCbs []func(region.SelectedRegion)
}

// New creates an inactive Controller.
func New(cfg Config) *Controller {
	cfg.defaults()
	return &Controller{cfg: cfg, state: StateInactive}
}

// OnStateChange registers a callback invoked on every state transition.
func (c *Controller) OnStateChange(cb func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateCbs = append(c.stateCbs, cb)
}

// OnElementSelected registers a callback receiving every committed region.
func (c *Controller) OnElementSelected(cb func(region.SelectedRegion)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedCbs = append(c.selectedCbs, cb)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsActive reports whether the controller is in any active state.
func (c *Controller) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != StateInactive
}

// IsPaused reports whether the controller is paused.
func (c *Controller) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StatePaused
}

// Activate transitions Inactive → Hovering: sets the crosshair affordance
// and starts hover tracking. Activating an already-active controller is a
// no-op.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.flushStateChanges()
	defer c.mu.Unlock()
	if c.state != StateInactive {
		return
	}
	if err := c.cfg.Page.SetCursor("crosshair"); err != nil {
		c.cfg.Logger.Warn("controller: set cursor failed", "error", err)
	}
	c.setStateLocked(StateHovering)
}

// Deactivate transitions any active state → Inactive: clears the overlay,
// hover and press state, and restores the cursor.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.flushStateChanges()
	defer c.mu.Unlock()
	c.deactivateLocked()
}

func (c *Controller) deactivateLocked() {
	if c.state == StateInactive {
		return
	}
	c.cfg.Overlay.ClearRect()
	c.cfg.Overlay.Hide()
	c.hovered = nil
	c.pressed = false
	if err := c.cfg.Page.SetCursor(""); err != nil {
		c.cfg.Logger.Warn("controller: restore cursor failed", "error", err)
	}
	c.setStateLocked(StateInactive)
}

// Toggle activates an inactive controller and deactivates an active one.
func (c *Controller) Toggle() {
	if c.IsActive() {
		c.Deactivate()
	} else {
		c.Activate()
	}
}

// Pause suspends hover tracking while the host owns attention (e.g. its
// comment form is open). The committed spotlight, if any, stays on screen.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.flushStateChanges()
	defer c.mu.Unlock()
	if c.state != StateHovering && c.state != StateDragging {
		return
	}
	c.cfg.Overlay.ClearRect()
	c.pressed = false
	c.setStateLocked(StatePaused)
}

// Resume transitions Paused → Hovering. The prior selection's spotlight is
// cleared first so hover highlighting starts fresh.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.flushStateChanges()
	defer c.mu.Unlock()
	if c.state != StatePaused {
		return
	}
	c.cfg.Overlay.Hide()
	c.hovered = nil
	c.setStateLocked(StateHovering)
}

// Cleanup is full teardown: deactivates and drops all registered
// callbacks. The controller can be reused after Cleanup, but callbacks
// must be re-registered.
func (c *Controller) Cleanup() {
	c.Deactivate()
	c.mu.Lock()
	c.stateCbs = nil
	c.selectedCbs = nil
	c.mu.Unlock()
}

// PointerMove handles a pointer move sample: hover tracking while
// hovering, threshold evaluation while the primary button is held, and
// live rectangle updates while dragging.
func (c *Controller) PointerMove(ev PointerEvent) {
	c.mu.Lock()
	defer c.flushStateChanges()
	defer c.mu.Unlock()

	switch c.state {
	case StateDragging:
		c.cfg.Overlay.DrawRect(dom.RectBetween(c.downX, c.downY, ev.X, ev.Y))

	case StateHovering:
		if c.pressed && c.displacement(ev.X, ev.Y) > c.cfg.DragThreshold {
			// Threshold exceeded: the press becomes a drag. Hover
			// highlight is discarded and the live rectangle takes over.
			c.hovered = nil
			c.cfg.Overlay.Hide()
			c.setStateLocked(StateDragging)
			c.cfg.Overlay.DrawRect(dom.RectBetween(c.downX, c.downY, ev.X, ev.Y))
			return
		}
		if ev.InChrome {
			return
		}
		el := c.cfg.Page.ElementAt(ev.X, ev.Y)
		if el == nil || el == c.hovered {
			return
		}
		c.hovered = el
		c.cfg.Overlay.ShowElement(el)
	}
}

// PointerDown records a primary-button press while hovering. Events
// targeting engine chrome are ignored entirely.
func (c *Controller) PointerDown(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.InChrome || ev.Button != primaryButton || c.state != StateHovering {
		return
	}
	c.pressed = true
	c.downX, c.downY = ev.X, ev.Y
}

// PointerUp commits the gesture: a drag past the threshold becomes an area
// region, a plain click becomes an element region. Either way the
// controller parks in Paused with the committed spotlight on screen.
//
// Selection callbacks run after the internal lock is released, so a host
// may call Resume or Deactivate from inside its handler.
func (c *Controller) PointerUp(ev PointerEvent) {
	var sel region.SelectedRegion
	emit := false

	c.mu.Lock()
	if ev.Button == primaryButton {
		switch c.state {
		case StateDragging:
			sel, emit = c.commitAreaLocked(ev)

		case StateHovering:
			if c.pressed && !ev.InChrome {
				c.pressed = false
				sel, emit = c.commitElementLocked(ev)
			}
			c.pressed = false
		}
	}
	cbs := c.selectedCbs
	c.mu.Unlock()

	c.flushStateChanges()
	if emit {
		for _, cb := range cbs {
			cb(sel)
		}
	}
}

// Key handles keyboard input. Escape cancels an in-progress drag without
// deactivating; in any other active state it deactivates the controller.
func (c *Controller) Key(ev KeyEvent) {
	if ev.Key != "Escape" {
		return
	}
	c.mu.Lock()
	defer c.flushStateChanges()
	defer c.mu.Unlock()

	switch c.state {
	case StateDragging:
		c.cfg.Overlay.ClearRect()
		c.pressed = false
		c.setStateLocked(StateHovering)
	case StateHovering, StatePaused:
		c.deactivateLocked()
	}
}

func (c *Controller) commitElementLocked(ev PointerEvent) (region.SelectedRegion, bool) {
	el := c.hovered
	if el == nil {
		el = c.cfg.Page.ElementAt(ev.X, ev.Y)
	}
	if el == nil || el.Marked() {
		return region.SelectedRegion{}, false
	}

	doc := c.cfg.Page.Document()
	sel := region.SelectedRegion{
		ID:          c.cfg.IDs(),
		Kind:        region.KindElement,
		DOMPath:     domquery.Resolve(el),
		ElementInfo: region.Describe(el),
		Bounds:      el.Bounds,
		Element:     el,
		CapturedAt:  time.Now().UnixMilli(),
	}
	if doc != nil {
		sel.PageURL = doc.URL
	}
	if c.cfg.Detect != nil {
		info := c.cfg.Detect(doc, el)
		sel.Framework = &info
	}

	c.cfg.Overlay.ShowElement(el)
	c.hovered = nil
	c.setStateLocked(StatePaused)
	return sel, true
}

func (c *Controller) commitAreaLocked(ev PointerEvent) (region.SelectedRegion, bool) {
	bounds := dom.RectBetween(c.downX, c.downY, ev.X, ev.Y)
	c.cfg.Overlay.ClearRect()
	c.pressed = false

	if err := c.cfg.Page.RefreshGeometry(); err != nil {
		c.cfg.Logger.Warn("controller: refresh geometry failed", "error", err)
	}
	doc := c.cfg.Page.Document()
	els := domquery.Intersecting(doc, bounds)

	sel := region.SelectedRegion{
		ID:             c.cfg.IDs(),
		Kind:           region.KindArea,
		DOMPath:        region.AreaPath(bounds),
		ElementInfo:    region.DescribeArea(bounds, len(els)),
		Bounds:         bounds,
		ElementsInArea: els,
		ElementCount:   len(els),
		CapturedAt:     time.Now().UnixMilli(),
	}
	if doc != nil {
		sel.PageURL = doc.URL
	}

	c.cfg.Overlay.Show(bounds)
	c.setStateLocked(StatePaused)
	return sel, true
}

func (c *Controller) displacement(x, y float64) float64 {
	return math.Hypot(x-c.downX, y-c.downY)
}

func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.pendingStates = append(c.pendingStates, s)
}

// flushStateChanges delivers queued state transitions in order. Callers
// must not hold the lock: a callback may block (webhook delivery) or
// re-enter the controller.
func (c *Controller) flushStateChanges() {
	c.mu.Lock()
	pending := c.pendingStates
	c.pendingStates = nil
	cbs := c.stateCbs
	c.mu.Unlock()

	for _, s := range pending {
		for _, cb := range cbs {
			cb(s)
		}
	}
}

