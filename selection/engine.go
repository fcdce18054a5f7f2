// CLAUDE:SUMMARY Top-level engine orchestrating browser, page session, state machine, overlay and sinks for interactive selection.
// Package selection provides an interactive selection engine that drives a
// live Chrome page: the user points at rendered content and the engine
// captures a reproducible reference to it — a single element or a dragged
// rectangular area — with best-effort React component metadata attached.
//
// The engine observes and captures, it does not edit. Committed regions
// are emitted to sinks (stdout, webhook, callback) for consumers to act
// on.
package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/introspect"
	"github.com/akhatua2/designx/overlay"
	"github.com/akhatua2/designx/selection/internal/browser"
	"github.com/akhatua2/designx/selection/internal/config"
	"github.com/akhatua2/designx/selection/internal/controller"
	"github.com/akhatua2/designx/selection/internal/sink"
	"github.com/akhatua2/designx/selection/region"
)

// Engine is the top-level orchestrator. It manages the browser, the page
// session, the selection controller and the sinks. Create one per
// designx instance.
type Engine struct {
	cfg    *config.Config
	mgr    *browser.Manager
	sinkR  *sink.Router
	logger *slog.Logger

	// Engine lifetime. The input loop and sink delivery run against this
	// context, not the caller's: a page stays interactive long after the
	// Open call that created it has returned.
	lifeCtx  context.Context
	lifeStop context.CancelFunc

	mu      sync.Mutex
	session *browser.Session
	ctrl    *controller.Controller

	cbMu     sync.Mutex
	stateCBs []func(string)
	selCBs   []func(region.SelectedRegion)

	selMu   sync.Mutex
	last    *region.SelectedRegion
	waiters []chan region.SelectedRegion
}

// New creates an Engine from configuration.
func New(cfg *config.Config, logger *slog.Logger, sinks ...sink.Sink) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.ApplyDefaults()

	mgr := browser.NewManager(browser.ManagerConfig{
		RemoteURL: cfg.Browser.Remote,
		Headless:  cfg.Browser.Headless,
		Stealth:   cfg.Browser.Stealth,
		Logger:    logger,
	})

	lifeCtx, lifeStop := context.WithCancel(context.Background())
	return &Engine{
		cfg:      cfg,
		mgr:      mgr,
		sinkR:    sink.NewRouter(logger, sinks...),
		logger:   logger,
		lifeCtx:  lifeCtx,
		lifeStop: lifeStop,
	}
}

// Start launches (or attaches to) the browser.
func (e *Engine) Start(ctx context.Context) error {
	if _, err := e.mgr.Start(); err != nil {
		return fmt.Errorf("selection: start browser: %w", err)
	}
	return nil
}

// Open navigates a fresh page to the URL, wires the capture pipeline and
// starts the input loop. An existing session is closed first: the engine
// drives one page at a time.
func (e *Engine) Open(ctx context.Context, pageURL string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		e.closeSessionLocked()
	}

	sess, err := browser.Open(ctx, e.mgr, pageURL, browser.SessionConfig{
		NavigateTimeout: e.cfg.Browser.NavigateTimeout,
		Logger:          e.logger,
	})
	if err != nil {
		return fmt.Errorf("selection: open %s: %w", pageURL, err)
	}

	renderer := overlay.New(sess.NewApplier(), overlay.Config{
		Padding:    e.cfg.Overlay.Padding,
		Radius:     e.cfg.Overlay.Radius,
		DimOpacity: e.cfg.Overlay.DimOpacity,
		BlurPx:     e.cfg.Overlay.BlurPx,
		Logger:     e.logger,
	})
	if doc := sess.Mirror().Document(); doc != nil {
		renderer.SetViewport(doc.Viewport)
	}

	ctrl := controller.New(controller.Config{
		Page:          sess.Mirror(),
		Overlay:       renderer,
		DragThreshold: e.cfg.Selection.DragThreshold,
		Detect:        e.detector(sess),
		Logger:        e.logger,
	})
	ctrl.OnStateChange(func(s controller.State) {
		if err := e.sinkR.SendState(e.lifeCtx, s.String()); err != nil {
			e.logger.Warn("selection: send state failed", "error", err)
		}
		e.fireStateChange(s.String())
	})
	ctrl.OnElementSelected(func(sel region.SelectedRegion) {
		e.finishSelection(sess, sel)
	})

	e.session = sess
	e.ctrl = ctrl

	go e.inputLoop(e.lifeCtx, sess, ctrl)

	e.logger.Info("selection: page opened", "url", pageURL)
	return nil
}

// detector wraps introspection with the property materialisation it needs:
// fiber expandos live browser-side and are pulled into the mirror on
// demand, for the selected element and its ancestors.
func (e *Engine) detector(sess *browser.Session) controller.Detector {
	return func(doc *dom.Document, el *dom.Element) region.FrameworkInfo {
		if err := sess.Mirror().MaterializeProps(el); err != nil {
			e.logger.Debug("selection: materialise props", "error", err)
		}
		return introspect.Detect(doc, el)
	}
}

// inputLoop feeds page input samples into the controller until the event
// stream closes.
func (e *Engine) inputLoop(ctx context.Context, sess *browser.Session, ctrl *controller.Controller) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sess.Events():
			if !ok {
				return
			}
			switch ev.Kind {
			case browser.EventMove:
				ctrl.PointerMove(controller.PointerEvent{X: ev.X, Y: ev.Y, Button: ev.Button, InChrome: ev.InChrome})
			case browser.EventDown:
				ctrl.PointerDown(controller.PointerEvent{X: ev.X, Y: ev.Y, Button: ev.Button, InChrome: ev.InChrome})
			case browser.EventUp:
				ctrl.PointerUp(controller.PointerEvent{X: ev.X, Y: ev.Y, Button: ev.Button, InChrome: ev.InChrome})
			case browser.EventKey:
				ctrl.Key(controller.KeyEvent{Key: ev.Key})
			}
		}
	}
}

// finishSelection enriches a committed region (outer HTML, optional
// screenshot), records it, emits it and wakes waiters.
func (e *Engine) finishSelection(sess *browser.Session, sel region.SelectedRegion) {
	if sel.Element != nil {
		if _, err := sess.Mirror().OuterHTML(sel.Element); err != nil {
			e.logger.Debug("selection: outer html", "error", err)
		}
	}
	if e.cfg.Selection.Screenshot {
		png, err := sess.Screenshot(sel.Bounds)
		if err != nil {
			e.logger.Warn("selection: screenshot failed", "error", err)
		} else {
			sel.Screenshot = png
		}
	}

	e.selMu.Lock()
	cp := sel
	e.last = &cp
	waiters := e.waiters
	e.waiters = nil
	e.selMu.Unlock()

	for _, w := range waiters {
		w <- sel
		close(w)
	}
	e.fireSelected(sel)

	if err := e.sinkR.Send(e.lifeCtx, sel); err != nil {
		e.logger.Error("selection: send region failed", "error", err)
	}

	e.logger.Info("selection: region committed",
		"id", sel.ID, "kind", sel.Kind, "path", sel.DOMPath)
}

// OnStateChange registers a callback invoked on every controller state
// transition. Registrations persist across Open calls.
func (e *Engine) OnStateChange(cb func(state string)) {
	if cb == nil {
		return
	}
	e.cbMu.Lock()
	e.stateCBs = append(e.stateCBs, cb)
	e.cbMu.Unlock()
}

// OnElementSelected registers a callback receiving every committed
// region. Registrations persist across Open calls.
func (e *Engine) OnElementSelected(cb func(region.SelectedRegion)) {
	if cb == nil {
		return
	}
	e.cbMu.Lock()
	e.selCBs = append(e.selCBs, cb)
	e.cbMu.Unlock()
}

func (e *Engine) fireStateChange(state string) {
	e.cbMu.Lock()
	cbs := append(([]func(string))(nil), e.stateCBs...)
	e.cbMu.Unlock()
	for _, cb := range cbs {
		cb(state)
	}
}

func (e *Engine) fireSelected(sel region.SelectedRegion) {
	e.cbMu.Lock()
	cbs := append(([]func(region.SelectedRegion))(nil), e.selCBs...)
	e.cbMu.Unlock()
	for _, cb := range cbs {
		cb(sel)
	}
}

// Activate starts a selection cycle on the open page.
func (e *Engine) Activate() error {
	ctrl, err := e.controller()
	if err != nil {
		return err
	}
	ctrl.Activate()
	return nil
}

// Deactivate exits selection mode and removes the overlay.
func (e *Engine) Deactivate() error {
	ctrl, err := e.controller()
	if err != nil {
		return err
	}
	ctrl.Deactivate()
	return nil
}

// Toggle flips between active and inactive.
func (e *Engine) Toggle() error {
	ctrl, err := e.controller()
	if err != nil {
		return err
	}
	ctrl.Toggle()
	return nil
}

// Pause suspends hover tracking, keeping the committed spotlight visible.
func (e *Engine) Pause() error {
	ctrl, err := e.controller()
	if err != nil {
		return err
	}
	ctrl.Pause()
	return nil
}

// Resume returns from Paused to live hover tracking.
func (e *Engine) Resume() error {
	ctrl, err := e.controller()
	if err != nil {
		return err
	}
	ctrl.Resume()
	return nil
}

// State returns the controller state name, "inactive" when no page is
// open.
func (e *Engine) State() string {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()
	if ctrl == nil {
		return controller.StateInactive.String()
	}
	return ctrl.State().String()
}

// IsActive reports whether a selection cycle is in progress.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()
	return ctrl != nil && ctrl.IsActive()
}

// IsPaused reports whether selection is paused.
func (e *Engine) IsPaused() bool {
	e.mu.Lock()
	ctrl := e.ctrl
	e.mu.Unlock()
	return ctrl != nil && ctrl.IsPaused()
}

// PageURL returns the open page's URL, empty when none.
func (e *Engine) PageURL() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ""
	}
	return e.session.PageURL
}

// LastSelection returns the most recently committed region, or nil.
func (e *Engine) LastSelection() *region.SelectedRegion {
	e.selMu.Lock()
	defer e.selMu.Unlock()
	return e.last
}

// WaitForSelection blocks until the next region is committed or the
// context ends.
func (e *Engine) WaitForSelection(ctx context.Context) (region.SelectedRegion, error) {
	ch := make(chan region.SelectedRegion, 1)
	e.selMu.Lock()
	e.waiters = append(e.waiters, ch)
	e.selMu.Unlock()

	select {
	case sel := <-ch:
		return sel, nil
	case <-ctx.Done():
		e.selMu.Lock()
		for i, w := range e.waiters {
			if w == ch {
				e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
				break
			}
		}
		e.selMu.Unlock()
		return region.SelectedRegion{}, ctx.Err()
	}
}

func (e *Engine) controller() (*controller.Controller, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctrl == nil {
		return nil, fmt.Errorf("selection: no page open")
	}
	return e.ctrl, nil
}

func (e *Engine) closeSessionLocked() {
	if e.ctrl != nil {
		e.ctrl.Cleanup()
		e.ctrl = nil
	}
	if e.session != nil {
		if err := e.session.Close(); err != nil {
			e.logger.Warn("selection: close session", "error", err)
		}
		e.session = nil
	}
}

// Cleanup is an alias for Close.
func (e *Engine) Cleanup() error { return e.Close() }

// Close tears down the session, the browser and the sinks.
func (e *Engine) Close() error {
	e.lifeStop()

	e.mu.Lock()
	e.closeSessionLocked()
	e.mu.Unlock()

	var firstErr error
	if err := e.mgr.Close(); err != nil {
		firstErr = err
	}
	if err := e.sinkR.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
