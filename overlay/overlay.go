// Package overlay renders the selection spotlight: a full-viewport dimming
// layer with a cut-out over the current target, plus the live rectangle
// shown while a drag is in progress.
//
// The renderer computes geometry; an Applier puts it on screen. Everything
// an Applier injects must carry the engine marker attribute and must never
// intercept pointer events, so hover and click detection keep working
// underneath the dim layer.
package overlay

import (
	"log/slog"

	"github.com/akhatua2/designx/dom"
)

// Frame is one computed spotlight state: the padded cut-out rectangle and
// its presentation parameters.
type Frame struct {
	Cutout     dom.Rect `json:"cutout"`
	Radius     float64  `json:"radius"`
	DimOpacity float64  `json:"dim_opacity"`
	BlurPx     float64  `json:"blur_px"`
}

// Applier puts overlay state on screen. The browser implementation evals
// injected JS; tests substitute a recorder.
type Applier interface {
	// ApplySpotlight shows or updates the dim layer with the given cut-out.
	ApplySpotlight(f Frame) error
	// ApplyRect shows or updates the live drag rectangle.
	ApplyRect(r dom.Rect) error
	// ClearRect removes the live drag rectangle only.
	ClearRect() error
	// Clear removes every overlay node from the page. Removal must be
	// actual node removal, not hiding.
	Clear() error
}

// Config holds the presentation constants. These are deliberately
// configurable rather than hard-coded.
type Config struct {
	Padding    float64 // px added on every side of the target
	Radius     float64 // cut-out corner radius, px
	DimOpacity float64 // 0..1 opacity of the dim layer
	BlurPx     float64 // backdrop blur outside the cut-out
	Logger     *slog.Logger
}

func (c *Config) defaults() {
	if c.Padding <= 0 {
		c.Padding = 8
	}
	if c.Radius <= 0 {
		c.Radius = 8
	}
	if c.DimOpacity <= 0 {
		c.DimOpacity = 0.5
	}
	if c.BlurPx < 0 {
		c.BlurPx = 0
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Renderer owns the overlay lifecycle for one page. Applier errors are
// logged, never propagated: a failed repaint degrades the visuals, not the
// selection flow.
type Renderer struct {
	applier  Applier
	cfg      Config
	viewport dom.Rect
	visible  bool
}

// New creates a Renderer driving the given applier.
func New(applier Applier, cfg Config) *Renderer {
	cfg.defaults()
	return &Renderer{applier: applier, cfg: cfg}
}

// SetViewport sets the clamping bounds for computed frames. A zero
// viewport disables clamping.
func (r *Renderer) SetViewport(v dom.Rect) { r.viewport = v }

// Show spotlights the target rectangle, expanded by the configured padding
// and clamped to the viewport. Calling Show while visible updates the
// existing spotlight.
func (r *Renderer) Show(target dom.Rect) {
	f := Frame{
		Cutout:     target.Expand(r.cfg.Padding).Clamp(r.viewport),
		Radius:     r.cfg.Radius,
		DimOpacity: r.cfg.DimOpacity,
		BlurPx:     r.cfg.BlurPx,
	}
	if err := r.applier.ApplySpotlight(f); err != nil {
		r.cfg.Logger.Warn("overlay: spotlight failed", "error", err)
		return
	}
	r.visible = true
}

// ShowElement spotlights an element's bounding box.
func (r *Renderer) ShowElement(el *dom.Element) {
	if el == nil {
		return
	}
	r.Show(el.Bounds)
}

// DrawRect shows or updates the live drag rectangle.
func (r *Renderer) DrawRect(rect dom.Rect) {
	if err := r.applier.ApplyRect(rect); err != nil {
		r.cfg.Logger.Warn("overlay: draw rect failed", "error", err)
	}
}

// ClearRect removes the live drag rectangle, leaving any spotlight alone.
func (r *Renderer) ClearRect() {
	if err := r.applier.ClearRect(); err != nil {
		r.cfg.Logger.Warn("overlay: clear rect failed", "error", err)
	}
}

// Hide removes every overlay node from the page.
func (r *Renderer) Hide() {
	if err := r.applier.Clear(); err != nil {
		r.cfg.Logger.Warn("overlay: clear failed", "error", err)
	}
	r.visible = false
}

// Visible reports whether a spotlight is currently shown.
func (r *Renderer) Visible() bool { return r.visible }
