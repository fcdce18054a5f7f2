package browser

import (
	"fmt"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/overlay"
)

// Applier paints overlay state onto the page by calling into the injected
// overlay script. It satisfies overlay.Applier.
type Applier struct {
	s *Session
}

// NewApplier returns the page-backed overlay applier for this session.
func (s *Session) NewApplier() *Applier {
	return &Applier{s: s}
}

var _ overlay.Applier = (*Applier)(nil)

func (a *Applier) ApplySpotlight(f overlay.Frame) error {
	_, err := a.s.Page.Eval(`(f) => window.__designx_overlay.spotlight(f)`, f)
	if err != nil {
		return fmt.Errorf("browser: apply spotlight: %w", err)
	}
	return nil
}

func (a *Applier) ApplyRect(r dom.Rect) error {
	_, err := a.s.Page.Eval(`(r) => window.__designx_overlay.showRect(r)`, r)
	if err != nil {
		return fmt.Errorf("browser: apply rect: %w", err)
	}
	return nil
}

func (a *Applier) ClearRect() error {
	_, err := a.s.Page.Eval(`() => window.__designx_overlay.clearRect()`)
	if err != nil {
		return fmt.Errorf("browser: clear rect: %w", err)
	}
	return nil
}

func (a *Applier) Clear() error {
	_, err := a.s.Page.Eval(`() => window.__designx_overlay.clear()`)
	if err != nil {
		return fmt.Errorf("browser: clear overlay: %w", err)
	}
	return nil
}
