// CLAUDE:SUMMARY In-process callback sink delivering selections via Go function calls with zero serialization.
package sink

import (
	"context"

	"github.com/akhatua2/designx/selection/region"
)

// SelectionFunc is called for each committed region (in-process, zero
// serialisation).
type SelectionFunc func(ctx context.Context, sel region.SelectedRegion) error

// StateFunc is called for each controller state change.
type StateFunc func(ctx context.Context, state string) error

// Callback delivers selections via Go function calls — the path used when
// the host application lives in the same binary as the engine.
type Callback struct {
	onSelection SelectionFunc
	onState     StateFunc
}

// NewCallback creates a Callback sink. Either handler may be nil.
func NewCallback(onSelection SelectionFunc, onState StateFunc) *Callback {
	return &Callback{onSelection: onSelection, onState: onState}
}

func (c *Callback) Send(ctx context.Context, sel region.SelectedRegion) error {
	if c.onSelection != nil {
		return c.onSelection(ctx, sel)
	}
	return nil
}

func (c *Callback) SendState(ctx context.Context, state string) error {
	if c.onState != nil {
		return c.onState(ctx, state)
	}
	return nil
}

func (c *Callback) Close() error { return nil }
