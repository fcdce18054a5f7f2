// Package sink defines output backends for committed selections.
package sink

import (
	"context"

	"github.com/akhatua2/designx/selection/region"
)

// Sink is the output interface. Implementations deliver committed regions
// and controller state changes to different backends (stdout, webhook,
// in-process callback).
type Sink interface {
	Send(ctx context.Context, sel region.SelectedRegion) error
	SendState(ctx context.Context, state string) error
	Close() error
}

// envelope wraps every outbound payload with a type discriminator.
type envelope struct {
	Type string `json:"type"` // selection | state
	Data any    `json:"data"`
}
