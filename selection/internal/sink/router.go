package sink

import (
	"context"
	"log/slog"

	"github.com/akhatua2/designx/selection/region"
)

// Router fans out selections to all configured sinks. One sink error
// does not block the others — errors are logged and the first
// encountered is returned.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewRouter creates a fan-out router delivering to all sinks.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger}
}

func (r *Router) Send(ctx context.Context, sel region.SelectedRegion) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Send(ctx, sel); err != nil {
			r.logger.Warn("sink: send selection failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) SendState(ctx context.Context, state string) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.SendState(ctx, state); err != nil {
			r.logger.Warn("sink: send state failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
