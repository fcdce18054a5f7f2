package selection

import (
	"context"
	"io"
	"log/slog"

	"github.com/akhatua2/designx/selection/internal/sink"
	"github.com/akhatua2/designx/selection/region"
)

// Sink is the output interface for committed regions.
type Sink = sink.Sink

// NewStdoutSink creates a stdout JSON-lines sink.
func NewStdoutSink(w io.Writer) Sink {
	return sink.NewStdout(w)
}

// NewWebhookSink creates a webhook POST sink with retry.
func NewWebhookSink(url string, logger *slog.Logger) Sink {
	return sink.NewWebhook(url, sink.WithWebhookLogger(logger))
}

// SelectionFunc is called for each committed region.
type SelectionFunc = sink.SelectionFunc

// StateFunc is called for each state change.
type StateFunc = sink.StateFunc

// NewCallbackSink creates an in-process callback sink — zero
// serialisation for hosts living in the same binary.
func NewCallbackSink(
	onSelection func(ctx context.Context, sel region.SelectedRegion) error,
	onState func(ctx context.Context, state string) error,
) Sink {
	return sink.NewCallback(onSelection, onState)
}

// SinksFromConfig builds sinks from the configuration's sink list.
func SinksFromConfig(cfg *Config, logger *slog.Logger) []Sink {
	var sinks []Sink
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, NewStdoutSink(nil))
		case "webhook":
			sinks = append(sinks, NewWebhookSink(sc.URL, logger))
		default:
			logger.Warn("selection: unknown sink type", "type", sc.Type)
		}
	}
	return sinks
}
