// CLAUDE:SUMMARY Per-page CDP session: navigates, injects capture/overlay JS, streams input events through a Runtime binding.
package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

//go:embed capture.js
var captureJS []byte

//go:embed overlay.js
var overlayJS []byte

// bindingName is the JS → Go channel registered on every page.
const bindingName = "__designx_binding"

// EventKind discriminates input samples coming off the page.
type EventKind string

const (
	EventMove EventKind = "move"
	EventDown EventKind = "down"
	EventUp   EventKind = "up"
	EventKey  EventKind = "key"
)

// Event is one input sample forwarded by the capture script.
type Event struct {
	Kind     EventKind `json:"kind"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Button   int       `json:"button"`
	Key      string    `json:"key"`
	InChrome bool      `json:"chrome"`
}

// Session owns one page under selection: the Rod page handle, the input
// event stream, and the DOM mirror built from it.
type Session struct {
	Page    *rod.Page
	PageURL string

	mirror *Mirror
	events chan Event
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// SessionConfig configures Open.
type SessionConfig struct {
	NavigateTimeout time.Duration // default 30s
	Logger          *slog.Logger
}

func (c *SessionConfig) defaults() {
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Open creates a page, navigates to the URL, injects the capture and
// overlay scripts, and starts streaming input events.
func Open(ctx context.Context, mgr *Manager, pageURL string, cfg SessionConfig) (*Session, error) {
	cfg.defaults()

	page, err := mgr.newPage()
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	// Re-inject on reload and same-tab navigation.
	for _, src := range [][]byte{captureJS, overlayJS} {
		_, err := proto.PageAddScriptToEvaluateOnNewDocument{Source: string(src)}.Call(page)
		if err != nil {
			cfg.Logger.Warn("browser: persist script failed", "error", err)
		}
	}

	navCtx, cancelNav := context.WithTimeout(ctx, cfg.NavigateTimeout)
	defer cancelNav()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		cfg.Logger.Warn("browser: wait load timeout", "url", pageURL, "error", err)
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &Session{
		Page:    page,
		PageURL: pageURL,
		events:  make(chan Event, 1024),
		logger:  cfg.Logger,
		ctx:     sctx,
		cancel:  cancel,
	}

	if err := s.inject(); err != nil {
		cancel()
		page.Close()
		return nil, err
	}

	s.mirror = newMirror(s)
	if err := s.mirror.Rebuild(); err != nil {
		cancel()
		page.Close()
		return nil, fmt.Errorf("browser: build mirror: %w", err)
	}

	return s, nil
}

// Events returns the input event stream. Closed when the session stops.
func (s *Session) Events() <-chan Event { return s.events }

// Mirror returns the Go-side DOM mirror for this page.
func (s *Session) Mirror() *Mirror { return s.mirror }

func (s *Session) inject() error {
	err := proto.RuntimeAddBinding{Name: bindingName}.Call(s.Page)
	if err != nil {
		s.logger.Warn("browser: addBinding failed (may already exist)", "error", err)
	}

	go s.listenBinding()

	if _, err := s.Page.Eval(string(captureJS)); err != nil {
		return fmt.Errorf("browser: inject capture script: %w", err)
	}
	if _, err := s.Page.Eval(string(overlayJS)); err != nil {
		return fmt.Errorf("browser: inject overlay script: %w", err)
	}

	s.logger.Debug("browser: scripts injected", "url", s.PageURL)
	return nil
}

// listenBinding receives input samples from the capture script via
// Runtime.bindingCalled and forwards them to the event channel.
func (s *Session) listenBinding() {
	defer close(s.events)
	s.Page.Context(s.ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}

		var ev Event
		if err := json.Unmarshal([]byte(e.Payload), &ev); err != nil {
			s.logger.Warn("browser: parse binding payload", "error", err)
			return
		}

		select {
		case s.events <- ev:
		default:
			// Backpressure: drop the oldest pointer sample rather than
			// blocking the CDP event loop.
			select {
			case <-s.events:
			default:
			}
			select {
			case s.events <- ev:
			default:
			}
		}
	})()
}

// Close stops the event stream and closes the page.
func (s *Session) Close() error {
	s.cancel()
	if s.Page != nil {
		return s.Page.Close()
	}
	return nil
}
