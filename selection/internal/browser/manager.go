// CLAUDE:SUMMARY Manages Chrome lifecycle for interactive selection: launch or remote attach, stealth page creation, shutdown.
// Package browser binds the selection engine to a live Chrome via CDP:
// it launches (or attaches to) a browser, opens pages with the capture
// script injected, mirrors the page DOM into Go, and paints the overlay.
package browser

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// ManagerConfig configures the browser manager.
type ManagerConfig struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	// Headless controls local launches. Interactive selection normally
	// wants a visible browser; headless is for tests and automation.
	Headless bool

	// Stealth applies the stealth evasions when creating pages.
	Stealth bool

	Logger *slog.Logger
}

func (c *ManagerConfig) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Manager owns the Chrome process (or remote connection) for the engine.
type Manager struct {
	cfg     ManagerConfig
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// NewManager creates a browser Manager. Call Start to launch Chrome.
func NewManager(cfg ManagerConfig) *Manager {
	cfg.defaults()
	return &Manager{cfg: cfg}
}

// Start launches Chrome (or connects to a remote instance) and returns
// the Rod browser handle.
func (m *Manager) Start() (*rod.Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("browser: manager is closed")
	}
	if m.browser != nil {
		return m.browser, nil
	}

	log := m.cfg.Logger
	var wsURL string

	if m.cfg.RemoteURL != "" {
		wsURL = m.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(m.cfg.Headless)
		l = l.Set("disable-blink-features", "AutomationControlled")

		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		m.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL, "headless", m.cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}

	m.browser = b
	return b, nil
}

// Browser returns the current Rod browser handle, or nil before Start.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser
}

// newPage creates a page with the configured stealth level applied.
func (m *Manager) newPage() (*rod.Page, error) {
	m.mu.Lock()
	b := m.browser
	stealthOn := m.cfg.Stealth
	m.mu.Unlock()

	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}
	if stealthOn {
		return stealth.Page(b)
	}
	return b.Page(proto.TargetCreateTarget{URL: ""})
}

// Close shuts down Chrome (or disconnects from the remote instance).
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.browser != nil {
		m.browser.Close()
		m.browser = nil
	}
	if m.lnch != nil {
		m.lnch.Cleanup()
		m.lnch = nil
	}
	return nil
}
