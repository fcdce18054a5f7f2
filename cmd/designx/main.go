// CLAUDE:SUMMARY CLI entry point for designx — interactive selection engine with single-page, HTTP and MCP modes.
// Command designx drives the interactive selection engine.
//
// Usage:
//
//	designx -url https://example.com            # open page, select, JSON to stdout
//	designx -config designx.yaml -url <url>     # same with config file
//	designx -url <url> -serve :8090             # expose the HTTP control surface
//	designx -url <url> -mcp                     # expose the MCP tools on stdio
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akhatua2/designx/selection"
)

const version = "0.3.0"

func main() {
	configPath := flag.String("config", "", "path to designx.yaml config file")
	pageURL := flag.String("url", "", "page URL to open")
	serveAddr := flag.String("serve", "", "expose the HTTP control surface on this address")
	mcpMode := flag.Bool("mcp", false, "expose the MCP tools on stdio")
	activate := flag.Bool("activate", true, "enter selection mode immediately after opening")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *pageURL, *serveAddr, *mcpMode, *activate); err != nil {
		logger.Error("designx: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, pageURL, serveAddr string, mcpMode, activate bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	sinks := selection.SinksFromConfig(cfg, logger)
	if len(sinks) == 0 {
		sinks = append(sinks, selection.NewStdoutSink(nil))
	}

	engine := selection.New(cfg, logger, sinks...)
	defer engine.Close()

	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if pageURL != "" {
		if err := engine.Open(ctx, pageURL); err != nil {
			return fmt.Errorf("open: %w", err)
		}
		if activate {
			if err := engine.Activate(); err != nil {
				return fmt.Errorf("activate: %w", err)
			}
		}
	}

	switch {
	case mcpMode:
		return runMCP(ctx, engine)
	case serveAddr != "":
		return runHTTP(ctx, logger, engine, serveAddr)
	case pageURL != "":
		<-ctx.Done()
		return nil
	default:
		fmt.Fprintln(os.Stderr, "usage: designx -url <url> [-serve <addr> | -mcp] [-config <file>]")
		os.Exit(1)
		return nil
	}
}

func loadConfig(path string) (*selection.Config, error) {
	if path == "" {
		return selection.DefaultConfig(), nil
	}
	cfg, err := selection.LoadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func runMCP(ctx context.Context, engine *selection.Engine) error {
	srv := mcp.NewServer(&mcp.Implementation{Name: "designx", Version: version}, nil)
	engine.RegisterMCP(srv)
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func runHTTP(ctx context.Context, logger *slog.Logger, engine *selection.Engine, addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/selection", engine.Routes())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	logger.Info("designx: http listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	}
}
