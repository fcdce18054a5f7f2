// CLAUDE:SUMMARY Registers all designx MCP tools — open, activate, deactivate, pause, resume, status, wait_selection.
package selection

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akhatua2/designx/kit"
)

// RegisterMCP registers selection tools on an MCP server.
func (e *Engine) RegisterMCP(srv *mcp.Server) {
	e.registerOpenTool(srv)
	e.registerActivateTool(srv)
	e.registerDeactivateTool(srv)
	e.registerPauseTool(srv)
	e.registerResumeTool(srv)
	e.registerStatusTool(srv)
	e.registerWaitSelectionTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// emptyRequest decodes tools that take no arguments.
func emptyRequest(_ *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
	return &kit.MCPDecodeResult{Request: &struct{}{}}, nil
}

type statusResponse struct {
	State   string `json:"state"`
	PageURL string `json:"page_url,omitempty"`
	HasLast bool   `json:"has_last_selection"`
}

// --- open ---

type openRequest struct {
	URL string `json:"url"`
}

func (e *Engine) registerOpenTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "designx_open",
		Description: "Open a page in the selection browser. Closes any previously open page.",
		InputSchema: inputSchema(map[string]any{
			"url": map[string]any{"type": "string", "description": "Page URL to open"},
		}, []string{"url"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*openRequest)
		if err := e.Open(ctx, r.URL); err != nil {
			return nil, err
		}
		return statusResponse{State: e.State(), PageURL: e.PageURL()}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r openRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- activate / deactivate / pause / resume ---

func (e *Engine) registerActivateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "designx_activate",
		Description: "Enter selection mode on the open page: crosshair cursor, hover spotlight, click or drag to select.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, _ any) (any, error) {
		if err := e.Activate(); err != nil {
			return nil, err
		}
		return statusResponse{State: e.State(), PageURL: e.PageURL()}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, emptyRequest)
}

func (e *Engine) registerDeactivateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "designx_deactivate",
		Description: "Exit selection mode and remove the overlay.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, _ any) (any, error) {
		if err := e.Deactivate(); err != nil {
			return nil, err
		}
		return statusResponse{State: e.State(), PageURL: e.PageURL()}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, emptyRequest)
}

func (e *Engine) registerPauseTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "designx_pause",
		Description: "Pause hover tracking, keeping the current spotlight on screen.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, _ any) (any, error) {
		if err := e.Pause(); err != nil {
			return nil, err
		}
		return statusResponse{State: e.State(), PageURL: e.PageURL()}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, emptyRequest)
}

func (e *Engine) registerResumeTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "designx_resume",
		Description: "Resume hover tracking after a pause.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, _ any) (any, error) {
		if err := e.Resume(); err != nil {
			return nil, err
		}
		return statusResponse{State: e.State(), PageURL: e.PageURL()}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, emptyRequest)
}

// --- status ---

func (e *Engine) registerStatusTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "designx_status",
		Description: "Report the engine state and the open page URL.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := func(ctx context.Context, _ any) (any, error) {
		return statusResponse{
			State:   e.State(),
			PageURL: e.PageURL(),
			HasLast: e.LastSelection() != nil,
		}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, emptyRequest)
}

// --- wait_selection ---

type waitSelectionRequest struct {
	TimeoutMs int  `json:"timeout_ms,omitempty"`
	Last      bool `json:"last,omitempty"`
}

func (e *Engine) registerWaitSelectionTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "designx_wait_selection",
		Description: "Block until the user commits a selection, then return the captured region. With last=true, return the most recent region immediately.",
		InputSchema: inputSchema(map[string]any{
			"timeout_ms": map[string]any{"type": "integer", "description": "Max wait in milliseconds (default 120000)"},
			"last":       map[string]any{"type": "boolean", "description": "Return the last committed region without waiting"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*waitSelectionRequest)

		if r.Last {
			if sel := e.LastSelection(); sel != nil {
				return *sel, nil
			}
		}

		timeout := 120 * time.Second
		if r.TimeoutMs > 0 {
			timeout = time.Duration(r.TimeoutMs) * time.Millisecond
		}
		waitCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		sel, err := e.WaitForSelection(waitCtx)
		if err != nil {
			return nil, err
		}
		return sel, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r waitSelectionRequest
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
