package selection

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akhatua2/designx/dom"
	"github.com/akhatua2/designx/selection/region"
)

var testMCPImpl = &mcp.Implementation{Name: "designx-test", Version: "0.1.0"}

func mcpSession(t *testing.T, engine *Engine) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	engine.RegisterMCP(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func mcpCallTool(t *testing.T, session *mcp.ClientSession, name string, args any) string {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if result.IsError {
		t.Fatalf("CallTool(%s) tool error: %s", name, toolText(result))
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): expected TextContent", name)
	}
	return tc.Text
}

// toolText pulls the first text block out of a result, for error reporting.
func toolText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(*mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func TestMCP_Status(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := New(DefaultConfig(), logger)
	session := mcpSession(t, engine)

	text := mcpCallTool(t, session, "designx_status", map[string]any{})

	var resp struct {
		State   string `json:"state"`
		HasLast bool   `json:"has_last_selection"`
	}
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.State != "inactive" {
		t.Fatalf("got state %q, want inactive", resp.State)
	}
	if resp.HasLast {
		t.Fatal("no selection should exist yet")
	}
}

func TestMCP_ActivateWithoutPage_ToolError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := New(DefaultConfig(), logger)
	session := mcpSession(t, engine)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "designx_activate",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !result.IsError {
		t.Fatal("want tool error when no page is open")
	}
	if txt := toolText(result); txt == "" {
		t.Fatal("tool error should carry a message")
	}
}

func TestMCP_WaitSelection_Last(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := New(DefaultConfig(), logger)

	engine.selMu.Lock()
	engine.last = &region.SelectedRegion{
		ID:      "sel_xyz",
		Kind:    region.KindArea,
		DOMPath: "area(10,10,100x50)",
		Bounds:  dom.Rect{X: 10, Y: 10, Width: 100, Height: 50},
	}
	engine.selMu.Unlock()

	session := mcpSession(t, engine)

	text := mcpCallTool(t, session, "designx_wait_selection", map[string]any{"last": true})

	var sel region.SelectedRegion
	if err := json.Unmarshal([]byte(text), &sel); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if sel.ID != "sel_xyz" || sel.Kind != region.KindArea {
		t.Fatalf("got %+v", sel)
	}
}
