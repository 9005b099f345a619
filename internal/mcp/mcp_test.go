package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/sitescout/internal/config"
	"github.com/hpungsan/sitescout/internal/ops"
	"github.com/hpungsan/sitescout/internal/store"
)

// stubService satisfies agent.Service with canned responses.
type stubService struct {
	reply string
}

func (s *stubService) CreateChat(ctx context.Context) (string, error) {
	return "chat-1", nil
}

func (s *stubService) SendMessage(ctx context.Context, chatID, text string) (string, error) {
	return s.reply, nil
}

func testHandlers(t *testing.T) *Handlers {
	t.Helper()
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	orch := ops.New(db, &stubService{reply: "ok"}, config.DefaultConfig())
	orch.SetPageTextFunc(func(ctx context.Context, url string) (string, error) {
		return "", nil
	})
	return NewHandlers(orch)
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestToolRegistryNames(t *testing.T) {
	want := []string{
		"site_analyze", "site_status", "site_cancel", "site_ask",
		"site_refresh", "site_list", "site_show", "site_delete", "ping",
	}
	names := AllToolNames()
	if len(names) != len(want) {
		t.Fatalf("registry has %d tools, want %d", len(names), len(want))
	}
	for _, name := range want {
		if _, ok := toolRegistry[name]; !ok {
			t.Errorf("missing tool %q", name)
		}
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"site_ask", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestDecode(t *testing.T) {
	req := makeRequest(map[string]any{"url": "https://example.com/", "question": "what is this?"})
	got, err := decode[AskRequest](req)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.URL != "https://example.com/" || got.Question != "what is this?" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestHandlePing(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandlePing(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandlePing failed: %v", err)
	}
	if res.IsError {
		t.Fatal("ping returned error result")
	}
	if !strings.Contains(resultText(t, res), "pong") {
		t.Errorf("unexpected ping payload: %s", resultText(t, res))
	}
}

func TestHandleStatus_MissingURL(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleStatus(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError for missing url")
	}

	var payload struct {
		Error struct {
			Code   string `json:"code"`
			Status int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("error payload not JSON: %v", err)
	}
	if payload.Error.Code != "INVALID_REQUEST" || payload.Error.Status != 400 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestHandleShow_NotFound(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleShow(context.Background(), makeRequest(map[string]any{"url": "https://nope.example.com/"}))
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError for unknown site")
	}
	if !strings.Contains(resultText(t, res), "NOT_FOUND") {
		t.Errorf("payload = %s", resultText(t, res))
	}
}

func TestHandleList_Empty(t *testing.T) {
	h := testHandlers(t)
	res, err := h.HandleList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleList failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), `"count":0`) {
		t.Errorf("payload = %s", resultText(t, res))
	}
}

func TestNewServer_DisabledTools(t *testing.T) {
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	cfg.DisabledTools = []string{"site_delete"}
	orch := ops.New(db, &stubService{}, cfg)

	if s := NewServer(orch, cfg, "test"); s == nil {
		t.Fatal("NewServer returned nil")
	}
}
