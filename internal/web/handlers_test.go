package web

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hpungsan/sitescout/internal/config"
	"github.com/hpungsan/sitescout/internal/ops"
	"github.com/hpungsan/sitescout/internal/site"
	"github.com/hpungsan/sitescout/internal/store"
)

type stubService struct{}

func (stubService) CreateChat(ctx context.Context) (string, error) { return "chat-1", nil }
func (stubService) SendMessage(ctx context.Context, chatID, text string) (string, error) {
	return "ok", nil
}

type testEnv struct {
	srv  *http.Server
	orch *ops.Orchestrator
	db   *sql.DB
}

func testServer(t *testing.T) testEnv {
	t.Helper()
	db, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("store.Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	orch := ops.New(db, stubService{}, cfg)
	return testEnv{
		srv:  NewServer(orch, cfg, "test", "127.0.0.1", 0),
		orch: orch,
		db:   db,
	}
}

func seedSite(t *testing.T, db *sql.DB) *site.Record {
	t.Helper()
	rec := site.NewRecord(site.SiteID("https://example.com/docs"), "chat-1",
		"https://example.com/docs", "example.com")
	rec.Status = site.StatusReady
	rec.Transcript = []site.Turn{
		site.NewTurn(site.AuthorUser, "what is this?", nil),
		site.NewTurn(site.AuthorAgent, "**A docs site** about pipelines.", nil),
	}
	if err := store.PutSite(db, rec); err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestTemplatesParse(t *testing.T) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		t.Fatal(err)
	}
	// NewRenderer panics on malformed templates; reaching here is the test.
	if r := NewRenderer(sub, "test"); r == nil {
		t.Fatal("nil renderer")
	}
}

func TestListPage(t *testing.T) {
	env := testServer(t)
	seedSite(t, env.db)

	req := httptest.NewRequest(http.MethodGet, "/sites", nil)
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "example.com/docs") {
		t.Errorf("site not listed: %s", rr.Body.String())
	}
}

func TestDetailPage_RendersMarkdown(t *testing.T) {
	env := testServer(t)
	rec := seedSite(t, env.db)

	req := httptest.NewRequest(http.MethodGet, "/sites/"+rec.SiteID, nil)
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	// Agent markdown becomes HTML; user text stays escaped plain text.
	if !strings.Contains(rr.Body.String(), "<strong>A docs site</strong>") {
		t.Error("agent markdown not rendered")
	}
	if !strings.Contains(rr.Body.String(), "what is this?") {
		t.Error("user turn missing")
	}
}

func TestDetailPage_NotFound(t *testing.T) {
	env := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sites/does-not-exist", nil)
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestDeleteSite(t *testing.T) {
	env := testServer(t)
	rec := seedSite(t, env.db)

	req := httptest.NewRequest(http.MethodDelete, "/sites/"+rec.SiteID, nil)
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if _, err := env.orch.GetRecord(rec.SiteID); err == nil {
		t.Error("record survived delete")
	}
}

func TestErrorPage_JSONNegotiation(t *testing.T) {
	env := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/sites/does-not-exist", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	env.srv.Handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "NOT_FOUND") {
		t.Errorf("body = %s", rr.Body.String())
	}
}
