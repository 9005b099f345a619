package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/sitescout/internal/site"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRecord(siteID string) *site.Record {
	rec := site.NewRecord(siteID, "chat-123", "https://example.com/docs", "example.com")
	rec.Transcript = []site.Turn{
		site.NewTurn(site.AuthorSystem, "Auto-analysis started for: https://example.com/docs",
			&site.TurnMetadata{Kind: site.KindAnalysisStart, URL: "https://example.com/docs"}),
		site.NewTurn(site.AuthorAgent, "🎯 OVERVIEW analysis text",
			&site.TurnMetadata{Kind: site.KindAnalysisResult, URL: "https://example.com/docs"}),
	}
	return rec
}

func TestSiteRoundTrip(t *testing.T) {
	db := testDB(t)
	rec := sampleRecord("site-1")

	if err := PutSite(db, rec); err != nil {
		t.Fatalf("PutSite failed: %v", err)
	}

	got, err := GetSite(db, "site-1")
	if err != nil {
		t.Fatalf("GetSite failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetSite returned nil for existing record")
	}
	if got.SessionID != rec.SessionID || got.URL != rec.URL || got.Domain != rec.Domain {
		t.Errorf("round trip mismatch: %+v vs %+v", got, rec)
	}
	if got.Status != site.StatusConnecting {
		t.Errorf("Status = %q, want connecting", got.Status)
	}
	if len(got.Transcript) != 2 {
		t.Fatalf("Transcript len = %d, want 2", len(got.Transcript))
	}
	for i := range rec.Transcript {
		if got.Transcript[i].ID != rec.Transcript[i].ID {
			t.Errorf("transcript order changed at %d", i)
		}
	}
	if got.Transcript[0].Metadata == nil || got.Transcript[0].Metadata.Kind != site.KindAnalysisStart {
		t.Error("turn metadata lost in round trip")
	}
}

func TestGetSite_Absent(t *testing.T) {
	db := testDB(t)
	got, err := GetSite(db, "nope")
	if err != nil {
		t.Fatalf("GetSite failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent record, got %+v", got)
	}
}

func TestUpdateSiteStatus(t *testing.T) {
	db := testDB(t)
	if err := PutSite(db, sampleRecord("site-1")); err != nil {
		t.Fatalf("PutSite failed: %v", err)
	}

	if err := UpdateSiteStatus(db, "site-1", site.StatusReady); err != nil {
		t.Fatalf("UpdateSiteStatus failed: %v", err)
	}
	got, _ := GetSite(db, "site-1")
	if got.Status != site.StatusReady {
		t.Errorf("Status = %q, want ready", got.Status)
	}

	// Error is overwritable; a stuck state never blocks a later attempt.
	if err := UpdateSiteStatus(db, "site-1", site.StatusError); err != nil {
		t.Fatalf("UpdateSiteStatus to error failed: %v", err)
	}
	if err := UpdateSiteStatus(db, "site-1", site.StatusIdle); err != nil {
		t.Fatalf("UpdateSiteStatus from error failed: %v", err)
	}

	if err := UpdateSiteStatus(db, "missing", site.StatusReady); err == nil {
		t.Error("expected error for missing record")
	}
}

func TestAppendTurns(t *testing.T) {
	db := testDB(t)
	if err := PutSite(db, sampleRecord("site-1")); err != nil {
		t.Fatalf("PutSite failed: %v", err)
	}

	q := site.NewTurn(site.AuthorUser, "what is this?", nil)
	a := site.NewTurn(site.AuthorAgent, "A docs site.", nil)
	if err := AppendTurns(db, "site-1", q, a); err != nil {
		t.Fatalf("AppendTurns failed: %v", err)
	}

	got, _ := GetSite(db, "site-1")
	if len(got.Transcript) != 4 {
		t.Fatalf("Transcript len = %d, want 4", len(got.Transcript))
	}
	if got.Transcript[2].Text != "what is this?" || got.Transcript[3].Text != "A docs site." {
		t.Error("appended turns out of order")
	}
}

func TestAllSites_FiltersSettingsAndSorts(t *testing.T) {
	db := testDB(t)

	older := sampleRecord("site-old")
	older.CreatedAt = time.Now().Add(-time.Hour).UTC()
	newer := sampleRecord("site-new")

	if err := PutSite(db, older); err != nil {
		t.Fatal(err)
	}
	if err := PutSite(db, newer); err != nil {
		t.Fatal(err)
	}
	if err := SetAPIKey(db, "sk-test-key"); err != nil {
		t.Fatal(err)
	}
	if err := SetUserRole(db, "developer"); err != nil {
		t.Fatal(err)
	}

	sites, err := AllSites(db)
	if err != nil {
		t.Fatalf("AllSites failed: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("len = %d, want 2 (settings must be filtered)", len(sites))
	}
	if sites[0].SiteID != "site-new" || sites[1].SiteID != "site-old" {
		t.Errorf("not sorted newest first: %s, %s", sites[0].SiteID, sites[1].SiteID)
	}
}

func TestClearHistoryKeepsSession(t *testing.T) {
	db := testDB(t)
	if err := PutSite(db, sampleRecord("site-1")); err != nil {
		t.Fatal(err)
	}

	if err := ClearHistory(db, "site-1"); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	got, _ := GetSite(db, "site-1")
	if len(got.Transcript) != 0 {
		t.Errorf("transcript not cleared: %d turns", len(got.Transcript))
	}
	if got.SessionID != "chat-123" {
		t.Errorf("session lost: %q", got.SessionID)
	}
}

func TestResetInterrupted(t *testing.T) {
	db := testDB(t)

	stuck := sampleRecord("stuck-connecting")
	stuck.Status = site.StatusConnecting
	analyzing := sampleRecord("stuck-analyzing")
	analyzing.Status = site.StatusAnalyzing
	ready := sampleRecord("fine")
	ready.Status = site.StatusReady

	for _, rec := range []*site.Record{stuck, analyzing, ready} {
		if err := PutSite(db, rec); err != nil {
			t.Fatal(err)
		}
	}

	n, err := ResetInterrupted(db)
	if err != nil {
		t.Fatalf("ResetInterrupted failed: %v", err)
	}
	if n != 2 {
		t.Errorf("reset %d records, want 2", n)
	}

	for _, id := range []string{"stuck-connecting", "stuck-analyzing"} {
		got, _ := GetSite(db, id)
		if got.Status != site.StatusIdle {
			t.Errorf("%s: status = %q, want idle", id, got.Status)
		}
	}
	got, _ := GetSite(db, "fine")
	if got.Status != site.StatusReady {
		t.Errorf("ready record was touched: %q", got.Status)
	}
}

func TestSettings(t *testing.T) {
	db := testDB(t)

	key, err := GetAPIKey(db)
	if err != nil || key != "" {
		t.Fatalf("unset key: got %q, %v", key, err)
	}
	if err := SetAPIKey(db, "sk-abc"); err != nil {
		t.Fatal(err)
	}
	key, _ = GetAPIKey(db)
	if key != "sk-abc" {
		t.Errorf("key = %q, want sk-abc", key)
	}

	role, err := GetUserRole(db)
	if err != nil || role != "default" {
		t.Fatalf("unset role: got %q, %v", role, err)
	}
	if err := SetUserRole(db, "researcher"); err != nil {
		t.Fatal(err)
	}
	role, _ = GetUserRole(db)
	if role != "researcher" {
		t.Errorf("role = %q, want researcher", role)
	}
}

func TestDeleteSite(t *testing.T) {
	db := testDB(t)
	if err := PutSite(db, sampleRecord("site-1")); err != nil {
		t.Fatal(err)
	}
	if err := DeleteSite(db, "site-1"); err != nil {
		t.Fatalf("DeleteSite failed: %v", err)
	}
	got, err := GetSite(db, "site-1")
	if err != nil || got != nil {
		t.Errorf("record survived delete: %+v, %v", got, err)
	}
	// Deleting again is a no-op.
	if err := DeleteSite(db, "site-1"); err != nil {
		t.Errorf("second delete errored: %v", err)
	}
}
