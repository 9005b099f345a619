package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.BaseURL != def.BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.BaseURL)
	}
	if cfg.ResultMinChars != 150 || cfg.HTTPTimeoutSeconds != 60 || cfg.WatchdogMinutes != 15 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_PartialOverlay(t *testing.T) {
	dir := t.TempDir()
	content := `{"result_min_chars": 300, "disabled_tools": ["site_delete"]}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ResultMinChars != 300 {
		t.Errorf("ResultMinChars = %d, want 300", cfg.ResultMinChars)
	}
	// Untouched fields keep defaults.
	if cfg.BaseURL != DefaultConfig().BaseURL {
		t.Errorf("BaseURL overridden unexpectedly: %q", cfg.BaseURL)
	}
	if cfg.WatchdogMinutes != 15 {
		t.Errorf("WatchdogMinutes = %d, want 15", cfg.WatchdogMinutes)
	}
	if len(cfg.DisabledTools) != 1 || cfg.DisabledTools[0] != "site_delete" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for invalid config file")
	}
}

func TestMergeStringSlice(t *testing.T) {
	got := mergeStringSlice([]string{"a", "b"}, []string{"b", "", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if mergeStringSlice(nil, nil) != nil {
		t.Error("empty merge should be nil")
	}
}
