package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ElementHardCap != 1000 {
		t.Errorf("ElementHardCap = %d, want 1000", cfg.ElementHardCap)
	}
	if cfg.OverpassEndpoint == "" {
		t.Error("OverpassEndpoint should have a default")
	}
	if cfg.LetterZoneSimplifyTolerance != 0.001 {
		t.Errorf("LetterZoneSimplifyTolerance = %v, want 0.001", cfg.LetterZoneSimplifyTolerance)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"element_hard_cap": 500, "fetch_timeout_seconds": 30}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ElementHardCap != 500 {
		t.Errorf("ElementHardCap = %d, want 500", cfg.ElementHardCap)
	}
	if cfg.FetchTimeoutSeconds != 30 {
		t.Errorf("FetchTimeoutSeconds = %d, want 30", cfg.FetchTimeoutSeconds)
	}
	// Untouched fields keep defaults
	if cfg.BufferQuadSegments != 8 {
		t.Errorf("BufferQuadSegments = %d, want 8", cfg.BufferQuadSegments)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestMerge_ScalarsAndArrays(t *testing.T) {
	base := DefaultConfig()
	base.DisabledTools = []string{"mask_apply"}

	overlay := &Config{
		OverpassEndpoint: "http://localhost:8080/api/interpreter",
		DisabledTools:    []string{"cache_stats", "mask_apply"},
	}

	got := Merge(base, overlay)

	if got.OverpassEndpoint != "http://localhost:8080/api/interpreter" {
		t.Errorf("OverpassEndpoint = %q, overlay should win", got.OverpassEndpoint)
	}
	if got.ElementHardCap != base.ElementHardCap {
		t.Errorf("ElementHardCap = %d, base should survive", got.ElementHardCap)
	}
	if len(got.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want deduplicated merge of 2", got.DisabledTools)
	}
}

func TestMerge_EmptyOverlay(t *testing.T) {
	got := Merge(DefaultConfig(), &Config{})

	if got.ElementHardCap != 1000 {
		t.Errorf("ElementHardCap = %d, want default 1000", got.ElementHardCap)
	}
	if got.RailBufferMeters != 30 {
		t.Errorf("RailBufferMeters = %v, want default 30", got.RailBufferMeters)
	}
}
