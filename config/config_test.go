package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.Debug = true
	cfg.BrushWidth = 7
	cfg.LastImage = "~/scans/a.png"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("round trip: got %+v want %+v", got, cfg)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_ = os.WriteFile(path, []byte("{not json"), 0o644)
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if cfg == nil || cfg.CloseThreshold != 10 {
		t.Fatalf("defaults expected alongside the error, got %+v", cfg)
	}
}

func TestValidate_Clamps(t *testing.T) {
	cfg := &Config{BrushMin: 2, BrushMax: 1, BrushWidth: 90, RoiFill: "mauve-ish"}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("bad colour should be reported")
	}
	d := DefaultConfig()
	if cfg.CanvasWidth != d.CanvasWidth || cfg.CloseThreshold != 10 {
		t.Fatalf("zero sizes not defaulted: %+v", cfg)
	}
	if cfg.BrushMax != 2 || cfg.BrushWidth != 2 {
		t.Fatalf("brush range: min=%v max=%v width=%v", cfg.BrushMin, cfg.BrushMax, cfg.BrushWidth)
	}
	if cfg.RoiFill != d.RoiFill || cfg.RoiStroke != d.RoiStroke {
		t.Fatalf("colours not reset: %q %q", cfg.RoiFill, cfg.RoiStroke)
	}
	if DefaultConfig().Validate() != nil {
		t.Fatalf("defaults must validate")
	}
}

func TestSessionOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CloseThreshold = 14
	cfg.RoiStroke = "#00ff00"
	o := cfg.SessionOptions()
	if o.CloseThreshold != 14 || o.RoiStyle.Stroke != "#00ff00" || o.RoiStyle.StrokeWidth != 1.5 {
		t.Fatalf("options = %+v", o)
	}
	if o.FreehandStyle.Stroke != cfg.FreehandStroke || o.BrushWidth != 3 {
		t.Fatalf("freehand options = %+v", o.FreehandStyle)
	}
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	_ = os.WriteFile(envFile, []byte("ROI_STORE_PATH="+filepath.Join(dir, "x.db")+"\nROI_HISTORY_LIMIT=5\n"), 0o644)
	t.Setenv("ROI_STORE_PATH", "")
	t.Setenv("ROI_HISTORY_LIMIT", "")
	t.Setenv("ROI_DEBUG", "true")
	os.Unsetenv("ROI_STORE_PATH")
	os.Unsetenv("ROI_HISTORY_LIMIT")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(envFile); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.StorePath != filepath.Join(dir, "x.db") || cfg.HistoryLimit != 5 || !cfg.Debug {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.ResolvedStorePath() != cfg.StorePath {
		t.Fatalf("resolved store path = %q", cfg.ResolvedStorePath())
	}
}

func TestApplyEnv_MissingFileAndBadValue(t *testing.T) {
	t.Setenv("ROI_DEBUG", "maybe")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatalf("invalid ROI_DEBUG accepted")
	}
}

func TestParseFlags(t *testing.T) {
	t.Setenv("ROI_CONFIG", "/tmp/from-env.json")
	t.Setenv("ROI_IMAGE", "")
	f, err := ParseFlags([]string{"-image", "scan.png", "-debug"})
	if err != nil {
		t.Fatal(err)
	}
	if f.ConfigPath != "/tmp/from-env.json" || f.Image != "scan.png" || !f.Debug || f.EnvFile != ".env" {
		t.Fatalf("flags = %+v", f)
	}
	f, _ = ParseFlags([]string{"-config", "cli.json"})
	if f.ConfigPath != "cli.json" {
		t.Fatalf("CLI should override env: %q", f.ConfigPath)
	}
	if _, err := ParseFlags([]string{"-nope"}); err == nil {
		t.Fatalf("unknown flag accepted")
	}
}
