package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/soocke/roi-annotator/domain/roi"
)

const appDir = "roi-annotator"

// Config holds runtime configuration for the editor and app behaviour.
// Fields may be loaded from a JSON file and overridden by environment
// variables and command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Editor canvas
	CanvasWidth    int     `json:"canvas_width"`
	CanvasHeight   int     `json:"canvas_height"`
	CloseThreshold float64 `json:"close_threshold"`
	HistoryLimit   int     `json:"history_limit"`

	// Freehand brush size control
	BrushWidth float64 `json:"brush_width"`
	BrushMin   float64 `json:"brush_min"`
	BrushMax   float64 `json:"brush_max"`

	// ROI tones
	RoiFill        string  `json:"roi_fill"`
	RoiStroke      string  `json:"roi_stroke"`
	RoiStrokeWidth float64 `json:"roi_stroke_width"`
	FreehandFill   string  `json:"freehand_fill"`
	FreehandStroke string  `json:"freehand_stroke"`

	// Storage and image sources
	StorePath      string `json:"store_path"`
	ImageCacheSize int    `json:"image_cache_size"`
	LastImage      string `json:"last_image"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:          false,
		CanvasWidth:    960,
		CanvasHeight:   640,
		CloseThreshold: 10,
		HistoryLimit:   100,
		BrushWidth:     3,
		BrushMin:       1,
		BrushMax:       50,
		RoiFill:        "rgba(255, 0, 0, 0.3)",
		RoiStroke:      "#ff0000",
		RoiStrokeWidth: 1.5,
		FreehandFill:   "rgba(255, 0, 0, 0.2)",
		FreehandStroke: "rgba(255, 0, 0, 0.7)",
		StorePath:      "",
		ImageCacheSize: 8,
	}
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appDir, "config.json")
}

// DefaultStorePath is the per-user annotation database location.
func DefaultStorePath() string {
	return filepath.Join(xdg.DataHome, appDir, "annotations.db")
}

// Validate clamps/normalizes values to safe ranges. Unparseable colours
// fall back to their defaults.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.CanvasWidth < 100 {
		c.CanvasWidth = d.CanvasWidth
	}
	if c.CanvasHeight < 100 {
		c.CanvasHeight = d.CanvasHeight
	}
	if c.CloseThreshold <= 0 {
		c.CloseThreshold = d.CloseThreshold
	}
	if c.HistoryLimit < 0 {
		c.HistoryLimit = d.HistoryLimit
	}
	if c.BrushMin <= 0 {
		c.BrushMin = d.BrushMin
	}
	if c.BrushMax < c.BrushMin {
		c.BrushMax = c.BrushMin
	}
	if c.BrushWidth < c.BrushMin || c.BrushWidth > c.BrushMax {
		c.BrushWidth = min(max(d.BrushWidth, c.BrushMin), c.BrushMax)
	}
	if c.RoiStrokeWidth <= 0 {
		c.RoiStrokeWidth = d.RoiStrokeWidth
	}
	var bad []string
	for _, f := range []struct {
		name string
		v    *string
		def  string
	}{
		{"roi_fill", &c.RoiFill, d.RoiFill},
		{"roi_stroke", &c.RoiStroke, d.RoiStroke},
		{"freehand_fill", &c.FreehandFill, d.FreehandFill},
		{"freehand_stroke", &c.FreehandStroke, d.FreehandStroke},
	} {
		if _, err := roi.ParseColor(*f.v); err != nil {
			bad = append(bad, f.name)
			*f.v = f.def
		}
	}
	if c.ImageCacheSize < 1 {
		c.ImageCacheSize = d.ImageCacheSize
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid colours reset to defaults: %v", bad)
	}
	return nil
}

// ResolvedStorePath returns StorePath or the default location.
func (c *Config) ResolvedStorePath() string {
	if c.StorePath != "" {
		return c.StorePath
	}
	return DefaultStorePath()
}

// SessionOptions maps the config onto editor options.
func (c *Config) SessionOptions() roi.Options {
	o := roi.DefaultOptions()
	o.CloseThreshold = c.CloseThreshold
	o.BrushWidth = c.BrushWidth
	o.HistoryLimit = c.HistoryLimit
	o.RoiStyle = roi.Style{Fill: c.RoiFill, Stroke: c.RoiStroke, StrokeWidth: c.RoiStrokeWidth}
	o.FreehandStyle = roi.Style{Fill: c.FreehandFill, Stroke: c.FreehandStroke}
	return o
}

// ApplyEnv loads envFile (when present) into the process environment and
// applies ROI_* overrides. Variables already set in the environment win
// over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("env file %s: %w", envFile, err)
		}
	}
	if v := os.Getenv("ROI_STORE_PATH"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("ROI_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ROI_DEBUG %q", v)
		}
		c.Debug = b
	}
	if v := os.Getenv("ROI_HISTORY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ROI_HISTORY_LIMIT %q", v)
		}
		c.HistoryLimit = n
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
