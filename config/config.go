package config

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// KeyBinding maps a single key token to the stat it triggers.
type KeyBinding struct {
	Key  string `json:"key" yaml:"key"`
	Stat string `json:"stat" yaml:"stat"`
}

// Config holds runtime configuration for detection, scoring and the overlay.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug" yaml:"debug"`

	// Template library and output locations
	TemplatesDir   string   `json:"templates_dir" yaml:"templates_dir"`
	DebugDir       string   `json:"debug_dir" yaml:"debug_dir"`
	ExtraTemplates []string `json:"extra_templates" yaml:"extra_templates"`
	// Extra templates whose name starts with this prefix are only searched in the top half.
	RestrictedPrefix string `json:"restricted_prefix" yaml:"restricted_prefix"`
	Snapshots        bool   `json:"snapshots" yaml:"snapshots"`
	HistoryPath      string `json:"history_path" yaml:"history_path"`

	// Matching parameters
	Threshold       float64 `json:"threshold" yaml:"threshold"`
	DownscaleFactor float64 `json:"downscale_factor" yaml:"downscale_factor"`
	// Suppression is "score" (highest score wins a cluster) or "raster" (row/column order).
	Suppression string `json:"suppression" yaml:"suppression"`
	Workers     int    `json:"workers" yaml:"workers"`

	// Optional capture rectangle in screen pixels; zero width or height captures the full screen.
	CaptureX int `json:"capture_x" yaml:"capture_x"`
	CaptureY int `json:"capture_y" yaml:"capture_y"`
	CaptureW int `json:"capture_w" yaml:"capture_w"`
	CaptureH int `json:"capture_h" yaml:"capture_h"`

	// Input surface
	Keys     []KeyBinding `json:"keys" yaml:"keys"`
	StopKey  string       `json:"stop_key" yaml:"stop_key"`
	ResetKey string       `json:"reset_key" yaml:"reset_key"`
	// When set, stat and reset keys are ignored unless the foreground window title contains this text.
	FocusWindow string `json:"focus_window" yaml:"focus_window"`

	// Loop timing in milliseconds
	PollIntervalMs   int `json:"poll_interval_ms" yaml:"poll_interval_ms"`
	DetectDebounceMs int `json:"detect_debounce_ms" yaml:"detect_debounce_ms"`
	ResetDebounceMs  int `json:"reset_debounce_ms" yaml:"reset_debounce_ms"`
	ErrorBackoffMs   int `json:"error_backoff_ms" yaml:"error_backoff_ms"`
	RenderIntervalMs int `json:"render_interval_ms" yaml:"render_interval_ms"`

	// Overlay
	GoodTraining    float64 `json:"good_training" yaml:"good_training"`
	OverlayBg       string  `json:"overlay_bg" yaml:"overlay_bg"`
	OverlayFg       string  `json:"overlay_fg" yaml:"overlay_fg"`
	OverlayAlpha    float64 `json:"overlay_alpha" yaml:"overlay_alpha"`
	OverlayFont     string  `json:"overlay_font" yaml:"overlay_font"`
	OverlayX        int     `json:"overlay_x" yaml:"overlay_x"`
	OverlayY        int     `json:"overlay_y" yaml:"overlay_y"`
	OverlayPadX     int     `json:"overlay_pad_x" yaml:"overlay_pad_x"`
	OverlayPadY     int     `json:"overlay_pad_y" yaml:"overlay_pad_y"`
	OverlayFontSize int     `json:"overlay_font_size" yaml:"overlay_font_size"`
}

// DefaultKeys returns the stat bindings in priority order.
func DefaultKeys() []KeyBinding {
	return []KeyBinding{
		{Key: "g", Stat: "Speed"},
		{Key: "h", Stat: "Stamina"},
		{Key: "j", Stat: "Power"},
		{Key: "k", Stat: "Guts"},
		{Key: "l", Stat: "Wits"},
	}
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		TemplatesDir:     "templates",
		DebugDir:         "debug",
		ExtraTemplates:   []string{"hint.png"},
		RestrictedPrefix: "hint",
		Snapshots:        true,
		HistoryPath:      "",
		Threshold:        0.89,
		DownscaleFactor:  0.5,
		Suppression:      "score",
		Workers:          0,
		Keys:             DefaultKeys(),
		StopKey:          "]",
		ResetKey:         "p",
		FocusWindow:      "",
		PollIntervalMs:   50,
		DetectDebounceMs: 400,
		ResetDebounceMs:  300,
		ErrorBackoffMs:   500,
		RenderIntervalMs: 200,
		GoodTraining:     4.5,
		OverlayBg:        "#3A0968",
		OverlayFg:        "#FFFFFF",
		OverlayAlpha:     0.70,
		OverlayFont:      "Segoe UI",
		OverlayX:         5,
		OverlayY:         5,
		OverlayPadX:      8,
		OverlayPadY:      6,
		OverlayFontSize:  11,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.TemplatesDir == "" {
		c.TemplatesDir = d.TemplatesDir
	}
	if c.DebugDir == "" {
		c.DebugDir = d.DebugDir
	}
	if c.Threshold <= 0 || c.Threshold > 1 {
		c.Threshold = d.Threshold
	}
	if c.DownscaleFactor <= 0 || c.DownscaleFactor > 1 {
		c.DownscaleFactor = d.DownscaleFactor
	}
	switch strings.ToLower(c.Suppression) {
	case "score", "raster":
		c.Suppression = strings.ToLower(c.Suppression)
	default:
		c.Suppression = d.Suppression
	}
	if c.Workers < 0 {
		c.Workers = 0
	}
	if c.CaptureW < 0 || c.CaptureH < 0 {
		c.CaptureW, c.CaptureH = 0, 0
	}
	if len(c.Keys) == 0 {
		c.Keys = DefaultKeys()
	}
	if c.StopKey == "" {
		c.StopKey = d.StopKey
	}
	if c.ResetKey == "" {
		c.ResetKey = d.ResetKey
	}
	if c.PollIntervalMs <= 0 {
		c.PollIntervalMs = d.PollIntervalMs
	}
	if c.DetectDebounceMs < 0 {
		c.DetectDebounceMs = d.DetectDebounceMs
	}
	if c.ResetDebounceMs < 0 {
		c.ResetDebounceMs = d.ResetDebounceMs
	}
	if c.ErrorBackoffMs < 0 {
		c.ErrorBackoffMs = d.ErrorBackoffMs
	}
	if c.RenderIntervalMs <= 0 {
		c.RenderIntervalMs = d.RenderIntervalMs
	}
	if c.GoodTraining <= 0 {
		c.GoodTraining = d.GoodTraining
	}
	if c.OverlayAlpha <= 0 || c.OverlayAlpha > 1 {
		c.OverlayAlpha = d.OverlayAlpha
	}
	if c.OverlayFontSize <= 0 {
		c.OverlayFontSize = d.OverlayFontSize
	}
	return nil
}

// CaptureRegion returns the configured capture rectangle, empty for the full screen.
func (c *Config) CaptureRegion() image.Rectangle {
	if c.CaptureW <= 0 || c.CaptureH <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(c.CaptureX, c.CaptureY, c.CaptureX+c.CaptureW, c.CaptureY+c.CaptureH)
}

// PollInterval is the sleep between input polls when no key is pressed.
func (c *Config) PollInterval() time.Duration { return ms(c.PollIntervalMs) }

// DetectDebounce is the pause after a completed detection cycle.
func (c *Config) DetectDebounce() time.Duration { return ms(c.DetectDebounceMs) }

// ResetDebounce is the pause after the overlay was reset.
func (c *Config) ResetDebounce() time.Duration { return ms(c.ResetDebounceMs) }

// ErrorBackoff is the pause after a failed cycle.
func (c *Config) ErrorBackoff() time.Duration { return ms(c.ErrorBackoffMs) }

// RenderInterval is the overlay redraw period.
func (c *Config) RenderInterval() time.Duration { return ms(c.RenderIntervalMs) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given JSON or YAML file path. If the file does not
// exist it returns DefaultConfig(). On decode error it returns defaults with the error.
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
	if isYAML(path) {
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return DefaultConfig(), err
		}
	} else {
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return DefaultConfig(), err
		}
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path, as YAML when the extension says so and JSON otherwise.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
