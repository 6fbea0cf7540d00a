// Package config holds the viewer settings. Files are TOML or YAML, picked
// by extension, and always decode on top of Default so a partial file only
// overrides what it names.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/cubism/engine/core"
)

var ErrInvalidConfig = errors.New("invalid config")

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

const (
	BackendOpenGL = "opengl"
	BackendVulkan = "vulkan"
)

type WindowConfig struct {
	Title  string `toml:"title" yaml:"title"`
	X      int32  `toml:"x" yaml:"x"`
	Y      int32  `toml:"y" yaml:"y"`
	Width  uint32 `toml:"width" yaml:"width"`
	Height uint32 `toml:"height" yaml:"height"`
	VSync  bool   `toml:"vsync" yaml:"vsync"`
}

type RendererConfig struct {
	Backend       string     `toml:"backend" yaml:"backend"`
	ClearColor    [4]float32 `toml:"clear_color" yaml:"clear_color"`
	MaskAtlasSize uint32     `toml:"mask_atlas_size" yaml:"mask_atlas_size"`
	Validation    bool       `toml:"validation" yaml:"validation"`
}

type ModelConfig struct {
	Path string `toml:"path" yaml:"path"`
}

type AnimationConfig struct {
	IdleGroup     string  `toml:"idle_group" yaml:"idle_group"`
	EyeBlink      bool    `toml:"eye_blink" yaml:"eye_blink"`
	RandomBlink   bool    `toml:"random_blink" yaml:"random_blink"`
	BlinkInterval float32 `toml:"blink_interval" yaml:"blink_interval"`
	Breath        bool    `toml:"breath" yaml:"breath"`
	Physics       bool    `toml:"physics" yaml:"physics"`
	LookAt        bool    `toml:"look_at" yaml:"look_at"`
	LipSync       bool    `toml:"lip_sync" yaml:"lip_sync"`
}

type AssetsConfig struct {
	Root      string `toml:"root" yaml:"root"`
	HotReload bool   `toml:"hot_reload" yaml:"hot_reload"`
	Workers   int    `toml:"workers" yaml:"workers"`
}

type LogConfig struct {
	Level     string `toml:"level" yaml:"level"`
	Caller    bool   `toml:"caller" yaml:"caller"`
	Timestamp bool   `toml:"timestamp" yaml:"timestamp"`
}

type HUDConfig struct {
	Enabled  bool    `toml:"enabled" yaml:"enabled"`
	FontPath string  `toml:"font_path" yaml:"font_path"`
	// FontSize in points, used for ttf and otf fonts only.
	FontSize float64 `toml:"font_size" yaml:"font_size"`
}

type Config struct {
	Window    WindowConfig    `toml:"window" yaml:"window"`
	Renderer  RendererConfig  `toml:"renderer" yaml:"renderer"`
	Model     ModelConfig     `toml:"model" yaml:"model"`
	Animation AnimationConfig `toml:"animation" yaml:"animation"`
	Assets    AssetsConfig    `toml:"assets" yaml:"assets"`
	Log       LogConfig       `toml:"log" yaml:"log"`
	HUD       HUDConfig       `toml:"hud" yaml:"hud"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Cubism Viewer",
			X:      100,
			Y:      100,
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Renderer: RendererConfig{
			Backend:       BackendOpenGL,
			ClearColor:    [4]float32{0, 0, 0, 1},
			MaskAtlasSize: 1024,
		},
		Animation: AnimationConfig{
			IdleGroup:     "Idle",
			EyeBlink:      true,
			RandomBlink:   true,
			BlinkInterval: 4,
			Breath:        true,
			Physics:       true,
			LookAt:        true,
			LipSync:       true,
		},
		Assets: AssetsConfig{
			HotReload: true,
			Workers:   2,
		},
		Log: LogConfig{
			Level:     "info",
			Caller:    true,
			Timestamp: true,
		},
		HUD: HUDConfig{
			Enabled:  true,
			FontSize: 14,
		},
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: unsupported config extension %q", ErrInvalidConfig, filepath.Ext(path))
	}
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

/**
 * @brief Decodes data on top of the defaults and validates the result.
 * Unknown keys are an error so typos do not go unnoticed.
 */
func Parse(data []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty document decodes to io.EOF and keeps the defaults
		if err := dec.Decode(cfg); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %d", ErrInvalidConfig, format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the config in the given format.
func (c *Config) Marshal(format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(c)
	}
	return toml.Marshal(c)
}

// Save writes the config to path in the format of its extension.
func (c *Config) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := c.Marshal(format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports every problem at once, each wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidConfig}, args...)...))
	}

	if c.Window.Width == 0 || c.Window.Height == 0 {
		add("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	switch c.Renderer.Backend {
	case BackendOpenGL, BackendVulkan:
	default:
		add("renderer.backend %q must be %s or %s", c.Renderer.Backend, BackendOpenGL, BackendVulkan)
	}
	for i, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			add("renderer.clear_color[%d] = %g is outside [0, 1]", i, v)
		}
	}
	if s := c.Renderer.MaskAtlasSize; s < 256 || s > 8192 || s&(s-1) != 0 {
		add("renderer.mask_atlas_size %d must be a power of two in [256, 8192]", s)
	}
	if c.Animation.BlinkInterval < 0 {
		add("animation.blink_interval %g must not be negative", c.Animation.BlinkInterval)
	}
	if c.HUD.FontSize <= 0 {
		add("hud.font_size %g must be positive", c.HUD.FontSize)
	}
	if c.Assets.Workers < 1 {
		add("assets.workers %d must be at least 1", c.Assets.Workers)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		add("log.level %q is unknown", c.Log.Level)
	}
	return errors.Join(errs...)
}

// ApplyLogging pushes the log section into the process logger.
func (c *Config) ApplyLogging() error {
	if err := core.SetLogLevel(c.Log.Level); err != nil {
		return err
	}
	core.SetLogReportCaller(c.Log.Caller)
	core.SetLogReportTimestamp(c.Log.Timestamp)
	return nil
}
