package config

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expected() *Config {
	want := Default()
	want.Window.Title = "Haru"
	want.Window.Width = 800
	want.Window.Height = 600
	want.Renderer.Backend = BackendVulkan
	want.Renderer.ClearColor = [4]float32{0.1, 0.2, 0.3, 1}
	want.Renderer.MaskAtlasSize = 2048
	want.Renderer.Validation = true
	want.Model.Path = "models/haru/haru.model3.json"
	want.Animation.RandomBlink = false
	want.Animation.Physics = false
	want.Assets.Root = "assets"
	want.Assets.Workers = 4
	return want
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"viewer.toml", "viewer.yaml"} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			if diff := cmp.Diff(expected(), cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	for _, f := range []Format{FormatTOML, FormatYAML} {
		cfg, err := Parse(nil, f)
		require.NoError(t, err, f.String())
		assert.Equal(t, Default(), cfg)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("[window]\ntitel = \"x\"\n"), FormatTOML)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Parse([]byte("window:\n  titel: x\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"backend", func(c *Config) { c.Renderer.Backend = "metal" }},
		{"clear color", func(c *Config) { c.Renderer.ClearColor[3] = 2 }},
		{"atlas not power of two", func(c *Config) { c.Renderer.MaskAtlasSize = 1000 }},
		{"atlas too small", func(c *Config) { c.Renderer.MaskAtlasSize = 128 }},
		{"blink interval", func(c *Config) { c.Animation.BlinkInterval = -1 }},
		{"hud font size", func(c *Config) { c.HUD.FontSize = 0 }},
		{"workers", func(c *Config) { c.Assets.Workers = 0 }},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := Default()
	cfg.Window.Width = 0
	cfg.Assets.Workers = 0
	err := cfg.Validate()
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "assets.workers")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.toml", "out.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, expected().Save(path))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(expected(), cfg))
	}
	assert.ErrorIs(t, Default().Save(filepath.Join(dir, "out.ini")), ErrInvalidConfig)
}

func TestApplyLogging(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "debug"
	assert.NoError(t, cfg.ApplyLogging())
	cfg.Log.Level = "info"
	assert.NoError(t, cfg.ApplyLogging())
}
