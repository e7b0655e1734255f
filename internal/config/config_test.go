package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/coffeepad/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no config file in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "coffeepad", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Storage.Dir != filepath.Join(tempHome, ".local", "share", "coffeepad") {
		t.Fatalf("unexpected storage dir %q", cfg.Storage.Dir)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.Key != "brewMethods" {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.TickInterval().Seconds() != 1 {
		t.Fatalf("unexpected tick interval %s", cfg.TickInterval())
	}
	if cfg.YouTube.ThumbnailSize != 300 || cfg.FetchDelay().Seconds() != 2 {
		t.Fatalf("unexpected youtube defaults %+v", cfg.YouTube)
	}
	if cfg.Voice.Enabled || cfg.Listen.Enabled || cfg.LLM.Enabled {
		t.Fatal("optional features should be off by default")
	}
}

func TestLoadFileOverridesAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAzureSpeechKey, "k")
	t.Setenv(config.EnvAzureSpeechRegion, "westeurope")
	t.Setenv(config.EnvLogLevel, "VERBOSE")

	dir := t.TempDir()
	path := filepath.Join(dir, "coffeepad.toml")
	content := `
[storage]
backend = "SQLite"
dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"

[player]
tick_millis = 50

[voice]
enabled = true

[listen]
wake_words = [" Barista ", ""]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	if cfg.TickInterval().Milliseconds() != 50 {
		t.Errorf("tick = %s", cfg.TickInterval())
	}
	if cfg.Voice.Key != "k" || cfg.Voice.Region != "westeurope" {
		t.Errorf("voice credentials not read from env: %+v", cfg.Voice)
	}
	if cfg.Logging.Level != "verbose" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
	if len(cfg.Listen.WakeWords) != 1 || cfg.Listen.WakeWords[0] != "barista" {
		t.Errorf("wake words = %v", cfg.Listen.WakeWords)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"backend", func(c *config.Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"tick", func(c *config.Config) { c.Player.TickMillis = 0 }, "tick_millis"},
		{"voice creds", func(c *config.Config) { c.Voice.Enabled = true }, "AZURE_SPEECH_KEY"},
		{"chunk", func(c *config.Config) { c.Listen.Enabled = true; c.Listen.ChunkSeconds = 0 }, "chunk_seconds"},
		{"thumb", func(c *config.Config) { c.YouTube.ThumbnailSize = -1 }, "thumbnail_size"},
		{"level", func(c *config.Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	def := config.Default()
	if cfg.Storage.Backend != def.Storage.Backend || cfg.Player.TickMillis != def.Player.TickMillis {
		t.Errorf("sample config drifted from defaults: %+v", cfg)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Error("expected second write to fail")
	}
}
