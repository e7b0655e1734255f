package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// SampleConfig returns the annotated sample configuration file.
func SampleConfig() string { return sampleConfig }

// Storage selects where brew methods are kept.
type Storage struct {
	Backend string `toml:"backend"` // file, sqlite, or memory
	Dir     string `toml:"dir"`
	Key     string `toml:"key"`
}

// Player controls playback timing and cues.
type Player struct {
	TickMillis        int `toml:"tick_millis"`
	AlmostDoneSeconds int `toml:"almost_done_seconds"`
}

// Voice configures spoken brew cues.
type Voice struct {
	Enabled   bool   `toml:"enabled"`
	Voice     string `toml:"voice"`
	CacheDir  string `toml:"cache_dir"`
	DiskCache bool   `toml:"disk_cache"`
	Key       string `toml:"-"`
	Region    string `toml:"-"`
}

// Listen configures hands-free voice commands.
type Listen struct {
	Enabled      bool     `toml:"enabled"`
	WhisperBin   string   `toml:"whisper_bin"`
	WhisperModel string   `toml:"whisper_model"`
	ChunkSeconds int      `toml:"chunk_seconds"`
	WakeWords    []string `toml:"wake_words"`
}

// YouTube configures video import.
type YouTube struct {
	FetchDelayMillis   int `toml:"fetch_delay_millis"`
	ThumbnailSize      int `toml:"thumbnail_size"`
	HTTPTimeoutSeconds int `toml:"http_timeout_seconds"`
}

// LLM configures optional step drafting for imported videos.
type LLM struct {
	Enabled        bool   `toml:"enabled"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Endpoint       string `toml:"-"`
	APIKey         string `toml:"-"`
}

// Logging configures log output.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // path, or "stderr"
}

// Config encapsulates every coffeepad setting.
type Config struct {
	Storage Storage `toml:"storage"`
	Player  Player  `toml:"player"`
	Voice   Voice   `toml:"voice"`
	Listen  Listen  `toml:"listen"`
	YouTube YouTube `toml:"youtube"`
	LLM     LLM     `toml:"llm"`
	Logging Logging `toml:"logging"`
}

// TickInterval is the real time between simulated playback seconds.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Player.TickMillis) * time.Millisecond
}

// FetchDelay is the simulated video lookup latency.
func (c *Config) FetchDelay() time.Duration {
	return time.Duration(c.YouTube.FetchDelayMillis) * time.Millisecond
}

// HTTPTimeout bounds thumbnail downloads.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.YouTube.HTTPTimeoutSeconds) * time.Second
}

// LLMTimeout bounds step drafting requests.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/coffeepad/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults apply. It returns the resolved path and whether
// the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// WriteSample writes the sample config to path, refusing to overwrite.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config %s already exists", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML (secrets excluded).
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("coffeepad.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
