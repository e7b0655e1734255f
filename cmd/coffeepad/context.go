package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/coffeepad/internal/config"
	"github.com/hammamikhairi/coffeepad/internal/cue"
	"github.com/hammamikhairi/coffeepad/internal/engine"
	"github.com/hammamikhairi/coffeepad/internal/gpt"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/storage"
	"github.com/hammamikhairi/coffeepad/internal/voice"
	"github.com/hammamikhairi/coffeepad/internal/youtube"
)

type globalFlags struct {
	config  string
	verbose bool
	quiet   bool
	logFile string
}

// commandContext lazily builds the shared dependencies a command needs.
// Everything opened here is released by close.
type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	log     *logger.Logger
	logFile *os.File

	kv  storage.KV
	eng *engine.Engine

	speaker *voice.Speaker
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		c.applyFlags(cfg)
		if err := c.setupLogging(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlags(cfg *config.Config) {
	switch {
	case c.flags.quiet:
		cfg.Logging.Level = "off"
	case c.flags.verbose:
		cfg.Logging.Level = "verbose"
	}
	if f := strings.TrimSpace(c.flags.logFile); f != "" {
		cfg.Logging.File = f
	}
}

// setupLogging points both the coffeepad logger and the standard log
// package at the configured destination. Third-party libraries such as
// the whisper transcriber write through the standard logger, and the TUI
// owns the terminal.
func (c *commandContext) setupLogging(cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	var out io.Writer = os.Stderr
	if file := cfg.Logging.File; file != "" && file != "stderr" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", file, err)
		} else {
			out = f
			c.logFile = f
		}
	}

	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	c.log = logger.New(level, out)
	return nil
}

func (c *commandContext) logger() *logger.Logger {
	if c.log == nil {
		return logger.Discard()
	}
	return c.log
}

// engine opens the configured storage backend and returns the engine on
// top of it. Repeated calls return the same engine.
func (c *commandContext) engine(ctx context.Context) (*engine.Engine, error) {
	if c.eng != nil {
		return c.eng, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log := c.logger()

	var kv storage.KV
	switch cfg.Storage.Backend {
	case "sqlite":
		kv, err = storage.OpenSQLiteKV(ctx, filepath.Join(cfg.Storage.Dir, "coffeepad.db"), log)
	case "memory":
		kv = storage.NewMemoryKV(log)
	default:
		kv, err = storage.OpenFileKV(cfg.Storage.Dir, log)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	c.kv = kv

	repo := storage.NewMethodRepository(kv, log, storage.WithKey(cfg.Storage.Key))
	c.eng = engine.New(repo, log,
		engine.WithPlayerOptions(player.WithTickInterval(cfg.TickInterval())),
	)
	return c.eng, nil
}

// voiceSpeaker starts the text-to-speech queue when voice is enabled.
// It returns nil when speech is off or the audio device is unavailable.
func (c *commandContext) voiceSpeaker(ctx context.Context) *voice.Speaker {
	if c.speaker != nil {
		return c.speaker
	}
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Voice.Enabled {
		return nil
	}
	log := c.logger()

	tts := voice.NewAzureClient(cfg.Voice.Key, cfg.Voice.Region, log, voice.WithVoice(cfg.Voice.Voice))
	sink, err := voice.NewPlayer(log)
	if err != nil {
		log.Error("audio player init failed, speech disabled: %v", err)
		return nil
	}
	cache := voice.NewAudioCache(tts.Voice(), cfg.Voice.CacheDir, cfg.Voice.DiskCache, log)
	c.speaker = voice.NewSpeaker(tts, sink, log, voice.WithCache(cache))
	c.speaker.Start(ctx)
	c.speaker.Prefetch(ctx, cue.StaticLines()...)
	log.Info("TTS enabled (voice=%s, region=%s)", tts.Voice(), cfg.Voice.Region)
	return c.speaker
}

// ear builds the hands-free listener, or returns nil when listening is off.
func (c *commandContext) ear(speaker *voice.Speaker) (*voice.Ear, error) {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Listen.Enabled {
		return nil, err
	}
	if _, err := os.Stat(cfg.Listen.WhisperModel); err != nil {
		return nil, fmt.Errorf("whisper model not found at %s", cfg.Listen.WhisperModel)
	}
	tempDir := filepath.Join(os.TempDir(), "coffeepad-stt")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create whisper temp dir: %w", err)
	}
	opts := []voice.EarOption{
		voice.WithChunk(time.Duration(cfg.Listen.ChunkSeconds) * time.Second),
		voice.WithWakeWords(cfg.Listen.WakeWords...),
		voice.WithTempDir(tempDir),
	}
	if speaker != nil {
		opts = append(opts, voice.WithSpeaker(speaker))
	}
	return voice.NewEar(cfg.Listen.WhisperBin, cfg.Listen.WhisperModel, c.logger(), opts...), nil
}

// agent returns the chat-model agent, or nil when it is not configured.
func (c *commandContext) agent() *gpt.Agent {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.LLM.Enabled {
		return nil
	}
	log := c.logger()
	if cfg.LLM.APIKey == "" || cfg.LLM.Endpoint == "" {
		log.Info("AI agent disabled: set %s and %s to enable", config.EnvLLMKey, config.EnvLLMEndpoint)
		return nil
	}
	opts := []gpt.ClientOption{
		gpt.WithModel(cfg.LLM.Model),
		gpt.WithHTTPTimeout(cfg.LLMTimeout()),
	}
	if strings.Contains(cfg.LLM.Endpoint, ".openai.azure.com") {
		opts = append(opts, gpt.WithAzureKeyHeader())
	}
	log.Info("AI agent enabled (model=%s)", cfg.LLM.Model)
	return gpt.NewAgent(gpt.NewClient(cfg.LLM.Endpoint, cfg.LLM.APIKey, log, opts...), log)
}

// creator wires video import on top of the engine.
func (c *commandContext) creator(ctx context.Context) (*youtube.Creator, error) {
	eng, err := c.engine(ctx)
	if err != nil {
		return nil, err
	}
	cfg := c.config
	log := c.logger()

	fetcher := youtube.NewFetcher(log, youtube.WithDelay(cfg.FetchDelay()))
	thumbs := youtube.NewThumbnails(log,
		youtube.WithSize(cfg.YouTube.ThumbnailSize),
		youtube.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}),
	)
	var opts []youtube.CreatorOption
	if a := c.agent(); a != nil {
		opts = append(opts, youtube.WithDrafter(a))
	}
	return youtube.NewCreator(fetcher, thumbs, eng, log, opts...), nil
}

func (c *commandContext) close() {
	if c.kv != nil {
		if err := c.kv.Close(); err != nil {
			c.logger().Warn("close storage: %v", err)
		}
		c.kv = nil
		c.eng = nil
	}
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
