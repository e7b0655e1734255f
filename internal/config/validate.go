package config

import (
	"errors"
	"fmt"

	"github.com/hammamikhairi/coffeepad/internal/logger"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validatePlayer(); err != nil {
		return err
	}
	if err := c.validateVoice(); err != nil {
		return err
	}
	if err := c.validateListen(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
		return nil
	default:
		return fmt.Errorf("storage.backend must be file, sqlite, or memory (got %q)", c.Storage.Backend)
	}
}

func (c *Config) validatePlayer() error {
	if c.Player.TickMillis <= 0 {
		return errors.New("player.tick_millis must be positive")
	}
	if c.Player.AlmostDoneSeconds < 0 {
		return errors.New("player.almost_done_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateVoice() error {
	if !c.Voice.Enabled {
		return nil
	}
	if c.Voice.Key == "" || c.Voice.Region == "" {
		return fmt.Errorf("voice is enabled but %s / %s are not set", EnvAzureSpeechKey, EnvAzureSpeechRegion)
	}
	return nil
}

func (c *Config) validateListen() error {
	if !c.Listen.Enabled {
		return nil
	}
	if c.Listen.WhisperBin == "" || c.Listen.WhisperModel == "" {
		return errors.New("listen is enabled but whisper_bin / whisper_model are empty")
	}
	if c.Listen.ChunkSeconds <= 0 {
		return errors.New("listen.chunk_seconds must be positive")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if c.YouTube.FetchDelayMillis < 0 {
		return errors.New("youtube.fetch_delay_millis must not be negative")
	}
	if c.YouTube.ThumbnailSize <= 0 {
		return errors.New("youtube.thumbnail_size must be positive")
	}
	if c.YouTube.HTTPTimeoutSeconds <= 0 {
		return errors.New("youtube.http_timeout_seconds must be positive")
	}
	return nil
}
