package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAzureSpeechKey)); v != "" {
		c.Voice.Key = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAzureSpeechRegion)); v != "" {
		c.Voice.Region = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLLMKey)); v != "" {
		c.LLM.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLLMEndpoint)); v != "" {
		c.LLM.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) normalize() error {
	if err := c.normalizeStorage(); err != nil {
		return err
	}
	if err := c.normalizeVoice(); err != nil {
		return err
	}
	if err := c.normalizeListen(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeStorage() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if strings.TrimSpace(c.Storage.Dir) == "" {
		c.Storage.Dir = defaultDataDir
	}
	var err error
	if c.Storage.Dir, err = expandPath(c.Storage.Dir); err != nil {
		return fmt.Errorf("storage.dir: %w", err)
	}
	c.Storage.Key = strings.TrimSpace(c.Storage.Key)
	if c.Storage.Key == "" {
		c.Storage.Key = "brewMethods"
	}
	return nil
}

func (c *Config) normalizeVoice() error {
	if strings.TrimSpace(c.Voice.CacheDir) == "" {
		c.Voice.CacheDir = defaultCacheDir
	}
	var err error
	if c.Voice.CacheDir, err = expandPath(c.Voice.CacheDir); err != nil {
		return fmt.Errorf("voice.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeListen() error {
	var err error
	if c.Listen.WhisperModel, err = expandPath(c.Listen.WhisperModel); err != nil {
		return fmt.Errorf("listen.whisper_model: %w", err)
	}
	words := c.Listen.WakeWords[:0]
	for _, w := range c.Listen.WakeWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	c.Listen.WakeWords = words
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	file := strings.TrimSpace(c.Logging.File)
	switch file {
	case "", "stderr", "-":
		c.Logging.File = "stderr"
		return nil
	}
	var err error
	if c.Logging.File, err = expandPath(file); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
