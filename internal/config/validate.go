package config

import (
	"errors"
	"fmt"

	"github.com/forPelevin/vid2article/internal/ports/adapters/openrouter"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Run.TimeoutMinutes < 0 {
		return errors.New("run.timeout_minutes must be >= 0")
	}
	return nil
}

// RequireAPIKey reports a missing key; only commands that call the model need one.
func (c *Config) RequireAPIKey() error {
	if c.LLM.APIKey != "" {
		return nil
	}
	path, err := DefaultConfigPath()
	if err != nil {
		path = defaultConfigPath
	}
	return fmt.Errorf("llm.api_key is required. Set OPENROUTER_API_KEY (a .env file works) or edit %s (create with 'vid2article config init')", path)
}

func (c *Config) validateLLM() error {
	if c.LLM.TimeoutSeconds < 0 {
		return errors.New("llm.timeout_seconds must be >= 0")
	}
	return openrouter.CheckEndpoint(c.LLM.BaseURL, c.LLM.AllowedHosts)
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.JPEGQuality < 2 || c.FFmpeg.JPEGQuality > 31 {
		return fmt.Errorf("ffmpeg.jpeg_quality must be between 2 and 31, got %d", c.FFmpeg.JPEGQuality)
	}
	if c.FFmpeg.SettleMS < 0 || c.FFmpeg.SettleMS > 5000 {
		return fmt.Errorf("ffmpeg.settle_ms must be between 0 and 5000, got %d", c.FFmpeg.SettleMS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
