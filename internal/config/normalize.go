package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/forPelevin/vid2article/internal/ports/adapters/openrouter"
)

func (c *Config) applyEnv() {
	if v, ok := lookupEnv("OPENROUTER_API_KEY"); ok {
		c.LLM.APIKey = v
	}
	if v, ok := lookupEnv("OPENROUTER_MODEL"); ok {
		c.LLM.Model = v
	}
	if v, ok := lookupEnv("OPENROUTER_BASE_URL"); ok {
		c.LLM.BaseURL = v
	}
	if v, ok := lookupEnv("OPENROUTER_ALLOWED_HOSTS"); ok {
		c.LLM.AllowedHosts = strings.Split(v, ",")
	}
	if v, ok := lookupEnv("VID2ARTICLE_LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
}

// lookupEnv treats a blank variable as unset.
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (c *Config) normalize() error {
	c.normalizeLLM()
	c.normalizeFFmpeg()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	if c.Run.TimeoutMinutes == 0 {
		c.Run.TimeoutMinutes = defaultTimeoutMinutes
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel
	}
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = openrouter.DefaultBaseURL
	}
	hosts := make([]string, 0, len(c.LLM.AllowedHosts))
	for _, h := range c.LLM.AllowedHosts {
		if h = openrouter.CanonicalHost(h); h != "" && !slices.Contains(hosts, h) {
			hosts = append(hosts, h)
		}
	}
	if len(hosts) == 0 {
		hosts = openrouter.PublicHosts()
	}
	c.LLM.AllowedHosts = hosts
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeout
	}
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegPath = strings.TrimSpace(c.FFmpeg.FFmpegPath)
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = defaultFFmpegPath
	}
	c.FFmpeg.FFprobePath = strings.TrimSpace(c.FFmpeg.FFprobePath)
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = defaultFFprobePath
	}
	if c.FFmpeg.JPEGQuality == 0 {
		c.FFmpeg.JPEGQuality = defaultJPEGQuality
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.OutDir) == "" {
		c.Paths.OutDir = defaultOutDir
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	var err error
	if c.Paths.OutDir, err = expandPath(c.Paths.OutDir); err != nil {
		return fmt.Errorf("paths.out_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
