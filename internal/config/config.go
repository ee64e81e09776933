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

// LLM holds the OpenRouter connection settings.
type LLM struct {
	APIKey         string   `toml:"api_key"`
	Model          string   `toml:"model"`
	BaseURL        string   `toml:"base_url"`
	AllowedHosts   []string `toml:"allowed_hosts"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// FFmpeg holds frame extraction settings.
type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
	JPEGQuality int    `toml:"jpeg_quality"`
	SettleMS    int    `toml:"settle_ms"`
}

// Paths holds output and workspace directories.
type Paths struct {
	OutDir   string `toml:"out_dir"`
	CacheDir string `toml:"cache_dir"`
}

// Logging holds log output settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Run holds limits for a single invocation.
type Run struct {
	TimeoutMinutes int `toml:"timeout_minutes"`
}

// Config is the full vid2article configuration.
type Config struct {
	LLM     LLM     `toml:"llm"`
	FFmpeg  FFmpeg  `toml:"ffmpeg"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
	Run     Run     `toml:"run"`
}

// DefaultConfigPath returns the user-level config location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load resolves, parses, normalizes and validates a configuration file.
// A missing file is not an error; defaults and environment apply.
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
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
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

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// RequestTimeout is the per-request deadline for AI calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// RunTimeout bounds a whole prepare or generate invocation.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.Run.TimeoutMinutes) * time.Minute
}

// SettleDelay is the pause between two frame captures.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.FFmpeg.SettleMS) * time.Millisecond
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

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
