package config

import "github.com/forPelevin/vid2article/internal/ports/adapters/openrouter"

const (
	defaultConfigPath     = "~/.config/vid2article/config.toml"
	projectConfigName     = "vid2article.toml"
	defaultModel          = "google/gemini-2.5-flash"
	defaultLLMTimeout     = 300
	defaultFFmpegPath     = "ffmpeg"
	defaultFFprobePath    = "ffprobe"
	defaultJPEGQuality    = 3
	defaultOutDir         = "out"
	defaultCacheDir       = ".cache"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultTimeoutMinutes = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		LLM: LLM{
			Model:          defaultModel,
			BaseURL:        openrouter.DefaultBaseURL,
			TimeoutSeconds: defaultLLMTimeout,
		},
		FFmpeg: FFmpeg{
			FFmpegPath:  defaultFFmpegPath,
			FFprobePath: defaultFFprobePath,
			JPEGQuality: defaultJPEGQuality,
		},
		Paths: Paths{
			OutDir:   defaultOutDir,
			CacheDir: defaultCacheDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Run: Run{
			TimeoutMinutes: defaultTimeoutMinutes,
		},
	}
}
