package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/forPelevin/vid2article/internal/config"
	"github.com/forPelevin/vid2article/internal/logging"
	"github.com/forPelevin/vid2article/internal/pipeline"
)

type app struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer
}

type session struct {
	cfg     *config.Config
	log     *slog.Logger
	ctx     context.Context
	release func()
}

func (a *app) start() (*session, error) {
	cfg, _, _, err := config.Load(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: a.stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cancel := func() {}
	if d := cfg.RunTimeout(); d > 0 {
		ctx, cancel = context.WithTimeout(ctx, d)
	}
	return &session{
		cfg: cfg,
		log: log,
		ctx: ctx,
		release: func() {
			cancel()
			stop()
		},
	}, nil
}

func (a *app) pipelineConfig(s *session, outDir string) pipeline.Config {
	if outDir == "" {
		outDir = s.cfg.Paths.OutDir
	}
	return pipeline.Config{
		OutDir:   outDir,
		CacheDir: s.cfg.Paths.CacheDir,

		FFmpegPath:  s.cfg.FFmpeg.FFmpegPath,
		FFprobePath: s.cfg.FFmpeg.FFprobePath,
		JPEGQuality: s.cfg.FFmpeg.JPEGQuality,
		SettleDelay: s.cfg.SettleDelay(),

		OpenRouterAPIKey:       s.cfg.LLM.APIKey,
		OpenRouterModel:        s.cfg.LLM.Model,
		OpenRouterBaseURL:      s.cfg.LLM.BaseURL,
		OpenRouterAllowedHosts: s.cfg.LLM.AllowedHosts,
		RequestTimeout:         s.cfg.RequestTimeout(),

		Log: s.log,
		Progress: func(msg string) {
			fmt.Fprintln(a.stderr, msg)
		},
	}
}

// fail logs the full detail and returns an error that prints as the user message.
func (s *session) fail(op string, err error) error {
	s.log.Error(op+" failed", "error", err)
	return &stageError{err: err}
}
