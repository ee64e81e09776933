package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/forPelevin/vid2article/internal/ports"
	"github.com/forPelevin/vid2article/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/vid2article/internal/ports/adapters/openrouter"
	"github.com/forPelevin/vid2article/internal/review"
	"github.com/forPelevin/vid2article/internal/types"
	"github.com/forPelevin/vid2article/internal/usecase"
)

// ArticleFileName is the generated document inside a run directory.
const ArticleFileName = "article.html"

// ErrBusy means another run holds the workspace lock.
var ErrBusy = errors.New("another vid2article run is using this cache directory")

type Config struct {
	OutDir string
	// CacheDir holds the workspace lock and staged video files.
	// If empty, defaults to ".cache".
	CacheDir string

	FFmpegPath  string
	FFprobePath string
	JPEGQuality int
	SettleDelay time.Duration

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string
	RequestTimeout         time.Duration

	Log      *slog.Logger
	Progress func(msg string)

	// AI and Frames replace the default adapters when set.
	AI     ports.ContentAI
	Frames ports.FrameExtractor
}

func (c Config) Validate() error {
	if c.AI == nil && c.OpenRouterAPIKey == "" {
		return errors.New("openrouter api key is required")
	}
	if c.JPEGQuality != 0 && (c.JPEGQuality < 2 || c.JPEGQuality > 31) {
		return fmt.Errorf("jpeg quality must be between 2 and 31")
	}
	return openrouter.CheckEndpoint(
		c.OpenRouterBaseURL,
		c.OpenRouterAllowedHosts,
	)
}

// PrepareResult describes a prepared run directory.
type PrepareResult struct {
	RunID      string
	RunDir     string
	ReviewPath string
	Bundle     types.ReviewBundle
}

// GenerateResult describes a written article.
type GenerateResult struct {
	RunID       string
	ArticlePath string
	Size        int
}

// Prepare runs the preparation step and saves the review bundle under a new
// run directory named after name.
func Prepare(ctx context.Context, cfg Config, in types.RawInputs, name string) (PrepareResult, error) {
	r, err := begin(cfg)
	if err != nil {
		return PrepareResult{}, err
	}
	defer r.close()
	return r.prepare(ctx, in, name)
}

// Generate loads an (edited) review file and writes the article next to it.
func Generate(ctx context.Context, cfg Config, reviewPath string) (GenerateResult, error) {
	r, err := begin(cfg)
	if err != nil {
		return GenerateResult{}, err
	}
	defer r.close()

	b, err := review.Load(reviewPath)
	if err != nil {
		return GenerateResult{}, err
	}
	r.log.Info("review loaded", "path", reviewPath, "inline_images", len(b.InlineImages), "title_image", b.TitleImage != nil)
	return r.generate(ctx, b, filepath.Dir(reviewPath))
}

// Run prepares and generates in one go. The review bundle is still written so
// the article can be regenerated after edits.
func Run(ctx context.Context, cfg Config, in types.RawInputs, name string) (PrepareResult, GenerateResult, error) {
	r, err := begin(cfg)
	if err != nil {
		return PrepareResult{}, GenerateResult{}, err
	}
	defer r.close()

	pr, err := r.prepare(ctx, in, name)
	if err != nil {
		return PrepareResult{}, GenerateResult{}, err
	}
	gr, err := r.generate(ctx, pr.Bundle, pr.RunDir)
	if err != nil {
		return pr, GenerateResult{}, err
	}
	return pr, gr, nil
}

type runner struct {
	id     string
	log    *slog.Logger
	uc     usecase.Usecase
	outDir string
	lock   *flock.Flock
}

func begin(cfg Config) (*runner, error) {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()
	log = log.With("run_id", id)

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	tmpDir := filepath.Join(baseCache, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(baseCache, "vid2article.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	log.Debug("workspace locked", "cache", baseCache)

	// adapters
	ai := cfg.AI
	if ai == nil {
		ai = openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL,
			openrouter.WithRequestTimeout(cfg.RequestTimeout),
			openrouter.WithLogger(log),
		)
	}
	frames := cfg.Frames
	if frames == nil {
		frames = ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath,
			ffmpeg.WithJPEGQuality(cfg.JPEGQuality),
			ffmpeg.WithSettleDelay(cfg.SettleDelay),
			ffmpeg.WithTempDir(tmpDir),
			ffmpeg.WithLogger(log),
		)
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	return &runner{
		id:     id,
		log:    log,
		uc:     usecase.New(usecase.Deps{AI: ai, Frames: frames, Log: log, Progress: cfg.Progress}),
		outDir: outDir,
		lock:   lock,
	}, nil
}

func (r *runner) close() {
	if err := r.lock.Unlock(); err != nil {
		r.log.Warn("failed to release workspace lock", "error", err)
	}
}

func (r *runner) prepare(ctx context.Context, in types.RawInputs, name string) (PrepareResult, error) {
	bundle, err := r.uc.Prepare(ctx, in)
	if err != nil {
		return PrepareResult{}, err
	}

	runDir := buildRunOutDir(r.outDir, name, time.Now().UTC())
	path, err := review.Save(runDir, bundle)
	if err != nil {
		return PrepareResult{}, err
	}
	r.log.Info("review written", "path", path)
	return PrepareResult{RunID: r.id, RunDir: runDir, ReviewPath: path, Bundle: bundle}, nil
}

func (r *runner) generate(ctx context.Context, b types.ReviewBundle, dir string) (GenerateResult, error) {
	doc, err := r.uc.Generate(ctx, b)
	if err != nil {
		return GenerateResult{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return GenerateResult{}, err
	}
	path := filepath.Join(dir, ArticleFileName)
	if err := os.WriteFile(path, []byte(doc.HTML), 0o644); err != nil {
		return GenerateResult{}, fmt.Errorf("write article: %w", err)
	}
	r.log.Info("article written", "path", path, "bytes", len(doc.HTML))
	return GenerateResult{RunID: r.id, ArticlePath: path, Size: len(doc.HTML)}, nil
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "article"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.ContentAI = (*openrouter.Adapter)(nil)
var _ ports.FrameExtractor = (*ffmpeg.Adapter)(nil)
