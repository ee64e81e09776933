package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/forPelevin/vid2article/internal/errs"
	"github.com/forPelevin/vid2article/internal/types"
)

const defaultJPEGQuality = 3

type Adapter struct {
	ffmpeg  string
	ffprobe string

	quality int
	settle  time.Duration
	tmpDir  string
	log     *slog.Logger

	// one decoding surface per adapter; extractions never overlap
	mu sync.Mutex
}

type Option func(*Adapter)

// WithJPEGQuality sets the mjpeg qscale (2 best .. 31 worst).
func WithJPEGQuality(q int) Option {
	return func(a *Adapter) {
		if q >= 2 && q <= 31 {
			a.quality = q
		}
	}
}

// WithSettleDelay waits d between captures.
func WithSettleDelay(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.settle = d
		}
	}
}

// WithTempDir sets where the video is staged for decoding.
func WithTempDir(dir string) Option {
	return func(a *Adapter) { a.tmpDir = dir }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

func New(ffmpegPath, ffprobePath string, opts ...Option) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	a := &Adapter{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		quality: defaultJPEGQuality,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("component", "ffmpeg")
	return a
}

// videoInfo carries display dimensions: rotation is already applied.
type videoInfo struct {
	Width     int
	Height    int
	Rotation  int
	FrameRate float64
	Duration  float64
}

// fallbackFrameStep is used when the stream reports no usable frame rate.
const fallbackFrameStep = 0.1

// ExtractFrames captures one JPEG per timestamp, strictly in order.
// Any failure aborts the whole extraction.
func (a *Adapter) ExtractFrames(ctx context.Context, video types.Media, timestamps []float64) ([]types.Media, error) {
	if len(timestamps) == 0 {
		return []types.Media{}, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	path, cleanup, err := a.stage(video)
	if err != nil {
		return nil, &errs.PlaybackError{Op: "load", Err: err}
	}
	defer cleanup()

	info, err := a.inspect(ctx, path)
	if err != nil {
		return nil, &errs.PlaybackError{Op: "load", Err: err}
	}
	a.log.Debug("video loaded", "width", info.Width, "height", info.Height, "rotation", info.Rotation,
		"fps", info.FrameRate, "duration", info.Duration, "frames", len(timestamps))

	out := make([]types.Media, 0, len(timestamps))
	for i, ts := range timestamps {
		if i > 0 && a.settle > 0 {
			if err := sleepCtx(ctx, a.settle); err != nil {
				return nil, &errs.PlaybackError{Op: "capture", Timestamp: ts, Err: err}
			}
		}
		target := seekTarget(ts, info)
		if target != ts {
			a.log.Debug("timestamp clamped", "requested", ts, "target", target)
		}

		frame, err := a.capture(ctx, path, target)
		if err != nil {
			return nil, &errs.PlaybackError{Op: "capture", Timestamp: ts, Err: err}
		}
		out = append(out, types.Media{
			Name:     fmt.Sprintf("frame-%02d.jpg", i),
			MIMEType: "image/jpeg",
			Data:     frame,
		})
	}
	return out, nil
}

func (a *Adapter) stage(video types.Media) (string, func(), error) {
	if len(video.Data) == 0 {
		return "", func() {}, errors.New("empty video")
	}
	ext := filepath.Ext(video.Name)
	if ext == "" {
		ext = ".bin"
	}
	f, err := os.CreateTemp(a.tmpDir, "vid2article-*"+ext)
	if err != nil {
		return "", func() {}, fmt.Errorf("stage video: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }
	if _, err := f.Write(video.Data); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("stage video: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("stage video: %w", err)
	}
	return f.Name(), cleanup, nil
}

func (a *Adapter) inspect(ctx context.Context, path string) (videoInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_streams",
		"-show_format",
		"-of", "json",
		path,
	)
	b, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return videoInfo{}, fmt.Errorf("ffprobe: %w\n%s", err, string(ee.Stderr))
		}
		return videoInfo{}, fmt.Errorf("ffprobe: %w", err)
	}
	return parseVideoInfo(b)
}

func parseVideoInfo(b []byte) (videoInfo, error) {
	var raw struct {
		Streams []struct {
			Width        int    `json:"width"`
			Height       int    `json:"height"`
			AvgFrameRate string `json:"avg_frame_rate"`
			Tags         struct {
				Rotate string `json:"rotate"`
			} `json:"tags"`
			SideData []struct {
				Rotation *float64 `json:"rotation"`
			} `json:"side_data_list"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return videoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(raw.Streams) == 0 || raw.Streams[0].Width <= 0 || raw.Streams[0].Height <= 0 {
		return videoInfo{}, errors.New("no video stream")
	}
	st := raw.Streams[0]
	res := videoInfo{Width: st.Width, Height: st.Height, FrameRate: parseFrameRate(st.AvgFrameRate)}

	// Display matrix side data wins over the legacy rotate tag.
	if r, err := strconv.Atoi(strings.TrimSpace(st.Tags.Rotate)); err == nil {
		res.Rotation = r
	}
	for _, sd := range st.SideData {
		if sd.Rotation != nil {
			res.Rotation = int(math.Round(*sd.Rotation))
			break
		}
	}
	res.Rotation = ((res.Rotation % 360) + 360) % 360
	if res.Rotation == 90 || res.Rotation == 270 {
		res.Width, res.Height = res.Height, res.Width
	}

	if d := strings.TrimSpace(raw.Format.Duration); d != "" {
		sec, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return videoInfo{}, fmt.Errorf("parse duration %q: %w", d, err)
		}
		res.Duration = sec
	}
	return res, nil
}

// capture relies on ffmpeg autorotation, so frames come out at display size.
func (a *Adapter) capture(ctx context.Context, path string, ts float64) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.ffmpeg, frameArgs(path, ts, a.quality)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg capture: %w\n%s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, errors.New("ffmpeg capture: no frame decoded")
	}
	return stdout.Bytes(), nil
}

func frameArgs(path string, ts float64, quality int) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmtSeconds(ts),
		"-i", path,
		"-frames:v", "1",
		"-an",
		"-q:v", strconv.Itoa(quality),
		"-c:v", "mjpeg",
		"-f", "image2pipe",
		"pipe:1",
	}
}

func parseFrameRate(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n <= 0 {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d <= 0 {
		return 0
	}
	return n / d
}

func clampTimestamp(ts float64) float64 {
	if ts < 0 || math.IsNaN(ts) {
		return 0
	}
	return ts
}

// seekTarget keeps ts inside the decodable range. Anything at or past the end
// lands on the last frame instead of an empty decode.
func seekTarget(ts float64, v videoInfo) float64 {
	ts = clampTimestamp(ts)
	if v.Duration <= 0 {
		if math.IsInf(ts, 1) {
			return 0
		}
		return ts
	}
	step := fallbackFrameStep
	if v.FrameRate > 0 {
		step = 1 / v.FrameRate
	}
	last := math.Max(0, v.Duration-step)
	if ts > last {
		return last
	}
	return ts
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
