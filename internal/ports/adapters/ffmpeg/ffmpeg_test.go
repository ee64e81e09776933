package ffmpeg

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/forPelevin/vid2article/internal/errs"
	"github.com/forPelevin/vid2article/internal/types"
)

func TestFrameArgs(t *testing.T) {
	got := frameArgs("/tmp/v.mp4", 12.3456, 3)
	want := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", "12.346",
		"-i", "/tmp/v.mp4",
		"-frames:v", "1",
		"-an",
		"-q:v", "3",
		"-c:v", "mjpeg",
		"-f", "image2pipe",
		"pipe:1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("frameArgs =\n%v\nwant\n%v", got, want)
	}
}

func TestParseVideoInfo(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    videoInfo
		wantErr bool
	}{
		{
			name: "video with duration",
			in:   `{"streams":[{"width":1920,"height":1080}],"format":{"duration":"15.040000"}}`,
			want: videoInfo{Width: 1920, Height: 1080, Duration: 15.04},
		},
		{
			name: "no duration",
			in:   `{"streams":[{"width":640,"height":360}],"format":{}}`,
			want: videoInfo{Width: 640, Height: 360},
		},
		{
			name: "frame rate",
			in:   `{"streams":[{"width":640,"height":360,"avg_frame_rate":"25/1"}],"format":{"duration":"2"}}`,
			want: videoInfo{Width: 640, Height: 360, FrameRate: 25, Duration: 2},
		},
		{
			name: "unknown frame rate",
			in:   `{"streams":[{"width":640,"height":360,"avg_frame_rate":"0/0"}],"format":{}}`,
			want: videoInfo{Width: 640, Height: 360},
		},
		{
			name: "portrait phone video via display matrix",
			in:   `{"streams":[{"width":1920,"height":1080,"side_data_list":[{"side_data_type":"Display Matrix","rotation":-90}]}],"format":{"duration":"4"}}`,
			want: videoInfo{Width: 1080, Height: 1920, Rotation: 270, Duration: 4},
		},
		{
			name: "legacy rotate tag",
			in:   `{"streams":[{"width":1280,"height":720,"tags":{"rotate":"90"}}],"format":{}}`,
			want: videoInfo{Width: 720, Height: 1280, Rotation: 90},
		},
		{
			name: "upside down keeps dimensions",
			in:   `{"streams":[{"width":1280,"height":720,"side_data_list":[{"rotation":180}]}],"format":{}}`,
			want: videoInfo{Width: 1280, Height: 720, Rotation: 180},
		},
		{name: "no stream", in: `{"streams":[],"format":{"duration":"3"}}`, wantErr: true},
		{name: "bad duration", in: `{"streams":[{"width":1,"height":1}],"format":{"duration":"abc"}}`, wantErr: true},
		{name: "garbage", in: `nope`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVideoInfo([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseVideoInfo = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClampTimestamp(t *testing.T) {
	if clampTimestamp(-2) != 0 || clampTimestamp(4.5) != 4.5 {
		t.Fatalf("unexpected clamp")
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := map[string]float64{
		"30/1":       30,
		"30000/1001": 30000.0 / 1001,
		"24":         24,
		"0/0":        0,
		"":           0,
		"x/2":        0,
	}
	for in, want := range tests {
		if got := parseFrameRate(in); got != want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSeekTarget(t *testing.T) {
	tests := []struct {
		name string
		ts   float64
		info videoInfo
		want float64
	}{
		{"inside", 2, videoInfo{Duration: 5, FrameRate: 25}, 2},
		{"negative", -1, videoInfo{Duration: 5, FrameRate: 25}, 0},
		{"exactly at end", 5, videoInfo{Duration: 5, FrameRate: 25}, 4.96},
		{"past end", 42, videoInfo{Duration: 5, FrameRate: 25}, 4.96},
		{"past end without frame rate", 9, videoInfo{Duration: 5}, 4.9},
		{"infinite", math.Inf(1), videoInfo{Duration: 5, FrameRate: 10}, 4.9},
		{"shorter than one frame", 1, videoInfo{Duration: 0.01, FrameRate: 25}, 0},
		{"unknown duration", 42, videoInfo{}, 42},
		{"unknown duration infinite", math.Inf(1), videoInfo{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seekTarget(tt.ts, tt.info)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("seekTarget(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestExtractFrames_EmptyTimestampsTouchesNothing(t *testing.T) {
	a := New("/nonexistent/ffmpeg", "/nonexistent/ffprobe")

	got, err := a.ExtractFrames(context.Background(), types.Media{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestExtractFrames_UnreadableVideoIsLoadError(t *testing.T) {
	tmp := t.TempDir()
	a := New(filepath.Join(tmp, "ffmpeg"), filepath.Join(tmp, "ffprobe"), WithTempDir(tmp))

	_, err := a.ExtractFrames(context.Background(), types.Media{Name: "v.mp4", Data: []byte("not a video")}, []float64{1})
	var pe *errs.PlaybackError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PlaybackError, got %v", err)
	}
	if pe.Op != "load" {
		t.Fatalf("expected load failure, got %q", pe.Op)
	}
	matches, _ := filepath.Glob(filepath.Join(tmp, "vid2article-*"))
	if len(matches) != 0 {
		t.Fatalf("expected staged video to be removed, found %v", matches)
	}
}

func TestExtractFrames_EmptyVideo(t *testing.T) {
	a := New("", "")
	_, err := a.ExtractFrames(context.Background(), types.Media{}, []float64{0})
	var pe *errs.PlaybackError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PlaybackError, got %v", err)
	}
}
