package cli

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/forPelevin/vid2article/internal/types"
)

type inputPaths struct {
	Transcript  string
	Video       string
	Screenshots []string
}

// runName picks the file the run directory is named after.
func (p inputPaths) runName() string {
	switch {
	case p.Video != "":
		return p.Video
	case p.Transcript != "":
		return p.Transcript
	case len(p.Screenshots) > 0:
		return p.Screenshots[0]
	default:
		return ""
	}
}

var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

// loadInputs reads every given file concurrently. Screenshot order follows
// the flag order regardless of completion order.
func loadInputs(p inputPaths) (types.RawInputs, error) {
	var (
		wg         sync.WaitGroup
		in         types.RawInputs
		transcript []byte
		video      types.Media
		shots      = make([]types.Media, len(p.Screenshots))
		failures   = make([]error, len(p.Screenshots)+2)
	)

	if p.Transcript != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := os.ReadFile(p.Transcript)
			if err != nil {
				failures[0] = fmt.Errorf("transcript: %w", err)
				return
			}
			transcript = b
		}()
	}
	if p.Video != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := readMedia(p.Video, "video/")
			if err != nil {
				failures[1] = fmt.Errorf("video: %w", err)
				return
			}
			video = m
		}()
	}
	for i, path := range p.Screenshots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := readMedia(path, "image/")
			if err != nil {
				failures[i+2] = fmt.Errorf("screenshot %d: %w", i+1, err)
				return
			}
			shots[i] = m
		}()
	}
	wg.Wait()

	if err := errors.Join(failures...); err != nil {
		return types.RawInputs{}, err
	}
	in.Transcript = string(transcript)
	if p.Video != "" {
		in.Video = &video
	}
	if len(shots) > 0 {
		in.Screenshots = shots
	}
	return in, nil
}

func readMedia(path, wantPrefix string) (types.Media, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Media{}, err
	}
	if len(data) == 0 {
		return types.Media{}, fmt.Errorf("%s is empty", path)
	}
	mt := detectMIME(path, data)
	if !strings.HasPrefix(mt, wantPrefix) {
		return types.Media{}, fmt.Errorf("%s: unsupported media type %q", path, mt)
	}
	return types.Media{Name: filepath.Base(path), MIMEType: mt, Data: data}, nil
}

// detectMIME trusts the extension first and sniffs the content otherwise.
func detectMIME(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mt, ok := videoTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return baseType(mt)
	}
	return baseType(http.DetectContentType(data))
}

func baseType(mt string) string {
	mt, _, _ = strings.Cut(mt, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
