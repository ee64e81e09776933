// Package review stores a prepared bundle on disk so it can be edited by hand
// before the article is generated.
package review

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/forPelevin/vid2article/internal/types"
)

const (
	FileName  = "review.yaml"
	imagesDir = "images"
)

type file struct {
	TranscriptAIProcessed bool    `yaml:"transcript_ai_processed"`
	TitleImage            *image  `yaml:"title_image,omitempty"`
	InlineImages          []image `yaml:"inline_images"`
	Transcript            string  `yaml:"transcript"`
}

type image struct {
	Path     string `yaml:"path"`
	MIMEType string `yaml:"mime_type,omitempty"`
}

// Save writes dir/review.yaml and dir/images/*. It returns the yaml path.
func Save(dir string, b types.ReviewBundle) (string, error) {
	if err := os.MkdirAll(filepath.Join(dir, imagesDir), 0o755); err != nil {
		return "", fmt.Errorf("create review dir: %w", err)
	}

	f := file{
		TranscriptAIProcessed: b.TranscriptAIProcessed,
		InlineImages:          make([]image, 0, len(b.InlineImages)),
		Transcript:            b.Transcript,
	}
	if b.TitleImage != nil {
		img, err := writeImage(dir, "title", *b.TitleImage)
		if err != nil {
			return "", err
		}
		f.TitleImage = &img
	}
	for i, m := range b.InlineImages {
		img, err := writeImage(dir, fmt.Sprintf("inline-%02d", i+1), m)
		if err != nil {
			return "", err
		}
		f.InlineImages = append(f.InlineImages, img)
	}

	out, err := yaml.Marshal(&f)
	if err != nil {
		return "", fmt.Errorf("marshal review: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("write review: %w", err)
	}
	return path, nil
}

// Load reads a review file. Image paths are relative to the file's directory
// unless absolute.
func Load(path string) (types.ReviewBundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.ReviewBundle{}, fmt.Errorf("read review: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return types.ReviewBundle{}, fmt.Errorf("parse review %s: %w", path, err)
	}

	base := filepath.Dir(path)
	b := types.ReviewBundle{
		Transcript:            f.Transcript,
		TranscriptAIProcessed: f.TranscriptAIProcessed,
		InlineImages:          make([]types.Media, 0, len(f.InlineImages)),
	}
	if f.TitleImage != nil && strings.TrimSpace(f.TitleImage.Path) != "" {
		m, err := readImage(base, *f.TitleImage)
		if err != nil {
			return types.ReviewBundle{}, fmt.Errorf("title image: %w", err)
		}
		b.TitleImage = &m
	}
	for i, img := range f.InlineImages {
		if strings.TrimSpace(img.Path) == "" {
			return types.ReviewBundle{}, fmt.Errorf("inline image %d: path is empty", i+1)
		}
		m, err := readImage(base, img)
		if err != nil {
			return types.ReviewBundle{}, fmt.Errorf("inline image %d: %w", i+1, err)
		}
		b.InlineImages = append(b.InlineImages, m)
	}
	return b, nil
}

func writeImage(dir, stem string, m types.Media) (image, error) {
	if len(m.Data) == 0 {
		return image{}, errors.New("image " + stem + " is empty")
	}
	rel := filepath.Join(imagesDir, stem+extensionFor(m.MIMEType))
	if err := os.WriteFile(filepath.Join(dir, rel), m.Data, 0o644); err != nil {
		return image{}, fmt.Errorf("write %s: %w", rel, err)
	}
	return image{Path: filepath.ToSlash(rel), MIMEType: m.MIMEType}, nil
}

func readImage(base string, img image) (types.Media, error) {
	p := filepath.FromSlash(img.Path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return types.Media{}, err
	}
	if len(data) == 0 {
		return types.Media{}, fmt.Errorf("%s is empty", img.Path)
	}
	mt := strings.TrimSpace(img.MIMEType)
	if mt == "" {
		mt = mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
	}
	return types.Media{Name: filepath.Base(p), MIMEType: mt, Data: data}, nil
}

func extensionFor(mimeType string) string {
	mt, _, _ := strings.Cut(strings.ToLower(mimeType), ";")
	switch strings.TrimSpace(mt) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
