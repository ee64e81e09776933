package openrouter

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/forPelevin/vid2article/internal/domain/frames"
	"github.com/forPelevin/vid2article/internal/domain/ordering"
	"github.com/forPelevin/vid2article/internal/errs"
	"github.com/forPelevin/vid2article/internal/types"
)

const maxInlineFrames = 9

func stringField(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func missingField(op, name string) error {
	return &errs.InvalidResponseError{Op: op, Err: fmt.Errorf("missing required field %q", name)}
}

func (a *Adapter) CorrectTranscript(ctx context.Context, text string) (string, error) {
	const op = "correct transcript"
	schema := objectSchema(map[string]any{
		"correctedTranscript": stringField("The full transcript with all spelling, grammar, and punctuation corrected."),
	}, "correctedTranscript")

	var out struct {
		CorrectedTranscript *string `json:"correctedTranscript"`
	}
	parts := []part{textPart(correctPrompt + "\n\nTranscript to correct:\n" + text)}
	if err := a.complete(ctx, op, "transcript_correction", schema, parts, &out); err != nil {
		return "", err
	}
	if out.CorrectedTranscript == nil {
		return "", missingField(op, "correctedTranscript")
	}
	return *out.CorrectedTranscript, nil
}

func (a *Adapter) MergeTranscripts(ctx context.Context, userText, aiText string) (string, error) {
	const op = "merge transcripts"
	schema := objectSchema(map[string]any{
		"mergedTranscript": stringField("The final, merged, and corrected transcript."),
	}, "mergedTranscript")

	var out struct {
		MergedTranscript *string `json:"mergedTranscript"`
	}
	text := mergePrompt +
		"\n\n--- User-Provided Transcript ---\n" + userText +
		"\n\n--- AI-Generated Transcript ---\n" + aiText
	if err := a.complete(ctx, op, "transcript_merge", schema, []part{textPart(text)}, &out); err != nil {
		return "", err
	}
	if out.MergedTranscript == nil {
		return "", missingField(op, "mergedTranscript")
	}
	return *out.MergedTranscript, nil
}

func (a *Adapter) AnalyzeVideo(ctx context.Context, video types.Media) (types.VideoAnalysis, error) {
	const op = "analyze video"
	schema := objectSchema(map[string]any{
		"transcript": stringField("The full, accurate transcript of all spoken words in the video."),
		"titleTimestamp": map[string]any{
			"type":        "number",
			"description": "Timestamp in seconds of the single best frame to use as the title image.",
		},
		"inlineTimestamps": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "number"},
			"maxItems":    maxInlineFrames,
			"description": "Up to 9 timestamps in seconds of frames to use as inline illustrations.",
		},
	}, "transcript", "titleTimestamp", "inlineTimestamps")

	var out struct {
		Transcript       *string    `json:"transcript"`
		TitleTimestamp   *float64   `json:"titleTimestamp"`
		InlineTimestamps *[]float64 `json:"inlineTimestamps"`
	}
	parts := []part{textPart(analyzePrompt), videoPart(video)}
	if err := a.complete(ctx, op, "video_analysis", schema, parts, &out); err != nil {
		return types.VideoAnalysis{}, err
	}
	switch {
	case out.Transcript == nil:
		return types.VideoAnalysis{}, missingField(op, "transcript")
	case out.TitleTimestamp == nil:
		return types.VideoAnalysis{}, missingField(op, "titleTimestamp")
	case out.InlineTimestamps == nil:
		return types.VideoAnalysis{}, missingField(op, "inlineTimestamps")
	}

	// The prompt demands unique timestamps; dedup anyway.
	title, inline := frames.SplitTitle(*out.TitleTimestamp, *out.InlineTimestamps)
	if len(inline) > maxInlineFrames {
		inline = inline[:maxInlineFrames]
	}
	return types.VideoAnalysis{
		Transcript:       *out.Transcript,
		TitleTimestamp:   title,
		InlineTimestamps: inline,
	}, nil
}

func (a *Adapter) OrganizeScreenshots(ctx context.Context, transcript string, images []types.Media) ([]types.Media, error) {
	const op = "organize screenshots"
	if len(images) == 0 {
		return []types.Media{}, nil
	}
	schema := objectSchema(map[string]any{
		"ordered_indices": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "integer"},
			"description": "Image indices in the desired order, with the title image index first.",
		},
	}, "ordered_indices")

	var out struct {
		OrderedIndices *[]float64 `json:"ordered_indices"`
	}
	parts := make([]part, 0, len(images)+1)
	parts = append(parts, textPart(organizePrompt+"\n\n--- Transcript ---\n"+transcript))
	for _, img := range images {
		parts = append(parts, imagePart(img))
	}
	if err := a.complete(ctx, op, "screenshot_order", schema, parts, &out); err != nil {
		return nil, err
	}
	if out.OrderedIndices == nil {
		return nil, missingField(op, "ordered_indices")
	}

	indices := make([]int, 0, len(*out.OrderedIndices))
	for _, f := range *out.OrderedIndices {
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, &errs.InvalidResponseError{Op: op, Err: fmt.Errorf("non-integer index %v", f)}
		}
		indices = append(indices, int(f))
	}
	return ordering.Apply(images, indices)
}

func (a *Adapter) GenerateHTML(ctx context.Context, transcript string, images []types.Media) (string, error) {
	const op = "generate html"
	schema := objectSchema(map[string]any{
		"htmlContent": stringField("The full HTML document with a <head> containing a <style> tag and a <body> containing the structured content."),
	}, "htmlContent")

	var out struct {
		HTMLContent *string `json:"htmlContent"`
	}
	parts := make([]part, 0, len(images)+1)
	parts = append(parts, textPart(htmlPrompt(len(images) > 0)+"\n\nTranscript:\n"+transcript))
	for _, img := range images {
		parts = append(parts, imagePart(img))
	}
	if err := a.complete(ctx, op, "html_document", schema, parts, &out); err != nil {
		return "", err
	}
	if out.HTMLContent == nil {
		return "", missingField(op, "htmlContent")
	}
	if *out.HTMLContent == "" {
		return "", &errs.InvalidResponseError{Op: op, Err: errors.New("empty htmlContent")}
	}
	return *out.HTMLContent, nil
}
