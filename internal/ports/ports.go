package ports

import (
	"context"

	"github.com/forPelevin/vid2article/internal/types"
)

// ContentAI is the external model: five structured request kinds, each with a fixed output shape.
type ContentAI interface {
	CorrectTranscript(ctx context.Context, text string) (string, error)
	MergeTranscripts(ctx context.Context, userText, aiText string) (string, error)
	AnalyzeVideo(ctx context.Context, video types.Media) (types.VideoAnalysis, error)
	OrganizeScreenshots(ctx context.Context, transcript string, images []types.Media) ([]types.Media, error)
	GenerateHTML(ctx context.Context, transcript string, images []types.Media) (string, error)
}

// FrameExtractor returns one still per timestamp, in timestamp order.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, video types.Media, timestamps []float64) ([]types.Media, error)
}
