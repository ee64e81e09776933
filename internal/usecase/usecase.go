package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/forPelevin/vid2article/internal/domain/document"
	"github.com/forPelevin/vid2article/internal/errs"
	"github.com/forPelevin/vid2article/internal/ports"
	"github.com/forPelevin/vid2article/internal/types"
)

// Progress messages, in the order a run can emit them.
const (
	MsgStarting              = "Generating your content..."
	MsgAnalyzingVideo        = "Analyzing video and transcribing audio..."
	MsgMergingTranscripts    = "Merging user transcript with AI transcript..."
	MsgCorrectingTranscript  = "Correcting transcript..."
	MsgExtractingKeyframes   = "Identifying and extracting keyframes from video..."
	MsgProcessingScreenshots = "Processing and organizing your screenshots..."
	MsgFinalizing            = "Finalizing your document..."
	MsgDesigningLayout       = "Designing your document layout..."
)

type Deps struct {
	AI     ports.ContentAI
	Frames ports.FrameExtractor
	Log    *slog.Logger
	// Progress receives short status messages; may be nil.
	Progress func(msg string)
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}
	return Usecase{d: d}
}

func (u Usecase) progress(msg string) {
	u.d.Log.Info(msg)
	if u.d.Progress != nil {
		u.d.Progress(msg)
	}
}

// Prepare runs the branch of the decision table that matches the present inputs
// and returns the bundle for review.
func (u Usecase) Prepare(ctx context.Context, in types.RawInputs) (types.ReviewBundle, error) {
	branch := SelectBranch(AvailabilityOf(in))
	log := u.d.Log.With("branch", branch.String())
	if branch == BranchNone {
		return types.ReviewBundle{}, errs.ErrMissingTranscript
	}
	u.progress(MsgStarting)

	raw := in.Transcript
	hasRaw := strings.TrimSpace(raw) != ""
	bundle := types.ReviewBundle{Transcript: raw}
	var analysis types.VideoAnalysis

	if branch.UsesVideo() {
		u.progress(MsgAnalyzingVideo)
		var err error
		analysis, err = u.d.AI.AnalyzeVideo(ctx, *in.Video)
		if err != nil {
			return types.ReviewBundle{}, fmt.Errorf("analyze video: %w", err)
		}
		log.Debug("video analyzed", "title_ts", analysis.TitleTimestamp, "inline_ts", len(analysis.InlineTimestamps))

		if strings.TrimSpace(analysis.Transcript) != "" {
			bundle.Transcript = analysis.Transcript
			bundle.TranscriptAIProcessed = true
			if hasRaw {
				u.progress(MsgMergingTranscripts)
				merged, err := u.d.AI.MergeTranscripts(ctx, raw, analysis.Transcript)
				if err != nil {
					return types.ReviewBundle{}, fmt.Errorf("merge transcripts: %w", err)
				}
				if strings.TrimSpace(merged) != "" {
					bundle.Transcript = merged
				} else {
					log.Warn("merge returned empty transcript; keeping video transcript")
				}
			}
		} else {
			log.Warn("video analysis returned no transcript")
		}
	} else {
		u.progress(MsgCorrectingTranscript)
		corrected, err := u.d.AI.CorrectTranscript(ctx, raw)
		if err != nil {
			return types.ReviewBundle{}, fmt.Errorf("correct transcript: %w", err)
		}
		if strings.TrimSpace(corrected) != "" {
			bundle.Transcript = corrected
			bundle.TranscriptAIProcessed = true
		} else {
			log.Warn("correction returned empty transcript; keeping original")
		}
	}

	if strings.TrimSpace(bundle.Transcript) == "" {
		return types.ReviewBundle{}, errs.ErrMissingTranscript
	}

	switch {
	case branch.ExtractsFrames():
		u.progress(MsgExtractingKeyframes)
		images, err := u.d.Frames.ExtractFrames(ctx, *in.Video, analysis.Timestamps())
		if err != nil {
			return types.ReviewBundle{}, fmt.Errorf("extract frames: %w", err)
		}
		bundle.TitleImage, bundle.InlineImages = splitTitle(images)
	case branch.OrganizesScreenshots():
		u.progress(MsgProcessingScreenshots)
		ordered, err := u.d.AI.OrganizeScreenshots(ctx, bundle.Transcript, in.Screenshots)
		var oe *errs.OrderingError
		switch {
		case errors.As(err, &oe):
			log.Warn("screenshot ordering rejected; using original order", "error", err)
			bundle.TitleImage = nil
			bundle.InlineImages = append([]types.Media(nil), in.Screenshots...)
		case err != nil:
			return types.ReviewBundle{}, fmt.Errorf("organize screenshots: %w", err)
		default:
			bundle.TitleImage, bundle.InlineImages = splitTitle(ordered)
		}
	}

	log.Info("prepared",
		"ai_processed", bundle.TranscriptAIProcessed,
		"title_image", bundle.TitleImage != nil,
		"inline_images", len(bundle.InlineImages),
	)
	return bundle, nil
}

// Generate turns an approved bundle into the final self-contained document.
func (u Usecase) Generate(ctx context.Context, b types.ReviewBundle) (types.Document, error) {
	if strings.TrimSpace(b.Transcript) == "" {
		return types.Document{}, errs.ErrMissingTranscript
	}
	u.progress(MsgFinalizing)

	transcript := b.Transcript
	if !b.TranscriptAIProcessed {
		u.progress(MsgCorrectingTranscript)
		corrected, err := u.d.AI.CorrectTranscript(ctx, transcript)
		if err != nil {
			return types.Document{}, fmt.Errorf("correct transcript: %w", err)
		}
		if strings.TrimSpace(corrected) != "" {
			transcript = corrected
		}
	}

	images := b.Images()
	u.progress(MsgDesigningLayout)
	html, err := u.d.AI.GenerateHTML(ctx, transcript, images)
	if err != nil {
		return types.Document{}, fmt.Errorf("generate html: %w", err)
	}

	counts := document.CountPlaceholders(html)
	for i := range images {
		if counts[i] != 1 {
			u.d.Log.Debug("placeholder usage differs from contract", "index", i, "count", counts[i])
		}
	}
	return types.Document{HTML: document.ResolvePlaceholders(html, images)}, nil
}

func splitTitle(images []types.Media) (*types.Media, []types.Media) {
	if len(images) == 0 {
		return nil, []types.Media{}
	}
	title := images[0]
	return &title, append([]types.Media(nil), images[1:]...)
}
