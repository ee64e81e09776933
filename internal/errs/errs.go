// Package errs defines the failure kinds of the article pipeline and how
// they are reduced to messages for the person running it.
package errs

import (
	"errors"
	"fmt"
)

const (
	DefaultMessage           = "An error occurred during content generation. Run with --log-level debug for details."
	MissingTranscriptMessage = "A transcript is required to generate content. Please provide one or use a video with clear audio."
)

// ErrMissingTranscript is returned when no transcript survived the pipeline.
var ErrMissingTranscript = errors.New("missing transcript")

// InvalidResponseError reports a model response that did not parse as the declared schema.
type InvalidResponseError struct {
	Op      string
	Snippet string
	Err     error
}

func (e *InvalidResponseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: invalid response: %v (payload snippet: %s)", e.Op, e.Err, e.Snippet)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// PlaybackError reports a video load, seek or decode failure.
// Timestamp is meaningful only when Op is "capture".
type PlaybackError struct {
	Op        string
	Timestamp float64
	Err       error
}

func (e *PlaybackError) Error() string {
	if e.Op == "capture" {
		return fmt.Sprintf("video playback: capture at %.3fs: %v", e.Timestamp, e.Err)
	}
	return fmt.Sprintf("video playback: %s: %v", e.Op, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }

// OrderingError reports a screenshot ordering that is not a permutation of the input.
// It is the only recoverable failure: callers fall back to the input order.
type OrderingError struct {
	Want    int
	Indices []int
	Reason  string
}

func (e *OrderingError) Error() string {
	if len(e.Indices) != e.Want {
		return fmt.Sprintf("screenshot ordering: got %d indices for %d images", len(e.Indices), e.Want)
	}
	return fmt.Sprintf("screenshot ordering: %s", e.Reason)
}

// UserMessage reduces err to a short message suitable for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingTranscript) {
		return MissingTranscriptMessage
	}
	return DefaultMessage
}
