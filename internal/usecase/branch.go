package usecase

import (
	"strings"

	"github.com/forPelevin/vid2article/internal/types"
)

// Availability is which raw inputs are present.
type Availability struct {
	Video       bool
	Transcript  bool
	Screenshots bool
}

func AvailabilityOf(in types.RawInputs) Availability {
	return Availability{
		Video:       in.Video != nil,
		Transcript:  strings.TrimSpace(in.Transcript) != "",
		Screenshots: len(in.Screenshots) > 0,
	}
}

// Branch is one row of the preparation decision table.
type Branch int

const (
	// BranchNone: neither a video nor a transcript; nothing can be prepared.
	BranchNone Branch = iota
	// BranchTranscriptOnly: correctTranscript.
	BranchTranscriptOnly
	// BranchTranscriptScreenshots: correctTranscript, organizeScreenshots.
	BranchTranscriptScreenshots
	// BranchVideoOnly: analyzeVideo, extractFrames.
	BranchVideoOnly
	// BranchVideoTranscript: analyzeVideo, mergeTranscripts, extractFrames.
	BranchVideoTranscript
	// BranchVideoScreenshots: analyzeVideo (transcript only), [mergeTranscripts], organizeScreenshots.
	BranchVideoScreenshots
)

func (b Branch) String() string {
	switch b {
	case BranchNone:
		return "none"
	case BranchTranscriptOnly:
		return "transcript"
	case BranchTranscriptScreenshots:
		return "transcript+screenshots"
	case BranchVideoOnly:
		return "video"
	case BranchVideoTranscript:
		return "video+transcript"
	case BranchVideoScreenshots:
		return "video+screenshots"
	default:
		return "unknown"
	}
}

// UsesVideo reports whether the branch starts with video analysis.
func (b Branch) UsesVideo() bool {
	return b == BranchVideoOnly || b == BranchVideoTranscript || b == BranchVideoScreenshots
}

// ExtractsFrames reports whether frames are pulled from the video.
// Screenshots always win over extraction.
func (b Branch) ExtractsFrames() bool {
	return b == BranchVideoOnly || b == BranchVideoTranscript
}

// OrganizesScreenshots reports whether user screenshots are reordered.
func (b Branch) OrganizesScreenshots() bool {
	return b == BranchTranscriptScreenshots || b == BranchVideoScreenshots
}

// SelectBranch maps an availability triple to exactly one branch.
func SelectBranch(a Availability) Branch {
	switch {
	case a.Video && a.Screenshots:
		return BranchVideoScreenshots
	case a.Video && a.Transcript:
		return BranchVideoTranscript
	case a.Video:
		return BranchVideoOnly
	case a.Transcript && a.Screenshots:
		return BranchTranscriptScreenshots
	case a.Transcript:
		return BranchTranscriptOnly
	default:
		return BranchNone
	}
}
