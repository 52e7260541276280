package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// minDescriptionLen is the threshold below which a description carries
// too little signal to stand on its own.
const minDescriptionLen = 30

// TranscriptionRunner is the narrow view of the transcription pipeline
// the resolver needs. Satisfied by *TranscriptionPipeline.
type TranscriptionRunner interface {
	Run(ctx context.Context, videoID string) domain.TranscriptionOutcome
}

// Resolver selects the best available textual representation of a
// video's content. Tiers are attempted in fixed priority order:
//
//  1. subtitle track, used verbatim — transcription is never invoked
//  2. description + transcript, description first
//  3. transcript alone
//  4. no usable content
//
// Transcription is attempted at most once per Resolve call; retries, if
// any, happen only on a later polling cycle.
type Resolver struct {
	feed     ports.FeedSource
	pipeline TranscriptionRunner
	logger   *slog.Logger
}

// NewResolver creates a content resolver
func NewResolver(feed ports.FeedSource, pipeline TranscriptionRunner, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{feed: feed, pipeline: pipeline, logger: logger}
}

// Resolve produces a ContentBundle for the video, or
// domain.ErrNoUsableContent when every tier is exhausted.
func (r *Resolver) Resolve(ctx context.Context, video *domain.Video) (*domain.ContentBundle, error) {
	// Tier 1: subtitle track is authoritative and complete.
	lines, err := r.feed.GetSubtitle(ctx, video.ID)
	if err != nil {
		// A failing subtitle lookup must not sink the whole resolution;
		// fall through to the transcription tiers.
		r.logger.Warn("subtitle lookup failed, falling back", "video", video.ID, "error", err)
	}
	if text := domain.MergeSubtitle(lines); text != "" {
		return &domain.ContentBundle{
			VideoID: video.ID,
			Tier:    domain.TierSubtitle,
			Text:    text,
		}, nil
	}

	desc := strings.TrimSpace(video.Description)
	if len([]rune(desc)) < minDescriptionLen {
		desc = ""
	}

	// Tiers 2/3: exactly one transcription attempt per resolution.
	outcome := r.pipeline.Run(ctx, video.ID)

	if outcome.OK {
		if desc != "" {
			// Description first, transcript second: authorial framing
			// before raw speech.
			return &domain.ContentBundle{
				VideoID: video.ID,
				Tier:    domain.TierDescriptionPlusTranscript,
				Text:    desc + "\n\n" + outcome.Text,
			}, nil
		}
		return &domain.ContentBundle{
			VideoID: video.ID,
			Tier:    domain.TierTranscriptOnly,
			Text:    outcome.Text,
		}, nil
	}

	r.logger.Info("transcription unavailable",
		"video", video.ID,
		"stage", outcome.Stage,
		"kind", outcome.Failure,
	)

	// Transcription failed: the description alone can still carry tier 2.
	if desc != "" {
		return &domain.ContentBundle{
			VideoID: video.ID,
			Tier:    domain.TierDescriptionPlusTranscript,
			Text:    desc,
		}, nil
	}

	// Tier 4: nothing usable.
	return nil, domain.ErrNoUsableContent
}
