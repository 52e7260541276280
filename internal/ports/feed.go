package ports

import (
	"context"

	"github.com/devbush/vid2brief/internal/domain"
)

// FeedSource retrieves video metadata from the creator's feed.
type FeedSource interface {
	// ListRecentVideos fetches the most recent videos for an account,
	// newest first.
	ListRecentVideos(ctx context.Context, uid int64, limit int) ([]*domain.Video, error)

	// GetVideo fetches full metadata for a single video.
	GetVideo(ctx context.Context, videoID string) (*domain.Video, error)

	// GetSubtitle fetches the subtitle track for a video. A nil slice
	// with a nil error means the video has no subtitle track.
	GetSubtitle(ctx context.Context, videoID string) ([]domain.SubtitleLine, error)
}
