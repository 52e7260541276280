package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// FeedScanner finds today's digest video in the creator's feed.
type FeedScanner struct {
	feed     ports.FeedSource
	uid      int64
	pageSize int
	keywords []string
	logger   *slog.Logger
}

// NewFeedScanner creates a feed scanner
func NewFeedScanner(feed ports.FeedSource, uid int64, pageSize int, keywords []string, logger *slog.Logger) *FeedScanner {
	if pageSize <= 0 {
		pageSize = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedScanner{
		feed:     feed,
		uid:      uid,
		pageSize: pageSize,
		keywords: keywords,
		logger:   logger,
	}
}

// FindTodayDigest scans the recent feed for the first video eligible at
// now. Returns (nil, nil) when no eligible video exists yet.
func (s *FeedScanner) FindTodayDigest(ctx context.Context, now time.Time) (*domain.Video, error) {
	videos, err := s.feed.ListRecentVideos(ctx, s.uid, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list recent videos: %w", err)
	}

	for _, v := range videos {
		ok, reason := domain.CheckEligibility(v, now, s.keywords)
		if ok {
			s.logger.Info("found digest video", "video", v.ID, "title", v.Title)
			return v, nil
		}
		if reason == domain.ReasonNotToday {
			s.logger.Debug("keyword match but not today's video", "video", v.ID)
		}
	}

	return nil, nil
}
