package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// Clock abstracts time for the watcher so many ticks can be simulated
// in tests without real delay.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock returns the wall clock.
func RealClock() Clock { return realClock{} }

// VideoProcessor is the narrow view of the processor the watcher needs.
type VideoProcessor interface {
	Process(ctx context.Context, video *domain.Video, date string) (*ProcessResult, error)
}

// DigestScanner is the narrow view of the feed scanner the watcher needs.
type DigestScanner interface {
	FindTodayDigest(ctx context.Context, now time.Time) (*domain.Video, error)
}

// Watcher drives the continuous polling mode: one tick per interval,
// each whole tick either satisfied-and-skipped or run to completion.
// Per-tick failures are logged and never terminate the loop; the loop
// stops only between ticks when the context is cancelled.
type Watcher struct {
	scanner   DigestScanner
	processor VideoProcessor
	writer    ports.DocumentWriter
	notifier  ports.Notifier // optional
	clock     Clock
	interval  time.Duration
	logger    *slog.Logger
}

// NewWatcher creates a watcher. notifier may be nil.
func NewWatcher(
	scanner DigestScanner,
	processor VideoProcessor,
	writer ports.DocumentWriter,
	notifier ports.Notifier,
	clock Clock,
	interval time.Duration,
	logger *slog.Logger,
) *Watcher {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		scanner:   scanner,
		processor: processor,
		writer:    writer,
		notifier:  notifier,
		clock:     clock,
		interval:  interval,
		logger:    logger,
	}
}

// Run polls until ctx is cancelled. A tick already in progress
// completes before the loop exits.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watch loop started", "interval", w.interval)

	for {
		w.Tick(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("watch loop stopped")
			return ctx.Err()
		case <-w.clock.After(w.interval):
		}
	}
}

// Tick runs one polling cycle. All errors are contained here.
func (w *Watcher) Tick(ctx context.Context) {
	now := w.clock.Now()
	date := domain.DateKey(now)

	// Cheapest check first: a report on disk for today means the whole
	// tick is satisfied without a single feed call.
	exists, err := w.writer.ExistsForDate(date)
	if err != nil {
		w.logger.Warn("report directory check failed", "error", err)
	} else if exists {
		w.logger.Debug("report already exists for today, skipping tick", "date", date)
		return
	}

	video, err := w.scanner.FindTodayDigest(ctx, now)
	if err != nil {
		w.logger.Warn("feed scan failed, will retry next tick", "error", err)
		return
	}
	if video == nil {
		w.logger.Info("no digest video published yet", "date", date)
		return
	}

	result, err := w.processor.Process(ctx, video, date)
	if err != nil {
		w.logger.Warn("processing failed, will retry next tick", "video", video.ID, "error", err)
		return
	}

	w.logger.Info("tick complete",
		"video", result.VideoID,
		"status", result.Status,
		"tier", result.Tier,
		"path", result.DocumentPath,
	)

	if result.Status == domain.StatusCompleted && w.notifier != nil && w.notifier.Configured() {
		if err := w.notifier.SendReport(ctx, video, result.DocumentPath); err != nil {
			w.logger.Warn("notification failed", "video", video.ID, "error", err)
		}
	}
}
