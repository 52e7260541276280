package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// ContentResolver is the narrow view of the resolver the processor
// needs. Satisfied by *Resolver.
type ContentResolver interface {
	Resolve(ctx context.Context, video *domain.Video) (*domain.ContentBundle, error)
}

// ProcessResult summarizes one end-to-end attempt for a single video.
type ProcessResult struct {
	VideoID      string
	Date         string
	Status       domain.ProcessingStatus
	Tier         domain.ContentTier
	DocumentPath string
}

// Processor runs the resolve → synthesize → write sequence for one
// video and keeps the ledger consistent around it. The ledger record is
// committed only after the document write succeeds, so a write failure
// never corrupts existing state.
type Processor struct {
	ledger   ports.Ledger
	resolver ContentResolver
	synth    ports.Synthesizer
	writer   ports.DocumentWriter
	logger   *slog.Logger
}

// NewProcessor creates a processor
func NewProcessor(
	ledger ports.Ledger,
	resolver ContentResolver,
	synth ports.Synthesizer,
	writer ports.DocumentWriter,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		ledger:   ledger,
		resolver: resolver,
		synth:    synth,
		writer:   writer,
		logger:   logger,
	}
}

// Process handles one video for one date, at most once. A prior record
// for the (video, date) key short-circuits before any external call.
func (p *Processor) Process(ctx context.Context, video *domain.Video, date string) (*ProcessResult, error) {
	result := &ProcessResult{VideoID: video.ID, Date: date}

	prior, err := p.ledger.Lookup(ctx, video.ID, date)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		// Degraded ledger: continue without history rather than crash.
		p.logger.Warn("ledger lookup failed, continuing without history", "video", video.ID, "error", err)
	}
	if prior != nil {
		p.logger.Info("video already processed today, skipping",
			"video", video.ID, "date", date, "status", prior.Status)
		result.Status = domain.StatusSkippedDuplicate
		result.DocumentPath = prior.DocumentPath
		return result, nil
	}

	bundle, err := p.resolver.Resolve(ctx, video)
	if err != nil {
		if errors.Is(err, domain.ErrNoUsableContent) {
			if recErr := p.ledger.RecordSkipped(ctx, video.ID, date, domain.StatusSkippedNoContent); recErr != nil {
				p.logger.Warn("failed to persist skip record", "video", video.ID, "error", recErr)
			}
			result.Status = domain.StatusSkippedNoContent
			return result, nil
		}
		return nil, fmt.Errorf("resolve %s: %w", video.ID, err)
	}
	result.Tier = bundle.Tier

	doc, err := p.synth.Synthesize(ctx, bundle.Text, video)
	if err != nil {
		// No ledger record: a transient synthesis failure stays
		// retryable on the next cycle.
		return nil, fmt.Errorf("synthesize %s: %w", video.ID, err)
	}
	doc.VideoID = video.ID
	doc.Date = date
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now()
	}

	path, err := p.writer.Write(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("write report for %s: %w", video.ID, err)
	}

	if err := p.ledger.RecordCompleted(ctx, video.ID, date, path); err != nil {
		p.logger.Warn("report written but ledger update failed", "video", video.ID, "path", path, "error", err)
	}

	result.Status = domain.StatusCompleted
	result.DocumentPath = path
	return result, nil
}
