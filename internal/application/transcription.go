package application

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// Stage timeouts. Download and extraction run external tools against
// full-length videos; recognition is a single bounded API call.
const (
	defaultDownloadTimeout = 10 * time.Minute
	defaultExtractTimeout  = 10 * time.Minute
	defaultSpeechTimeout   = 90 * time.Second
)

// TranscriptionPipeline drives the download → extract → speech-to-text
// sub-pipeline. Every failure is returned as a typed outcome; the
// pipeline never surfaces an error to the caller.
type TranscriptionPipeline struct {
	acquirer  ports.MediaAcquirer
	extractor ports.AudioExtractor
	speech    ports.SpeechRecognizer
	workDir   string
	logger    *slog.Logger

	downloadTimeout time.Duration
	extractTimeout  time.Duration
	speechTimeout   time.Duration
}

// NewTranscriptionPipeline creates a pipeline. speech may be nil when no
// recognition capability is configured.
func NewTranscriptionPipeline(
	acquirer ports.MediaAcquirer,
	extractor ports.AudioExtractor,
	speech ports.SpeechRecognizer,
	workDir string,
	logger *slog.Logger,
) *TranscriptionPipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranscriptionPipeline{
		acquirer:        acquirer,
		extractor:       extractor,
		speech:          speech,
		workDir:         workDir,
		logger:          logger,
		downloadTimeout: defaultDownloadTimeout,
		extractTimeout:  defaultExtractTimeout,
		speechTimeout:   defaultSpeechTimeout,
	}
}

// Run attempts one pass through the pipeline for a video. Stages run in
// strict order and the first failure wins; later stages are never
// attempted with partial input. Temporary media is removed on every
// exit path.
func (p *TranscriptionPipeline) Run(ctx context.Context, videoID string) domain.TranscriptionOutcome {
	// Cost avoidance: don't download anything we can never transcribe.
	if p.speech == nil || !p.speech.Configured() {
		p.logger.Debug("speech capability not configured, skipping transcription", "video", videoID)
		return domain.TranscriptionFailed(videoID, domain.StageDownload, domain.FailCapabilityUnavailable)
	}

	tmpDir, err := os.MkdirTemp(p.workDir, "media-"+videoID+"-")
	if err != nil {
		p.logger.Warn("failed to create media workspace", "video", videoID, "error", err)
		return domain.TranscriptionFailed(videoID, domain.StageDownload, domain.FailToolUnavailable)
	}
	defer os.RemoveAll(tmpDir)

	// Stage 1: acquire media
	dlCtx, cancel := context.WithTimeout(ctx, p.downloadTimeout)
	mediaPath, err := p.acquirer.AcquireMedia(dlCtx, videoID, tmpDir)
	cancel()
	if err != nil {
		kind := classifyAcquireFailure(err)
		p.logger.Warn("media download failed", "video", videoID, "kind", kind, "error", err)
		return domain.TranscriptionFailed(videoID, domain.StageDownload, kind)
	}

	// Stage 2: extract audio
	exCtx, cancel := context.WithTimeout(ctx, p.extractTimeout)
	audioPath, err := p.extractor.ExtractAudio(exCtx, mediaPath, tmpDir)
	cancel()
	if err != nil {
		kind := classifyExtractFailure(err)
		p.logger.Warn("audio extraction failed", "video", videoID, "kind", kind, "error", err)
		return domain.TranscriptionFailed(videoID, domain.StageExtract, kind)
	}

	// Stage 3: speech to text
	stCtx, cancel := context.WithTimeout(ctx, p.speechTimeout)
	text, err := p.speech.Transcribe(stCtx, audioPath)
	cancel()
	if err != nil {
		kind := classifySpeechFailure(err)
		p.logger.Warn("speech recognition failed", "video", videoID, "kind", kind, "error", err)
		return domain.TranscriptionFailed(videoID, domain.StageSpeechToText, kind)
	}
	if text == "" {
		return domain.TranscriptionFailed(videoID, domain.StageSpeechToText, domain.FailEmptyResult)
	}

	return domain.TranscriptionSucceeded(videoID, text)
}

func classifyAcquireFailure(err error) domain.FailureKind {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return domain.FailAuthRequired
	case errors.Is(err, domain.ErrVideoNotFound):
		return domain.FailNotFound
	case errors.Is(err, domain.ErrToolUnavailable):
		return domain.FailToolUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.FailTimeout
	default:
		return domain.FailNetwork
	}
}

func classifyExtractFailure(err error) domain.FailureKind {
	switch {
	case errors.Is(err, domain.ErrToolUnavailable):
		return domain.FailToolUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return domain.FailTimeout
	default:
		return domain.FailCorruptInput
	}
}

func classifySpeechFailure(err error) domain.FailureKind {
	switch {
	case errors.Is(err, domain.ErrQuotaExceeded):
		return domain.FailQuotaExceeded
	case errors.Is(err, domain.ErrAuthRequired):
		return domain.FailAuthRequired
	case errors.Is(err, domain.ErrEmptyTranscript):
		return domain.FailEmptyResult
	case errors.Is(err, domain.ErrSpeechTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return domain.FailTimeout
	default:
		return domain.FailNetwork
	}
}
