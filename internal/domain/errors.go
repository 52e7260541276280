package domain

import "errors"

var (
	// Feed errors
	ErrVideoNotFound = errors.New("video not found or has been removed")
	ErrAuthRequired  = errors.New("authentication required - check cookie configuration")
	ErrRateLimited   = errors.New("rate limited by feed source")

	// Network errors
	ErrNetworkFailure = errors.New("network failure")

	// Media pipeline errors
	ErrToolUnavailable = errors.New("external tool not found")
	ErrCorruptMedia    = errors.New("media artifact is corrupt or empty")

	// Speech recognition errors
	ErrQuotaExceeded   = errors.New("speech recognition quota exceeded")
	ErrSpeechTimeout   = errors.New("speech recognition timed out")
	ErrEmptyTranscript = errors.New("speech recognition returned no text")

	// Resolution errors
	ErrNoUsableContent = errors.New("no usable content for video")

	// Ledger errors
	ErrRecordNotFound    = errors.New("no processing record for key")
	ErrLedgerUnavailable = errors.New("ledger store unavailable")

	// Synthesis errors
	ErrSynthesisFailed = errors.New("digest synthesis failed")
)
