package domain

// TranscriptionStage identifies one step of the transcription sub-pipeline
type TranscriptionStage string

const (
	StageDownload     TranscriptionStage = "download"
	StageExtract      TranscriptionStage = "extract"
	StageSpeechToText TranscriptionStage = "speech_to_text"
)

// FailureKind classifies why a transcription stage failed
type FailureKind string

const (
	FailNetwork               FailureKind = "network_error"
	FailAuthRequired          FailureKind = "auth_required"
	FailNotFound              FailureKind = "not_found"
	FailToolUnavailable       FailureKind = "tool_unavailable"
	FailCorruptInput          FailureKind = "corrupt_input"
	FailQuotaExceeded         FailureKind = "quota_exceeded"
	FailTimeout               FailureKind = "timeout"
	FailEmptyResult           FailureKind = "empty_result"
	FailCapabilityUnavailable FailureKind = "capability_unavailable"
)

// TranscriptionOutcome is the result of one attempt through the
// transcription sub-pipeline. It is always a value, never an error:
// stage failures are captured in Stage and Failure.
type TranscriptionOutcome struct {
	VideoID string
	OK      bool
	Stage   TranscriptionStage
	Failure FailureKind
	Text    string
}

// TranscriptionSucceeded builds a successful outcome carrying the
// recognized text.
func TranscriptionSucceeded(videoID, text string) TranscriptionOutcome {
	return TranscriptionOutcome{VideoID: videoID, OK: true, Text: text}
}

// TranscriptionFailed builds a failed outcome for the given stage.
func TranscriptionFailed(videoID string, stage TranscriptionStage, kind FailureKind) TranscriptionOutcome {
	return TranscriptionOutcome{VideoID: videoID, Stage: stage, Failure: kind}
}
