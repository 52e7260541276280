package domain

// ContentTier identifies which fallback level produced the resolved text
type ContentTier string

const (
	// TierSubtitle means the subtitle track was used verbatim.
	TierSubtitle ContentTier = "subtitle"
	// TierDescriptionPlusTranscript means description and speech transcript
	// were concatenated, description first.
	TierDescriptionPlusTranscript ContentTier = "description_plus_transcript"
	// TierTranscriptOnly means only the speech transcript was usable.
	TierTranscriptOnly ContentTier = "transcript_only"
)

// ContentBundle is the resolved content handed to the synthesizer.
// Exactly one tier is selected per resolution and Text is never empty.
type ContentBundle struct {
	VideoID string
	Tier    ContentTier
	Text    string
}
