package ports

import "context"

// SpeechRecognizer converts an audio artifact to text.
type SpeechRecognizer interface {
	// Transcribe submits the audio file to the recognition capability
	// and returns the recognized text.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// Configured reports whether credentials for the capability are
	// present. When false the transcription pipeline short-circuits
	// without attempting any stage.
	Configured() bool
}
