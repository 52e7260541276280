package ports

import "context"

// MediaAcquirer fetches raw video media for a video id.
type MediaAcquirer interface {
	// AcquireMedia downloads the video into destDir and returns the
	// path to the media file.
	AcquireMedia(ctx context.Context, videoID string, destDir string) (string, error)

	// IsAvailable checks whether the download tool is installed.
	IsAvailable() bool
}

// AudioExtractor converts acquired media to an audio-only artifact.
type AudioExtractor interface {
	// ExtractAudio writes an audio file derived from mediaPath into
	// destDir and returns its path.
	ExtractAudio(ctx context.Context, mediaPath string, destDir string) (string, error)

	// IsAvailable checks whether the extraction tool is installed.
	IsAvailable() bool
}
