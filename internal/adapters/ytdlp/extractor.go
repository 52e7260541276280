package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/devbush/vid2brief/internal/config"
	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// minAudioSize is the smallest plausible extracted audio artifact.
// Below this the source media had no decodable audio stream.
const minAudioSize = 10 * 1024

// Extractor implements AudioExtractor using ffmpeg
type Extractor struct {
	binPath string
}

// NewExtractor creates a new ffmpeg audio extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

func ffmpegBinaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (e *Extractor) findBinary() string {
	bundled := filepath.Join(config.BinDir(), ffmpegBinaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	if path, err := exec.LookPath(ffmpegBinaryName()); err == nil {
		return path
	}

	return ""
}

func (e *Extractor) GetBinaryPath() string {
	if e.binPath != "" {
		return e.binPath
	}
	e.binPath = e.findBinary()
	return e.binPath
}

func (e *Extractor) IsAvailable() bool {
	return e.GetBinaryPath() != ""
}

// ExtractAudio converts mediaPath into a 16 kHz mono mp3 suitable for
// the speech recognition endpoint.
func (e *Extractor) ExtractAudio(ctx context.Context, mediaPath string, destDir string) (string, error) {
	binPath := e.GetBinaryPath()
	if binPath == "" {
		return "", fmt.Errorf("ffmpeg: %w", domain.ErrToolUnavailable)
	}

	audioPath := filepath.Join(destDir, "audio.mp3")

	args := []string{
		"-y",
		"-i", mediaPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-b:a", "48k",
		audioPath,
	}

	cmd := exec.CommandContext(ctx, binPath, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg failed: %s: %w", firstLine(string(output)), domain.ErrCorruptMedia)
	}

	if info, err := os.Stat(audioPath); err != nil || info.Size() < minAudioSize {
		return "", fmt.Errorf("extracted audio is empty: %w", domain.ErrCorruptMedia)
	}

	return audioPath, nil
}

var _ ports.AudioExtractor = (*Extractor)(nil)
