package ytdlp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/devbush/vid2brief/internal/config"
	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// minMediaSize guards against truncated downloads: anything smaller is
// an error page or a partial write, not a video.
const minMediaSize = 10 * 1024

// Downloader implements MediaAcquirer using yt-dlp
type Downloader struct {
	binPath string
	cookie  string
}

// NewDownloader creates a new yt-dlp downloader. cookie may be empty;
// it is forwarded to yt-dlp for member-only videos.
func NewDownloader(cookie string) *Downloader {
	return &Downloader{cookie: cookie}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "yt-dlp.exe"
	}
	return "yt-dlp"
}

func (d *Downloader) findBinary() string {
	// Check bundled location first
	bundled := filepath.Join(config.BinDir(), binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	// Check system PATH
	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

func (d *Downloader) GetBinaryPath() string {
	if d.binPath != "" {
		return d.binPath
	}
	d.binPath = d.findBinary()
	return d.binPath
}

func (d *Downloader) IsAvailable() bool {
	return d.GetBinaryPath() != ""
}

// AcquireMedia downloads the video into destDir and returns the media
// file path. Stderr is classified into domain errors so the pipeline
// can report the failure kind without parsing tool output itself.
func (d *Downloader) AcquireMedia(ctx context.Context, videoID string, destDir string) (string, error) {
	binPath := d.GetBinaryPath()
	if binPath == "" {
		return "", fmt.Errorf("yt-dlp: %w", domain.ErrToolUnavailable)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	url := domain.VideoURLFor(videoID)
	outputTemplate := filepath.Join(destDir, "video.%(ext)s")

	args := []string{
		"--no-warnings",
		"--no-playlist",
		"-f", "bestaudio/best",
		"-o", outputTemplate,
	}
	if d.cookie != "" {
		args = append(args, "--add-header", "Cookie:"+d.cookie)
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, binPath, args...)
	if _, err := cmd.Output(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", classifyStderr(string(exitErr.Stderr))
		}
		return "", fmt.Errorf("yt-dlp failed: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(destDir, "video.*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp produced no output file: %w", domain.ErrCorruptMedia)
	}

	mediaPath := matches[0]
	if info, err := os.Stat(mediaPath); err != nil || info.Size() < minMediaSize {
		return "", fmt.Errorf("downloaded media is truncated: %w", domain.ErrCorruptMedia)
	}

	return mediaPath, nil
}

// classifyStderr maps yt-dlp stderr text to domain errors.
func classifyStderr(stderr string) error {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "is only available for premium members"),
		strings.Contains(lower, "login required"),
		strings.Contains(lower, "sign in"),
		strings.Contains(lower, "403"):
		return fmt.Errorf("yt-dlp: %s: %w", firstLine(stderr), domain.ErrAuthRequired)
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "does not exist"),
		strings.Contains(lower, "404"):
		return fmt.Errorf("yt-dlp: %s: %w", firstLine(stderr), domain.ErrVideoNotFound)
	case strings.Contains(lower, "rate"),
		strings.Contains(lower, "429"):
		return fmt.Errorf("yt-dlp: %s: %w", firstLine(stderr), domain.ErrRateLimited)
	default:
		return fmt.Errorf("yt-dlp: %s: %w", firstLine(stderr), domain.ErrNetworkFailure)
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Install fetches the yt-dlp release binary into the bundled bin
// directory so the tool works without a system-wide install.
func (d *Downloader) Install(ctx context.Context, progress func(downloaded, total int64)) error {
	binDir := config.BinDir()
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return err
	}

	downloadURL := d.getDownloadURL()
	destPath := filepath.Join(binDir, binaryName())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download yt-dlp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download yt-dlp: HTTP %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}

	// Track success to clean up partial downloads on failure
	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(destPath)
		}
	}()

	total := resp.ContentLength
	var downloaded int64

	buf := make([]byte, 32*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			_, writeErr := out.Write(buf[:n])
			if writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}

	// Make executable on Unix
	if runtime.GOOS != "windows" {
		if err := os.Chmod(destPath, 0755); err != nil {
			return err
		}
	}

	success = true
	d.binPath = destPath
	return nil
}

func (d *Downloader) getDownloadURL() string {
	base := "https://github.com/yt-dlp/yt-dlp/releases/latest/download/"

	switch runtime.GOOS {
	case "windows":
		return base + "yt-dlp.exe"
	case "darwin":
		return base + "yt-dlp_macos"
	default:
		return base + "yt-dlp"
	}
}

func (d *Downloader) Update(ctx context.Context) error {
	binPath := d.GetBinaryPath()
	if binPath == "" {
		return fmt.Errorf("yt-dlp not installed")
	}

	cmd := exec.CommandContext(ctx, binPath, "-U")
	return cmd.Run()
}

var _ ports.MediaAcquirer = (*Downloader)(nil)
