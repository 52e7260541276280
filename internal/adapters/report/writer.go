package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// Writer materializes digest documents as markdown files in a single
// directory. It never overwrites: an existing file for the same key is
// returned as-is, which makes Write idempotent for the processor.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter creates a writer rooted at dir on the given filesystem.
// Pass afero.NewOsFs() for production use.
func NewWriter(fs afero.Fs, dir string) *Writer {
	return &Writer{fs: fs, dir: dir}
}

func (w *Writer) Write(ctx context.Context, doc *domain.ReportDocument) (string, error) {
	if err := w.fs.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	path := filepath.Join(w.dir, doc.FileName())
	if exists, err := afero.Exists(w.fs, path); err == nil && exists {
		return path, nil
	}

	content := doc.RenderMarkdown()
	if err := afero.WriteFile(w.fs, path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// ExistsForDate reports whether any digest for the date is on disk.
// The glob is the authoritative already-processed-today signal even
// when the ledger was lost.
func (w *Writer) ExistsForDate(date string) (bool, error) {
	pattern := filepath.Join(w.dir, "*_"+date+"_digest.md")
	matches, err := afero.Glob(w.fs, pattern)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("scan reports directory: %w", err)
	}
	return len(matches) > 0, nil
}

var _ ports.DocumentWriter = (*Writer)(nil)
