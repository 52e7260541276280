package ports

import (
	"context"

	"github.com/devbush/vid2brief/internal/domain"
)

// DocumentWriter materializes digests to the canonical report format.
type DocumentWriter interface {
	// Write serializes the document and returns its file path. Writing
	// a document whose file already exists returns the existing path
	// without creating a second file.
	Write(ctx context.Context, doc *domain.ReportDocument) (string, error)

	// ExistsForDate reports whether any report for the given date is
	// already on disk. This is the authoritative "already processed
	// today" signal independent of the ledger.
	ExistsForDate(date string) (bool, error)
}
