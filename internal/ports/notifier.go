package ports

import (
	"context"

	"github.com/devbush/vid2brief/internal/domain"
)

// Notifier dispatches a generated report to an external channel.
type Notifier interface {
	// SendReport delivers the document at documentPath for the video.
	SendReport(ctx context.Context, video *domain.Video, documentPath string) error

	// Configured reports whether delivery settings are present.
	Configured() bool
}
