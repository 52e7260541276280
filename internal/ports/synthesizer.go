package ports

import (
	"context"

	"github.com/devbush/vid2brief/internal/domain"
)

// Synthesizer turns resolved content text into a structured digest.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, video *domain.Video) (*domain.ReportDocument, error)
}
