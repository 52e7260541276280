package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// Memory is a map-backed Ledger. It backs the degraded mode when the
// sqlite file cannot be opened, and doubles as the test implementation.
// Records do not survive the process.
type Memory struct {
	mu      sync.Mutex
	records map[string]*domain.ProcessingRecord
}

// NewMemory creates an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*domain.ProcessingRecord)}
}

func key(videoID, date string) string { return videoID + "|" + date }

func (m *Memory) Lookup(ctx context.Context, videoID, date string) (*domain.ProcessingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[key(videoID, date)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (m *Memory) RecordCompleted(ctx context.Context, videoID, date, documentPath string) error {
	m.upsert(videoID, date, domain.StatusCompleted, documentPath)
	return nil
}

func (m *Memory) RecordSkipped(ctx context.Context, videoID, date string, status domain.ProcessingStatus) error {
	m.upsert(videoID, date, status, "")
	return nil
}

func (m *Memory) upsert(videoID, date string, status domain.ProcessingStatus, documentPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key(videoID, date)] = &domain.ProcessingRecord{
		VideoID:      videoID,
		Date:         date,
		Status:       status,
		DocumentPath: documentPath,
		Timestamp:    time.Now(),
	}
}

func (m *Memory) List(ctx context.Context, limit int) ([]*domain.ProcessingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]*domain.ProcessingRecord, 0, len(m.records))
	for _, rec := range m.records {
		copied := *rec
		records = append(records, &copied)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *Memory) Close() error { return nil }

var _ ports.Ledger = (*Memory)(nil)
