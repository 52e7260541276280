package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/vid2brief/internal/domain"
)

func testDoc() *domain.ReportDocument {
	return &domain.ReportDocument{
		VideoID:  "BV1xx411c7mD",
		Date:     "2025-11-14",
		Title:    "AI 早报",
		Overview: "今天的要点。",
		Items: []domain.NewsItem{
			{Title: "新模型发布", Content: "细节。", Category: domain.CategoryProduct},
		},
		GeneratedAt: time.Date(2025, 11, 14, 9, 30, 0, 0, time.Local),
	}
}

func TestWriter_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/reports")

	path, err := w.Write(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasSuffix(path, "BV1xx411c7mD_2025-11-14_digest.md") {
		t.Errorf("path = %q", path)
	}

	content, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(content), "新模型发布") {
		t.Error("rendered item missing from file")
	}
}

func TestWriter_WriteIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/reports")
	ctx := context.Background()

	first, err := w.Write(ctx, testDoc())
	if err != nil {
		t.Fatal(err)
	}

	// Mutate the document; the second write must not replace the file.
	doc := testDoc()
	doc.Overview = "changed"
	second, err := w.Write(ctx, doc)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}

	content, _ := afero.ReadFile(fs, first)
	if strings.Contains(string(content), "changed") {
		t.Error("existing report was overwritten")
	}
}

func TestWriter_ExistsForDate(t *testing.T) {
	fs := afero.NewMemMapFs()
	w := NewWriter(fs, "/reports")
	ctx := context.Background()

	exists, err := w.ExistsForDate("2025-11-14")
	if err != nil {
		t.Fatalf("ExistsForDate() error = %v", err)
	}
	if exists {
		t.Error("exists = true for empty directory")
	}

	if _, err := w.Write(ctx, testDoc()); err != nil {
		t.Fatal(err)
	}

	exists, err = w.ExistsForDate("2025-11-14")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("exists = false after write")
	}

	exists, err = w.ExistsForDate("2025-11-15")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("exists = true for a different date")
	}
}
