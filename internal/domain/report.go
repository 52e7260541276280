package domain

import (
	"fmt"
	"strings"
	"time"
)

// NewsItem is one extracted story inside a digest
type NewsItem struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Entities []string `json:"entities"`
	Category string   `json:"category"`
	Sources  []string `json:"sources"`
}

// Known item categories and their markdown markers
const (
	CategoryProduct  = "product"
	CategoryUpdate   = "update"
	CategoryIndustry = "industry"
	CategoryOther    = "other"
)

var categoryMarkers = map[string]string{
	CategoryProduct:  "🚀",
	CategoryUpdate:   "🔧",
	CategoryIndustry: "📈",
	CategoryOther:    "📰",
}

// CategoryMarker returns the marker for a category, defaulting to the
// generic news marker for unknown values.
func CategoryMarker(category string) string {
	if m, ok := categoryMarkers[category]; ok {
		return m
	}
	return categoryMarkers[CategoryOther]
}

// ReportDocument is the structured digest produced by synthesis.
// A document is written once per (VideoID, Date) and never mutated
// after creation.
type ReportDocument struct {
	VideoID     string     `json:"video_id"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Title       string     `json:"title"`
	Overview    string     `json:"overview"`
	Items       []NewsItem `json:"items"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// DocumentFileName builds the canonical report file name for a video
// and date: {videoId}_{YYYY-MM-DD}_digest.md.
func DocumentFileName(videoID, date string) string {
	return fmt.Sprintf("%s_%s_digest.md", videoID, date)
}

// FileName returns the canonical file name for this document.
func (d *ReportDocument) FileName() string {
	return DocumentFileName(d.VideoID, d.Date)
}

// RenderMarkdown serializes the digest to the canonical on-disk format:
// title, metadata block, overview listing, numbered items with source
// links, and a video link footer.
func (d *ReportDocument) RenderMarkdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", d.Title)

	fmt.Fprintf(&sb, "**Date:** %s\n", d.Date)
	fmt.Fprintf(&sb, "**Video:** %s\n", d.VideoID)
	fmt.Fprintf(&sb, "**Generated:** %s\n", d.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Stories:** %d\n\n", len(d.Items))
	sb.WriteString("---\n\n")

	if d.Overview != "" {
		sb.WriteString("## Overview\n\n")
		sb.WriteString(d.Overview)
		sb.WriteString("\n\n")
	}

	for i, item := range d.Items {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, CategoryMarker(item.Category), item.Title)
	}
	sb.WriteString("\n---\n\n")

	for i, item := range d.Items {
		fmt.Fprintf(&sb, "### %d. %s %s\n\n", i+1, CategoryMarker(item.Category), item.Title)

		if len(item.Entities) > 0 {
			tags := make([]string, 0, len(item.Entities))
			for _, e := range item.Entities {
				tags = append(tags, "`"+e+"`")
			}
			fmt.Fprintf(&sb, "**Tags:** %s\n\n", strings.Join(tags, " "))
		}

		sb.WriteString(item.Content)
		sb.WriteString("\n\n")

		if len(item.Sources) > 0 {
			sb.WriteString("**Links:**\n")
			for _, link := range item.Sources {
				fmt.Fprintf(&sb, "- <%s>\n", link)
			}
			sb.WriteString("\n")
		}

		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "Watch: <https://www.bilibili.com/video/%s>\n", d.VideoID)

	return sb.String()
}
