package domain

import "strings"

// SubtitleLine represents one timed line of a subtitle track
type SubtitleLine struct {
	From    float64 `json:"from"`
	To      float64 `json:"to"`
	Content string  `json:"content"`
}

// MergeSubtitle joins subtitle lines into a single plain-text block,
// separated by single spaces. Empty lines are dropped.
func MergeSubtitle(lines []SubtitleLine) string {
	var parts []string
	for _, l := range lines {
		text := strings.TrimSpace(l.Content)
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
