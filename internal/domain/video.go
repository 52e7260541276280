package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Video represents one candidate video from the creator's feed
type Video struct {
	ID          string // BV id
	CID         int64  // player cid, needed for subtitle lookup
	Title       string
	Description string
	PublishedAt time.Time
	HasSubtitle bool
	URL         string
	FetchedAt   time.Time
}

// VideoURL builds the full watch URL for a video
func (v *Video) VideoURL() string {
	if v.URL != "" {
		return v.URL
	}
	return VideoURLFor(v.ID)
}

// VideoURLFor builds the watch URL for a bare BV id
func VideoURLFor(videoID string) string {
	return fmt.Sprintf("https://www.bilibili.com/video/%s/", videoID)
}

var (
	// Matches bilibili.com/video/BVxxxx patterns
	videoURLPattern = regexp.MustCompile(`bilibili\.com/video/(BV[0-9A-Za-z]{10})`)
	// Valid BV id pattern
	videoIDPattern = regexp.MustCompile(`^BV[0-9A-Za-z]{10}$`)
)

// ParseVideoInput extracts a Video from a URL or BV id string
func ParseVideoInput(input string) (*Video, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	// Try to match URL pattern
	if matches := videoURLPattern.FindStringSubmatch(input); len(matches) > 1 {
		return &Video{
			ID:  matches[1],
			URL: input,
		}, nil
	}

	// Check if it's a bare BV id
	if videoIDPattern.MatchString(input) {
		return &Video{
			ID: input,
		}, nil
	}

	return nil, fmt.Errorf("invalid video URL or BV id: %s", input)
}
