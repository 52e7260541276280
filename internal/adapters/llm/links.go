package llm

import (
	"strings"

	"github.com/devbush/vid2brief/internal/domain"
)

// Link is a harvested reference from the video description.
type Link struct {
	Title string
	URL   string
}

const (
	matchThreshold  = 2
	maxLinksPerItem = 3
)

// harvestLinks extracts "title line followed by URL line" pairs from a
// video description. Creators list their sources as alternating lines,
// so a URL line is attached to the closest preceding text line.
func harvestLinks(description string) []Link {
	var links []Link
	var pendingTitle string

	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			if pendingTitle != "" {
				links = append(links, Link{Title: pendingTitle, URL: line})
			}
			continue
		}
		// A "title: timestamp" marker line; strip the trailing time.
		title := line
		if i := strings.Index(title, "："); i > 0 && looksLikeTimestamp(title[i+len("："):]) {
			title = title[:i]
		} else if i := strings.IndexByte(title, ':'); i > 0 && looksLikeTimestamp(title[i+1:]) {
			title = title[:i]
		}
		pendingTitle = strings.TrimSpace(title)
	}

	return links
}

func looksLikeTimestamp(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ':' && r != '：' {
			return false
		}
	}
	return true
}

// matchLinks scores harvested links against a news item and returns
// the best matches above threshold. Entity mentions dominate the
// score; title word overlap and content mentions break ties.
func matchLinks(item domain.NewsItem, links []Link) []string {
	type scored struct {
		url   string
		score int
	}

	var matches []scored
	itemTitle := strings.ToLower(item.Title)
	itemContent := strings.ToLower(item.Content)

	for _, link := range links {
		linkTitle := strings.ToLower(link.Title)
		score := 0

		for _, entity := range item.Entities {
			e := strings.ToLower(strings.TrimSpace(entity))
			if e != "" && strings.Contains(linkTitle, e) {
				score += 3
				break
			}
		}

		for _, word := range strings.Fields(itemTitle) {
			if len([]rune(word)) >= 2 && strings.Contains(linkTitle, word) {
				score++
			}
		}

		if linkTitle != "" && strings.Contains(itemContent, linkTitle) {
			score++
		}

		if score >= matchThreshold {
			matches = append(matches, scored{url: link.URL, score: score})
		}
	}

	// Stable selection: higher score first, original order on ties.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].score > matches[j-1].score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	if len(matches) > maxLinksPerItem {
		matches = matches[:maxLinksPerItem]
	}

	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m.url)
	}
	return urls
}
