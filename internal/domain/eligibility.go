package domain

import (
	"strings"
	"time"
)

// EligibilityReason explains why a video is or is not a digest candidate
type EligibilityReason string

const (
	ReasonKeywordMatch EligibilityReason = "keyword_match"
	ReasonNotToday     EligibilityReason = "not_today"
	ReasonNoMatch      EligibilityReason = "no_match"
)

// DefaultKeywords are the digest markers checked against title and description.
var DefaultKeywords = []string{"ai", "早报", "资讯", "科技", "人工智能", "技术"}

// CheckEligibility reports whether a video is today's digest video.
// A video is eligible iff its title or description contains at least one
// keyword (case-insensitive) and it was published on the same local day
// as now. Pure function, no side effects.
func CheckEligibility(v *Video, now time.Time, keywords []string) (bool, EligibilityReason) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	title := strings.ToLower(v.Title)
	desc := strings.ToLower(v.Description)

	matched := false
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(title, kw) || strings.Contains(desc, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return false, ReasonNoMatch
	}

	if !SameLocalDay(v.PublishedAt, now) {
		return false, ReasonNotToday
	}

	return true, ReasonKeywordMatch
}

// SameLocalDay reports whether a and b fall on the same calendar day
// in b's location.
func SameLocalDay(a, b time.Time) bool {
	a = a.In(b.Location())
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DateKey formats a time as the YYYY-MM-DD key used by the ledger and
// the document naming scheme.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
