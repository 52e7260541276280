package bilibili

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

// videoCacheSize bounds the per-process memo of resolved video
// metadata. The watch loop re-reads the same handful of videos every
// tick, so a small cache eliminates nearly all repeat view calls.
const videoCacheSize = 64

// Feed implements FeedSource against the public web API.
type Feed struct {
	client *Client
	memo   *lru.Cache[string, *domain.Video]
}

// NewFeed creates a feed source. cookie may be empty.
func NewFeed(cookie string) (*Feed, error) {
	memo, err := lru.New[string, *domain.Video](videoCacheSize)
	if err != nil {
		return nil, err
	}
	return &Feed{
		client: NewClient(cookie),
		memo:   memo,
	}, nil
}

// ListRecentVideos fetches the creator's upload feed, newest first.
func (f *Feed) ListRecentVideos(ctx context.Context, uid int64, limit int) ([]*domain.Video, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("mid", strconv.FormatInt(uid, 10))
	params.Set("pn", "1")
	params.Set("ps", strconv.Itoa(limit))
	params.Set("order", "pubdate")

	var data struct {
		List struct {
			Vlist []struct {
				Bvid        string `json:"bvid"`
				Title       string `json:"title"`
				Description string `json:"description"`
				Created     int64  `json:"created"`
			} `json:"vlist"`
		} `json:"list"`
	}
	if err := f.client.get(ctx, "/x/space/wbi/arc/search", params, true, &data); err != nil {
		return nil, err
	}

	videos := make([]*domain.Video, 0, len(data.List.Vlist))
	for _, e := range data.List.Vlist {
		videos = append(videos, &domain.Video{
			ID:          e.Bvid,
			Title:       e.Title,
			Description: e.Description,
			PublishedAt: time.Unix(e.Created, 0),
			FetchedAt:   time.Now(),
		})
	}
	return videos, nil
}

// GetVideo fetches full metadata for a single video. Results are
// memoized; the feed list carries only partial fields, so callers
// needing CID or subtitle state must come through here.
func (f *Feed) GetVideo(ctx context.Context, videoID string) (*domain.Video, error) {
	if v, ok := f.memo.Get(videoID); ok {
		return v, nil
	}

	params := url.Values{}
	params.Set("bvid", videoID)

	var data struct {
		Bvid     string `json:"bvid"`
		Title    string `json:"title"`
		Desc     string `json:"desc"`
		Pubdate  int64  `json:"pubdate"`
		Cid      int64  `json:"cid"`
		Subtitle struct {
			List []json.RawMessage `json:"list"`
		} `json:"subtitle"`
	}
	if err := f.client.get(ctx, "/x/web-interface/view", params, false, &data); err != nil {
		return nil, err
	}

	video := &domain.Video{
		ID:          data.Bvid,
		CID:         data.Cid,
		Title:       data.Title,
		Description: data.Desc,
		PublishedAt: time.Unix(data.Pubdate, 0),
		HasSubtitle: len(data.Subtitle.List) > 0,
		FetchedAt:   time.Now(),
	}
	f.memo.Add(videoID, video)
	return video, nil
}

// GetSubtitle fetches the first available subtitle track. A nil slice
// with nil error means the video has no track.
func (f *Feed) GetSubtitle(ctx context.Context, videoID string) ([]domain.SubtitleLine, error) {
	video, err := f.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.CID == 0 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("bvid", videoID)
	params.Set("cid", strconv.FormatInt(video.CID, 10))

	var data struct {
		Subtitle struct {
			Subtitles []struct {
				Lan         string `json:"lan"`
				SubtitleURL string `json:"subtitle_url"`
			} `json:"subtitles"`
		} `json:"subtitle"`
	}
	if err := f.client.get(ctx, "/x/player/wbi/v2", params, true, &data); err != nil {
		return nil, err
	}
	if len(data.Subtitle.Subtitles) == 0 {
		return nil, nil
	}

	track := data.Subtitle.Subtitles[0]
	// Prefer a Chinese track when several languages exist.
	for _, s := range data.Subtitle.Subtitles {
		if strings.HasPrefix(s.Lan, "zh") {
			track = s
			break
		}
	}
	if track.SubtitleURL == "" {
		return nil, nil
	}

	return f.fetchSubtitleBody(ctx, track.SubtitleURL)
}

func (f *Feed) fetchSubtitleBody(ctx context.Context, subtitleURL string) ([]domain.SubtitleLine, error) {
	// Subtitle URLs come back protocol-relative.
	if strings.HasPrefix(subtitleURL, "//") {
		subtitleURL = "https:" + subtitleURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, subtitleURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)

	resp, err := f.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch subtitle: %v: %w", err, domain.ErrNetworkFailure)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch subtitle: HTTP %d: %w", resp.StatusCode, domain.ErrNetworkFailure)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("fetch subtitle: %w", domain.ErrNetworkFailure)
	}

	var payload struct {
		Body []domain.SubtitleLine `json:"body"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed subtitle body: %w", err)
	}
	return payload.Body, nil
}

var _ ports.FeedSource = (*Feed)(nil)
