package bilibili

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
)

func newTestFeed(t *testing.T, handler http.Handler) *Feed {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	feed, err := NewFeed("")
	if err != nil {
		t.Fatal(err)
	}
	feed.client.baseURL = srv.URL
	// Pre-seed signing keys so tests don't hit the nav endpoint.
	feed.client.imgKey = testImgKey
	feed.client.subKey = testSubKey
	feed.client.keyFetched = time.Now()
	return feed
}

func TestFeed_ListRecentVideos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x/space/wbi/arc/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("w_rid") == "" {
			t.Error("feed request is not signed")
		}
		if got := r.URL.Query().Get("mid"); got != "285286947" {
			t.Errorf("mid = %q", got)
		}
		fmt.Fprint(w, `{"code":0,"message":"0","data":{"list":{"vlist":[
			{"bvid":"BV1xx411c7mD","title":"AI 早报 11.14","description":"今日要闻","created":1731540000},
			{"bvid":"BV1yy411c7mE","title":"AI 早报 11.13","description":"","created":1731453600}
		]}}}`)
	})

	feed := newTestFeed(t, mux)

	videos, err := feed.ListRecentVideos(context.Background(), 285286947, 20)
	if err != nil {
		t.Fatalf("ListRecentVideos() error = %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("got %d videos, want 2", len(videos))
	}
	if videos[0].ID != "BV1xx411c7mD" {
		t.Errorf("first video = %s", videos[0].ID)
	}
	if videos[0].Title != "AI 早报 11.14" {
		t.Errorf("title = %q", videos[0].Title)
	}
	if videos[0].PublishedAt.Unix() != 1731540000 {
		t.Errorf("published = %v", videos[0].PublishedAt)
	}
}

func TestFeed_GetVideoMemoized(t *testing.T) {
	var viewCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		viewCalls++
		fmt.Fprint(w, `{"code":0,"message":"0","data":{
			"bvid":"BV1xx411c7mD","title":"AI 早报","desc":"今日要闻","pubdate":1731540000,
			"cid":12345,"subtitle":{"list":[{}]}}}`)
	})

	feed := newTestFeed(t, mux)

	for i := 0; i < 3; i++ {
		v, err := feed.GetVideo(context.Background(), "BV1xx411c7mD")
		if err != nil {
			t.Fatalf("GetVideo() error = %v", err)
		}
		if v.CID != 12345 {
			t.Errorf("CID = %d, want 12345", v.CID)
		}
		if !v.HasSubtitle {
			t.Error("HasSubtitle = false, want true")
		}
	}

	if viewCalls != 1 {
		t.Errorf("view endpoint hit %d times across 3 calls, want 1", viewCalls)
	}
}

func TestFeed_GetVideoNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":-404,"message":"啥都木有","data":null}`)
	})

	feed := newTestFeed(t, mux)
	_, err := feed.GetVideo(context.Background(), "BV1zz411c7mF")
	if !errors.Is(err, domain.ErrVideoNotFound) {
		t.Errorf("error = %v, want ErrVideoNotFound", err)
	}
}

func TestFeed_RateLimitMapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":-412,"message":"请求被拦截","data":null}`)
	})

	feed := newTestFeed(t, mux)
	_, err := feed.GetVideo(context.Background(), "BV1xx411c7mD")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
}

func TestFeed_GetSubtitle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"message":"0","data":{
			"bvid":"BV1xx411c7mD","title":"t","desc":"","pubdate":1731540000,"cid":12345}}`)
	})
	mux.HandleFunc("/x/player/wbi/v2", func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		fmt.Fprintf(w, `{"code":0,"message":"0","data":{"subtitle":{"subtitles":[
			{"lan":"en","subtitle_url":"http://%s/sub/en.json"},
			{"lan":"zh-CN","subtitle_url":"http://%s/sub/zh.json"}
		]}}}`, host, host)
	})
	mux.HandleFunc("/sub/zh.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"body":[
			{"from":0,"to":2.5,"content":"第一句"},
			{"from":2.5,"to":5,"content":"第二句"}
		]}`)
	})
	mux.HandleFunc("/sub/en.json", func(w http.ResponseWriter, r *http.Request) {
		t.Error("english track fetched despite chinese track available")
	})

	feed := newTestFeed(t, mux)
	lines, err := feed.GetSubtitle(context.Background(), "BV1xx411c7mD")
	if err != nil {
		t.Fatalf("GetSubtitle() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Content != "第一句" {
		t.Errorf("first line = %q", lines[0].Content)
	}
}

func TestFeed_GetSubtitleNoTrack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"message":"0","data":{"bvid":"BV1xx411c7mD","cid":12345}}`)
	})
	mux.HandleFunc("/x/player/wbi/v2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"message":"0","data":{"subtitle":{"subtitles":[]}}}`)
	})

	feed := newTestFeed(t, mux)
	lines, err := feed.GetSubtitle(context.Background(), "BV1xx411c7mD")
	if err != nil {
		t.Fatalf("GetSubtitle() error = %v", err)
	}
	if lines != nil {
		t.Errorf("lines = %v, want nil for missing track", lines)
	}
}
