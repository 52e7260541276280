package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devbush/vid2brief/internal/domain"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `[{"a":1}]`, `[{"a":1}]`},
		{"plain fence", "```\n[1,2]\n```", "[1,2]"},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"fence with whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"content on fence line", "```{\"a\":1}\n```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHarvestLinks(t *testing.T) {
	desc := "今日内容:\n" +
		"OpenAI 发布新模型: 01:23\n" +
		"https://example.com/openai\n" +
		"\n" +
		"Meta 开源框架\n" +
		"https://example.com/meta\n" +
		"结尾没有链接的一行"

	links := harvestLinks(desc)
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2: %v", len(links), links)
	}
	if links[0].Title != "OpenAI 发布新模型" {
		t.Errorf("first title = %q, timestamp should be stripped", links[0].Title)
	}
	if links[0].URL != "https://example.com/openai" {
		t.Errorf("first url = %q", links[0].URL)
	}
	if links[1].Title != "Meta 开源框架" {
		t.Errorf("second title = %q", links[1].Title)
	}
}

func TestHarvestLinks_NoLinks(t *testing.T) {
	if links := harvestLinks("只有文字没有链接"); links != nil {
		t.Errorf("links = %v, want nil", links)
	}
}

func TestMatchLinks(t *testing.T) {
	links := []Link{
		{Title: "OpenAI 发布 GPT 新版本", URL: "https://example.com/gpt"},
		{Title: "Meta 开源新框架", URL: "https://example.com/meta"},
		{Title: "不相关的旅行视频", URL: "https://example.com/travel"},
	}

	item := domain.NewsItem{
		Title:    "OpenAI 发布新模型",
		Content:  "OpenAI 今天发布了新一代模型。",
		Entities: []string{"OpenAI"},
	}

	urls := matchLinks(item, links)
	if len(urls) != 1 {
		t.Fatalf("got %d urls, want 1: %v", len(urls), urls)
	}
	if urls[0] != "https://example.com/gpt" {
		t.Errorf("url = %q", urls[0])
	}
}

func TestMatchLinks_BelowThreshold(t *testing.T) {
	links := []Link{{Title: "完全无关的内容", URL: "https://example.com/x"}}
	item := domain.NewsItem{Title: "OpenAI 新模型", Content: "内容", Entities: []string{"OpenAI"}}
	if urls := matchLinks(item, links); len(urls) != 0 {
		t.Errorf("urls = %v, want none below threshold", urls)
	}
}

func TestMatchLinks_CapsAtThree(t *testing.T) {
	var links []Link
	for i := 0; i < 5; i++ {
		links = append(links, Link{
			Title: fmt.Sprintf("OpenAI 新闻 %d", i),
			URL:   fmt.Sprintf("https://example.com/%d", i),
		})
	}
	item := domain.NewsItem{Title: "news", Content: "c", Entities: []string{"OpenAI"}}
	if urls := matchLinks(item, links); len(urls) != 3 {
		t.Errorf("got %d urls, want cap of 3", len(urls))
	}
}

func newTestSynthesizer(t *testing.T, handler http.Handler) *Synthesizer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSynthesizer(NewClient(srv.URL, "test-key", "test-model"))
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestSynthesizer_Synthesize(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if calls == 1 {
			fmt.Fprint(w, chatReply("```json\n[{\"title\":\"OpenAI 发布新模型\",\"content\":\"细节。\",\"entities\":[\"OpenAI\"],\"category\":\"product\"}]\n```"))
			return
		}
		fmt.Fprint(w, chatReply("今天的要点概述。"))
	})

	s := newTestSynthesizer(t, handler)
	video := &domain.Video{
		ID:          "BV1xx411c7mD",
		Title:       "AI 早报",
		Description: "OpenAI 发布新模型: 01:00\nhttps://example.com/openai",
	}

	doc, err := s.Synthesize(context.Background(), "今天 OpenAI 发布了新模型", video)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if len(doc.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(doc.Items))
	}
	if doc.Items[0].Category != domain.CategoryProduct {
		t.Errorf("category = %q", doc.Items[0].Category)
	}
	if len(doc.Items[0].Sources) != 1 {
		t.Errorf("sources = %v, want the harvested link matched", doc.Items[0].Sources)
	}
	if doc.Overview != "今天的要点概述。" {
		t.Errorf("overview = %q", doc.Overview)
	}
	if calls != 2 {
		t.Errorf("chat endpoint hit %d times, want 2", calls)
	}
}

func TestSynthesizer_OverviewFallback(t *testing.T) {
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, chatReply(`[{"title":"t1","content":"c1","category":"other"},{"title":"t2","content":"c2","category":"other"}]`))
			return
		}
		http.Error(w, "upstream busy", http.StatusInternalServerError)
	})

	s := newTestSynthesizer(t, handler)
	doc, err := s.Synthesize(context.Background(), "text", &domain.Video{ID: "X1"})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !strings.Contains(doc.Overview, "2") {
		t.Errorf("fallback overview = %q, want item count mentioned", doc.Overview)
	}
}

func TestSynthesizer_MalformedModelOutput(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("抱歉,我无法提取新闻。"))
	})

	s := newTestSynthesizer(t, handler)
	_, err := s.Synthesize(context.Background(), "text", &domain.Video{ID: "X1"})
	if err == nil {
		t.Fatal("Synthesize() = nil error for unparseable output")
	}
}
