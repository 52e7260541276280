package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

const extractionSystemPrompt = `你是一个科技资讯编辑。从用户提供的视频文字内容中提取独立的新闻条目。
只输出 JSON 数组，不要输出其他内容。每个元素的结构为:
{"title": "新闻标题", "content": "两到三句的摘要", "entities": ["涉及的公司或产品名"], "category": "product|update|industry|other"}
category 含义: product=新产品发布, update=已有产品更新, industry=行业动态, other=其他。`

const overviewSystemPrompt = `你是一个科技资讯编辑。用一段话(不超过三句)概括当天的科技新闻要点。直接输出正文,不要标题。`

// Synthesizer implements ports.Synthesizer over a chat model: one
// extraction call for structured items, one overview call, and local
// source-link matching against the video description.
type Synthesizer struct {
	client *Client
}

// NewSynthesizer creates a synthesizer backed by a chat client.
func NewSynthesizer(client *Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize turns resolved content text into a digest document.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, video *domain.Video) (*domain.ReportDocument, error) {
	items, err := s.extractItems(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no news items extracted: %w", domain.ErrSynthesisFailed)
	}

	links := harvestLinks(video.Description)
	for i := range items {
		items[i].Sources = matchLinks(items[i], links)
	}

	overview := s.generateOverview(ctx, items)

	return &domain.ReportDocument{
		VideoID:     video.ID,
		Title:       video.Title,
		Overview:    overview,
		Items:       items,
		GeneratedAt: time.Now(),
	}, nil
}

func (s *Synthesizer) extractItems(ctx context.Context, text string) ([]domain.NewsItem, error) {
	reply, err := s.client.Chat(ctx, extractionSystemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("extract items: %w", err)
	}

	var raw []struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Entities []string `json:"entities"`
		Category string   `json:"category"`
	}
	if err := json.Unmarshal([]byte(stripFences(reply)), &raw); err != nil {
		return nil, fmt.Errorf("extract items: malformed model output: %v: %w", err, domain.ErrSynthesisFailed)
	}

	items := make([]domain.NewsItem, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		content := strings.TrimSpace(r.Content)
		if title == "" || content == "" {
			continue
		}
		items = append(items, domain.NewsItem{
			Title:    title,
			Content:  content,
			Entities: r.Entities,
			Category: parseCategory(r.Category),
		})
	}
	return items, nil
}

// generateOverview asks the model to summarize the day's items. On any
// failure a deterministic fallback keeps the document complete.
func (s *Synthesizer) generateOverview(ctx context.Context, items []domain.NewsItem) string {
	var titles strings.Builder
	for i, item := range items {
		fmt.Fprintf(&titles, "%d. %s\n", i+1, item.Title)
	}

	overview, err := s.client.Chat(ctx, overviewSystemPrompt, titles.String())
	if err != nil || strings.TrimSpace(overview) == "" {
		return fmt.Sprintf("本期视频共包含 %d 条科技资讯。", len(items))
	}
	return strings.TrimSpace(overview)
}

func parseCategory(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "product":
		return domain.CategoryProduct
	case "update":
		return domain.CategoryUpdate
	case "industry":
		return domain.CategoryIndustry
	default:
		return domain.CategoryOther
	}
}

var _ ports.Synthesizer = (*Synthesizer)(nil)
