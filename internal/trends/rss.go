package trends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"radarbr/internal/domain"
)

// DailyRSSProvider reads the trendingsearches daily RSS feed. It covers the
// same data as the daily JSON endpoint but survives sentinel-format drift.
type DailyRSSProvider struct {
	baseURL string
	parser  *gofeed.Parser
}

func NewDailyRSSProvider(baseURL string) *DailyRSSProvider {
	return &DailyRSSProvider{baseURL: strings.TrimSuffix(baseURL, "/"), parser: newFeedParser()}
}

func (p *DailyRSSProvider) Name() string { return "trends_rss_daily" }

func (p *DailyRSSProvider) Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	feedURL := fmt.Sprintf("%s/trends/trendingsearches/daily/rss?geo=%s", p.baseURL, strings.ToUpper(region))
	return topicsFromFeed(ctx, p.parser, feedURL, false)
}

// HeadlinesRSSProvider reads the front-page Google News feed; headline
// titles stand in for realtime trends when the trends endpoints are down.
type HeadlinesRSSProvider struct {
	baseURL string
	parser  *gofeed.Parser
}

func NewHeadlinesRSSProvider(baseURL string) *HeadlinesRSSProvider {
	return &HeadlinesRSSProvider{baseURL: strings.TrimSuffix(baseURL, "/"), parser: newFeedParser()}
}

func (p *HeadlinesRSSProvider) Name() string { return "news_rss_headlines" }

func (p *HeadlinesRSSProvider) Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	geo := strings.ToUpper(region)
	feedURL := fmt.Sprintf("%s/rss?hl=pt-BR&gl=%s&ceid=%s:pt-BR", p.baseURL, geo, geo)
	return topicsFromFeed(ctx, p.parser, feedURL, true)
}

// SectionsRSSProvider walks general Google News topic sections; the wide
// net of the chain, above only the annual fallback.
type SectionsRSSProvider struct {
	baseURL  string
	sections []string
	parser   *gofeed.Parser
}

func NewSectionsRSSProvider(baseURL string) *SectionsRSSProvider {
	return &SectionsRSSProvider{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		sections: []string{"NATION", "WORLD"},
		parser:   newFeedParser(),
	}
}

func (p *SectionsRSSProvider) Name() string { return "news_rss_sections" }

func (p *SectionsRSSProvider) Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	geo := strings.ToUpper(region)

	var out []domain.Topic
	var lastErr error
	for _, section := range p.sections {
		feedURL := fmt.Sprintf("%s/rss/headlines/section/topic/%s?hl=pt-BR&gl=%s&ceid=%s:pt-BR",
			p.baseURL, section, geo, geo)
		topics, err := topicsFromFeed(ctx, p.parser, feedURL, true)
		if err != nil {
			lastErr = err
			continue
		}
		out = append(out, topics...)
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func newFeedParser() *gofeed.Parser {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	return parser
}

func topicsFromFeed(ctx context.Context, parser *gofeed.Parser, feedURL string, stripSource bool) ([]domain.Topic, error) {
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	now := time.Now()
	out := make([]domain.Topic, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if stripSource {
			title = stripSourceSuffix(title)
		}
		if title == "" {
			continue
		}
		out = append(out, domain.Topic{Raw: title, OriginURL: item.Link, DiscoveredAt: now})
	}
	return out, nil
}

// stripSourceSuffix drops the trailing " - Publisher" Google News appends
// to headline titles.
func stripSourceSuffix(title string) string {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return title
}
