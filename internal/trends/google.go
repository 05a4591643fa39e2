package trends

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

	"radarbr/internal/domain"
)

const userAgent = "RadarBRBot/1.0 (+https://radarbr.com)"


// GoogleClient talks to the trends JSON endpoints.
type GoogleClient struct {
	baseURL string
	client  *http.Client
}

// NewGoogleClient wires an HTTP client; a nil client gets a 10s timeout.
func NewGoogleClient(baseURL string, client *http.Client) *GoogleClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleClient{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (c *GoogleClient) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", path, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	text := stripAntiJSONPrefix(string(body))
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// stripAntiJSONPrefix drops the `)]}'` guard the /trends/api/* endpoints
// prepend, by cutting to the first brace. The prefix length varies between
// endpoints, so a fixed-prefix trim is not reliable.
func stripAntiJSONPrefix(body string) string {
	if i := strings.Index(body, "{"); i > 0 {
		return body[i:]
	}
	return body
}

// RealtimeProvider hits /trends/api/realtimetrends (storySummaries shape).
type RealtimeProvider struct {
	client *GoogleClient
}

func NewRealtimeProvider(client *GoogleClient) *RealtimeProvider {
	return &RealtimeProvider{client: client}
}

func (p *RealtimeProvider) Name() string { return "google_realtime" }

func (p *RealtimeProvider) Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	params := url.Values{}
	params.Set("hl", "pt-BR")
	params.Set("tz", "-180")
	params.Set("cat", "all")
	params.Set("fi", "0")
	params.Set("fs", "0")
	params.Set("geo", strings.ToUpper(region))
	params.Set("ri", "300")
	params.Set("rs", "20")

	var data struct {
		StorySummaries struct {
			TrendingStories []struct {
				Title       string   `json:"title"`
				EntityNames []string `json:"entityNames"`
				Articles    []struct {
					URL string `json:"url"`
				} `json:"articles"`
			} `json:"trendingStories"`
		} `json:"storySummaries"`
	}
	if err := p.client.getJSON(ctx, "/trends/api/realtimetrends", params, &data); err != nil {
		return nil, err
	}

	now := time.Now()
	var out []domain.Topic
	for _, story := range data.StorySummaries.TrendingStories {
		title := strings.TrimSpace(story.Title)
		if title == "" && len(story.EntityNames) > 0 {
			title = strings.TrimSpace(story.EntityNames[0])
		}
		if title == "" {
			continue
		}
		topic := domain.Topic{Raw: title, DiscoveredAt: now}
		if len(story.Articles) > 0 {
			topic.OriginURL = story.Articles[0].URL
		}
		out = append(out, topic)
	}
	return out, nil
}

// DailyProvider hits /trends/api/dailytrends (trendingSearchesDays shape).
type DailyProvider struct {
	client *GoogleClient
}

func NewDailyProvider(client *GoogleClient) *DailyProvider {
	return &DailyProvider{client: client}
}

func (p *DailyProvider) Name() string { return "google_daily" }

func (p *DailyProvider) Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	params := url.Values{}
	params.Set("hl", "pt-BR")
	params.Set("tz", "-180")
	params.Set("geo", strings.ToUpper(region))
	params.Set("ns", "15")

	var data struct {
		Default struct {
			TrendingSearchesDays []struct {
				TrendingSearches []struct {
					Title struct {
						Query string `json:"query"`
					} `json:"title"`
					Articles []struct {
						URL string `json:"url"`
					} `json:"articles"`
				} `json:"trendingSearches"`
			} `json:"trendingSearchesDays"`
		} `json:"default"`
	}
	if err := p.client.getJSON(ctx, "/trends/api/dailytrends", params, &data); err != nil {
		return nil, err
	}

	days := data.Default.TrendingSearchesDays
	if len(days) == 0 {
		return nil, nil
	}

	now := time.Now()
	var out []domain.Topic
	for _, item := range days[0].TrendingSearches {
		title := strings.TrimSpace(item.Title.Query)
		if title == "" {
			continue
		}
		topic := domain.Topic{Raw: title, DiscoveredAt: now}
		if len(item.Articles) > 0 {
			topic.OriginURL = item.Articles[0].URL
		}
		out = append(out, topic)
	}
	return out, nil
}

// TopChartsProvider is the annual fallback: /trends/api/topcharts scoped to
// the current year. Last resort when every fresher source is down.
type TopChartsProvider struct {
	client *GoogleClient
	now    func() time.Time
}

func NewTopChartsProvider(client *GoogleClient) *TopChartsProvider {
	return &TopChartsProvider{client: client, now: time.Now}
}

func (p *TopChartsProvider) Name() string { return "google_topcharts" }

func (p *TopChartsProvider) Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	params := url.Values{}
	params.Set("hl", "pt-BR")
	params.Set("tz", "-180")
	params.Set("date", strconv.Itoa(p.now().Year()-1))
	params.Set("geo", strings.ToUpper(region))

	var data struct {
		TopCharts []struct {
			ListItems []struct {
				Title string `json:"title"`
			} `json:"listItems"`
		} `json:"topCharts"`
	}
	if err := p.client.getJSON(ctx, "/trends/api/topcharts", params, &data); err != nil {
		return nil, err
	}

	now := time.Now()
	var out []domain.Topic
	for _, chart := range data.TopCharts {
		for _, item := range chart.ListItems {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				continue
			}
			out = append(out, domain.Topic{Raw: title, DiscoveredAt: now})
		}
	}
	return out, nil
}
