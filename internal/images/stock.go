package images

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"radarbr/internal/domain"
)

const (
	stockUA          = "RadarBRBot/1.0 (+https://radarbr.com)"
	maxDownloadBytes = 8 << 20
)

// StockStrategy queries free image banks: Wikimedia Commons first, then
// Openverse. When the hit can be downloaded and is an image, its bytes are
// kept on the attachment.
type StockStrategy struct {
	wikimediaURL string
	openverseURL string
	client       *http.Client
	timeout      time.Duration
}

var _ Strategy = (*StockStrategy)(nil)

func NewStockStrategy(wikimediaURL, openverseURL string, client *http.Client, timeout time.Duration) *StockStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StockStrategy{
		wikimediaURL: wikimediaURL,
		openverseURL: openverseURL,
		client:       client,
		timeout:      timeout,
	}
}

func (s *StockStrategy) Name() string { return "stock" }

type stockHit struct {
	url     string
	credit  string
	license string
}

func (s *StockStrategy) Resolve(ctx context.Context, topic domain.Topic, _ string) (domain.ImageAttachment, bool) {
	term := strings.TrimSpace(topic.Normalized)
	if term == "" {
		term = strings.TrimSpace(topic.Raw)
	}
	if term == "" {
		return domain.ImageAttachment{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	hit, ok := s.searchWikimedia(ctx, term)
	if !ok {
		hit, ok = s.searchOpenverse(ctx, term)
	}
	if !ok {
		return domain.ImageAttachment{}, false
	}

	att := domain.ImageAttachment{
		URL:     hit.url,
		AltText: topic.Raw,
		Credit:  hit.credit,
		License: hit.license,
		Origin:  domain.OriginStock,
	}

	if data, ok := s.download(ctx, hit.url); ok {
		att.Bytes = data
		att.Filename = stockFilename(term)
	}
	return att, true
}

type wikimediaResponse struct {
	Query struct {
		Pages map[string]struct {
			FullURL   string `json:"fullurl"`
			ImageInfo []struct {
				URL         string `json:"url"`
				ThumbURL    string `json:"thumburl"`
				ExtMetadata struct {
					Artist           wikimediaValue `json:"Artist"`
					Credit           wikimediaValue `json:"Credit"`
					LicenseShortName wikimediaValue `json:"LicenseShortName"`
					UsageTerms       wikimediaValue `json:"UsageTerms"`
				} `json:"extmetadata"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

type wikimediaValue struct {
	Value string `json:"value"`
}

func (s *StockStrategy) searchWikimedia(ctx context.Context, term string) (stockHit, bool) {
	params := url.Values{
		"action":       {"query"},
		"format":       {"json"},
		"generator":    {"search"},
		"gsrsearch":    {term},
		"gsrlimit":     {"6"},
		"gsrnamespace": {"6"},
		"prop":         {"imageinfo|info"},
		"inprop":       {"url"},
		"iiprop":       {"url|extmetadata"},
		"iiurlwidth":   {"1600"},
		"origin":       {"*"},
	}

	var payload wikimediaResponse
	if err := s.getJSON(ctx, s.wikimediaURL+"?"+params.Encode(), &payload); err != nil {
		return stockHit{}, false
	}

	for _, page := range payload.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		info := page.ImageInfo[0]
		imgURL := info.URL
		if imgURL == "" {
			imgURL = info.ThumbURL
		}
		if imgURL == "" {
			continue
		}

		credit := stripTags(info.ExtMetadata.Artist.Value)
		if credit == "" {
			credit = stripTags(info.ExtMetadata.Credit.Value)
		}
		if credit == "" {
			credit = "Wikimedia Commons"
		}
		license := info.ExtMetadata.LicenseShortName.Value
		if license == "" {
			license = info.ExtMetadata.UsageTerms.Value
		}
		if license == "" {
			license = "CC"
		}
		return stockHit{url: imgURL, credit: credit, license: license}, true
	}
	return stockHit{}, false
}

type openverseResponse struct {
	Results []struct {
		URL            string `json:"url"`
		Creator        string `json:"creator"`
		License        string `json:"license"`
		LicenseVersion string `json:"license_version"`
	} `json:"results"`
}

func (s *StockStrategy) searchOpenverse(ctx context.Context, term string) (stockHit, bool) {
	params := url.Values{
		"q":            {term},
		"license_type": {"cc_publicdomain,cc_by,cc_by_sa"},
		"page_size":    {"8"},
		"format":       {"json"},
	}

	var payload openverseResponse
	if err := s.getJSON(ctx, s.openverseURL+"?"+params.Encode(), &payload); err != nil {
		return stockHit{}, false
	}

	for _, item := range payload.Results {
		if item.URL == "" {
			continue
		}
		creator := item.Creator
		if creator == "" {
			creator = "Openverse"
		}
		license := strings.TrimSpace(strings.ToUpper(item.License) + " " + item.LicenseVersion)
		return stockHit{url: item.URL, credit: creator, license: license}, true
	}
	return stockHit{}, false
}

func (s *StockStrategy) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", stockUA)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// download fetches the image bytes; a non-image content type is discarded.
func (s *StockStrategy) download(ctx context.Context, rawURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", stockUA)
	req.Header.Set("Referer", "https://radarbr.com")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); !strings.Contains(ct, "image") {
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

var tagRe = regexp.MustCompile(`<[^>]+>`)

func stripTags(s string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}

func stockFilename(term string) string {
	base := slug.Make(term)
	if base == "" {
		base = "imagem"
	}
	sum := sha1.Sum([]byte(term))
	return fmt.Sprintf("img_%s_%s.jpg", base, hex.EncodeToString(sum[:])[:8])
}
