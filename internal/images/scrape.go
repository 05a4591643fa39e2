package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"radarbr/internal/domain"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// hostSelectors holds per-site CSS selectors tried before the generic
// og:image fallback. Keys have the www. prefix stripped.
var hostSelectors = map[string][]string{
	"oglobo.globo.com": {".article-image img", ".content-image img", ".article-photo img"},
	"g1.globo.com":     {".content-photo img", ".article-image img"},
	"folha.uol.com.br": {".image img", ".article-image img"},
	"estadao.com.br":   {".image img", ".article-photo img"},
}

// hostCredits names the outlets we scrape most often; unknown hosts get a
// generic editorial credit built from the hostname.
var hostCredits = map[string]string{
	"oglobo.globo.com": "Foto: O Globo (Uso Editorial)",
	"g1.globo.com":     "Foto: G1 (Uso Editorial)",
	"folha.uol.com.br": "Foto: Folha de S.Paulo (Uso Editorial)",
	"estadao.com.br":   "Foto: Estadão (Uso Editorial)",
	"cnnbrasil.com.br": "Foto: CNN Brasil (Uso Editorial)",
	"infomoney.com.br": "Foto: InfoMoney (Uso Editorial)",
}

// ScrapeStrategy fetches the topic's upstream article and extracts its
// lead image.
type ScrapeStrategy struct {
	client  *http.Client
	timeout time.Duration
}

var _ Strategy = (*ScrapeStrategy)(nil)

func NewScrapeStrategy(client *http.Client, timeout time.Duration) *ScrapeStrategy {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScrapeStrategy{client: client, timeout: timeout}
}

func (s *ScrapeStrategy) Name() string { return "scraped_origin" }

func (s *ScrapeStrategy) Resolve(ctx context.Context, topic domain.Topic, _ string) (domain.ImageAttachment, bool) {
	if topic.OriginURL == "" {
		return domain.ImageAttachment{}, false
	}

	pageURL, err := url.Parse(topic.OriginURL)
	if err != nil || !pageURL.IsAbs() {
		return domain.ImageAttachment{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, topic.OriginURL, nil)
	if err != nil {
		return domain.ImageAttachment{}, false
	}
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.ImageAttachment{}, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.ImageAttachment{}, false
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.ImageAttachment{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(pageURL.Hostname()), "www.")

	imgSrc, alt := extractImage(doc, host)
	if imgSrc == "" {
		return domain.ImageAttachment{}, false
	}

	abs := resolveRef(pageURL, imgSrc)
	if abs == "" {
		return domain.ImageAttachment{}, false
	}
	if alt == "" {
		alt = topic.Raw
	}

	return domain.ImageAttachment{
		URL:     abs,
		AltText: alt,
		Credit:  creditFor(host),
		License: "uso editorial",
		Origin:  domain.OriginScraped,
	}, true
}

// extractImage walks host selectors, then og:image, then the first plain
// <img> with a usable src.
func extractImage(doc *goquery.Document, host string) (src, alt string) {
	for _, sel := range hostSelectors[host] {
		node := doc.Find(sel).First()
		if s := imgSource(node); s != "" {
			return s, node.AttrOr("alt", "")
		}
	}

	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && og != "" {
		return og, ""
	}

	var found *goquery.Selection
	doc.Find("img").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if imgSource(node) != "" {
			found = node
			return false
		}
		return true
	})
	if found != nil {
		return imgSource(found), found.AttrOr("alt", "")
	}
	return "", ""
}

func imgSource(node *goquery.Selection) string {
	if node == nil || node.Length() == 0 {
		return ""
	}
	if src := node.AttrOr("src", ""); src != "" && !strings.HasPrefix(src, "data:") {
		return src
	}
	return node.AttrOr("data-src", "")
}

func resolveRef(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func creditFor(host string) string {
	if c, ok := hostCredits[host]; ok {
		return c
	}
	return fmt.Sprintf("Foto: %s (Uso Editorial)", host)
}
