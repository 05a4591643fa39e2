package storage

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

var pingEndpoints = []string{
	"https://www.google.com/ping",
	"https://www.bing.com/ping",
}

// SitemapPinger notifies search engines after successful production.
// Strictly best-effort: failures never propagate to the pipeline.
type SitemapPinger struct {
	sitemapURL string
	client     *http.Client
	logger     *slog.Logger
}

func NewSitemapPinger(sitemapURL string, client *http.Client, logger *slog.Logger) *SitemapPinger {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SitemapPinger{sitemapURL: sitemapURL, client: client, logger: logger}
}

func (p *SitemapPinger) Ping(ctx context.Context) {
	if p.sitemapURL == "" {
		return
	}
	for _, endpoint := range pingEndpoints {
		target := endpoint + "?sitemap=" + url.QueryEscape(p.sitemapURL)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			continue
		}
		resp, err := p.client.Do(req)
		if err != nil {
			p.warn("sitemap ping failed", "endpoint", endpoint, "err", err)
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			p.warn("sitemap ping rejected", "endpoint", endpoint, "status", resp.StatusCode)
			continue
		}
		p.debug("sitemap ping ok", "endpoint", endpoint)
	}
}

func (p *SitemapPinger) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *SitemapPinger) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
