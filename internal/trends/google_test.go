package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRealtimeProvider_StripsSentinelPrefix(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trends/api/realtimetrends" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("geo"); got != "BR" {
			t.Errorf("expected geo=BR, got %s", got)
		}
		_, _ = w.Write([]byte(")]}',\n" + `{
			"storySummaries": {
				"trendingStories": [
					{"title": "Eleições 2026", "articles": [{"url": "https://g1.globo.com/x"}]},
					{"title": "", "entityNames": ["Dólar sobe"]},
					{"title": ""}
				]
			}
		}`))
	}))
	defer server.Close()

	provider := NewRealtimeProvider(NewGoogleClient(server.URL, server.Client()))

	topics, err := provider.Fetch(context.Background(), "BR", 10)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[0].Raw != "Eleições 2026" {
		t.Fatalf("unexpected first topic: %q", topics[0].Raw)
	}
	if topics[0].OriginURL != "https://g1.globo.com/x" {
		t.Fatalf("unexpected origin url: %q", topics[0].OriginURL)
	}
	if topics[1].Raw != "Dólar sobe" {
		t.Fatalf("expected entity-name fallback, got %q", topics[1].Raw)
	}
}

func TestStripAntiJSONPrefix(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"full sentinel", ")]}',\n{\"a\":1}", "{\"a\":1}"},
		{"short sentinel without space", ")]}'\n{\"a\":1}", "{\"a\":1}"},
		{"no sentinel left untouched", "{\"a\":1}", "{\"a\":1}"},
		{"no object at all", "nada aqui", "nada aqui"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripAntiJSONPrefix(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDailyProvider_ParsesFirstDay(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(")]}',\n" + `{
			"default": {
				"trendingSearchesDays": [
					{"trendingSearches": [
						{"title": {"query": "Flamengo x Palmeiras"}, "articles": [{"url": "https://ge.globo.com/y"}]},
						{"title": {"query": "Dólar sobe"}}
					]},
					{"trendingSearches": [{"title": {"query": "ontem deveria ser ignorado"}}]}
				]
			}
		}`))
	}))
	defer server.Close()

	provider := NewDailyProvider(NewGoogleClient(server.URL, server.Client()))

	topics, err := provider.Fetch(context.Background(), "br", 10)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected topics from first day only, got %d", len(topics))
	}
	if topics[0].Raw != "Flamengo x Palmeiras" || topics[1].Raw != "Dólar sobe" {
		t.Fatalf("unexpected topics: %v", topics)
	}
}

func TestGoogleClient_NonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewDailyProvider(NewGoogleClient(server.URL, server.Client()))

	if _, err := provider.Fetch(context.Background(), "BR", 10); err == nil {
		t.Fatal("expected error on 429 response")
	}
}
