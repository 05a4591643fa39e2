package trends

import (
	"context"
	"errors"
	"testing"
	"time"

	"radarbr/internal/apperr"
	"radarbr/internal/domain"
)

type stubProvider struct {
	name   string
	topics []string
	err    error
	calls  int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, region string, limit int) ([]domain.Topic, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Topic, 0, len(s.topics))
	for _, raw := range s.topics {
		out = append(out, domain.Topic{Raw: raw})
	}
	return out, nil
}

func fastRegistry(providers ...Provider) *Registry {
	r := NewRegistry(providers, time.Second, nil)
	r.retry.MaxAttempts = 1
	r.retry.BaseDelay = time.Millisecond
	return r
}

func TestRegistry_FirstProviderSatisfiesLimit(t *testing.T) {
	t.Parallel()

	first := &stubProvider{name: "first", topics: []string{"Eleições 2026", "Dólar sobe", "Flamengo x Palmeiras"}}
	second := &stubProvider{name: "second", topics: []string{"nunca consultado"}}

	topics, err := fastRegistry(first, second).FetchTopics(context.Background(), "BR", 3)
	if err != nil {
		t.Fatalf("FetchTopics error: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	if second.calls != 0 {
		t.Fatalf("second provider should not run when the first satisfies the limit")
	}
}

func TestRegistry_FallsThroughFailures(t *testing.T) {
	t.Parallel()

	down := &stubProvider{name: "down", err: errors.New("timeout")}
	healthy := &stubProvider{name: "healthy", topics: []string{"Eleições 2026", "Dólar sobe"}}

	topics, err := fastRegistry(down, healthy).FetchTopics(context.Background(), "BR", 2)
	if err != nil {
		t.Fatalf("FetchTopics error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics from fallback, got %d", len(topics))
	}
	if down.calls == 0 {
		t.Fatal("primary provider was never tried")
	}
}

func TestRegistry_ConcatenatesUntilLimit(t *testing.T) {
	t.Parallel()

	short := &stubProvider{name: "short", topics: []string{"Eleições 2026"}}
	more := &stubProvider{name: "more", topics: []string{"Eleições 2026", "Dólar sobe", "Neymar renova"}}

	topics, err := fastRegistry(short, more).FetchTopics(context.Background(), "BR", 3)
	if err != nil {
		t.Fatalf("FetchTopics error: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("expected 3 deduplicated topics, got %d", len(topics))
	}
	if topics[0].Raw != "Eleições 2026" {
		t.Fatalf("first-seen order lost: %v", topics)
	}
}

func TestRegistry_AllProvidersDown(t *testing.T) {
	t.Parallel()

	a := &stubProvider{name: "a", err: errors.New("down")}
	b := &stubProvider{name: "b", err: errors.New("down")}

	_, err := fastRegistry(a, b).FetchTopics(context.Background(), "BR", 3)
	if !apperr.IsKind(err, apperr.ProviderUnavailable) {
		t.Fatalf("expected provider_unavailable kind, got %v", err)
	}
}

func TestRegistry_TagsTopicsWithProviderName(t *testing.T) {
	t.Parallel()

	p := &stubProvider{name: "google_daily", topics: []string{"Dólar sobe"}}

	topics, err := fastRegistry(p).FetchTopics(context.Background(), "BR", 1)
	if err != nil {
		t.Fatalf("FetchTopics error: %v", err)
	}
	if topics[0].SourceTag != "google_daily" {
		t.Fatalf("expected source tag, got %q", topics[0].SourceTag)
	}
	if topics[0].Region != "BR" {
		t.Fatalf("expected region BR, got %q", topics[0].Region)
	}
}
