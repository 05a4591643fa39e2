package trends

import (
	"reflect"
	"testing"

	"radarbr/internal/domain"
)

func TestIsNoisy(t *testing.T) {
	t.Parallel()

	noisy := []string{
		"hoje",
		"amanhã",
		"que horas são",
		"que dia é hoje",
		"vai chover em são paulo",
		"previsão do tempo",
		"tem jogo do flamengo",
		"jogo do palmeiras hoje",
		"notícias",
		"notícias de hoje",
		"tempo agora",
		"fases da lua",
		"resultado da lotofácil",
		"quina de hoje",
		"mega-sena acumulada",
		"ab", // length <= 3
		"  x ",
	}
	for _, term := range noisy {
		if !IsNoisy(term) {
			t.Errorf("expected %q to be noisy", term)
		}
	}

	clean := []string{
		"Eleições 2026",
		"Dólar sobe",
		"Flamengo x Palmeiras",
		"Neymar renova com clube",
		"máquina de lavar em promoção", // 'quina' must not match inside words
	}
	for _, term := range clean {
		if IsNoisy(term) {
			t.Errorf("expected %q to pass the noise filter", term)
		}
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	if got := Clean("  Dólar   sobe \t forte "); got != "Dólar sobe forte" {
		t.Fatalf("unexpected clean result: %q", got)
	}
}

func TestNormalize_DedupeAndOrder(t *testing.T) {
	t.Parallel()

	in := []domain.Topic{
		{Raw: " Eleições 2026 "},
		{Raw: "hoje"},
		{Raw: "Dólar sobe"},
		{Raw: "ELEIÇÕES 2026"},
		{Raw: "Flamengo x Palmeiras"},
	}

	out := Normalize(in, 10)
	got := make([]string, 0, len(out))
	for _, topic := range out {
		got = append(got, topic.Raw)
	}

	want := []string{"Eleições 2026", "Dólar sobe", "Flamengo x Palmeiras"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected topics: %v", got)
	}

	for _, topic := range out {
		if topic.Normalized == "" {
			t.Fatalf("normalized text missing for %q", topic.Raw)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	in := []domain.Topic{
		{Raw: "  Dólar   sobe "},
		{Raw: "Eleições 2026"},
	}

	once := Normalize(in, 10)
	twice := Normalize(once, 10)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalize is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestNormalize_RespectsLimit(t *testing.T) {
	t.Parallel()

	in := []domain.Topic{
		{Raw: "tópico um aqui"},
		{Raw: "tópico dois aqui"},
		{Raw: "tópico três aqui"},
	}

	out := Normalize(in, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(out))
	}
}
