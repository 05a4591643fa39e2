package category

import "testing"

func TestForTopic(t *testing.T) {
	t.Parallel()

	cases := []struct {
		topic string
		want  string
	}{
		{"Eleições 2026", Politics},
		{"Dólar sobe", Economy},
		{"Flamengo x Palmeiras", Sports},
		{"Neymar renova com clube", Sports},
		{"WhatsApp fora do ar", Technology},
		{"Vacina contra dengue", Health},
		{"Queimadas na Amazônia", Environment},
		{"BBB estreia nova temporada", Entertainment},
		{"Enem tem novo cronograma", Education},
		{"Museu reabre ao público", Culture},
		{"Assunto sem palavra-chave", General},
		{"", General},
	}

	for _, tc := range cases {
		if got := ForTopic(tc.topic); got != tc.want {
			t.Errorf("ForTopic(%q) = %q, want %q", tc.topic, got, tc.want)
		}
	}
}

func TestFirstRuleWins(t *testing.T) {
	t.Parallel()

	// "copa" (sports) appears before "governo" (politics) in rule order.
	if got := ForTopic("governo anuncia verba para a copa"); got != Sports {
		t.Fatalf("expected sports by rule order, got %q", got)
	}
}
