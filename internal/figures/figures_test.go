package figures

import "testing"

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text   string
		key    string
		handle string
	}{
		{"Neymar renova com clube", "neymar", "@neymarjr"},
		{"Lula viaja para cúpula", "lula", "@lulaoficial"},
		{"Show da Anitta lota estádio", "anitta", "@anitta"},
		{"MARINA SILVA comenta política ambiental", "marina silva", "@marinasilva"},
	}

	for _, tc := range cases {
		figure, ok := Detect(tc.text)
		if !ok {
			t.Errorf("Detect(%q): no figure found", tc.text)
			continue
		}
		if figure.Key != tc.key {
			t.Errorf("Detect(%q) = %q, want %q", tc.text, figure.Key, tc.key)
		}
		if figure.Handle != tc.handle {
			t.Errorf("Detect(%q) handle = %q, want %q", tc.text, figure.Handle, tc.handle)
		}
	}
}

func TestDetect_NoMatch(t *testing.T) {
	t.Parallel()

	if _, ok := Detect("Dólar sobe com juros americanos"); ok {
		t.Fatal("expected no figure for plain economy topic")
	}
}
