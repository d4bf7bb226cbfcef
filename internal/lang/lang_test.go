package lang

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"en":     "en",
		"EN-us":  "en",
		" de_DE": "de",
		"fra":    "fr",
		"":       "",
	}
	for input, want := range tests {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "Alice was beginning to get very tired of sitting by her sister on the bank, and of having nothing to do: once or twice she had peeped into the book her sister was reading, but it had no pictures or conversations in it.", "en"},
		{"german", "Als Gregor Samsa eines Morgens aus unruhigen Träumen erwachte, fand er sich in seinem Bett zu einem ungeheueren Ungeziefer verwandelt. Er lag auf seinem panzerartig harten Rücken und sah, wenn er den Kopf ein wenig hob, seinen gewölbten, braunen Bauch.", "de"},
		{"spanish", "En un lugar de la Mancha, de cuyo nombre no quiero acordarme, no ha mucho tiempo que vivía un hidalgo de los de lanza en astillero, adarga antigua, rocín flaco y galgo corredor.", "es"},
		{"french", "Au commencement de la nuit, les voyageurs arrivèrent dans une petite ville où ils trouvèrent une auberge. Le maître de la maison les reçut avec beaucoup de politesse et leur donna une chambre très propre.", "fr"},
		{"no letters", "1865 — 1871, 42; 7 / 3", "xx"},
		{"empty", "", "xx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.text, "xx"); got != tt.want {
				t.Errorf("Detect = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetect_OnlySupportedLanguages(t *testing.T) {
	// Italian is close to Spanish and French but never reported itself.
	text := "Nel mezzo del cammin di nostra vita mi ritrovai per una selva oscura, ché la diritta via era smarrita. Ahi quanto a dir qual era è cosa dura esta selva selvaggia e aspra e forte che nel pensier rinova la paura!"
	got := Detect(text, "xx")
	if got != "xx" && !IsSupported(got) {
		t.Errorf("Detect returned unsupported language %q", got)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		embedded, hint, text, want string
	}{
		{"de-DE", "en", "the and the", "de"},
		{"la", "fr", "the and the", "fr"},
		{"", "", "Der Hund und die Katze sind nicht allein, sie schlafen zusammen in dem warmen Zimmer neben der Küche.", "de"},
		{"", "", "", "en"},
	}
	for _, tt := range tests {
		if got := Resolve(tt.embedded, tt.hint, tt.text); got != tt.want {
			t.Errorf("Resolve(%q, %q, %q) = %q, want %q", tt.embedded, tt.hint, tt.text, got, tt.want)
		}
	}
}
