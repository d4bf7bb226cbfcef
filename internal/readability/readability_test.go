package readability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHeuristicCounter(t *testing.T) {
	c := HeuristicCounter{}

	tests := []struct {
		word string
		lang string
		want int
	}{
		{"cat", "en", 1},
		{"make", "en", 1},
		{"table", "en", 2},
		{"little", "en", 2},
		{"agree", "en", 2},
		{"the", "en", 1},
		{"beautiful", "en", 3},
		{"rhythm", "en", 1},
		{"wonderland", "en", 3},
		{"Alice", "en", 2},
		{"hmm", "en", 1},
		{"1865", "en", 1},
		{"Grüße", "de", 2},
		{"Katze", "de", 2},
		{"canción", "es", 2},
		{"été", "fr", 2},
		{"rose", "fr", 2},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := c.CountSyllables(tt.word, tt.lang); got != tt.want {
				t.Errorf("CountSyllables(%q, %q) = %d, want %d", tt.word, tt.lang, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		words     int
		sentences int
	}{
		{"empty", "", 0, 0},
		{"no terminators", "just some words here", 4, 0},
		{"ellipsis is one terminator", "Wait... what?! Yes.", 3, 3},
		{"punctuation dropped", "Alice's (small) rabbit-hole; said \"no\".", 5, 1},
		{"only punctuation", "... !!! ???", 0, 3},
		{"quote after terminator", "He left.' Then she came.", 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, sentences := Tokenize(tt.text)
			if len(words) != tt.words {
				t.Errorf("expected %d words, got %d: %v", tt.words, len(words), words)
			}
			if sentences != tt.sentences {
				t.Errorf("expected %d sentences, got %d", tt.sentences, sentences)
			}
		})
	}
}

func TestBands(t *testing.T) {
	bands := DefaultBands()
	if err := bands.Validate(); err != nil {
		t.Fatalf("default bands invalid: %v", err)
	}

	tests := []struct {
		grade float64
		want  string
	}{
		{0, "A1"},
		{4, "A1"},
		{4.1, "A2"},
		{6, "A2"},
		{7.5, "B1"},
		{10, "B2"},
		{12.9, "C1"},
		{13, "C1"},
		{13.1, "C2"},
		{40, "C2"},
	}
	for _, tt := range tests {
		if got := bands.Lookup(tt.grade); got != tt.want {
			t.Errorf("Lookup(%.1f) = %q, want %q", tt.grade, got, tt.want)
		}
	}

	order := map[string]int{}
	for i, b := range bands {
		order[b.Label] = i
	}
	prev := 0
	for g := 0.0; g <= 20; g += 0.1 {
		idx := order[bands.Lookup(g)]
		if idx < prev {
			t.Fatalf("band lookup not monotonic at grade %.1f", g)
		}
		prev = idx
	}
}

func TestBands_Validate(t *testing.T) {
	tests := []struct {
		name    string
		bands   Bands
		wantErr bool
	}{
		{"empty", Bands{}, true},
		{"single open band", Bands{{Label: "all"}}, false},
		{"missing label", Bands{{Label: "easy", MaxGrade: 5}, {}}, true},
		{"not increasing", Bands{{Label: "a", MaxGrade: 5}, {Label: "b", MaxGrade: 5}, {Label: "c"}}, true},
		{"increasing", Bands{{Label: "a", MaxGrade: 5}, {Label: "b", MaxGrade: 9}, {Label: "c"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bands.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

const sampleText = `Alice was beginning to get very tired of sitting by her sister on the bank,
and of having nothing to do. Once or twice she had peeped into the book her sister
was reading, but it had no pictures or conversations in it. And what is the use of
a book, thought Alice, without pictures or conversations?`

func TestAnalyzer_Score(t *testing.T) {
	a, err := NewAnalyzer(Config{})
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}

	s := a.Score(sampleText, "en")
	if !s.Scoreable {
		t.Fatalf("expected scoreable text, got reason %q", s.Reason)
	}
	if s.Sentences != 3 {
		t.Errorf("expected 3 sentences, got %d", s.Sentences)
	}
	if s.Words != 57 {
		t.Errorf("expected 57 words, got %d", s.Words)
	}
	if s.Counter != "heuristic" {
		t.Errorf("expected heuristic counter, got %q", s.Counter)
	}
	if s.Grade <= 0 || s.Grade > 20 {
		t.Errorf("implausible grade %.1f", s.Grade)
	}
	if s.Band != DefaultBands().Lookup(s.Grade) {
		t.Errorf("band %q does not match grade %.1f", s.Band, s.Grade)
	}
	if s.Grade != float64(int(s.Grade*10+0.5))/10 {
		t.Errorf("grade %v not rounded to one decimal", s.Grade)
	}

	for i := 0; i < 5; i++ {
		if again := a.Score(sampleText, "en"); again != s {
			t.Fatalf("score not deterministic: %+v vs %+v", again, s)
		}
	}
}

func TestAnalyzer_Formula(t *testing.T) {
	a, _ := NewAnalyzer(Config{Counter: fixedCounter(1)})

	// 10 words, 1 sentence, 10 syllables:
	// 0.39*10 + 11.8*1 - 15.59 = 0.11 -> 0.1
	s := a.Score("one two three four five six seven eight nine ten.", "en")
	if !s.Scoreable || s.Grade != 0.1 {
		t.Errorf("expected grade 0.1, got %+v", s)
	}
	if s.Band != "A1" {
		t.Errorf("expected A1, got %q", s.Band)
	}

	// Very short sentences clamp at zero.
	s = a.Score("Go. Go. Go. Go. Go. Go. Go. Go. Go. Go.", "en")
	if !s.Scoreable || s.Grade != 0 {
		t.Errorf("expected clamped grade 0, got %+v", s)
	}

	a, _ = NewAnalyzer(Config{Counter: fixedCounter(3)})
	// 0.39*20 + 11.8*3 - 15.59 = 27.61 -> 27.6
	s = a.Score(strings.Repeat("word ", 20)+".", "en")
	if s.Grade != 27.6 || s.Band != "C2" {
		t.Errorf("expected 27.6/C2, got %+v", s)
	}
}

func TestAnalyzer_Unscoreable(t *testing.T) {
	a, _ := NewAnalyzer(Config{})

	tests := []struct {
		name   string
		text   string
		reason string
	}{
		{"empty", "", ReasonNoWords},
		{"whitespace", "   \n\t ", ReasonNoWords},
		{"no sentences", strings.Repeat("words without any terminator ", 10), ReasonNoSentences},
		{"too few words", "Too short. Really.", ReasonTooFewWords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := a.Score(tt.text, "en")
			if s.Scoreable {
				t.Fatal("expected unscoreable")
			}
			if s.Reason != tt.reason {
				t.Errorf("expected reason %q, got %q", tt.reason, s.Reason)
			}
			if s.Band != "" || s.Grade != 0 {
				t.Errorf("unscoreable score should carry no grade or band: %+v", s)
			}
		})
	}
}

func TestNewAnalyzer_InvalidBands(t *testing.T) {
	_, err := NewAnalyzer(Config{Bands: Bands{{Label: "a", MaxGrade: 9}, {Label: "b", MaxGrade: 3}, {Label: "c"}}})
	if err == nil {
		t.Error("expected error for decreasing bands")
	}
}

func TestDetectCounter(t *testing.T) {
	t.Run("no directory", func(t *testing.T) {
		if c := DetectCounter("", nil); c.Name() != "heuristic" {
			t.Errorf("expected heuristic, got %s", c.Name())
		}
	})

	t.Run("empty directory", func(t *testing.T) {
		if c := DetectCounter(t.TempDir(), nil); c.Name() != "heuristic" {
			t.Errorf("expected heuristic, got %s", c.Name())
		}
	})

	t.Run("with patterns", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, PatternFiles["en"]), []byte("a1b\n"), 0644); err != nil {
			t.Fatal(err)
		}

		c := DetectCounter(dir, nil)
		if c.Name() != "hyphenation" {
			t.Fatalf("expected hyphenation, got %s", c.Name())
		}
		hc := c.(*HyphenationCounter)
		if langs := hc.Languages(); len(langs) != 1 || langs[0] != "en" {
			t.Errorf("expected only en patterns, got %v", langs)
		}
		if got := c.CountSyllables("cat", "en"); got < 1 {
			t.Errorf("expected at least one syllable, got %d", got)
		}
		// No German patterns: delegates to the heuristic.
		if got := c.CountSyllables("Katze", "de"); got != 2 {
			t.Errorf("expected heuristic fallback count 2, got %d", got)
		}
	})
}

type fixedCounter int

func (f fixedCounter) CountSyllables(string, string) int { return int(f) }
func (f fixedCounter) Name() string                      { return "fixed" }
