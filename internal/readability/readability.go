// Package readability scores text with the Flesch-Kincaid grade level and
// maps grades to proficiency bands.
package readability

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// DefaultMinWords is the smallest sample that gets a score.
const DefaultMinWords = 10

// Reasons a text is unscoreable.
const (
	ReasonNoWords     = "no-words"
	ReasonNoSentences = "no-sentences"
	ReasonTooFewWords = "too-few-words"
)

// Score is the readability outcome for one text. When Scoreable is false,
// Grade and Band are zero values and Reason says why.
type Score struct {
	Grade     float64
	Band      string
	Scoreable bool
	Reason    string

	Words     int
	Sentences int
	Syllables int
	Counter   string
}

// Band maps grades up to and including MaxGrade to Label. The last band of
// a list is open-ended.
type Band struct {
	Label    string
	MaxGrade float64
}

// Bands is an ordered list of bands.
type Bands []Band

// DefaultBands are the CEFR cutoffs.
func DefaultBands() Bands {
	return Bands{
		{Label: "A1", MaxGrade: 4},
		{Label: "A2", MaxGrade: 6},
		{Label: "B1", MaxGrade: 8},
		{Label: "B2", MaxGrade: 10},
		{Label: "C1", MaxGrade: 13},
		{Label: "C2"},
	}
}

// Validate checks labels are set and ceilings strictly increase.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("at least one band is required")
	}
	for i, band := range b {
		if band.Label == "" {
			return fmt.Errorf("band %d has no label", i+1)
		}
		if i > 0 && i < len(b)-1 && band.MaxGrade <= b[i-1].MaxGrade {
			return fmt.Errorf("band %q: max grade %.1f does not exceed %.1f", band.Label, band.MaxGrade, b[i-1].MaxGrade)
		}
	}
	return nil
}

// Lookup returns the label of the first band whose ceiling is at least grade.
func (b Bands) Lookup(grade float64) string {
	for i, band := range b {
		if i == len(b)-1 || grade <= band.MaxGrade {
			return band.Label
		}
	}
	return ""
}

// Config configures an Analyzer.
type Config struct {
	Counter  SyllableCounter // Defaults to HeuristicCounter
	Bands    Bands           // Defaults to DefaultBands
	MinWords int             // Defaults to DefaultMinWords
}

// Analyzer computes readability scores. Safe for sequential reuse.
type Analyzer struct {
	counter  SyllableCounter
	bands    Bands
	minWords int
}

// NewAnalyzer creates an analyzer, filling defaults.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if cfg.Counter == nil {
		cfg.Counter = HeuristicCounter{}
	}
	if len(cfg.Bands) == 0 {
		cfg.Bands = DefaultBands()
	}
	if cfg.MinWords <= 0 {
		cfg.MinWords = DefaultMinWords
	}
	if err := cfg.Bands.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bands: %w", err)
	}
	return &Analyzer{
		counter:  cfg.Counter,
		bands:    cfg.Bands,
		minWords: cfg.MinWords,
	}, nil
}

// Counter returns the syllable counter in use.
func (a *Analyzer) Counter() SyllableCounter {
	return a.counter
}

// Score computes the Flesch-Kincaid grade of text:
//
//	0.39*(words/sentences) + 11.8*(syllables/words) - 15.59
//
// clamped at zero and rounded to one decimal. Texts with no words, no
// sentence terminators, or fewer than the minimum word count are unscoreable.
func (a *Analyzer) Score(text, lang string) Score {
	words, sentences := Tokenize(text)
	s := Score{
		Words:     len(words),
		Sentences: sentences,
		Counter:   a.counter.Name(),
	}

	switch {
	case len(words) == 0:
		s.Reason = ReasonNoWords
		return s
	case sentences == 0:
		s.Reason = ReasonNoSentences
		return s
	case len(words) < a.minWords:
		s.Reason = ReasonTooFewWords
		return s
	}

	for _, w := range words {
		s.Syllables += a.counter.CountSyllables(w, lang)
	}

	wps := float64(s.Words) / float64(s.Sentences)
	spw := float64(s.Syllables) / float64(s.Words)
	grade := 0.39*wps + 11.8*spw - 15.59

	s.Grade = math.Round(math.Max(0, grade)*10) / 10
	s.Band = a.bands.Lookup(s.Grade)
	s.Scoreable = true
	return s
}

// Tokenize drops every character other than letters, digits, whitespace and
// sentence terminators, then returns the words and the number of terminator
// runs. Words carry no punctuation.
func Tokenize(text string) ([]string, int) {
	var sb strings.Builder
	sb.Grow(len(text))

	sentences := 0
	inTerminator := false
	for _, r := range text {
		switch {
		case r == '.' || r == '!' || r == '?':
			if !inTerminator {
				sentences++
			}
			inTerminator = true
			sb.WriteRune(' ')
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		default:
			continue
		}
		inTerminator = false
	}

	return strings.Fields(sb.String()), sentences
}
