package readability

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/speedata/hyphenation"
)

// SyllableCounter counts syllables in a single word. Implementations must be
// deterministic.
type SyllableCounter interface {
	CountSyllables(word, lang string) int
	Name() string
}

// PatternFiles maps languages to their TeX hyphenation pattern file names.
var PatternFiles = map[string]string{
	"en": "hyph-en-us.pat.txt",
	"de": "hyph-de-1996.pat.txt",
	"es": "hyph-es.pat.txt",
	"fr": "hyph-fr.pat.txt",
}

// ErrNoPatterns is returned when a patterns directory holds no usable files.
var ErrNoPatterns = errors.New("no hyphenation patterns found")

// HeuristicCounter counts vowel groups. It is the fallback when no
// hyphenation patterns are installed.
type HeuristicCounter struct{}

func (HeuristicCounter) Name() string { return "heuristic" }

// CountSyllables counts runs of vowels, drops a silent final "e" in English
// (but not "-le"), and never returns less than one.
func (HeuristicCounter) CountSyllables(word, lang string) int {
	word = strings.ToLower(word)
	letters := []rune(word)

	count := 0
	prevVowel := false
	for _, r := range letters {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if lang == "en" && count > 1 && strings.HasSuffix(word, "e") {
		n := len(letters)
		silent := true
		if n >= 3 && letters[n-2] == 'l' && !isVowel(letters[n-3]) {
			silent = false // table, little
		}
		if n >= 2 && isVowel(letters[n-2]) {
			silent = false // free, agree
		}
		if silent {
			count--
		}
	}

	return max(count, 1)
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiouyäöüáéíóúàèìòùâêîôûëïÿæœ", r)
}

// HyphenationCounter counts syllables as hyphenation break points plus one.
// Languages without patterns delegate to the fallback counter.
type HyphenationCounter struct {
	langs    map[string]*hyphenation.Lang
	fallback SyllableCounter
}

// NewHyphenationCounter loads every pattern file present in dir.
func NewHyphenationCounter(dir string) (*HyphenationCounter, error) {
	c := &HyphenationCounter{
		langs:    make(map[string]*hyphenation.Lang),
		fallback: HeuristicCounter{},
	}
	if dir == "" {
		return nil, ErrNoPatterns
	}

	for code, name := range PatternFiles {
		l, err := loadPatterns(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s patterns: %w", code, err)
		}
		c.langs[code] = l
	}

	if len(c.langs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPatterns, dir)
	}
	return c, nil
}

func loadPatterns(path string) (*hyphenation.Lang, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return hyphenation.New(f)
}

func (c *HyphenationCounter) Name() string { return "hyphenation" }

// Languages returns the languages with loaded patterns.
func (c *HyphenationCounter) Languages() []string {
	var out []string
	for _, code := range []string{"de", "en", "es", "fr"} {
		if _, ok := c.langs[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

func (c *HyphenationCounter) CountSyllables(word, lang string) int {
	l, ok := c.langs[lang]
	if !ok {
		return c.fallback.CountSyllables(word, lang)
	}
	word = strings.ToLower(word)
	if !strings.ContainsFunc(word, unicode.IsLetter) {
		return 1
	}
	return len(l.Hyphenate(word)) + 1
}

// DetectCounter picks the syllable counter for a run: hyphenation when
// patterns are available in patternsDir, otherwise the heuristic.
func DetectCounter(patternsDir string, logger *slog.Logger) SyllableCounter {
	if logger == nil {
		logger = slog.Default()
	}

	c, err := NewHyphenationCounter(patternsDir)
	if err != nil {
		logger.Info("using heuristic syllable counter", "reason", err)
		return HeuristicCounter{}
	}
	logger.Info("using hyphenation syllable counter", "dir", patternsDir, "languages", c.Languages())
	return c
}
