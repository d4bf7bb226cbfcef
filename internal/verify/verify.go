// Package verify compares declared bibliographic metadata against what an
// artifact says about itself.
//
// Matching is deliberately loose: curated lists abbreviate and reformat
// titles, so a substring in either direction counts. The thresholds trade
// precision for recall and are configurable.
package verify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jackzampolin/gutenshelf/internal/artifact"
)

const (
	DefaultMinSubstringLen = 4
	DefaultMinSharedWords  = 2
)

// Result is the outcome of one metadata check. A mismatch is a diagnostic,
// never an error.
type Result struct {
	TitleMatch  bool
	AuthorMatch bool
	// Extracted values, kept for the catalog.
	ActualTitle  string
	ActualAuthor string
}

// Matched reports whether both title and author matched.
func (r Result) Matched() bool {
	return r.TitleMatch && r.AuthorMatch
}

// Config holds the matching thresholds.
type Config struct {
	// MinSubstringLen is the minimum rune length of the shorter side for a
	// substring match to count. It also bounds the combined length of the
	// shared words when a short title matches on fewer than MinSharedWords.
	MinSubstringLen int
	// MinSharedWords caps the number of shared words required for a title
	// match; titles with fewer words need all of them.
	MinSharedWords int
}

// Matcher checks metadata with fixed thresholds.
type Matcher struct {
	minSubstringLen int
	minSharedWords  int
}

// NewMatcher creates a matcher. Zero thresholds take the defaults.
func NewMatcher(cfg Config) *Matcher {
	if cfg.MinSubstringLen <= 0 {
		cfg.MinSubstringLen = DefaultMinSubstringLen
	}
	if cfg.MinSharedWords <= 0 {
		cfg.MinSharedWords = DefaultMinSharedWords
	}
	return &Matcher{
		minSubstringLen: cfg.MinSubstringLen,
		minSharedWords:  cfg.MinSharedWords,
	}
}

// Check compares the expected title and author with the extracted metadata.
// A missing extracted title or author fails both checks.
func (m *Matcher) Check(expectedTitle, expectedAuthor string, got artifact.Metadata) Result {
	res := Result{ActualTitle: got.Title, ActualAuthor: got.Author}
	if strings.TrimSpace(got.Title) == "" || strings.TrimSpace(got.Author) == "" {
		return res
	}
	res.TitleMatch = m.TitleMatches(expectedTitle, got.Title)
	res.AuthorMatch = AuthorMatches(expectedAuthor, got.Author)
	return res
}

// TitleMatches reports whether two titles refer to the same work.
func (m *Matcher) TitleMatches(expected, actual string) bool {
	exp, act := Normalize(expected), Normalize(actual)
	if exp == "" || act == "" {
		return false
	}
	if exp == act {
		return true
	}

	shorter, longer := exp, act
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	if utf8.RuneCountInString(shorter) >= m.minSubstringLen && strings.Contains(longer, shorter) {
		return true
	}

	expWords := strings.Fields(exp)
	actWords := make(map[string]bool)
	for _, w := range strings.Fields(act) {
		actWords[w] = true
	}
	shared := make(map[string]bool)
	sharedLen := 0
	for _, w := range expWords {
		if actWords[w] && !shared[w] {
			shared[w] = true
			sharedLen += utf8.RuneCountInString(w)
		}
	}

	need := min(m.minSharedWords, len(uniq(expWords)))
	if need == 0 || len(shared) < need {
		return false
	}
	// Short titles match on fewer words than configured; the words
	// themselves must then be long enough to mean something.
	return need >= m.minSharedWords || sharedLen >= m.minSubstringLen
}

// AuthorMatches reports whether any expected name part longer than two runes
// is contained in, or contains, an extracted name part longer than two runes.
func AuthorMatches(expected, actual string) bool {
	expParts := nameParts(expected)
	actParts := nameParts(actual)
	for _, e := range expParts {
		for _, a := range actParts {
			if strings.Contains(a, e) || strings.Contains(e, a) {
				return true
			}
		}
	}
	return false
}

func nameParts(name string) []string {
	var parts []string
	for _, p := range strings.Fields(Normalize(name)) {
		if utf8.RuneCountInString(p) > 2 {
			parts = append(parts, p)
		}
	}
	return parts
}

func uniq(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0:0]
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// Normalize lowercases s, strips diacritics, replaces punctuation with spaces
// and collapses whitespace.
func Normalize(s string) string {
	s = removeAccents(strings.ToLower(s))
	var sb strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == '\'' || r == '’':
			// Contractions collapse: "Alice's" -> "alices"
		default:
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
