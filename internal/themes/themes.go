// Package themes classifies text into literary themes by keyword.
package themes

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
)

// Detector finds themes in text. It is immutable after construction.
type Detector struct {
	langs map[string]*langMatcher
}

type langMatcher struct {
	matcher  *ahocorasick.Matcher
	keywords []string   // dictionary index -> keyword
	labels   [][]string // dictionary index -> themes triggered
}

// NewDetector builds one automaton per language table. A nil tables map
// uses DefaultTables.
func NewDetector(tables map[string]Table) *Detector {
	if tables == nil {
		tables = DefaultTables
	}
	d := &Detector{langs: make(map[string]*langMatcher, len(tables))}
	for code, table := range tables {
		d.langs[code] = newLangMatcher(table)
	}
	return d
}

func newLangMatcher(table Table) *langMatcher {
	index := make(map[string]int)
	lm := &langMatcher{}

	// Sorted for a stable dictionary order.
	labels := make([]string, 0, len(table))
	for label := range table {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		for _, kw := range table[label] {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			i, ok := index[kw]
			if !ok {
				i = len(lm.keywords)
				index[kw] = i
				lm.keywords = append(lm.keywords, kw)
				lm.labels = append(lm.labels, nil)
			}
			lm.labels[i] = append(lm.labels[i], label)
		}
	}

	lm.matcher = ahocorasick.NewStringMatcher(lm.keywords)
	return lm
}

// Languages returns the languages the detector has tables for, sorted.
func (d *Detector) Languages() []string {
	out := make([]string, 0, len(d.langs))
	for code := range d.langs {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Detect returns the sorted labels of every theme with at least one
// case-insensitive whole-word keyword match. Unknown languages yield nil.
func (d *Detector) Detect(text, lang string) []string {
	lm, ok := d.langs[lang]
	if !ok || text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	found := make(map[string]bool)
	for _, i := range lm.matcher.Match([]byte(lower)) {
		if !containsWord(lower, lm.keywords[i]) {
			continue
		}
		for _, label := range lm.labels[i] {
			found[label] = true
		}
	}

	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for label := range found {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// containsWord reports whether kw occurs in text delimited by non-word
// runes or the ends of text.
func containsWord(text, kw string) bool {
	for start := 0; start <= len(text)-len(kw); {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)

		before, _ := utf8.DecodeLastRuneInString(text[:i])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (i == 0 || !isWordRune(before)) && (end == len(text) || !isWordRune(after)) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
