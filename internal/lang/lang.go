// Package lang picks the language used for syllable counting and theme
// detection.
package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Supported lists the languages with syllable and theme support.
var Supported = []string{"de", "en", "es", "fr"}

// detectable maps the detector's languages to the supported codes. Text
// in any other language is never reported.
var detectable = map[whatlanggo.Lang]string{
	whatlanggo.Deu: "de",
	whatlanggo.Eng: "en",
	whatlanggo.Spa: "es",
	whatlanggo.Fra: "fr",
}

var detectOptions = func() whatlanggo.Options {
	allow := make(map[whatlanggo.Lang]bool, len(detectable))
	for l := range detectable {
		allow[l] = true
	}
	return whatlanggo.Options{Whitelist: allow}
}()

// IsSupported reports whether code is one of Supported.
func IsSupported(code string) bool {
	for _, s := range Supported {
		if s == code {
			return true
		}
	}
	return false
}

// Normalize reduces a language tag such as "en-US" to its lowercase
// two-letter primary subtag.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	if len(code) > 2 {
		code = code[:2]
	}
	return code
}

// Detect identifies the language of text by trigram frequency, restricted
// to Supported. It returns fallback when text has no Latin letters or no
// language scores ahead of the others.
func Detect(text, fallback string) string {
	info := whatlanggo.DetectWithOptions(text, detectOptions)
	code, ok := detectable[info.Lang]
	if !ok || info.Confidence <= 0 {
		return fallback
	}
	return code
}

// Resolve picks the analysis language: a supported embedded language first,
// then the declared hint, then trigram detection over text, then "en".
func Resolve(embedded, hint, text string) string {
	if code := Normalize(embedded); IsSupported(code) {
		return code
	}
	if code := Normalize(hint); IsSupported(code) {
		return code
	}
	return Detect(text, "en")
}
