package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry represents a single configuration key with its default.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns the default configuration entries in file order.
// They seed viper defaults (so env overrides work per key) and the
// generated config file.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		{
			Key:         "library_root",
			Value:       "",
			Description: "Directory holding category YAML files and their output folders (empty: --home or ~/.gutenshelf)",
		},
		{
			Key:         "log_level",
			Value:       d.LogLevel,
			Description: "Log level: debug, info, warn, error",
		},

		// ===================
		// Sources
		// ===================
		{
			Key:         "sources.user_agent",
			Value:       d.Sources.UserAgent,
			Description: "User-Agent sent with every request",
		},
		{
			Key:         "sources.fetch_timeout",
			Value:       d.Sources.FetchTimeout,
			Description: "Timeout for a single candidate download",
		},
		{
			Key:         "sources.search_timeout",
			Value:       d.Sources.SearchTimeout,
			Description: "Timeout for a single archive search or metadata request",
		},
		{
			Key:         "sources.requests_per_minute",
			Value:       d.Sources.RequestsPerMinute,
			Description: "Politeness limit across all outbound requests",
		},
		{
			Key:         "sources.max_artifact_bytes",
			Value:       d.Sources.MaxArtifactBytes,
			Description: "Downloads larger than this are rejected",
		},
		{
			Key:         "sources.archive_base_url",
			Value:       d.Sources.ArchiveBaseURL,
			Description: "Internet Archive base URL used for the fallback search",
		},
		{
			Key:         "sources.archive_fallback_unlisted",
			Value:       d.Sources.ArchiveFallbackUnlisted,
			Description: "Search the archive for books with gutenberg_id 0 and no url",
		},
		{
			Key:         "sources.keep_artifacts",
			Value:       d.Sources.KeepArtifacts,
			Description: "Save downloaded EPUBs in the category folder and reuse them",
		},

		// ===================
		// Artifact
		// ===================
		{
			Key:         "artifact.min_bytes",
			Value:       d.Artifact.MinBytes,
			Description: "Artifacts smaller than this fail validation",
		},
		{
			Key:         "artifact.max_text_chars",
			Value:       d.Artifact.MaxTextChars,
			Description: "Body text prefix analyzed per book",
		},

		// ===================
		// Verify
		// ===================
		{
			Key:         "verify.min_substring_len",
			Value:       d.Verify.MinSubstringLen,
			Description: "Shortest normalized title accepted as a substring match",
		},
		{
			Key:         "verify.min_shared_words",
			Value:       d.Verify.MinSharedWords,
			Description: "Shared title words needed for a word-overlap match",
		},

		// ===================
		// Readability
		// ===================
		{
			Key:         "readability.patterns_dir",
			Value:       d.Readability.PatternsDir,
			Description: "Directory with TeX hyphenation patterns (empty: {library_root}/hyphenation)",
		},
		{
			Key:         "readability.min_words",
			Value:       d.Readability.MinWords,
			Description: "Texts with fewer words are unscoreable",
		},
		{
			Key:         "readability.bands",
			Value:       d.Readability.Bands,
			Description: "Ordered grade ceilings per proficiency band; the last band is open-ended",
		},
	}
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}
