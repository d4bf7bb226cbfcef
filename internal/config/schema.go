package config

import (
	"fmt"
	"time"
)

// Config holds gutenshelf configuration.
// Stored at: {library_root}/config.yaml
type Config struct {
	LibraryRoot string         `mapstructure:"library_root" yaml:"library_root"`
	LogLevel    string         `mapstructure:"log_level" yaml:"log_level"` // debug, info, warn, error
	Sources     SourcesCfg     `mapstructure:"sources" yaml:"sources"`
	Artifact    ArtifactCfg    `mapstructure:"artifact" yaml:"artifact"`
	Verify      VerifyCfg      `mapstructure:"verify" yaml:"verify"`
	Readability ReadabilityCfg `mapstructure:"readability" yaml:"readability"`
}

// SourcesCfg configures candidate resolution and fetching.
type SourcesCfg struct {
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`   // Per candidate attempt
	SearchTimeout     time.Duration `mapstructure:"search_timeout" yaml:"search_timeout"` // Per archive search/metadata call
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	MaxArtifactBytes  int64         `mapstructure:"max_artifact_bytes" yaml:"max_artifact_bytes"`
	ArchiveBaseURL    string        `mapstructure:"archive_base_url" yaml:"archive_base_url"`
	// ArchiveFallbackUnlisted enables the archive search for books with no
	// Gutenberg ID and no URL. Per-book archive_fallback overrides it.
	ArchiveFallbackUnlisted bool `mapstructure:"archive_fallback_unlisted" yaml:"archive_fallback_unlisted"`
	// KeepArtifacts saves fetched EPUBs into the category folder and reuses them.
	KeepArtifacts bool `mapstructure:"keep_artifacts" yaml:"keep_artifacts"`
}

// ArtifactCfg configures structural validation and text extraction.
type ArtifactCfg struct {
	MinBytes     int `mapstructure:"min_bytes" yaml:"min_bytes"`
	MaxTextChars int `mapstructure:"max_text_chars" yaml:"max_text_chars"`
}

// VerifyCfg configures metadata matching tolerance.
type VerifyCfg struct {
	MinSubstringLen int `mapstructure:"min_substring_len" yaml:"min_substring_len"`
	MinSharedWords  int `mapstructure:"min_shared_words" yaml:"min_shared_words"`
}

// ReadabilityCfg configures grade scoring and band mapping.
type ReadabilityCfg struct {
	PatternsDir string    `mapstructure:"patterns_dir" yaml:"patterns_dir"` // Empty: {library_root}/hyphenation
	MinWords    int       `mapstructure:"min_words" yaml:"min_words"`
	Bands       []BandCfg `mapstructure:"bands" yaml:"bands"`
}

// BandCfg maps grades up to and including MaxGrade to Label.
// The last band is open-ended; its MaxGrade is ignored.
type BandCfg struct {
	Label    string  `mapstructure:"label" yaml:"label"`
	MaxGrade float64 `mapstructure:"max_grade" yaml:"max_grade"`
}

// DefaultBands are the CEFR cutoffs used when none are configured.
func DefaultBands() []BandCfg {
	return []BandCfg{
		{Label: "A1", MaxGrade: 4},
		{Label: "A2", MaxGrade: 6},
		{Label: "B1", MaxGrade: 8},
		{Label: "B2", MaxGrade: 10},
		{Label: "C1", MaxGrade: 13},
		{Label: "C2"},
	}
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Sources: SourcesCfg{
			UserAgent:         "Mozilla/5.0 (compatible; gutenshelf/1.0)",
			FetchTimeout:      60 * time.Second,
			SearchTimeout:     15 * time.Second,
			RequestsPerMinute: 120,
			MaxArtifactBytes:  200 << 20,
			ArchiveBaseURL:    "https://archive.org",
			KeepArtifacts:     true,
		},
		Artifact: ArtifactCfg{
			MinBytes:     10_000,
			MaxTextChars: 500_000,
		},
		Verify: VerifyCfg{
			MinSubstringLen: 4,
			MinSharedWords:  2,
		},
		Readability: ReadabilityCfg{
			MinWords: 10,
			Bands:    DefaultBands(),
		},
	}
}

// Validate checks values that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if c.Artifact.MinBytes < 0 {
		return fmt.Errorf("artifact.min_bytes must not be negative")
	}
	if c.Sources.FetchTimeout <= 0 {
		return fmt.Errorf("sources.fetch_timeout must be positive")
	}
	if len(c.Readability.Bands) == 0 {
		return fmt.Errorf("readability.bands must not be empty")
	}
	for i := 1; i < len(c.Readability.Bands)-1; i++ {
		if c.Readability.Bands[i].MaxGrade <= c.Readability.Bands[i-1].MaxGrade {
			return fmt.Errorf("readability.bands must have increasing max_grade (band %q)", c.Readability.Bands[i].Label)
		}
	}
	return nil
}
