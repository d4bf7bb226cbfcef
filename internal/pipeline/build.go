package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/jackzampolin/gutenshelf/internal/config"
	"github.com/jackzampolin/gutenshelf/internal/home"
	"github.com/jackzampolin/gutenshelf/internal/readability"
	"github.com/jackzampolin/gutenshelf/internal/source"
	"github.com/jackzampolin/gutenshelf/internal/themes"
	"github.com/jackzampolin/gutenshelf/internal/verify"
)

// FromConfig assembles an Orchestrator with the production fetchers. All
// remote requests of the run share one rate limiter.
func FromConfig(cfg *config.Config, dir *home.Dir, logger *slog.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	limiter := source.NewRateLimiter(cfg.Sources.RequestsPerMinute)
	httpCfg := source.HTTPConfig{
		UserAgent: cfg.Sources.UserAgent,
		Timeout:   cfg.Sources.FetchTimeout,
		MaxBytes:  cfg.Sources.MaxArtifactBytes,
		Limiter:   limiter,
		Logger:    logger,
	}
	fetcher := source.NewDispatcher(map[source.Kind]source.Fetcher{
		source.KindLocal:   source.LocalFetcher{},
		source.KindPrimary: source.NewHTTPFetcher(httpCfg),
		source.KindSecondary: source.NewArchiveFetcher(source.ArchiveConfig{
			HTTPConfig:    httpCfg,
			BaseURL:       cfg.Sources.ArchiveBaseURL,
			SearchTimeout: cfg.Sources.SearchTimeout,
		}),
	})

	patterns := cfg.Readability.PatternsDir
	if patterns == "" {
		patterns = dir.PatternsPath()
	}
	bands := make(readability.Bands, len(cfg.Readability.Bands))
	for i, b := range cfg.Readability.Bands {
		bands[i] = readability.Band{Label: b.Label, MaxGrade: b.MaxGrade}
	}
	analyzer, err := readability.NewAnalyzer(readability.Config{
		Counter:  readability.DetectCounter(patterns, logger),
		Bands:    bands,
		MinWords: cfg.Readability.MinWords,
	})
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	detector := themes.NewDetector(nil)
	logger.Info("using built-in theme tables", "languages", detector.Languages())

	return NewOrchestrator(Config{
		Home: dir,
		Resolver: source.NewResolver(source.ResolverConfig{
			Home:             dir,
			KeepArtifacts:    cfg.Sources.KeepArtifacts,
			FallbackUnlisted: cfg.Sources.ArchiveFallbackUnlisted,
		}),
		Fetcher: fetcher,
		Matcher: verify.NewMatcher(verify.Config{
			MinSubstringLen: cfg.Verify.MinSubstringLen,
			MinSharedWords:  cfg.Verify.MinSharedWords,
		}),
		Analyzer:         analyzer,
		Themes:           detector,
		MinArtifactBytes: cfg.Artifact.MinBytes,
		MaxTextChars:     cfg.Artifact.MaxTextChars,
		KeepArtifacts:    cfg.Sources.KeepArtifacts,
		Limiter:          limiter,
		Logger:           logger,
	})
}
