// Package pipeline runs books through fetch, validation, metadata checks
// and analysis, and records the outcome in the category catalog.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moby/sys/atomicwriter"

	"github.com/jackzampolin/gutenshelf/internal/artifact"
	"github.com/jackzampolin/gutenshelf/internal/catalog"
	"github.com/jackzampolin/gutenshelf/internal/category"
	"github.com/jackzampolin/gutenshelf/internal/home"
	"github.com/jackzampolin/gutenshelf/internal/lang"
	"github.com/jackzampolin/gutenshelf/internal/readability"
	"github.com/jackzampolin/gutenshelf/internal/source"
	"github.com/jackzampolin/gutenshelf/internal/themes"
	"github.com/jackzampolin/gutenshelf/internal/verify"
)

// Config wires an Orchestrator. Home, Resolver, Fetcher and Analyzer are
// required.
type Config struct {
	Home     *home.Dir
	Resolver *source.Resolver
	Fetcher  source.Fetcher
	Analyzer *readability.Analyzer

	Matcher *verify.Matcher  // Defaults to the default thresholds
	Themes  *themes.Detector // Defaults to the built-in keyword tables

	MinArtifactBytes int // Defaults to artifact.DefaultMinBytes
	MaxTextChars     int // Defaults to DefaultMaxTextChars
	// KeepArtifacts saves validated downloads next to the catalog.
	KeepArtifacts bool
	// Limiter is the rate limiter shared by the fetchers. Optional; when set
	// its counters for the run are reported in the summary.
	Limiter *source.RateLimiter

	// CatalogWriter overrides how catalogs are written. Nil means atomic
	// replace.
	CatalogWriter catalog.WriteFunc
	Now           func() time.Time
	Logger        *slog.Logger
}

// DefaultMaxTextChars bounds the text analyzed per book.
const DefaultMaxTextChars = 500_000

// Orchestrator applies the per-book state machine sequentially.
type Orchestrator struct {
	home     *home.Dir
	resolver *source.Resolver
	fetcher  source.Fetcher
	matcher  *verify.Matcher
	analyzer *readability.Analyzer
	themes   *themes.Detector

	minBytes      int
	maxTextChars  int
	keepArtifacts bool
	limiter       *source.RateLimiter
	catalogWriter catalog.WriteFunc
	now           func() time.Time
	logger        *slog.Logger
}

// NewOrchestrator validates cfg and fills defaults.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Home == nil {
		return nil, errors.New("pipeline: home directory is required")
	}
	if cfg.Resolver == nil {
		return nil, errors.New("pipeline: resolver is required")
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("pipeline: fetcher is required")
	}
	if cfg.Analyzer == nil {
		return nil, errors.New("pipeline: analyzer is required")
	}
	if cfg.Matcher == nil {
		cfg.Matcher = verify.NewMatcher(verify.Config{})
	}
	if cfg.Themes == nil {
		cfg.Themes = themes.NewDetector(nil)
	}
	if cfg.MinArtifactBytes <= 0 {
		cfg.MinArtifactBytes = artifact.DefaultMinBytes
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = DefaultMaxTextChars
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Orchestrator{
		home:          cfg.Home,
		resolver:      cfg.Resolver,
		fetcher:       cfg.Fetcher,
		matcher:       cfg.Matcher,
		analyzer:      cfg.Analyzer,
		themes:        cfg.Themes,
		minBytes:      cfg.MinArtifactBytes,
		maxTextChars:  cfg.MaxTextChars,
		keepArtifacts: cfg.KeepArtifacts,
		limiter:       cfg.Limiter,
		catalogWriter: cfg.CatalogWriter,
		now:           cfg.Now,
		logger:        cfg.Logger,
	}, nil
}

// Counter returns the name of the syllable counter in use.
func (o *Orchestrator) Counter() string {
	return o.analyzer.Counter().Name()
}

// Run processes categories one at a time. Per-book failures never stop a
// run; the returned error joins the persist failures of every category that
// could not be saved. Cancellation stops between books without saving the
// interrupted category.
func (o *Orchestrator) Run(ctx context.Context, cats []*category.Category, force bool) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:   uuid.New().String(),
		Force:   force,
		Counter: o.Counter(),
	}
	logger := o.logger.With("run_id", summary.RunID)
	logger.Info("run started", "categories", len(cats), "force", force, "syllable_counter", summary.Counter)

	var before source.RateLimiterStatus
	if o.limiter != nil {
		before = o.limiter.Status()
	}

	var persistErrs []error
	for _, cat := range cats {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		cs, err := o.runCategory(ctx, cat, force, logger)
		summary.add(cs)

		var pe *catalog.PersistError
		switch {
		case err == nil:
		case errors.As(err, &pe):
			persistErrs = append(persistErrs, fmt.Errorf("category %s: %w", cat.Key, err))
		case ctx.Err() != nil:
			summary.Interrupted = true
		default:
			// Unreadable catalog; reported in the summary.
		}
		if summary.Interrupted {
			break
		}
	}

	if o.limiter != nil {
		summary.Requests = requestDelta(before, o.limiter.Status())
		logger.Debug("request stats",
			"granted", summary.Requests.Granted,
			"throttled", summary.Requests.Throttled,
			"waited", summary.Requests.Waited,
		)
	}

	logger.Info("run finished",
		"cataloged", summary.Cataloged,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"interrupted", summary.Interrupted,
	)
	return summary, errors.Join(persistErrs...)
}

// RunCategory processes every book of cat and saves its catalog.
func (o *Orchestrator) RunCategory(ctx context.Context, cat *category.Category, force bool) (*CategorySummary, error) {
	return o.runCategory(ctx, cat, force, o.logger)
}

func (o *Orchestrator) runCategory(ctx context.Context, cat *category.Category, force bool, logger *slog.Logger) (*CategorySummary, error) {
	logger = logger.With("category", cat.Key)
	summary := &CategorySummary{
		Category:     cat.Key,
		Name:         cat.Name,
		CatalogPath:  o.home.CatalogPath(cat.Key),
		ConfigErrors: len(cat.Errors),
	}

	if err := o.home.EnsureCategoryDir(cat.Key); err != nil {
		err = &catalog.PersistError{Path: summary.CatalogPath, Err: err}
		summary.Error = err.Error()
		logger.Error("cannot create category directory", "error", err)
		return summary, err
	}

	cache, err := catalog.Load(summary.CatalogPath)
	if err != nil {
		summary.Error = err.Error()
		logger.Error("catalog unreadable, category not processed", "path", summary.CatalogPath, "error", err)
		return summary, err
	}
	if o.catalogWriter != nil {
		cache.SetWriter(o.catalogWriter)
	}

	logger.Info("processing category", "name", cat.Name, "books", len(cat.Books), "records", cache.Len())

	declared := make(map[string]bool, len(cat.Books)+len(cat.Errors))
	for _, cfgErr := range cat.Errors {
		logger.Warn("invalid book entry", "error", cfgErr)
		if cfgErr.Filename == "" {
			continue
		}
		declared[cfgErr.Filename] = true
		if prev, ok := cache.Get(cfgErr.Filename); ok && prev.Complete() {
			continue
		}
		cache.Put(catalog.Record{
			Category:      cat.Key,
			Filename:      cfgErr.Filename,
			Status:        catalog.StatusSkipped,
			FailureReason: "config-error: " + cfgErr.Err.Error(),
			UpdatedAt:     o.now(),
		})
	}

	for _, spec := range cat.Books {
		declared[spec.Filename] = true
		if err := ctx.Err(); err != nil {
			logger.Warn("interrupted, catalog not saved", "error", err)
			summary.Error = err.Error()
			return summary, err
		}

		out := o.ProcessBook(ctx, spec, cache, force)
		if out.Interrupted() {
			logger.Warn("interrupted, catalog not saved", "book", spec.Filename, "error", out.Err)
			summary.Error = context.Cause(ctx).Error()
			return summary, ctx.Err()
		}
		if out.State() != StateSkipped {
			cache.Put(out.Record)
		}
		summary.add(out)
	}

	for _, rec := range cache.Records() {
		if !declared[rec.Filename] {
			summary.Orphans++
			logger.Warn("carrying forward record for undeclared book", "filename", rec.Filename, "status", rec.Status)
		}
	}

	if err := cache.Save(); err != nil {
		summary.Error = err.Error()
		logger.Error("failed to save catalog", "error", err)
		return summary, err
	}
	summary.Saved = true

	logger.Info("category done",
		"cataloged", summary.Cataloged,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"config_errors", summary.ConfigErrors,
		"metadata_mismatches", summary.MetadataMismatches,
	)
	return summary, nil
}

// ProcessBook runs one book through the state machine. It never returns an
// error: failures are expressed in the Outcome. If ctx ends mid-book the
// outcome is left in a non-terminal state.
func (o *Orchestrator) ProcessBook(ctx context.Context, spec category.BookSpec, cache *catalog.Cache, force bool) *Outcome {
	out := &Outcome{Spec: spec}
	out.enter(StatePending)
	logger := o.logger.With("category", spec.CategoryKey, "book", spec.Filename)

	if cache.SkipEligible(spec.Filename, force) {
		out.enter(StateSkipped)
		out.Record, _ = cache.Get(spec.Filename)
		logger.Debug("already complete, skipping")
		return out
	}

	rec := o.baseRecord(spec)

	// Fetching
	out.enter(StateFetching)
	res := o.fetch(ctx, spec, out, logger)
	if res == nil {
		if ctx.Err() != nil {
			out.Err = ctx.Err()
			return out
		}
		return o.fail(out, rec, ReasonFetchExhausted, fetchDetail(out.Attempts), logger)
	}
	rec.Source = string(res.Candidate.Kind)
	rec.SizeKB = len(res.Data) / 1024

	// Validating
	out.enter(StateValidating)
	out.Validation = artifact.Validate(res.Data, o.minBytes)
	if !out.Validation.OK {
		return o.fail(out, rec, ReasonInvalidArtifact, out.Validation.String(), logger)
	}
	if o.keepArtifacts && res.Candidate.Kind != source.KindLocal {
		o.saveArtifact(spec, res.Data, logger)
	}

	// ExtractingMetadata
	out.enter(StateExtractingMetadata)
	src, err := artifact.Open(res.Data)
	if err == nil {
		err = src.Validate()
	}
	var md artifact.Metadata
	if err == nil {
		md, err = src.Metadata()
	}
	var text string
	if err == nil {
		text, err = src.BodyText(o.maxTextChars)
	}
	if err != nil {
		return o.fail(out, rec, ReasonExtractFailed, err.Error(), logger)
	}

	check := o.matcher.Check(spec.Title, spec.Author, md)
	out.Metadata = &check
	rec.ActualTitle = check.ActualTitle
	rec.ActualAuthor = check.ActualAuthor
	rec.TitleMatch = &check.TitleMatch
	rec.AuthorMatch = &check.AuthorMatch
	if !check.Matched() {
		logger.Warn("metadata mismatch",
			"expected_title", spec.Title, "actual_title", md.Title,
			"expected_author", spec.Author, "actual_author", md.Author)
	}

	// Analyzing
	out.enter(StateAnalyzing)
	language := lang.Resolve(md.Language, spec.Language, text)
	analysis := &Analysis{
		Language: language,
		Score:    o.analyzer.Score(text, language),
		Themes:   o.themes.Detect(text, language),
	}
	out.Analysis = analysis

	rec.Language = language
	rec.Themes = analysis.Themes
	if analysis.Score.Scoreable {
		grade := analysis.Score.Grade
		rec.Grade = &grade
		rec.Band = analysis.Score.Band
	} else {
		logger.Info("text is unscoreable", "reason", analysis.Score.Reason, "words", analysis.Score.Words)
	}

	// Cataloged
	out.enter(StateCataloged)
	rec.Status = catalog.StatusComplete
	out.Record = rec
	logger.Info("cataloged",
		"source", rec.Source,
		"language", language,
		"grade", analysis.Score.Grade,
		"band", rec.Band,
		"themes", len(rec.Themes),
	)
	return out
}

// fetch tries each candidate in order until one yields bytes.
func (o *Orchestrator) fetch(ctx context.Context, spec category.BookSpec, out *Outcome, logger *slog.Logger) *source.FetchResult {
	candidates := o.resolver.Candidates(spec)
	if len(candidates) == 0 {
		logger.Info("no candidates, book is not obtainable")
	}

	for _, c := range candidates {
		if ctx.Err() != nil {
			return nil
		}
		res, err := o.fetcher.Fetch(ctx, c)
		if err == nil {
			out.Attempts = append(out.Attempts, Attempt{Candidate: c})
			logger.Debug("fetched", "candidate", c.String(), "bytes", len(res.Data))
			return res
		}
		kind := source.KindOf(err)
		if kind == "" {
			kind = source.FailureTransport
		}
		out.Attempts = append(out.Attempts, Attempt{Candidate: c, Failure: kind, Err: err})
		logger.Info("candidate failed", "kind", c.Kind, "failure", kind, "error", err)
	}
	return nil
}

func (o *Orchestrator) saveArtifact(spec category.BookSpec, data []byte, logger *slog.Logger) {
	path := o.home.BookPath(spec.CategoryKey, spec.Filename)
	if err := atomicwriter.WriteFile(path, data, 0644); err != nil {
		logger.Warn("failed to save artifact", "path", path, "error", err)
	}
}

func (o *Orchestrator) baseRecord(spec category.BookSpec) catalog.Record {
	return catalog.Record{
		Category:  spec.CategoryKey,
		Filename:  spec.Filename,
		Title:     spec.Title,
		Author:    spec.Author,
		SourceID:  spec.GutenbergID,
		Note:      spec.Note,
		UpdatedAt: o.now(),
	}
}

func (o *Orchestrator) fail(out *Outcome, rec catalog.Record, reason FailureReason, detail string, logger *slog.Logger) *Outcome {
	out.enter(StateFailed)
	out.Reason = reason
	out.Err = fmt.Errorf("%w: %s", reason.Err(), detail)

	rec.Status = catalog.StatusFailed
	rec.FailureReason = string(reason)
	if detail != "" {
		rec.FailureReason += ": " + detail
	}
	out.Record = rec

	logger.Warn("book failed", "reason", reason, "detail", detail)
	return out
}

func fetchDetail(attempts []Attempt) string {
	if len(attempts) == 0 {
		return "no candidates"
	}
	parts := make([]string, len(attempts))
	for i, a := range attempts {
		parts[i] = fmt.Sprintf("%s %s", a.Candidate.Kind, a.Failure)
	}
	return strings.Join(parts, ", ")
}
