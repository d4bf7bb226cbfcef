package pipeline

import (
	"time"

	"github.com/jackzampolin/gutenshelf/internal/source"
)

// CategorySummary counts the outcomes of one category run.
type CategorySummary struct {
	Category    string `json:"category" yaml:"category"`
	Name        string `json:"name" yaml:"name"`
	CatalogPath string `json:"catalog_path" yaml:"catalog_path"`

	Cataloged          int `json:"cataloged" yaml:"cataloged"`
	Skipped            int `json:"skipped" yaml:"skipped"`
	Failed             int `json:"failed" yaml:"failed"`
	ConfigErrors       int `json:"config_errors" yaml:"config_errors"`
	MetadataMismatches int `json:"metadata_mismatches" yaml:"metadata_mismatches"`
	Unscoreable        int `json:"unscoreable" yaml:"unscoreable"`
	Orphans            int `json:"orphans" yaml:"orphans"`

	FailureReasons map[FailureReason]int `json:"failure_reasons,omitempty" yaml:"failure_reasons,omitempty"`

	// Saved is false when the run was interrupted or persisting failed.
	Saved bool   `json:"saved" yaml:"saved"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func (s *CategorySummary) add(o *Outcome) {
	switch o.State() {
	case StateSkipped:
		s.Skipped++
	case StateCataloged:
		s.Cataloged++
		if o.Analysis != nil && !o.Analysis.Score.Scoreable {
			s.Unscoreable++
		}
	case StateFailed:
		s.Failed++
		if s.FailureReasons == nil {
			s.FailureReasons = make(map[FailureReason]int)
		}
		s.FailureReasons[o.Reason]++
	}
	if o.Metadata != nil && !o.Metadata.Matched() {
		s.MetadataMismatches++
	}
}

// RequestStats counts the outbound requests of one run.
type RequestStats struct {
	Granted   int64         `json:"granted" yaml:"granted"`
	Throttled int64         `json:"throttled" yaml:"throttled"`
	Waited    time.Duration `json:"waited" yaml:"waited"`
}

func requestDelta(before, after source.RateLimiterStatus) *RequestStats {
	return &RequestStats{
		Granted:   after.Granted - before.Granted,
		Throttled: after.Throttled - before.Throttled,
		Waited:    after.Waited - before.Waited,
	}
}

// RunSummary aggregates a whole run.
type RunSummary struct {
	RunID       string             `json:"run_id" yaml:"run_id"`
	Force       bool               `json:"force" yaml:"force"`
	Counter     string             `json:"syllable_counter" yaml:"syllable_counter"`
	Interrupted bool               `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
	Categories  []*CategorySummary `json:"categories" yaml:"categories"`

	Cataloged int `json:"cataloged" yaml:"cataloged"`
	Skipped   int `json:"skipped" yaml:"skipped"`
	Failed    int `json:"failed" yaml:"failed"`

	// Requests is set when the run used a shared rate limiter.
	Requests *RequestStats `json:"requests,omitempty" yaml:"requests,omitempty"`
}

func (r *RunSummary) add(s *CategorySummary) {
	r.Categories = append(r.Categories, s)
	r.Cataloged += s.Cataloged
	r.Skipped += s.Skipped
	r.Failed += s.Failed
}

// HasErrors reports whether any category could not be loaded or saved.
func (r *RunSummary) HasErrors() bool {
	for _, s := range r.Categories {
		if s.Error != "" {
			return true
		}
	}
	return false
}
