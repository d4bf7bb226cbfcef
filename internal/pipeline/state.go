package pipeline

import (
	"errors"
	"strings"

	"github.com/jackzampolin/gutenshelf/internal/artifact"
	"github.com/jackzampolin/gutenshelf/internal/catalog"
	"github.com/jackzampolin/gutenshelf/internal/category"
	"github.com/jackzampolin/gutenshelf/internal/readability"
	"github.com/jackzampolin/gutenshelf/internal/source"
	"github.com/jackzampolin/gutenshelf/internal/verify"
)

// State is a step of the per-book state machine.
type State string

const (
	StatePending            State = "pending"
	StateSkipped            State = "skipped"
	StateFetching           State = "fetching"
	StateValidating         State = "validating"
	StateExtractingMetadata State = "extracting-metadata"
	StateAnalyzing          State = "analyzing"
	StateCataloged          State = "cataloged"
	StateFailed             State = "failed"
)

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateSkipped || s == StateCataloged || s == StateFailed
}

// FailureReason is recorded for books that end in StateFailed.
type FailureReason string

const (
	ReasonFetchExhausted  FailureReason = "fetch-exhausted"
	ReasonInvalidArtifact FailureReason = "invalid-artifact"
	ReasonExtractFailed   FailureReason = "extract-failed"
)

var (
	ErrFetchExhausted  = errors.New("no candidate produced an artifact")
	ErrInvalidArtifact = errors.New("artifact failed validation")
	ErrExtractFailed   = errors.New("artifact contents could not be read")
)

// Err returns the sentinel error for r.
func (r FailureReason) Err() error {
	switch r {
	case ReasonFetchExhausted:
		return ErrFetchExhausted
	case ReasonInvalidArtifact:
		return ErrInvalidArtifact
	case ReasonExtractFailed:
		return ErrExtractFailed
	}
	return nil
}

// Attempt is one fetch try.
type Attempt struct {
	Candidate source.Candidate
	Failure   source.FailureKind // Empty on success
	Err       error
}

// Analysis is the derived readability and theme result for a book.
type Analysis struct {
	Language string
	Score    readability.Score
	Themes   []string
}

// Outcome is everything that happened to one book.
type Outcome struct {
	Spec   category.BookSpec
	Path   []State // Every state visited, starting with StatePending
	Reason FailureReason
	// Err is the diagnostic behind Reason, or the context error when the
	// book was interrupted.
	Err error

	Attempts   []Attempt
	Validation artifact.ValidationOutcome
	Metadata   *verify.Result
	Analysis   *Analysis
	Record     catalog.Record
}

// State returns the last state reached.
func (o *Outcome) State() State {
	if len(o.Path) == 0 {
		return StatePending
	}
	return o.Path[len(o.Path)-1]
}

// Interrupted reports whether the context ended before a terminal state.
func (o *Outcome) Interrupted() bool {
	return !o.State().Terminal()
}

// PathString renders the state path as "pending>fetching>...".
func (o *Outcome) PathString() string {
	parts := make([]string, len(o.Path))
	for i, s := range o.Path {
		parts[i] = string(s)
	}
	return strings.Join(parts, ">")
}

func (o *Outcome) enter(s State) {
	o.Path = append(o.Path, s)
}
