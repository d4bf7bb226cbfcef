// Package source resolves where a book can be obtained and fetches it.
package source

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind identifies how a candidate is fetched.
type Kind string

const (
	KindLocal     Kind = "local"     // Previously saved artifact
	KindPrimary   Kind = "primary"   // Declared URL on the primary repository
	KindSecondary Kind = "secondary" // Archive search by title and author
)

// Candidate is one place to try.
type Candidate struct {
	Kind     Kind
	Location string // URL, local path, or archive query

	// Title and Author drive the archive search for secondary candidates.
	Title  string
	Author string
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.Location)
}

// FailureKind classifies a failed fetch.
type FailureKind string

const (
	FailureTransport FailureKind = "transport-error"
	FailureNotFound  FailureKind = "not-found"
	FailureTimeout   FailureKind = "timeout"
)

// FetchError reports why a candidate produced no bytes.
type FetchError struct {
	Candidate Candidate
	Kind      FailureKind
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch %s: %s: %v", e.Candidate.Kind, e.Candidate.Location, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetchResult holds the bytes of a successful fetch.
type FetchResult struct {
	Data      []byte
	Candidate Candidate
	// URL is where the bytes came from. For secondary candidates this is the
	// resolved download URL.
	URL string
}

// Fetcher retrieves one candidate. Implementations never retry the same
// candidate and return a *FetchError on failure.
type Fetcher interface {
	Fetch(ctx context.Context, c Candidate) (*FetchResult, error)
}

// Dispatcher routes candidates to the fetcher registered for their kind.
type Dispatcher struct {
	fetchers map[Kind]Fetcher
}

// NewDispatcher creates a dispatcher from a kind to fetcher mapping.
func NewDispatcher(fetchers map[Kind]Fetcher) *Dispatcher {
	m := make(map[Kind]Fetcher, len(fetchers))
	for k, f := range fetchers {
		m[k] = f
	}
	return &Dispatcher{fetchers: m}
}

// Fetch implements Fetcher.
func (d *Dispatcher) Fetch(ctx context.Context, c Candidate) (*FetchResult, error) {
	f, ok := d.fetchers[c.Kind]
	if !ok {
		return nil, &FetchError{Candidate: c, Kind: FailureTransport, Err: fmt.Errorf("no fetcher for %s candidates", c.Kind)}
	}
	return f.Fetch(ctx, c)
}

// KindOf returns the failure kind of err, or "" if err is not a FetchError.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// classify maps a transport error to a failure kind.
func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FailureTimeout
	}
	var se *statusError
	if errors.As(err, &se) && se.notFound() {
		return FailureNotFound
	}
	return FailureTransport
}
