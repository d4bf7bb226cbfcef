package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
)

// LocalFetcher reads an artifact saved by a previous run.
type LocalFetcher struct{}

// Fetch implements Fetcher.
func (LocalFetcher) Fetch(ctx context.Context, c Candidate) (*FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Candidate: c, Kind: classify(err), Err: err}
	}
	data, err := os.ReadFile(c.Location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &FetchError{Candidate: c, Kind: FailureNotFound, Err: err}
	}
	if err != nil {
		return nil, &FetchError{Candidate: c, Kind: FailureTransport, Err: err}
	}
	return &FetchResult{Data: data, Candidate: c, URL: "file://" + c.Location}, nil
}
