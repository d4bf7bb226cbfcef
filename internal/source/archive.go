package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	DefaultArchiveBaseURL = "https://archive.org"
	DefaultSearchTimeout  = 15 * time.Second

	searchRows     = 5
	maxIdentifiers = 3
	searchAttempts = 3
)

// ArchiveConfig configures the Internet Archive fallback.
type ArchiveConfig struct {
	HTTPConfig
	BaseURL       string
	SearchTimeout time.Duration // Per search or metadata request
	RetryDelay    time.Duration // Base delay between search attempts
}

// ArchiveFetcher searches the archive by title and author, then downloads
// the first EPUB file that responds.
type ArchiveFetcher struct {
	http          *httpClient
	baseURL       string
	searchTimeout time.Duration
	retryDelay    time.Duration
}

// NewArchiveFetcher creates an archive fetcher.
func NewArchiveFetcher(cfg ArchiveConfig) *ArchiveFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultArchiveBaseURL
	}
	if cfg.SearchTimeout == 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	return &ArchiveFetcher{
		http:          newHTTPClient(cfg.HTTPConfig),
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		searchTimeout: cfg.SearchTimeout,
		retryDelay:    cfg.RetryDelay,
	}
}

type searchResponse struct {
	Response struct {
		Docs []struct {
			Identifier string `json:"identifier"`
		} `json:"docs"`
	} `json:"response"`
}

type metadataResponse struct {
	Files []struct {
		Name string `json:"name"`
	} `json:"files"`
}

// Fetch implements Fetcher.
func (a *ArchiveFetcher) Fetch(ctx context.Context, c Candidate) (*FetchResult, error) {
	urls, err := a.Search(ctx, c.Title, c.Author)
	if err != nil {
		return nil, &FetchError{Candidate: c, Kind: classify(err), Err: err}
	}
	if len(urls) == 0 {
		return nil, &FetchError{Candidate: c, Kind: FailureNotFound, Err: errors.New("no EPUB files in search results")}
	}

	var lastErr error
	kind := FailureNotFound
	for _, u := range urls {
		data, err := a.http.get(ctx, u, a.http.timeout, a.http.maxBytes)
		if err == nil {
			return &FetchResult{Data: data, Candidate: c, URL: u}, nil
		}
		if ctx.Err() != nil {
			return nil, &FetchError{Candidate: c, Kind: classify(err), Err: err}
		}
		a.http.logger.Debug("archive download failed", "url", u, "error", err)
		lastErr = err
		if k := classify(err); k != FailureNotFound {
			kind = k
		}
	}
	return nil, &FetchError{Candidate: c, Kind: kind, Err: lastErr}
}

// Search returns download URLs for EPUB files matching title and author,
// files whose names contain "_lcp.epub" first within each item.
func (a *ArchiveFetcher) Search(ctx context.Context, title, author string) ([]string, error) {
	query := strings.TrimSpace(title + " " + author)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", query+" AND format:EPUB")
	params.Set("fl[]", "identifier")
	params.Set("rows", fmt.Sprint(searchRows))
	params.Set("output", "json")
	searchURL := a.baseURL + "/advancedsearch.php?" + params.Encode()

	var sr searchResponse
	err := retry.Do(
		func() error {
			return a.getJSON(ctx, searchURL, &sr)
		},
		retry.Context(ctx),
		retry.Attempts(searchAttempts),
		retry.Delay(a.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return classify(err) != FailureNotFound
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("archive search failed: %w", err)
	}

	var urls []string
	for i, doc := range sr.Response.Docs {
		if i >= maxIdentifiers {
			break
		}
		if doc.Identifier == "" {
			continue
		}
		files, err := a.epubFiles(ctx, doc.Identifier)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			a.http.logger.Debug("archive metadata failed", "identifier", doc.Identifier, "error", err)
			continue
		}
		for _, name := range files {
			urls = append(urls, fmt.Sprintf("%s/download/%s/%s",
				a.baseURL, url.PathEscape(doc.Identifier), url.PathEscape(name)))
		}
	}
	return urls, nil
}

func (a *ArchiveFetcher) epubFiles(ctx context.Context, identifier string) ([]string, error) {
	var md metadataResponse
	if err := a.getJSON(ctx, a.baseURL+"/metadata/"+url.PathEscape(identifier), &md); err != nil {
		return nil, err
	}

	var names []string
	for _, f := range md.Files {
		if strings.HasSuffix(strings.ToLower(f.Name), ".epub") {
			names = append(names, f.Name)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.Contains(names[i], "_lcp.epub") && !strings.Contains(names[j], "_lcp.epub")
	})
	return names, nil
}

func (a *ArchiveFetcher) getJSON(ctx context.Context, u string, v any) error {
	body, err := a.http.get(ctx, u, a.searchTimeout, 16<<20)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", u, err)
	}
	return nil
}
