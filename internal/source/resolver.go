package source

import (
	"os"
	"strings"

	"github.com/jackzampolin/gutenshelf/internal/category"
	"github.com/jackzampolin/gutenshelf/internal/home"
)

// ResolverConfig configures candidate resolution.
type ResolverConfig struct {
	Home *home.Dir
	// KeepArtifacts makes previously saved files the first candidate.
	KeepArtifacts bool
	// FallbackUnlisted enables the archive search for books with neither a
	// source id nor a URL, unless the book overrides it.
	FallbackUnlisted bool
}

// Resolver orders the places a book can be fetched from.
type Resolver struct {
	home             *home.Dir
	keepArtifacts    bool
	fallbackUnlisted bool
}

// NewResolver creates a resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		home:             cfg.Home,
		keepArtifacts:    cfg.KeepArtifacts,
		fallbackUnlisted: cfg.FallbackUnlisted,
	}
}

// Candidates returns the ordered candidates for spec. An empty result means
// the book is intentionally unobtainable.
func (r *Resolver) Candidates(spec category.BookSpec) []Candidate {
	var out []Candidate

	if r.keepArtifacts && r.home != nil {
		p := r.home.BookPath(spec.CategoryKey, spec.Filename)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			out = append(out, Candidate{Kind: KindLocal, Location: p})
		}
	}

	if spec.HasSourceID() && spec.URL != "" {
		out = append(out, Candidate{Kind: KindPrimary, Location: spec.URL})
	}

	if r.wantsSecondary(spec) {
		out = append(out, Candidate{
			Kind:     KindSecondary,
			Location: strings.TrimSpace(spec.Title + " " + spec.Author),
			Title:    spec.Title,
			Author:   spec.Author,
		})
	}

	return out
}

func (r *Resolver) wantsSecondary(spec category.BookSpec) bool {
	if spec.HasSourceID() || spec.URL != "" {
		return true
	}
	if spec.ArchiveFallback != nil {
		return *spec.ArchiveFallback
	}
	return r.fallbackUnlisted
}
