package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the outcome recorded for a book.
type Status string

const (
	StatusComplete Status = "complete"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// ThemeSeparator joins theme labels in the themes column.
const ThemeSeparator = ";"

// Columns is the catalog header, in file order.
var Columns = []string{
	"category",
	"filename",
	"title",
	"author",
	"source_id",
	"note",
	"status",
	"source",
	"size_kb",
	"actual_title",
	"actual_author",
	"title_match",
	"author_match",
	"language",
	"grade_level",
	"band",
	"themes",
	"failure_reason",
	"updated_at",
}

// Record is one catalog row, keyed by Filename within a category.
type Record struct {
	Category string `json:"category" yaml:"category"`
	Filename string `json:"filename" yaml:"filename"`
	Title    string `json:"title" yaml:"title"`
	Author   string `json:"author" yaml:"author"`
	SourceID int    `json:"source_id,omitempty" yaml:"source_id,omitempty"`
	Note     string `json:"note,omitempty" yaml:"note,omitempty"`

	Status Status `json:"status" yaml:"status"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"` // Candidate kind that produced the artifact
	SizeKB int    `json:"size_kb,omitempty" yaml:"size_kb,omitempty"`

	ActualTitle  string `json:"actual_title,omitempty" yaml:"actual_title,omitempty"`
	ActualAuthor string `json:"actual_author,omitempty" yaml:"actual_author,omitempty"`
	// Nil when metadata was never checked.
	TitleMatch  *bool `json:"title_match,omitempty" yaml:"title_match,omitempty"`
	AuthorMatch *bool `json:"author_match,omitempty" yaml:"author_match,omitempty"`

	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	// Nil for unscoreable text.
	Grade  *float64 `json:"grade_level,omitempty" yaml:"grade_level,omitempty"`
	Band   string   `json:"band,omitempty" yaml:"band,omitempty"`
	Themes []string `json:"themes,omitempty" yaml:"themes,omitempty"`

	FailureReason string    `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
	UpdatedAt     time.Time `json:"updated_at" yaml:"updated_at"`
}

// Complete reports whether the record is a trusted prior outcome.
func (r Record) Complete() bool {
	return r.Status == StatusComplete
}

func (r Record) row() []string {
	return []string{
		r.Category,
		r.Filename,
		r.Title,
		r.Author,
		formatInt(r.SourceID),
		r.Note,
		string(r.Status),
		r.Source,
		formatInt(r.SizeKB),
		r.ActualTitle,
		r.ActualAuthor,
		formatBool(r.TitleMatch),
		formatBool(r.AuthorMatch),
		r.Language,
		formatGrade(r.Grade),
		r.Band,
		strings.Join(r.Themes, ThemeSeparator),
		r.FailureReason,
		formatTime(r.UpdatedAt),
	}
}

// parseRecord builds a record from a row, using index to locate columns.
func parseRecord(row []string, index map[string]int) (Record, error) {
	get := func(col string) string {
		if i, ok := index[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	r := Record{
		Category:      get("category"),
		Filename:      get("filename"),
		Title:         get("title"),
		Author:        get("author"),
		Note:          get("note"),
		Status:        Status(get("status")),
		Source:        get("source"),
		ActualTitle:   get("actual_title"),
		ActualAuthor:  get("actual_author"),
		Language:      get("language"),
		Band:          get("band"),
		FailureReason: get("failure_reason"),
	}

	if r.Filename == "" {
		return r, fmt.Errorf("missing filename")
	}
	switch r.Status {
	case StatusComplete, StatusSkipped, StatusFailed:
	default:
		return r, fmt.Errorf("%s: unknown status %q", r.Filename, r.Status)
	}

	var err error
	if r.SourceID, err = parseInt(get("source_id")); err != nil {
		return r, fmt.Errorf("%s: source_id: %w", r.Filename, err)
	}
	if r.SizeKB, err = parseInt(get("size_kb")); err != nil {
		return r, fmt.Errorf("%s: size_kb: %w", r.Filename, err)
	}
	if r.TitleMatch, err = parseBool(get("title_match")); err != nil {
		return r, fmt.Errorf("%s: title_match: %w", r.Filename, err)
	}
	if r.AuthorMatch, err = parseBool(get("author_match")); err != nil {
		return r, fmt.Errorf("%s: author_match: %w", r.Filename, err)
	}
	if r.Grade, err = parseGrade(get("grade_level")); err != nil {
		return r, fmt.Errorf("%s: grade_level: %w", r.Filename, err)
	}
	if ts := get("updated_at"); ts != "" {
		if r.UpdatedAt, err = time.Parse(time.RFC3339, ts); err != nil {
			return r, fmt.Errorf("%s: updated_at: %w", r.Filename, err)
		}
	}
	if themes := get("themes"); themes != "" {
		for _, t := range strings.Split(themes, ThemeSeparator) {
			if t = strings.TrimSpace(t); t != "" {
				r.Themes = append(r.Themes, t)
			}
		}
	}

	return r, nil
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func parseBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func formatGrade(g *float64) string {
	if g == nil {
		return ""
	}
	return strconv.FormatFloat(*g, 'f', 1, 64)
}

func parseGrade(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	g, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
