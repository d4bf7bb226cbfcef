package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Catalogs written before the status column existed record presence with
// file_exists and name several columns differently. Their rows are read
// leniently: a value that does not parse is dropped, not rejected.

// legacyThemeColumns hold one theme label each.
var legacyThemeColumns = []string{"theme_1", "theme_2", "theme_3", "theme_4", "theme_5"}

// legacyFailure marks legacy rows that were never fully analyzed.
const legacyFailure = "legacy-incomplete"

// isLegacyHeader reports whether index describes a pre-status catalog.
func isLegacyHeader(index map[string]int) bool {
	_, hasStatus := index["status"]
	_, hasExists := index["file_exists"]
	return !hasStatus && hasExists
}

// parseLegacyRecord maps a pre-status row onto Record. A row is complete
// only when the file was present and a grade was computed; anything else
// becomes a failed record so the next run retries it.
func parseLegacyRecord(row []string, index map[string]int) (Record, bool) {
	get := func(col string) string {
		if i, ok := index[col]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	r := Record{
		Category:     get("category"),
		Filename:     get("filename"),
		Title:        get("expected_title"),
		Author:       get("expected_author"),
		Note:         get("note"),
		ActualTitle:  get("actual_title"),
		ActualAuthor: get("actual_author"),
		Language:     get("language"),
		Band:         get("cefr"),
		Source:       legacySource(get("download_source")),
	}
	if r.Filename == "" {
		return r, false
	}

	r.SourceID, _ = strconv.Atoi(get("gutenberg_id"))
	if kb, err := strconv.ParseFloat(get("file_size_kb"), 64); err == nil {
		r.SizeKB = int(math.Round(kb))
	}
	r.TitleMatch, _ = parseBool(get("title_match"))
	r.AuthorMatch, _ = parseBool(get("author_match"))
	r.Grade, _ = parseGrade(get("grade_level"))
	for _, col := range legacyThemeColumns {
		if t := get(col); t != "" {
			r.Themes = append(r.Themes, t)
		}
	}

	exists, _ := strconv.ParseBool(get("file_exists"))
	switch {
	case exists && r.Grade != nil:
		r.Status = StatusComplete
	default:
		r.Status = StatusFailed
		r.FailureReason = legacyFailure
		if msg := get("download_error"); msg != "" {
			r.FailureReason += ": " + msg
		}
	}
	return r, true
}

func legacySource(s string) string {
	switch s {
	case "Gutenberg", "Direct URL":
		return "primary"
	case "Internet Archive":
		return "secondary"
	}
	return ""
}
