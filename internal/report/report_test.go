package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/gutenshelf/internal/catalog"
	"github.com/jackzampolin/gutenshelf/internal/category"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"yaml", OutputFormatYAML, false},
		{"json", OutputFormatJSON, false},
		{"xml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSetOutputFormat(t *testing.T) {
	defer SetOutputFormat("yaml")

	SetOutputFormat("json")
	if GetOutputFormat() != OutputFormatJSON {
		t.Errorf("expected json, got %s", GetOutputFormat())
	}
	SetOutputFormat("bogus")
	if GetOutputFormat() != DefaultOutput {
		t.Errorf("expected fallback to %s, got %s", DefaultOutput, GetOutputFormat())
	}
}

func testCache() *catalog.Cache {
	grade := 6.2
	match := true
	c := catalog.New("/lib/classics/catalog.csv")
	c.Put(catalog.Record{
		Category:   "classics",
		Filename:   "Alice.epub",
		Title:      "Alice's Adventures in Wonderland",
		Status:     catalog.StatusComplete,
		TitleMatch: &match,
		Grade:      &grade,
		Band:       "B1",
		Themes:     []string{"Adventure", "Family"},
		UpdatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	c.Put(catalog.Record{
		Category:      "classics",
		Filename:      "Ulysses.epub",
		Status:        catalog.StatusFailed,
		FailureReason: "fetch-exhausted: no candidates",
	})
	return c
}

func TestOutputTo_CatalogView(t *testing.T) {
	view := NewCatalogView("classics", testCache(), "")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatJSON, view); err != nil {
			t.Fatal(err)
		}
		var decoded struct {
			Category string           `json:"category"`
			Records  []map[string]any `json:"records"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json: %v\n%s", err, buf.String())
		}
		if decoded.Category != "classics" || len(decoded.Records) != 2 {
			t.Fatalf("unexpected output %+v", decoded)
		}
		if decoded.Records[0]["grade_level"] != 6.2 || decoded.Records[0]["band"] != "B1" {
			t.Errorf("expected grade and band in first record, got %v", decoded.Records[0])
		}
		if _, ok := decoded.Records[1]["grade_level"]; ok {
			t.Error("failed record must omit grade_level")
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := OutputTo(&buf, OutputFormatYAML, view); err != nil {
			t.Fatal(err)
		}
		var decoded CatalogView
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid yaml: %v", err)
		}
		if len(decoded.Records) != 2 || decoded.Records[1].FailureReason != "fetch-exhausted: no candidates" {
			t.Errorf("unexpected decoded view %+v", decoded)
		}
		if !strings.HasPrefix(buf.String(), "category: classics\n") {
			t.Errorf("expected two-space yaml with category first:\n%s", buf.String())
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := OutputTo(&bytes.Buffer{}, "xml", view); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestNewCatalogView_StatusFilter(t *testing.T) {
	view := NewCatalogView("classics", testCache(), catalog.StatusFailed)
	if len(view.Records) != 1 || view.Records[0].Filename != "Ulysses.epub" {
		t.Errorf("expected only the failed record, got %+v", view.Records)
	}

	empty := NewCatalogView("classics", catalog.New("x.csv"), "")
	if empty.Records == nil {
		t.Error("expected non-nil records so json renders []")
	}
}

func TestNewCategoryInfo(t *testing.T) {
	cat := &category.Category{
		Key:    "classics",
		Name:   "Classics",
		Path:   "/lib/classics.yaml",
		Books:  make([]category.BookSpec, 3),
		Errors: []*category.ConfigError{{Index: 3}},
	}

	info := NewCategoryInfo(cat, testCache())
	if info.Books != 3 || info.ConfigErrors != 1 || info.Complete != 1 || info.Failed != 1 {
		t.Errorf("unexpected info %+v", info)
	}

	bare := NewCategoryInfo(cat, nil)
	if bare.Complete != 0 || bare.Books != 3 {
		t.Errorf("unexpected info without catalog %+v", bare)
	}
}
