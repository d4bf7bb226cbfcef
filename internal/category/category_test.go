package category

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/gutenshelf/internal/home"
)

const classicsYAML = `category: Classics
language: en
books:
  - title: Alice's Adventures in Wonderland
    author: Lewis Carroll
    filename: Alice.epub
    url: https://www.gutenberg.org/ebooks/11.epub3.images
    gutenberg_id: 11
    note: Classic
  - title: Kafka on the Shore
    author: Haruki Murakami
    filename: Kafka.epub
    gutenberg_id: 0
    archive_fallback: true
  - title: Der Prozess
    author: Franz Kafka
    filename: Prozess.epub
    gutenberg_id: 7849
    language: DE
`

func TestParse(t *testing.T) {
	cat, err := Parse("classics", "classics.yaml", []byte(classicsYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cat.Name != "Classics" || cat.Key != "classics" {
		t.Errorf("unexpected category identity: %q / %q", cat.Name, cat.Key)
	}
	if len(cat.Errors) != 0 {
		t.Fatalf("unexpected config errors: %v", cat.Errors)
	}
	if len(cat.Books) != 3 {
		t.Fatalf("expected 3 books, got %d", len(cat.Books))
	}

	alice := cat.Books[0]
	if alice.GutenbergID != 11 || !alice.HasSourceID() {
		t.Errorf("expected gutenberg id 11, got %d", alice.GutenbergID)
	}
	if alice.Language != "en" {
		t.Errorf("expected category language to be inherited, got %q", alice.Language)
	}
	if alice.CategoryKey != "classics" || alice.CategoryName != "Classics" {
		t.Errorf("category fields not populated: %+v", alice)
	}

	kafka := cat.Books[1]
	if kafka.HasSourceID() {
		t.Error("gutenberg_id 0 should not count as a source id")
	}
	if kafka.ArchiveFallback == nil || !*kafka.ArchiveFallback {
		t.Error("expected archive_fallback override to be set")
	}
	if cat.Books[0].ArchiveFallback != nil {
		t.Error("archive_fallback should be nil when absent")
	}

	if cat.Books[2].Language != "de" {
		t.Errorf("expected language hint to be lowercased, got %q", cat.Books[2].Language)
	}
}

func TestParse_DefaultName(t *testing.T) {
	cat, err := Parse("adventure", "", []byte("books: []\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cat.Name != "adventure" {
		t.Errorf("expected name to default to key, got %q", cat.Name)
	}
	if len(cat.Books) != 0 {
		t.Errorf("expected no books, got %d", len(cat.Books))
	}
}

func TestParse_NotCategory(t *testing.T) {
	for _, input := range []string{"", "log_level: info\n", "books: nope\n"} {
		_, err := Parse("x", "", []byte(input))
		if !errors.Is(err, ErrNotCategory) {
			t.Errorf("input %q: expected ErrNotCategory, got %v", input, err)
		}
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse("x", "", []byte("books: [\n"))
	if err == nil || errors.Is(err, ErrNotCategory) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestParse_ConfigErrors(t *testing.T) {
	input := `category: Mixed
books:
  - title: Good Book
    author: Someone
    filename: Good.epub
  - title: No Author
    filename: NoAuthor.epub
  - author: Nobody
    title: Bad Id
    filename: BadId.epub
    gutenberg_id: "eleven"
  - title: Bad Path
    author: Someone
    filename: ../escape.epub
  - title: Good Book Again
    author: Someone
    filename: Good.epub
`
	cat, err := Parse("mixed", "", []byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cat.Books) != 1 || cat.Books[0].Filename != "Good.epub" {
		t.Fatalf("expected only the first Good.epub entry, got %+v", cat.Books)
	}
	if len(cat.Errors) != 4 {
		t.Fatalf("expected 4 config errors, got %d: %v", len(cat.Errors), cat.Errors)
	}

	tests := []struct {
		index    int
		filename string
	}{
		{1, "NoAuthor.epub"},
		{2, "BadId.epub"},
		{3, ""},
		{4, ""},
	}
	for i, tt := range tests {
		got := cat.Errors[i]
		if got.Index != tt.index {
			t.Errorf("error %d: expected index %d, got %d", i, tt.index, got.Index)
		}
		if got.Filename != tt.filename {
			t.Errorf("error %d: expected filename %q, got %q", i, tt.filename, got.Filename)
		}
		if got.Category != "mixed" {
			t.Errorf("error %d: expected category mixed, got %q", i, got.Category)
		}
	}

	if !strings.Contains(cat.Errors[3].Error(), "duplicate filename") {
		t.Errorf("expected duplicate filename message, got %q", cat.Errors[3].Error())
	}
}

func TestDiscover(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := home.New(tmpDir)

	files := map[string]string{
		"classics.yaml": classicsYAML,
		"other.yaml":    "log_level: debug\n",
		"config.yaml":   "log_level: info\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("all", func(t *testing.T) {
		cats, err := Discover(dir, nil, nil)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(cats) != 1 || cats[0].Key != "classics" {
			t.Fatalf("expected only classics, got %d categories", len(cats))
		}
	})

	t.Run("named", func(t *testing.T) {
		cats, err := Discover(dir, []string{"classics.yaml"}, nil)
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if len(cats) != 1 {
			t.Fatalf("expected 1 category, got %d", len(cats))
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := Discover(dir, []string{"nope"}, nil); err == nil {
			t.Error("expected error for missing category")
		}
	})

	t.Run("named non-category", func(t *testing.T) {
		_, err := Discover(dir, []string{"other"}, nil)
		if !errors.Is(err, ErrNotCategory) {
			t.Errorf("expected ErrNotCategory, got %v", err)
		}
	})
}
