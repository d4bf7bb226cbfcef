package testutil

import (
	"bytes"
	"testing"

	"github.com/jackzampolin/gutenshelf/internal/epub"
)

func TestEPUB(t *testing.T) {
	data := EPUB(t, "Frankenstein", "Mary Shelley", "en", "It was on a dreary night of November.")

	r, err := epub.NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	md, err := r.Metadata()
	if err != nil {
		t.Fatalf("Metadata failed: %v", err)
	}
	if md.Title != "Frankenstein" || md.Author != "Mary Shelley" || md.Language != "en" {
		t.Errorf("unexpected metadata %+v", md)
	}
}

func TestPackagelessEPUB(t *testing.T) {
	data := PackagelessEPUB(t, 1000)
	if len(data) < 1000 {
		t.Fatalf("expected filler to be stored, got %d bytes", len(data))
	}
	if got := string(data[30:38]); got != "mimetype" {
		t.Errorf("expected mimetype entry first, got %q", got)
	}
	if !bytes.Contains(data, []byte(epub.MimeType)) {
		t.Error("expected mimetype content")
	}

	r, err := epub.NewReader(data)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := r.PackagePath(); err == nil {
		t.Error("expected missing package document")
	}
}
