// Package testutil builds fixture artifacts for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"

	"github.com/jackzampolin/gutenshelf/internal/epub"
)

// TestingT is the subset of testing.T the fixtures need.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// EPUB builds an uncompressed single-chapter EPUB. Stored entries keep the
// size proportional to text, which makes size thresholds easy to hit.
func EPUB(t TestingT, title, author, lang, text string) []byte {
	t.Helper()
	buf, err := epub.NewBuilder(
		epub.Book{Title: title, Author: author, Language: lang},
		[]epub.Chapter{{ID: "ch_001", Title: "Chapter One", Text: text}},
	).Uncompressed().BuildToBuffer()
	if err != nil {
		t.Fatalf("failed to build fixture epub: %v", err)
	}
	return buf.Bytes()
}

// PackagelessEPUB has a valid EPUB signature and filler bytes but no
// package document.
func PackagelessEPUB(t TestingT, filler int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	entries := []struct {
		name string
		data []byte
	}{
		{"mimetype", []byte(epub.MimeType)},
		{"filler.txt", bytes.Repeat([]byte("x"), filler)},
	}
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
