// Package epub reads and writes ePub containers.
package epub

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MimeType is the content of the mimetype entry of every ePub.
const MimeType = "application/epub+zip"

// Book contains the metadata needed for epub generation.
type Book struct {
	Identifier string // Defaults to a random urn:uuid
	Title      string
	Author     string
	Language   string // ISO 639-1 code (e.g., "en")
	Publisher  string
}

// Chapter is one content document. Text is plain text: blank lines separate
// paragraphs and a leading "# " marks a heading.
type Chapter struct {
	ID    string // Unique identifier (e.g., "ch_001")
	Title string
	Text  string
}

// Builder creates ePub 3.0 files.
type Builder struct {
	book     Book
	chapters []Chapter
	// Store all entries uncompressed. Useful for exercising readers.
	store bool
}

// NewBuilder creates a new epub builder.
func NewBuilder(book Book, chapters []Chapter) *Builder {
	if book.Identifier == "" {
		book.Identifier = "urn:uuid:" + uuid.New().String()
	}
	return &Builder{
		book:     book,
		chapters: chapters,
	}
}

// Build generates the epub and writes it to the specified path.
func (b *Builder) Build(outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return b.WriteTo(f)
}

// WriteTo writes the epub to a writer.
func (b *Builder) WriteTo(w io.Writer) error {
	zw := zip.NewWriter(w)

	// 1. mimetype (must be first, uncompressed)
	if err := b.writeMimetype(zw); err != nil {
		return err
	}

	// 2. META-INF/container.xml
	if err := b.writeEntry(zw, "META-INF/container.xml", containerXML); err != nil {
		return err
	}

	// 3. Package document, then navigation for ePub 3 and ePub 2 readers
	docs := []struct {
		name   string
		doc    any
		prolog string
	}{
		{"OEBPS/content.opf", b.packageDoc(), ""},
		{"OEBPS/nav.xhtml", b.navigationDoc(), doctype},
		{"OEBPS/toc.ncx", b.ncxDoc(), ""},
	}
	for _, d := range docs {
		content, err := marshalDoc(d.doc, d.prolog)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", d.name, err)
		}
		if err := b.writeEntry(zw, d.name, content); err != nil {
			return err
		}
	}

	// 4. Chapter files
	for _, ch := range b.chapters {
		content, err := marshalDoc(chapterDoc(ch), doctype)
		if err != nil {
			return fmt.Errorf("failed to render chapter %s: %w", ch.ID, err)
		}
		if err := b.writeEntry(zw, chapterPath(ch), content); err != nil {
			return fmt.Errorf("failed to write chapter %s: %w", ch.ID, err)
		}
	}

	return zw.Close()
}

// writeMimetype writes the mimetype file (must be first and uncompressed).
// The entry carries no extra fields so its content sits at a fixed offset,
// which is what signature sniffers look for.
func (b *Builder) writeMimetype(zw *zip.Writer) error {
	header := &zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create mimetype: %w", err)
	}
	_, err = w.Write([]byte(MimeType))
	return err
}

func (b *Builder) writeEntry(zw *zip.Writer, name, content string) error {
	method := zip.Deflate
	if b.store {
		method = zip.Store
	}
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	_, err = w.Write([]byte(content))
	return err
}

// BuildToBuffer generates the epub and returns it as a byte buffer.
func (b *Builder) BuildToBuffer() (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := b.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Uncompressed makes the builder store every entry without compression.
func (b *Builder) Uncompressed() *Builder {
	b.store = true
	return b
}

func chapterPath(ch Chapter) string {
	return "OEBPS/" + chapterHref(ch)
}

func chapterHref(ch Chapter) string {
	return "chapters/" + ch.ID + ".xhtml"
}

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
