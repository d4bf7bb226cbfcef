package epub

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrNoPackage is returned when no OPF package document can be located.
	ErrNoPackage = errors.New("no package document")
	// ErrNotZip is returned when the data is not a readable zip archive.
	ErrNotZip = errors.New("not a zip archive")
)

// Metadata is the Dublin Core subset read from the package document.
type Metadata struct {
	Title    string
	Author   string
	Language string // First two letters of dc:language, lowercased
}

// Reader reads metadata and text from an in-memory ePub.
type Reader struct {
	zr    *zip.Reader
	files map[string]*zip.File

	opfPath string
	pkg     *opfPackage
}

type containerDoc struct {
	RootFiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

type opfPackage struct {
	Titles    []string `xml:"metadata>title"`
	Creators  []string `xml:"metadata>creator"`
	Languages []string `xml:"metadata>language"`
	Items     []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	ItemRefs []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

// NewReader opens the archive held in data.
func NewReader(data []byte) (*Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotZip, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return &Reader{zr: zr, files: files}, nil
}

// PackagePath locates the OPF package document: the container rootfile
// first, then the first *.opf entry in the archive.
func (r *Reader) PackagePath() (string, error) {
	if r.opfPath != "" {
		return r.opfPath, nil
	}

	if f, ok := r.files["META-INF/container.xml"]; ok {
		var c containerDoc
		if err := decodeXML(f, &c); err == nil {
			for _, rf := range c.RootFiles {
				if _, ok := r.files[rf.FullPath]; ok {
					r.opfPath = rf.FullPath
					return r.opfPath, nil
				}
			}
		}
	}

	for _, f := range r.zr.File {
		if strings.HasSuffix(strings.ToLower(f.Name), ".opf") {
			r.opfPath = f.Name
			return r.opfPath, nil
		}
	}
	return "", ErrNoPackage
}

func (r *Reader) packageDoc() (*opfPackage, error) {
	if r.pkg != nil {
		return r.pkg, nil
	}
	opfPath, err := r.PackagePath()
	if err != nil {
		return nil, err
	}
	var pkg opfPackage
	if err := decodeXML(r.files[opfPath], &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", opfPath, err)
	}
	r.pkg = &pkg
	return r.pkg, nil
}

// Metadata reads title, author and language from the package document.
// Missing fields are returned empty.
func (r *Reader) Metadata() (Metadata, error) {
	pkg, err := r.packageDoc()
	if err != nil {
		return Metadata{}, err
	}

	md := Metadata{
		Title:  firstNonEmpty(pkg.Titles),
		Author: firstNonEmpty(pkg.Creators),
	}
	if lang := strings.ToLower(firstNonEmpty(pkg.Languages)); len(lang) >= 2 {
		md.Language = lang[:2]
	}
	return md, nil
}

// ContentDocuments returns the archive paths of the XHTML documents in
// reading order. The spine is used when it resolves to at least one entry;
// otherwise every .html/.xhtml/.htm entry is used, sorted by name, skipping
// table-of-contents files.
func (r *Reader) ContentDocuments() []string {
	if docs := r.spineDocuments(); len(docs) > 0 {
		return docs
	}

	var docs []string
	for _, f := range r.zr.File {
		name := strings.ToLower(f.Name)
		if strings.Contains(path.Base(name), "toc") {
			continue
		}
		switch path.Ext(name) {
		case ".html", ".xhtml", ".htm":
			docs = append(docs, f.Name)
		}
	}
	sort.Strings(docs)
	return docs
}

func (r *Reader) spineDocuments() []string {
	pkg, err := r.packageDoc()
	if err != nil {
		return nil
	}

	base := path.Dir(r.opfPath)
	hrefs := make(map[string]string, len(pkg.Items))
	for _, item := range pkg.Items {
		if !strings.Contains(item.MediaType, "html") {
			continue
		}
		href := item.Href
		if i := strings.IndexByte(href, '#'); i >= 0 {
			href = href[:i]
		}
		if unescaped, err := url.PathUnescape(href); err == nil {
			href = unescaped
		}
		hrefs[item.ID] = path.Join(base, href)
	}

	var docs []string
	seen := make(map[string]bool)
	for _, ref := range pkg.ItemRefs {
		p, ok := hrefs[ref.IDRef]
		if !ok || seen[p] {
			continue
		}
		if _, ok := r.files[p]; !ok {
			continue
		}
		seen[p] = true
		docs = append(docs, p)
	}
	return docs
}

// BodyText returns the visible text of the content documents joined by
// single spaces, truncated to maxChars runes. maxChars <= 0 means no limit.
func (r *Reader) BodyText(maxChars int) (string, error) {
	var sb strings.Builder
	count := 0

	for _, name := range r.ContentDocuments() {
		if maxChars > 0 && count >= maxChars {
			break
		}

		text, err := r.documentText(r.files[name])
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", name, err)
		}
		if text == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteByte(' ')
			count++
		}
		for _, rn := range text {
			if maxChars > 0 && count >= maxChars {
				break
			}
			sb.WriteRune(rn)
			count++
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

func (r *Reader) documentText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	doc, err := goquery.NewDocumentFromReader(rc)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, head, noscript").Remove()

	text := doc.Find("body").Text()
	if text == "" {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " "), nil
}

func decodeXML(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte("�"))
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	// Package documents are UTF-8 in practice; ignore declared charsets.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec.Decode(v)
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v = strings.Join(strings.Fields(v), " "); v != "" {
			return v
		}
	}
	return ""
}
