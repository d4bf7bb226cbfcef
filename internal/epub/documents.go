package epub

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

const (
	opfNS   = "http://www.idpf.org/2007/opf"
	dcNS    = "http://purl.org/dc/elements/1.1/"
	xhtmlNS = "http://www.w3.org/1999/xhtml"
	opsNS   = "http://www.idpf.org/2007/ops"
	ncxNS   = "http://www.daisy.org/z3986/2005/ncx/"

	xhtmlMediaType = "application/xhtml+xml"
	doctype        = "<!DOCTYPE html>\n"
)

// Package document. Field names mirror the OPF elements; the dc: prefix is
// written literally so readers that match on local names see plain titles.
type opfDoc struct {
	XMLName  xml.Name    `xml:"package"`
	NS       string      `xml:"xmlns,attr"`
	Version  string      `xml:"version,attr"`
	UniqueID string      `xml:"unique-identifier,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Items    []opfItem   `xml:"manifest>item"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	DCNS       string    `xml:"xmlns:dc,attr"`
	Identifier dcID      `xml:"dc:identifier"`
	Title      string    `xml:"dc:title,omitempty"`
	Creator    string    `xml:"dc:creator,omitempty"`
	Language   string    `xml:"dc:language,omitempty"`
	Publisher  string    `xml:"dc:publisher,omitempty"`
	Meta       []opfMeta `xml:"meta"`
}

type dcID struct {
	ID    string `xml:"id,attr"`
	Value string `xml:",chardata"`
}

type opfMeta struct {
	Property string `xml:"property,attr"`
	Value    string `xml:",chardata"`
}

type opfItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr,omitempty"`
}

type opfSpine struct {
	TOC      string       `xml:"toc,attr"`
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// XHTML content and navigation documents.
type xhtmlDoc struct {
	XMLName xml.Name  `xml:"html"`
	NS      string    `xml:"xmlns,attr"`
	OpsNS   string    `xml:"xmlns:epub,attr,omitempty"`
	Title   string    `xml:"head>title"`
	Style   string    `xml:"head>style,omitempty"`
	Body    xhtmlBody `xml:"body"`
}

type xhtmlBody struct {
	Nav    *navElem
	Blocks []block
}

// block is a heading or paragraph; XMLName carries the element name.
type block struct {
	XMLName xml.Name
	Text    string `xml:",chardata"`
}

type navElem struct {
	XMLName xml.Name  `xml:"nav"`
	Type    string    `xml:"epub:type,attr"`
	ID      string    `xml:"id,attr"`
	Heading string    `xml:"h1"`
	Links   []navLink `xml:"ol>li"`
}

type navLink struct {
	A struct {
		Href  string `xml:"href,attr"`
		Label string `xml:",chardata"`
	} `xml:"a"`
}

// NCX for ePub 2 readers.
type ncxDoc struct {
	XMLName  xml.Name      `xml:"ncx"`
	NS       string        `xml:"xmlns,attr"`
	Version  string        `xml:"version,attr"`
	Meta     []ncxMeta     `xml:"head>meta"`
	DocTitle string        `xml:"docTitle>text"`
	Points   []ncxNavPoint `xml:"navMap>navPoint"`
}

type ncxMeta struct {
	Name    string `xml:"name,attr"`
	Content string `xml:"content,attr"`
}

type ncxNavPoint struct {
	ID        string `xml:"id,attr"`
	PlayOrder int    `xml:"playOrder,attr"`
	Label     string `xml:"navLabel>text"`
	Src       struct {
		Src string `xml:"src,attr"`
	} `xml:"content"`
}

func (b *Builder) packageDoc() opfDoc {
	doc := opfDoc{
		NS:       opfNS,
		Version:  "3.0",
		UniqueID: "pub-id",
		Metadata: opfMetadata{
			DCNS:       dcNS,
			Identifier: dcID{ID: "pub-id", Value: b.book.Identifier},
			Title:      b.book.Title,
			Creator:    b.book.Author,
			Language:   b.book.Language,
			Publisher:  b.book.Publisher,
			Meta: []opfMeta{
				// Required by ePub 3
				{Property: "dcterms:modified", Value: time.Now().UTC().Format("2006-01-02T15:04:05Z")},
			},
		},
		Items: []opfItem{
			{ID: "nav", Href: "nav.xhtml", MediaType: xhtmlMediaType, Properties: "nav"},
			{ID: "ncx", Href: "toc.ncx", MediaType: "application/x-dtbncx+xml"},
		},
		Spine: opfSpine{TOC: "ncx"},
	}
	for _, ch := range b.chapters {
		doc.Items = append(doc.Items, opfItem{ID: ch.ID, Href: chapterHref(ch), MediaType: xhtmlMediaType})
		doc.Spine.ItemRefs = append(doc.Spine.ItemRefs, opfItemRef{IDRef: ch.ID})
	}
	return doc
}

func (b *Builder) navigationDoc() xhtmlDoc {
	nav := &navElem{Type: "toc", ID: "toc", Heading: "Table of Contents"}
	for _, ch := range b.chapters {
		var l navLink
		l.A.Href = chapterHref(ch)
		l.A.Label = ch.Title
		nav.Links = append(nav.Links, l)
	}
	return xhtmlDoc{
		NS:    xhtmlNS,
		OpsNS: opsNS,
		Title: "Table of Contents",
		Body:  xhtmlBody{Nav: nav},
	}
}

func (b *Builder) ncxDoc() ncxDoc {
	doc := ncxDoc{
		NS:      ncxNS,
		Version: "2005-1",
		Meta: []ncxMeta{
			{Name: "dtb:uid", Content: b.book.Identifier},
			{Name: "dtb:depth", Content: "1"},
		},
		DocTitle: b.book.Title,
	}
	for i, ch := range b.chapters {
		p := ncxNavPoint{ID: "navpoint-" + strconv.Itoa(i+1), PlayOrder: i + 1, Label: ch.Title}
		p.Src.Src = chapterHref(ch)
		doc.Points = append(doc.Points, p)
	}
	return doc
}

func chapterDoc(ch Chapter) xhtmlDoc {
	return xhtmlDoc{
		NS:    xhtmlNS,
		Title: ch.Title,
		Style: "p { text-indent: 1.5em; }",
		Body:  xhtmlBody{Blocks: textBlocks(ch.Text, ch.Title)},
	}
}

// textBlocks splits plain text into paragraphs. Consecutive lines are joined;
// blank lines close a paragraph and "# " lines become headings. Empty text
// yields a lone heading with the title.
func textBlocks(text, title string) []block {
	if strings.TrimSpace(text) == "" {
		return []block{{XMLName: xml.Name{Local: "h1"}, Text: title}}
	}

	var blocks []block
	var para []string
	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, block{XMLName: xml.Name{Local: "p"}, Text: strings.Join(para, " ")})
			para = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case strings.HasPrefix(trimmed, "# "):
			flush()
			blocks = append(blocks, block{XMLName: xml.Name{Local: "h1"}, Text: strings.TrimPrefix(trimmed, "# ")})
		default:
			para = append(para, trimmed)
		}
	}
	flush()
	return blocks
}

// marshalDoc renders v with an XML declaration. Indentation keeps block
// elements on separate lines, which text extraction relies on.
func marshalDoc(v any, prolog string) (string, error) {
	out, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + prolog + string(out) + "\n", nil
}
