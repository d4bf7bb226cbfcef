package artifact

import (
	"github.com/jackzampolin/gutenshelf/internal/epub"
)

type epubSource struct {
	data   []byte
	reader *epub.Reader
}

func openEPUB(data []byte) ArtifactSource {
	return &epubSource{data: data}
}

func (s *epubSource) open() (*epub.Reader, error) {
	if s.reader != nil {
		return s.reader, nil
	}
	r, err := epub.NewReader(s.data)
	if err != nil {
		return nil, err
	}
	s.reader = r
	return r, nil
}

func (s *epubSource) Validate() error {
	r, err := s.open()
	if err != nil {
		return err
	}
	_, err = r.PackagePath()
	return err
}

func (s *epubSource) Metadata() (Metadata, error) {
	r, err := s.open()
	if err != nil {
		return Metadata{}, err
	}
	md, err := r.Metadata()
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{Title: md.Title, Author: md.Author, Language: md.Language}, nil
}

func (s *epubSource) BodyText(maxChars int) (string, error) {
	r, err := s.open()
	if err != nil {
		return "", err
	}
	return r.BodyText(maxChars)
}
