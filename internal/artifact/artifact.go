// Package artifact validates downloaded book files and exposes their
// contents through a format-independent ArtifactSource.
package artifact

import (
	"errors"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMinBytes is the smallest artifact considered plausible.
const DefaultMinBytes = 10_000

// Reason explains a failed validation.
type Reason string

const (
	ReasonUndersized   Reason = "undersized"
	ReasonBadSignature Reason = "bad-signature"
)

// ErrUnsupportedFormat is returned by Open for data no ArtifactSource reads.
var ErrUnsupportedFormat = errors.New("unsupported artifact format")

// ValidationOutcome is the result of Validate.
type ValidationOutcome struct {
	OK       bool
	Reason   Reason // Empty when OK
	MIMEType string // Detected type, even on failure
	Size     int
}

func (v ValidationOutcome) String() string {
	if v.OK {
		return fmt.Sprintf("valid %s (%d bytes)", v.MIMEType, v.Size)
	}
	return fmt.Sprintf("%s (%s, %d bytes)", v.Reason, v.MIMEType, v.Size)
}

// Metadata is the bibliographic descriptor extracted from an artifact.
type Metadata struct {
	Title    string
	Author   string
	Language string
}

// ArtifactSource reads one container format.
type ArtifactSource interface {
	// Validate checks that the container structure can be read.
	Validate() error
	// Metadata returns the embedded descriptor. Missing fields are empty.
	Metadata() (Metadata, error)
	// BodyText returns at most maxChars runes of running text.
	BodyText(maxChars int) (string, error)
}

// Opener constructs an ArtifactSource over validated bytes.
type Opener func(data []byte) ArtifactSource

// formats maps MIME types to the ArtifactSource that reads them. Plain zip is
// accepted because archive mirrors sometimes serve ePubs without a leading
// mimetype entry.
var formats = map[string]Opener{
	"application/epub+zip": openEPUB,
	"application/zip":      openEPUB,
}

// Validate checks size, then the container signature. It does not parse the
// container.
func Validate(data []byte, minSize int) ValidationOutcome {
	out := ValidationOutcome{Size: len(data)}
	if minSize <= 0 {
		minSize = DefaultMinBytes
	}

	if len(data) < minSize {
		out.Reason = ReasonUndersized
		if len(data) > 0 {
			out.MIMEType = mimetype.Detect(data).String()
		}
		return out
	}

	mtype, _ := match(data)
	out.MIMEType = mtype
	if _, ok := formats[mtype]; !ok {
		out.Reason = ReasonBadSignature
		return out
	}

	out.OK = true
	return out
}

// Open selects an ArtifactSource by sniffing the signature of data.
func Open(data []byte) (ArtifactSource, error) {
	mtype, opener := match(data)
	if opener == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype)
	}
	return opener(data), nil
}

// match walks the detected type and its parents until a registered format
// is found. It returns the most specific detected type when none matches.
func match(data []byte) (string, Opener) {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if opener, ok := formats[m.String()]; ok {
			return m.String(), opener
		}
	}
	return detected.String(), nil
}
