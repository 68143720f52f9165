// Package iof holds the subset of the IOF Data Standard 3.0 documents the
// organiser imports: CourseData and EntryList.
package iof

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// ParseError wraps a document that could not be decoded.
type ParseError struct {
	Document string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Document, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type ID struct {
	Type  string `xml:"type,attr,omitempty"`
	Value string `xml:",chardata"`
}

// String returns the trimmed id value, or "" for a nil id.
func (id *ID) String() string {
	if id == nil {
		return ""
	}
	return strings.TrimSpace(id.Value)
}

type Country struct {
	Code string `xml:"code,attr"`
	Name string `xml:",chardata"`
}

type Class struct {
	ID        *ID    `xml:"Id"`
	Name      string `xml:"Name"`
	ShortName string `xml:"ShortName"`
}

type Event struct {
	ID      *ID     `xml:"Id"`
	Name    string  `xml:"Name"`
	Classes []Class `xml:"Class"`
}

func decode(r io.Reader, document string, v any) error {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &ParseError{Document: document, Err: err}
	}
	return nil
}

// charsetReader accepts the non UTF-8 encodings federation exports are declared with, e.g. ISO-8859-1.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}
