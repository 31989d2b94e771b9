// Package extract converts uploaded binary documents into plain text.
//
// Dispatch is by file extension: .pdf is parsed with pdfcpu
// (cross-reference + content stream decoding), .docx/.doc as OOXML
// (archive/zip → word/document.xml). Anything else is rejected with
// ErrUnsupportedType before any bytes are touched.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedType indicates the filename extension is not one of the
// supported document formats.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrNoText indicates a structurally valid document with no extractable text.
var ErrNoText = errors.New("no text content found")

// Text is the result of extracting a document.
type Text struct {
	Raw       string `json:"raw"`
	WordCount int    `json:"word_count"`
	CharCount int    `json:"char_count"`
}

// Extractor parses uploaded documents. It holds no per-request state and is
// safe for concurrent use.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract parses the document bytes according to the declared filename and
// returns plain text with derived counts.
func (e *Extractor) Extract(filename string, data []byte) (*Text, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var raw string
	var err error
	switch ext {
	case ".pdf":
		raw, err = extractPDF(data)
	case ".docx", ".doc":
		raw, err = extractWord(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}

	e.logger.Debug("extracted document", "filename", filename, "format", ext, "chars", len(raw))

	return &Text{
		Raw:       raw,
		WordCount: len(strings.Fields(raw)),
		CharCount: utf8.RuneCountInString(raw),
	}, nil
}

// SupportedExtensions returns the accepted upload extensions.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".doc"}
}
