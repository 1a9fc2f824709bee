// Package docx extracts text from DOCX documents by parsing
// word/document.xml inside the ZIP container.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports reports whether the filename has a .docx extension.
func (n *Normaliser) Supports(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".docx")
}

// Extract parses the ZIP container and returns the text of
// word/document.xml, paragraphs separated by newlines.
func (n *Normaliser) Extract(_ context.Context, filename string, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx %q: %w: not a ZIP container", filename, domain.ErrUnsupportedFormat)
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("docx %q: %w: cannot open document.xml", filename, domain.ErrUnsupportedFormat)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("docx %q: %w: cannot read document.xml", filename, domain.ErrUnsupportedFormat)
		}

		return parseDocumentXML(content)
	}
	return "", fmt.Errorf("docx %q: %w: no word/document.xml entry", filename, domain.ErrUnsupportedFormat)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("docx: %w: malformed document.xml", domain.ErrUnsupportedFormat)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}
	return strings.TrimSpace(result.String()), nil
}
