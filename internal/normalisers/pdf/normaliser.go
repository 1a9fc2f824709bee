// Package pdf extracts text from PDF documents using ledongthuc/pdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports reports whether the filename has a .pdf extension.
func (n *Normaliser) Supports(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

// Extract parses the PDF in memory and returns its plain text.
func (n *Normaliser) Extract(_ context.Context, filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf %q: %w: %v", filename, domain.ErrUnsupportedFormat, err)
	}

	text, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf %q: %w: extract text: %v", filename, domain.ErrUnsupportedFormat, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return "", fmt.Errorf("pdf %q: %w: read text: %v", filename, domain.ErrUnsupportedFormat, err)
	}
	return buf.String(), nil
}
