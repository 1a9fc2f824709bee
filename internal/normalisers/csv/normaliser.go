// Package csv extracts text from CSV documents, one line per record with
// fields joined by commas.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles CSV documents.
type Normaliser struct{}

// New creates a new CSV normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports reports whether the filename has a .csv extension.
func (n *Normaliser) Supports(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}

// Extract parses the records and renders them as plain text, so header and
// cell values end up in the index as searchable prose.
func (n *Normaliser) Extract(_ context.Context, filename string, data []byte) (string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	// Ragged rows are common in real exports; take what is there.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("csv %q: %w: %v", filename, domain.ErrUnsupportedFormat, err)
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		lines = append(lines, strings.Join(record, ", "))
	}
	return strings.Join(lines, "\n"), nil
}
