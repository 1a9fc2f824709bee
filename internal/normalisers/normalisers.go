// Package normalisers provides implementations of the Normaliser interface
// for various document formats, and a registry that selects the right one
// for a filename.
package normalisers

import (
	"context"
	"fmt"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
	"github.com/quayside-labs/ragpipe/internal/normalisers/csv"
	"github.com/quayside-labs/ragpipe/internal/normalisers/docx"
	"github.com/quayside-labs/ragpipe/internal/normalisers/pdf"
	"github.com/quayside-labs/ragpipe/internal/normalisers/plaintext"
)

// Registry selects a normaliser by filename. Normalisers are consulted in
// registration order; the first one that claims the filename wins.
type Registry struct {
	normalisers []driven.Normaliser
}

// NewRegistry creates a registry with the given normalisers. Order matters:
// put catch-all normalisers last.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	return &Registry{normalisers: normalisers}
}

// Default returns a registry with the built-in normalisers: pdf, docx, csv,
// and plaintext as the fallback.
func Default() *Registry {
	return NewRegistry(pdf.New(), docx.New(), csv.New(), plaintext.New())
}

// Extract finds a normaliser for the filename and runs it.
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	for _, n := range r.normalisers {
		if n.Supports(filename) {
			return n.Extract(ctx, filename, data)
		}
	}
	return "", fmt.Errorf("%w: no normaliser for %q", domain.ErrUnsupportedFormat, filename)
}
