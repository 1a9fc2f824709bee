// Package plaintext extracts text from plain text documents. It is the
// fallback normaliser for any extension no other normaliser claims.
package plaintext

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Supports accepts any filename. Plaintext is the fallback; registries
// should consult it last.
func (n *Normaliser) Supports(_ string) bool {
	return true
}

// Extract returns the bytes as a string. Content that is not valid UTF-8 is
// rejected rather than indexed as mojibake.
func (n *Normaliser) Extract(_ context.Context, filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("plaintext %q: %w: not valid UTF-8", filename, domain.ErrUnsupportedFormat)
	}
	return string(data), nil
}
