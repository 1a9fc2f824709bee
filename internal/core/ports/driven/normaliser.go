package driven

import "context"

// Normaliser extracts plain text from raw document bytes of one or more
// formats. The pipeline only consumes the text output; parser internals are
// the adapter's concern.
type Normaliser interface {
	// Extract returns the plain text of the document, or
	// domain.ErrUnsupportedFormat when the bytes cannot be parsed.
	Extract(ctx context.Context, filename string, data []byte) (string, error)

	// Supports reports whether the normaliser handles the given filename
	// (by extension).
	Supports(filename string) bool
}
