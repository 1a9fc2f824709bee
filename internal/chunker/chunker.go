// Package chunker provides fixed-size text chunking with overlap.
package chunker

import (
	"strings"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// Chunker splits normalised document text into overlapping windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker. It returns domain.ErrInvalidChunking when the
// configured overlap is not smaller than the chunk size, since such a
// configuration can never advance the cursor.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.overlap >= c.chunkSize {
		return nil, domain.ErrInvalidChunking
	}
	return c, nil
}

// ChunkSize returns the configured window size.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Normalise collapses every whitespace run to a single space and trims the
// ends. Chunk boundaries are computed against this string, not the original.
func Normalise(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Split normalises the text and cuts it into overlapping windows. Each
// chunk spans [cursor, cursor+size); after a chunk that does not reach the
// end, the cursor advances to end-overlap. Whitespace-only input yields nil.
func (c *Chunker) Split(text string) []string {
	clean := Normalise(text)
	if clean == "" {
		return nil
	}

	step := c.chunkSize - c.overlap
	chunks := make([]string, 0, len(clean)/step+1)

	start := 0
	for {
		end := start + c.chunkSize
		if end > len(clean) {
			end = len(clean)
		}
		chunks = append(chunks, clean[start:end])
		if end == len(clean) {
			return chunks
		}
		start = end - c.overlap
	}
}

// ChunkDocument normalises and splits a document, assigning content-addressed
// chunk ids derived from the normalised text. The returned document id is
// stable for identical content.
func (c *Chunker) ChunkDocument(doc domain.Document) (string, []domain.Chunk) {
	clean := Normalise(doc.Content)
	docID := domain.HashDocument(clean)

	parts := c.Split(clean)
	if len(parts) == 0 {
		return docID, nil
	}

	chunks := make([]domain.Chunk, len(parts))
	for i, p := range parts {
		chunks[i] = domain.Chunk{
			ID:         domain.ChunkID(docID, i),
			DocumentID: docID,
			Content:    p,
			Position:   i,
		}
	}
	return docID, chunks
}
