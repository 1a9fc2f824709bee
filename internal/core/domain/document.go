package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Document is raw extracted text together with an opaque source identifier
// (filename or upload id). Documents are ephemeral: they exist only for the
// duration of an ingestion and are never persisted.
type Document struct {
	// ID is the content-addressed identifier, derived from the normalised
	// text. Empty until the ingestion pipeline computes it.
	ID string

	// Source is the original location hint (filename, upload id).
	Source string

	// Content is the extracted plain text before normalisation.
	Content string
}

// Chunk is a contiguous substring of a document's normalised text.
// Chunks read in Position order cover the whole normalised text, each chunk
// after the first starting at the previous chunk's end minus the overlap.
type Chunk struct {
	// ID is DocumentID + "-" + Position.
	ID string

	// DocumentID is the content hash of the owning document.
	DocumentID string

	// Content is the chunk text.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// IndexEntry is the durable unit stored in the vector index: a unique id,
// an embedding vector, and a metadata map carrying at least the chunk text.
type IndexEntry struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Metadata keys written by the ingestion pipeline.
const (
	MetaText     = "text"
	MetaPosition = "position"
	MetaSource   = "source"
	MetaDocument = "document"
)

// Match is a single query result: the matched entry's id, its similarity
// score, and (when requested) its metadata. Matches arrive ordered by
// descending score.
type Match struct {
	ID       string
	Score    float64
	Metadata map[string]string
}

// Text returns the stored chunk text of the match, if metadata was included.
func (m Match) Text() string {
	return m.Metadata[MetaText]
}

// ChunkID derives the index entry id for a chunk from its document hash and
// position.
func ChunkID(documentID string, position int) string {
	return documentID + "-" + strconv.Itoa(position)
}

// HashDocument returns the content-addressed document id: the first 16 hex
// characters of the SHA-256 of the normalised text. Identical content hashes
// to identical ids, so re-ingesting a document overwrites its own entries
// instead of duplicating them.
func HashDocument(normalised string) string {
	sum := sha256.Sum256([]byte(normalised))
	return hex.EncodeToString(sum[:])[:16]
}
