package driving

import (
	"context"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

// IngestService turns a document into index entries.
type IngestService interface {
	// Ingest chunks, embeds, and upserts the document, returning the
	// number of chunks written. Ingestion is all-or-nothing: a failing
	// embed or upsert leaves no partial entries behind.
	Ingest(ctx context.Context, doc domain.Document) (domain.IngestReceipt, error)
}
