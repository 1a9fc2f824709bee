package domain

import "errors"

// Domain errors represent pipeline failures by kind. Pipeline boundaries
// wrap step failures with these sentinels so transports can map them to
// statuses with errors.Is instead of string matching.
var (
	// ErrInvalidInput indicates a missing/empty question, missing file, or
	// otherwise malformed request. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoContent indicates a document whose normalised text produced no
	// chunks. The ingestion is aborted before any upsert.
	ErrNoContent = errors.New("document has no content")

	// ErrUnsupportedFormat indicates the parser cannot extract text from
	// the supplied document (unknown or corrupt format).
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidChunking indicates a chunking configuration that cannot
	// make forward progress (overlap >= size). Rejected at construction
	// time, before any document is touched.
	ErrInvalidChunking = errors.New("chunk overlap must be smaller than chunk size")

	// ErrIndexNotProvisioned indicates the vector collection has not been
	// created. Provisioning is an explicit administrative action; the hot
	// path never creates collections implicitly.
	ErrIndexNotProvisioned = errors.New("vector index not provisioned")

	// ErrNotConfigured indicates a required backend is missing
	// configuration or credentials. Not retried.
	ErrNotConfigured = errors.New("backend not configured")

	// ErrBackendUnavailable indicates a transient failure of an external
	// capability: timeout, network error, quota. The core does not retry;
	// retry policy belongs to the caller.
	ErrBackendUnavailable = errors.New("backend unavailable")
)
