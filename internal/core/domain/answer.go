package domain

// AnswerMode tags how an answer was produced, so callers can tell a real
// generation apart from the degraded placeholder without parsing the text.
type AnswerMode string

const (
	// AnswerGenerated means the generation backend produced the text.
	AnswerGenerated AnswerMode = "generated"

	// AnswerDegraded means no generation backend is configured and the
	// text is the labelled placeholder echoing question and context.
	AnswerDegraded AnswerMode = "degraded"
)

// Answer is the final response to a question: the generated (or placeholder)
// text plus the assembled context it was conditioned on, kept for
// auditability. Answers are ephemeral.
type Answer struct {
	Text    string     `json:"answer"`
	Context string     `json:"context"`
	Mode    AnswerMode `json:"mode"`
}

// IngestReceipt reports a completed ingestion.
type IngestReceipt struct {
	DocumentID string `json:"document"`
	Chunks     int    `json:"chunks"`
}
