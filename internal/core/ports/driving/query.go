package driving

import (
	"context"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
)

// QueryService answers natural-language questions from the indexed corpus.
type QueryService interface {
	// Ask embeds the question, retrieves the top-K passages, and returns
	// the generated (or degraded placeholder) answer together with the
	// context it was conditioned on. Blank questions are rejected with
	// domain.ErrInvalidInput before any external call.
	Ask(ctx context.Context, question string) (domain.Answer, error)
}
