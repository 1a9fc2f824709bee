package services

import (
	"context"
	"fmt"

	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
	"github.com/quayside-labs/ragpipe/internal/logger"
)

// answerPrompt instructs the model to ground its answer in the retrieved
// passages only.
const answerPrompt = "Use only the provided context to answer the question.\nContext: %s\nQuestion: %s"

// noContextNotice is used in place of passages when retrieval found nothing.
const noContextNotice = "No relevant documents found."

// Answerer turns a question plus assembled context into an answer. The
// generation backend is optional; when absent the answerer degrades to a
// placeholder that still carries the question and the retrieved context,
// tagged so callers can tell the two modes apart.
type Answerer struct {
	llm  driven.LLMService
	opts driven.GenerateOptions
}

// NewAnswerer creates an answerer. llm may be nil, in which case every
// answer is produced in degraded mode.
func NewAnswerer(llm driven.LLMService, opts driven.GenerateOptions) *Answerer {
	return &Answerer{llm: llm, opts: opts}
}

// Answer produces an answer for the question given the assembled context.
func (a *Answerer) Answer(ctx context.Context, question, assembled string) (domain.Answer, error) {
	if a.llm == nil {
		return domain.Answer{
			Text:    degradedAnswer(question, assembled),
			Context: assembled,
			Mode:    domain.AnswerDegraded,
		}, nil
	}

	prompt := assembled
	if prompt == "" {
		prompt = noContextNotice
	}

	logger.Debug("generating answer with %s", a.llm.ModelName())
	text, err := a.llm.Generate(ctx, fmt.Sprintf(answerPrompt, prompt, question), a.opts)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	return domain.Answer{
		Text:    text,
		Context: assembled,
		Mode:    domain.AnswerGenerated,
	}, nil
}

func degradedAnswer(question, assembled string) string {
	if assembled == "" {
		return fmt.Sprintf("[generation backend not configured] %s\n\nQuestion: %s", noContextNotice, question)
	}
	return fmt.Sprintf("[generation backend not configured] Question: %s\n\nRetrieved context:\n%s", question, assembled)
}
