package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quayside-labs/ragpipe/internal/adapters/driven/embedding/local"
	"github.com/quayside-labs/ragpipe/internal/adapters/driven/vectorstore/memory"
	"github.com/quayside-labs/ragpipe/internal/chunker"
	"github.com/quayside-labs/ragpipe/internal/core/domain"
	"github.com/quayside-labs/ragpipe/internal/core/ports/driven"
)

// fakeLLM records the last prompt and returns a canned completion.
type fakeLLM struct {
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string { return "fake-model" }
func (f *fakeLLM) Close() error      { return nil }

// failingEmbedder fails on one specific input and delegates the rest.
type failingEmbedder struct {
	driven.EmbeddingService
	failOn string
}

func (f *failingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.Contains(text, f.failOn) {
		return nil, errors.New("embedding backend exploded")
	}
	return f.EmbeddingService.Embed(ctx, text)
}

func newTestStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Provision(context.Background(), local.Dimensions))
	return store
}

func TestAssembleContext(t *testing.T) {
	matches := []domain.Match{
		{ID: "a-0", Score: 0.9, Metadata: map[string]string{domain.MetaText: "first passage"}},
		{ID: "a-1", Score: 0.8, Metadata: map[string]string{domain.MetaText: "second passage"}},
		{ID: "a-2", Score: 0.7, Metadata: map[string]string{domain.MetaText: "third passage"}},
	}

	assembled := AssembleContext(matches)
	assert.Equal(t, "first passage\n\nsecond passage\n\nthird passage", assembled)
}

func TestAssembleContext_Empty(t *testing.T) {
	assert.Equal(t, "", AssembleContext(nil))
	assert.Equal(t, "", AssembleContext([]domain.Match{}))
}

func TestAssembleContext_SkipsMissingText(t *testing.T) {
	matches := []domain.Match{
		{ID: "a-0", Metadata: map[string]string{domain.MetaText: "kept"}},
		{ID: "a-1", Metadata: map[string]string{domain.MetaPosition: "1"}},
	}
	assert.Equal(t, "kept", AssembleContext(matches))
}

func TestAnswerer_Degraded(t *testing.T) {
	a := NewAnswerer(nil, driven.GenerateOptions{})

	ans, err := a.Answer(context.Background(), "What colour is the sky?", "The sky is blue.")
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerDegraded, ans.Mode)
	assert.Equal(t, "The sky is blue.", ans.Context)
	assert.Contains(t, ans.Text, "What colour is the sky?")
	assert.Contains(t, ans.Text, "The sky is blue.")
	assert.Contains(t, ans.Text, "not configured")
}

func TestAnswerer_DegradedNoContext(t *testing.T) {
	a := NewAnswerer(nil, driven.GenerateOptions{})

	ans, err := a.Answer(context.Background(), "anything?", "")
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerDegraded, ans.Mode)
	assert.Contains(t, ans.Text, "No relevant documents found")
}

func TestAnswerer_Generated(t *testing.T) {
	llm := &fakeLLM{reply: "The sky is blue."}
	a := NewAnswerer(llm, driven.GenerateOptions{MaxTokens: 256})

	ans, err := a.Answer(context.Background(), "What colour is the sky?", "The sky is blue on clear days.")
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerGenerated, ans.Mode)
	assert.Equal(t, "The sky is blue.", ans.Text)
	assert.Equal(t, "The sky is blue on clear days.", ans.Context)
	assert.Contains(t, llm.lastPrompt, "Use only the provided context")
	assert.Contains(t, llm.lastPrompt, "The sky is blue on clear days.")
	assert.Contains(t, llm.lastPrompt, "What colour is the sky?")
}

func TestAnswerer_GenerationFailure(t *testing.T) {
	llm := &fakeLLM{err: domain.ErrBackendUnavailable}
	a := NewAnswerer(llm, driven.GenerateOptions{})

	_, err := a.Answer(context.Background(), "q", "ctx")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestIngest_RepeatedSentence(t *testing.T) {
	c, err := chunker.New()
	require.NoError(t, err)
	store := newTestStore(t)
	pipeline := NewIngestPipeline(c, local.New(), store)

	doc := domain.Document{
		Source:  "sky.txt",
		Content: strings.Repeat("The sky is blue. ", 100),
	}

	receipt, err := pipeline.Ingest(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 2, receipt.Chunks)
	assert.NotEmpty(t, receipt.DocumentID)
	assert.Equal(t, 2, store.Len())
}

func TestIngest_EmptyDocument(t *testing.T) {
	c, err := chunker.New()
	require.NoError(t, err)
	pipeline := NewIngestPipeline(c, local.New(), newTestStore(t))

	_, err = pipeline.Ingest(context.Background(), domain.Document{Source: "empty.txt", Content: "  \n\t "})
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestIngest_Idempotent(t *testing.T) {
	c, err := chunker.New()
	require.NoError(t, err)
	store := newTestStore(t)
	pipeline := NewIngestPipeline(c, local.New(), store)

	doc := domain.Document{Source: "a.txt", Content: "some short document"}

	first, err := pipeline.Ingest(context.Background(), doc)
	require.NoError(t, err)
	second, err := pipeline.Ingest(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, first.DocumentID, second.DocumentID)
	assert.Equal(t, 1, store.Len())
}

func TestIngest_EmbedFailureLeavesIndexUntouched(t *testing.T) {
	c, err := chunker.New(chunker.WithChunkSize(10), chunker.WithOverlap(2))
	require.NoError(t, err)
	store := newTestStore(t)

	embedder := &failingEmbedder{EmbeddingService: local.New(), failOn: "!"}
	pipeline := NewIngestPipeline(c, embedder, store)

	doc := domain.Document{
		Source:  "b.txt",
		Content: "aaaaaaaaaa bbbbbbbbbb ! cccccccccc dddddddddd",
	}

	_, err = pipeline.Ingest(context.Background(), doc)
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestQueryPipeline_EndToEnd(t *testing.T) {
	c, err := chunker.New()
	require.NoError(t, err)
	store := newTestStore(t)
	embedder := local.New()

	ingest := NewIngestPipeline(c, embedder, store)
	_, err = ingest.Ingest(context.Background(), domain.Document{
		Source:  "sky.txt",
		Content: "The sky is blue because of Rayleigh scattering.",
	})
	require.NoError(t, err)

	llm := &fakeLLM{reply: "Because of Rayleigh scattering."}
	query := NewQueryPipeline(embedder, store, NewAnswerer(llm, driven.GenerateOptions{}), 3)

	ans, err := query.Ask(context.Background(), "Why is the sky blue?")
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerGenerated, ans.Mode)
	assert.Equal(t, "Because of Rayleigh scattering.", ans.Text)
	assert.Contains(t, ans.Context, "Rayleigh scattering")
}

func TestQueryPipeline_DefaultTopK(t *testing.T) {
	c, err := chunker.New()
	require.NoError(t, err)
	store := newTestStore(t)
	embedder := local.New()

	ingest := NewIngestPipeline(c, embedder, store)
	docs := []string{
		"alpha passage one", "bravo passage two", "charlie passage three",
		"delta passage four", "echo passage five", "foxtrot passage six",
		"golf passage seven",
	}
	for _, content := range docs {
		_, err := ingest.Ingest(context.Background(), domain.Document{Source: "d.txt", Content: content})
		require.NoError(t, err)
	}

	query := NewQueryPipeline(embedder, store, NewAnswerer(nil, driven.GenerateOptions{}), 0)

	ans, err := query.Ask(context.Background(), "passage")
	require.NoError(t, err)
	assert.Len(t, strings.Split(ans.Context, "\n\n"), DefaultTopK)
}

func TestQueryPipeline_BlankQuestion(t *testing.T) {
	query := NewQueryPipeline(local.New(), newTestStore(t), NewAnswerer(nil, driven.GenerateOptions{}), 3)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := query.Ask(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "Question required")
	}
}

func TestQueryPipeline_NoMatches(t *testing.T) {
	query := NewQueryPipeline(local.New(), newTestStore(t), NewAnswerer(nil, driven.GenerateOptions{}), 3)

	ans, err := query.Ask(context.Background(), "anything indexed?")
	require.NoError(t, err)

	assert.Equal(t, domain.AnswerDegraded, ans.Mode)
	assert.Equal(t, "", ans.Context)
	assert.Contains(t, ans.Text, "No relevant documents found")
}

func TestQueryPipeline_Unprovisioned(t *testing.T) {
	query := NewQueryPipeline(local.New(), memory.New(), NewAnswerer(nil, driven.GenerateOptions{}), 3)

	_, err := query.Ask(context.Background(), "hello?")
	assert.ErrorIs(t, err, domain.ErrIndexNotProvisioned)
}
