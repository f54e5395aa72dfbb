package executor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mindful-ai-be/internal/constant"
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/repository/contract"
	"mindful-ai-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type passthroughRewriter struct{}

func (passthroughRewriter) Rewrite(_ context.Context, _ string, question string) string {
	return question
}

type stubRetriever struct {
	chunks []*contract.ScoredDocumentChunk
	err    error
}

func (s *stubRetriever) Retrieve(context.Context, string, string) ([]*contract.ScoredDocumentChunk, error) {
	return s.chunks, s.err
}

type recordingLLM struct {
	lastPrompt string
	lastOpts   llm.Options
	reply      string
	err        error
}

func (r *recordingLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return r.reply, r.err
}

func (r *recordingLLM) Generate(_ context.Context, prompt string, opts ...llm.Option) (string, error) {
	r.lastPrompt = prompt
	r.lastOpts = llm.Options{}
	for _, opt := range opts {
		opt(&r.lastOpts)
	}
	return r.reply, r.err
}

func scoredChunk(title, content string, similarity float64) *contract.ScoredDocumentChunk {
	return &contract.ScoredDocumentChunk{
		Chunk: &entity.DocumentChunk{
			Id:         uuid.New(),
			DocumentId: uuid.New(),
			Content:    content,
			Metadata:   entity.ChunkMetadata{Title: title},
		},
		Similarity: similarity,
	}
}

func TestExecute_EmptyHistoryUsesPlaceholder(t *testing.T) {
	model := &recordingLLM{reply: "hello"}
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{}, model, 0.7, 1024, nopLogger{})

	_, err := p.Execute(context.Background(), nil, "I feel anxious", "")
	require.NoError(t, err)
	assert.Contains(t, model.lastPrompt, constant.EmptyHistoryPlaceholder)
}

func TestExecute_EmptyRetrievalUsesPlaceholderAndOmitsSources(t *testing.T) {
	model := &recordingLLM{reply: "I hear you."}
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{}, model, 0.7, 1024, nopLogger{})

	res, err := p.Execute(context.Background(), nil, "what helps with panic attacks?", "")
	require.NoError(t, err)
	assert.Equal(t, "I hear you.", res.Reply)
	assert.Nil(t, res.Sources)
	assert.Contains(t, model.lastPrompt, constant.EmptyContextPlaceholder)
}

func TestExecute_RetrievedChunksFlowIntoPromptAndSources(t *testing.T) {
	chunks := []*contract.ScoredDocumentChunk{
		scoredChunk("Breathing Exercises", "Box breathing calms the nervous system.", 0.91),
		scoredChunk("Sleep Hygiene", "Regular sleep schedules reduce anxiety.", 0.82),
	}
	model := &recordingLLM{reply: "Try box breathing."}
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{chunks: chunks}, model, 0.7, 1024, nopLogger{})

	res, err := p.Execute(context.Background(), nil, "how do I calm down?", "anxiety")
	require.NoError(t, err)

	assert.Contains(t, model.lastPrompt, "Box breathing calms the nervous system.")
	assert.NotContains(t, model.lastPrompt, constant.EmptyContextPlaceholder)

	require.Len(t, res.Sources, 2)
	assert.Equal(t, "Breathing Exercises", res.Sources[0].Title)
	assert.Equal(t, 0.91, res.Sources[0].Similarity)
	assert.Equal(t, chunks[0].Chunk.DocumentId, res.Sources[0].DocumentId)
}

func TestExecute_LongChunkContentIsTruncatedInSnippet(t *testing.T) {
	long := strings.Repeat("a", constant.SourcePreviewLength+50)
	chunks := []*contract.ScoredDocumentChunk{scoredChunk("Long", long, 0.7)}
	model := &recordingLLM{reply: "ok"}
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{chunks: chunks}, model, 0.7, 1024, nopLogger{})

	res, err := p.Execute(context.Background(), nil, "q", "")
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)
	assert.Len(t, []rune(res.Sources[0].Snippet), constant.SourcePreviewLength+3)
	assert.True(t, strings.HasSuffix(res.Sources[0].Snippet, "..."))
}

func TestExecute_ConfiguredGenerationOptionsReachProvider(t *testing.T) {
	model := &recordingLLM{reply: "ok"}
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{}, model, 0.3, 512, nopLogger{})

	_, err := p.Execute(context.Background(), nil, "q", "")
	require.NoError(t, err)
	assert.Equal(t, 0.3, model.lastOpts.Temperature)
	assert.Equal(t, 512, model.lastOpts.MaxTokens)
}

func TestExecute_ZeroMaxTokensLeftToProviderDefault(t *testing.T) {
	model := &recordingLLM{reply: "ok"}
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{}, model, 0.7, 0, nopLogger{})

	_, err := p.Execute(context.Background(), nil, "q", "")
	require.NoError(t, err)
	assert.Equal(t, 0, model.lastOpts.MaxTokens)
}

func TestExecute_RetrieverFailureAborts(t *testing.T) {
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{err: errors.New("pg down")}, &recordingLLM{}, 0.7, 1024, nopLogger{})

	_, err := p.Execute(context.Background(), nil, "q", "")
	assert.ErrorContains(t, err, "retrieve")
}

func TestExecute_HistoryAppearsInPrompt(t *testing.T) {
	model := &recordingLLM{reply: "ok"}
	p := NewPipeline(passthroughRewriter{}, &stubRetriever{}, model, 0.7, 1024, nopLogger{})

	hist := []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: "I had a rough week"},
		{Role: constant.ChatMessageRoleModel, Content: "That sounds hard."},
	}
	_, err := p.Execute(context.Background(), hist, "it got worse", "")
	require.NoError(t, err)
	assert.Contains(t, model.lastPrompt, "User: I had a rough week")
	assert.Contains(t, model.lastPrompt, "Assistant: That sounds hard.")
	assert.NotContains(t, model.lastPrompt, constant.EmptyHistoryPlaceholder)
}
