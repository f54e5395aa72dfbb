package executor

import (
	"context"
	"fmt"

	"mindful-ai-be/internal/constant"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/repository/contract"
	"mindful-ai-be/pkg/llm"
	"mindful-ai-be/pkg/rag/history"
	"mindful-ai-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

// QueryRewriter condenses a follow-up question into a standalone query.
type QueryRewriter interface {
	Rewrite(ctx context.Context, transcript string, question string) string
}

// ChunkRetriever runs similarity search over the knowledge base.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query string, category string) ([]*contract.ScoredDocumentChunk, error)
}

// Source describes one knowledge-base chunk that grounded the reply.
type Source struct {
	DocumentId uuid.UUID `json:"document_id"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet"`
	Similarity float64   `json:"similarity"`
}

// Result is the outcome of one pipeline run. Sources is nil when retrieval
// found nothing.
type Result struct {
	Reply   string
	Sources []Source
}

// Pipeline runs the retrieve-then-generate flow:
// rewrite query -> similarity search -> build prompt -> generate reply.
// Temperature and maxTokens apply to the reply generation only; the rewrite
// step keeps its own fixed temperature.
type Pipeline struct {
	rewriter    QueryRewriter
	retriever   ChunkRetriever
	llmProvider llm.LLMProvider
	temperature float64
	maxTokens   int
	logger      logger.ILogger
}

func NewPipeline(rewriter QueryRewriter, retriever ChunkRetriever, llmProvider llm.LLMProvider, temperature float64, maxTokens int, logger logger.ILogger) *Pipeline {
	return &Pipeline{
		rewriter:    rewriter,
		retriever:   retriever,
		llmProvider: llmProvider,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logger,
	}
}

// Execute answers one user message against the knowledge base. The reply is
// always generated, with or without retrieved context; retrieval failures
// abort rather than silently answering ungrounded.
func (p *Pipeline) Execute(ctx context.Context, hist []llm.Message, question string, category string) (*Result, error) {
	transcript := history.Transcript(hist)

	query := p.rewriter.Rewrite(ctx, transcript, question)

	chunks, err := p.retriever.Retrieve(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	contextBlock := prompt.BuildContext(chunks)
	fullPrompt := prompt.Build(transcript, contextBlock, question)

	opts := []llm.Option{llm.WithTemperature(p.temperature)}
	if p.maxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(p.maxTokens))
	}
	reply, err := p.llmProvider.Generate(ctx, fullPrompt, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}

	p.logger.Info("rag.pipeline", "generated reply", map[string]interface{}{
		"chunks":    len(chunks),
		"query_len": len(query),
	})

	return &Result{
		Reply:   reply,
		Sources: buildSources(chunks),
	}, nil
}

func buildSources(chunks []*contract.ScoredDocumentChunk) []Source {
	if len(chunks) == 0 {
		return nil
	}
	sources := make([]Source, 0, len(chunks))
	for _, sc := range chunks {
		sources = append(sources, Source{
			DocumentId: sc.Chunk.DocumentId,
			Title:      sc.Chunk.Metadata.Title,
			Snippet:    snippet(sc.Chunk.Content),
			Similarity: sc.Similarity,
		})
	}
	return sources
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= constant.SourcePreviewLength {
		return content
	}
	return string(runes[:constant.SourcePreviewLength]) + "..."
}
