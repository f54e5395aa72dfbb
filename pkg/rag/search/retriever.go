package search

import (
	"context"
	"fmt"

	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/repository/contract"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/embedding"
)

// Retriever embeds the query and runs a nearest-neighbor search over the
// document chunks.
type Retriever struct {
	embedder   embedding.EmbeddingProvider
	uowFactory unitofwork.RepositoryFactory
	topK       int
	logger     logger.ILogger
}

func NewRetriever(embedder embedding.EmbeddingProvider, uowFactory unitofwork.RepositoryFactory, topK int, logger logger.ILogger) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		embedder:   embedder,
		uowFactory: uowFactory,
		topK:       topK,
		logger:     logger,
	}
}

// Retrieve returns up to topK chunks most similar to the query, most similar
// first. An empty category searches the whole knowledge base. A knowledge
// base with no matches returns an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, category string) ([]*contract.ScoredDocumentChunk, error) {
	resp, err := r.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().SearchSimilar(ctx, resp.Embedding.Values, r.topK, category)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	r.logger.Debug("rag.search", "retrieved chunks", map[string]interface{}{
		"query_len": len(query),
		"category":  category,
		"count":     len(chunks),
	})
	return chunks, nil
}
