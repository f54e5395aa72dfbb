package rewrite

import (
	"context"
	"fmt"
	"strings"

	"mindful-ai-be/internal/constant"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/pkg/llm"
)

// Rewriter condenses a follow-up question plus the running transcript into a
// standalone search query, so retrieval works on pronoun-heavy follow-ups
// ("what about that second technique?").
type Rewriter struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewRewriter(llmProvider llm.LLMProvider, logger logger.ILogger) *Rewriter {
	return &Rewriter{llmProvider: llmProvider, logger: logger}
}

// Rewrite returns the standalone query. The original question is returned
// unchanged when there is no history to condition on, or when the model call
// fails; retrieval quality degrades but the chat never breaks.
func (r *Rewriter) Rewrite(ctx context.Context, transcript string, question string) string {
	if transcript == "" || transcript == constant.EmptyHistoryPlaceholder {
		return question
	}

	prompt := fmt.Sprintf(constant.RewriteQueryPromptTemplate, transcript, question)
	rewritten, err := r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Warn("rag.rewrite", "query rewrite failed, using original question", map[string]interface{}{
			"error": err.Error(),
		})
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question
	}
	return rewritten
}
