package prompt

import (
	"fmt"
	"strings"

	"mindful-ai-be/internal/constant"
	"mindful-ai-be/internal/repository/contract"
)

// BuildContext flattens retrieved chunks into the reference-material block.
// Zero chunks yields the fixed placeholder so the model is told explicitly
// that nothing relevant was found.
func BuildContext(chunks []*contract.ScoredDocumentChunk) string {
	if len(chunks) == 0 {
		return constant.EmptyContextPlaceholder
	}

	var b strings.Builder
	for i, sc := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, sc.Chunk.Metadata.Title))
		b.WriteString(sc.Chunk.Content)
	}
	return b.String()
}

// Build assembles the final chat prompt from transcript, reference material
// and the user's message.
func Build(transcript string, contextBlock string, question string) string {
	return fmt.Sprintf(constant.ChatPromptTemplate, transcript, contextBlock, question)
}
