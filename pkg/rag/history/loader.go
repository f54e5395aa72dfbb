package history

import (
	"context"
	"strings"

	"mindful-ai-be/internal/constant"
	"mindful-ai-be/internal/repository/specification"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/llm"

	"github.com/google/uuid"
)

// MaxExchanges bounds how many past exchanges feed the prompt.
const MaxExchanges = 10

// Loader loads recent conversation history for LLM context.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// Load returns the most recent exchanges of a session in chronological order.
// Each stored exchange expands into a user message and a model message.
func (l *Loader) Load(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)

	exchanges, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	if len(exchanges) > MaxExchanges {
		exchanges = exchanges[:MaxExchanges]
	}

	messages := make([]llm.Message, 0, len(exchanges)*2)
	for i := len(exchanges) - 1; i >= 0; i-- {
		ex := exchanges[i]
		messages = append(messages,
			llm.Message{Role: constant.ChatMessageRoleUser, Content: ex.UserMessage},
			llm.Message{Role: constant.ChatMessageRoleModel, Content: ex.AiResponse},
		)
	}
	return messages, nil
}

// Transcript flattens history into the text block the prompt templates expect.
// An empty history yields the fixed placeholder so the model never sees a
// blank section.
func Transcript(messages []llm.Message) string {
	if len(messages) == 0 {
		return constant.EmptyHistoryPlaceholder
	}

	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		label := "User"
		if m.Role == constant.ChatMessageRoleModel {
			label = "Assistant"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}
