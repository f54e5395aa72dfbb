package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

// Sentinels substituted into the prompt when a section has no real content.
const (
	EmptyHistoryPlaceholder = "No previous conversation history."
	EmptyContextPlaceholder = "No relevant information found in the knowledge base."
)

const (
	// MaxSessionTitleLength caps generated session titles. Longer titles are
	// cut to MaxSessionTitleLength-3 runes plus an ellipsis.
	MaxSessionTitleLength = 50

	// SourcePreviewLength bounds the chunk content returned as a source snippet.
	SourcePreviewLength = 200

	DefaultSessionTitle = "New conversation"
)

// RewriteQueryPromptTemplate turns the running transcript plus the newest user
// message into a standalone search query. Placeholders: history, question.
const RewriteQueryPromptTemplate = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question that captures all relevant context. Return only the rephrased question, nothing else.

Chat history:
%s

Follow up question: %s

Standalone question:`

// ChatPromptTemplate is the fixed RAG prompt. Placeholders: history, context,
// question.
const ChatPromptTemplate = `You are Mindful AI, a warm and supportive mental health companion. You listen without judgement, respond with empathy, and ground your answers in the reference material provided below. You are not a substitute for professional care: if the user appears to be in crisis, gently encourage them to reach out to a mental health professional or a local crisis line.

Conversation so far:
%s

Reference material:
%s

User message: %s

Respond conversationally in plain text.`

// TitlePromptTemplate asks the model for a short session title from the first
// user message.
const TitlePromptTemplate = `Summarize the following message into a short conversation title of at most five words. Return only the title, without quotes.

Message: %s

Title:`
