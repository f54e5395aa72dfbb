package events

import "time"

// Event is a domain event published to the NATS bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string               { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }

// Event type codes emitted by the services.
const (
	TypeChatMessageProcessed = "CHAT_MESSAGE_PROCESSED"
	TypeDocumentIngested     = "DOCUMENT_INGESTED"
	TypeDocumentDeleted      = "DOCUMENT_DELETED"
	TypeWhatsAppReplySent    = "WHATSAPP_REPLY_SENT"
)

// NewChatMessageProcessed records one completed chat exchange.
func NewChatMessageProcessed(userId, sessionId string, sourceCount int) Event {
	return BaseEvent{
		Type: TypeChatMessageProcessed,
		Data: map[string]interface{}{
			"user_id":      userId,
			"session_id":   sessionId,
			"source_count": sourceCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentIngested records a document entering the knowledge base.
func NewDocumentIngested(documentId, title string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIngested,
		Data: map[string]interface{}{
			"document_id": documentId,
			"title":       title,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentDeleted records a document leaving the knowledge base together
// with how many chunks went with it.
func NewDocumentDeleted(documentId string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentDeleted,
		Data: map[string]interface{}{
			"document_id": documentId,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

// NewWhatsAppReplySent records an outbound reply through the gateway.
func NewWhatsAppReplySent(phoneNumberId, recipient string) Event {
	return BaseEvent{
		Type: TypeWhatsAppReplySent,
		Data: map[string]interface{}{
			"phone_number_id": phoneNumberId,
			"recipient":       recipient,
		},
		OccurredAt: time.Now(),
	}
}
