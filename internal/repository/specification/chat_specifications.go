package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByChatSessionID filters chat messages by session
type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// ByCategory filters by category column
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// ByDocumentID filters chunks by their document column
type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// ByPhoneNumberID filters WhatsApp accounts by registered phone number id
type ByPhoneNumberID struct {
	PhoneNumberID string
}

func (s ByPhoneNumberID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("phone_number_id = ?", s.PhoneNumberID)
}
