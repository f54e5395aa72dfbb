package entity

import (
	"time"

	"github.com/google/uuid"
)

// WhatsAppAccount stores the Business-platform credentials a user linked.
// Re-running the integration overwrites the existing row.
type WhatsAppAccount struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	WabaId        string
	PhoneNumberId string
	AccessToken   string
	VerifiedName  string
	DisplayNumber string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
