package model

import (
	"time"

	"github.com/google/uuid"
)

type WhatsAppAccount struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	WabaId        string    `gorm:"type:varchar(100);not null"`
	PhoneNumberId string    `gorm:"type:varchar(100);not null;index"`
	AccessToken   string    `gorm:"type:text;not null"`
	VerifiedName  string    `gorm:"type:varchar(255)"`
	DisplayNumber string    `gorm:"type:varchar(50)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (WhatsAppAccount) TableName() string {
	return "whatsapp_accounts"
}
