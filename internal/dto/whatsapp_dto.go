package dto

import (
	"time"

	"github.com/google/uuid"
)

type ExchangeCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// CompleteIntegrationRequest finishes embedded signup with the OAuth code.
// Pin is the six-digit two-step verification pin for Cloud API registration.
type CompleteIntegrationRequest struct {
	Code string `json:"code" validate:"required"`
	Pin  string `json:"pin" validate:"required,len=6,numeric"`
}

// CompleteTokenIntegrationRequest finishes integration with a long-lived
// system-user token instead of an OAuth code.
type CompleteTokenIntegrationRequest struct {
	AccessToken string `json:"access_token" validate:"required"`
	Pin         string `json:"pin" validate:"required,len=6,numeric"`
}

type SendWhatsAppMessageRequest struct {
	To      string `json:"to" validate:"required,min=8,max=20"`
	Message string `json:"message" validate:"required,max=4096"`
}

type RegisterPhoneRequest struct {
	Pin string `json:"pin" validate:"required,len=6,numeric"`
}

type RequestVerificationCodeRequest struct {
	CodeMethod string `json:"code_method" validate:"required,oneof=SMS VOICE"`
	Locale     string `json:"locale" validate:"omitempty,max=10"`
}

type VerifyPhoneRequest struct {
	Code string `json:"code" validate:"required,min=4,max=10"`
}

type WhatsAppAccountResponse struct {
	Id            uuid.UUID `json:"id"`
	WabaId        string    `json:"waba_id"`
	PhoneNumberId string    `json:"phone_number_id"`
	VerifiedName  string    `json:"verified_name"`
	DisplayNumber string    `json:"display_number"`
	CreatedAt     time.Time `json:"created_at"`
}
