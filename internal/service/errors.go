package service

import "errors"

// Sentinel errors the controllers map onto HTTP status codes.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidSecret = errors.New("invalid setup secret")
	ErrNotIntegrated = errors.New("whatsapp account not integrated")
)
