package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User mirrors the identity-provider account inside the relational store.
// Credentials live in the provider; this row carries the authoritative role.
type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	Role      UserRole
	CreatedAt time.Time
	UpdatedAt time.Time
}
