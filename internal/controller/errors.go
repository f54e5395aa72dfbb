package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"mindful-ai-be/internal/service"
	"mindful-ai-be/pkg/document"
	"mindful-ai-be/pkg/identity"
)

// mapServiceError translates service-layer errors onto HTTP statuses. Unknown
// errors bubble up to the Fiber error handler, which logs and returns a
// generic 500.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrNotIntegrated):
		return fiber.NewError(fiber.StatusNotFound, "WhatsApp account not integrated")
	case errors.Is(err, service.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "Forbidden: admin access required")
	case errors.Is(err, service.ErrInvalidSecret):
		return fiber.NewError(fiber.StatusForbidden, "Invalid setup secret")
	case errors.Is(err, identity.ErrAlreadyConfirmed):
		return fiber.NewError(fiber.StatusBadRequest, "Email already confirmed")
	case errors.Is(err, identity.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, identity.ErrInvalidToken):
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	var unsupported *document.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return fiber.NewError(fiber.StatusBadRequest, unsupported.Error())
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fiber.NewError(fiber.StatusBadRequest, "Resource already exists")
	}

	var apiErr *identity.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return fiber.NewError(apiErr.StatusCode, apiErr.Message)
	}

	return err
}

func parseUUIDParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return id, nil
}

// currentUserId reads the user id the Protected middleware stored.
func currentUserId(ctx *fiber.Ctx) uuid.UUID {
	id, _ := ctx.Locals("user_id").(uuid.UUID)
	return id
}
