package controller

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"mindful-ai-be/internal/pkg/serverutils"
	"mindful-ai-be/pkg/identity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type nopResolver struct{}

func (nopResolver) GetUser(context.Context, string) (*identity.User, error) {
	return nil, identity.ErrInvalidToken
}

func registeredRoutes(app *fiber.App) map[string]bool {
	routes := make(map[string]bool)
	for _, group := range app.Stack() {
		for _, route := range group {
			routes[route.Method+" "+route.Path] = true
		}
	}
	return routes
}

// The public paths are part of the API contract; renaming one breaks every
// deployed client.
func TestRegisterRoutes_PublicPathsAreStable(t *testing.T) {
	app := fiber.New()
	middleware := serverutils.NewAuthMiddleware(nopResolver{}, nil, nopLogger{})

	NewAuthController(nil, middleware).RegisterRoutes(app)
	NewChatController(nil, middleware).RegisterRoutes(app)
	NewDocumentController(nil, middleware, 10, []string{".pdf"}).RegisterRoutes(app)
	NewWhatsAppController(nil, middleware, nil, "verify", "secret", nopLogger{}).RegisterRoutes(app)

	routes := registeredRoutes(app)

	expected := []string{
		"POST /auth/register",
		"POST /auth/verify-otp",
		"POST /auth/resend-otp",
		"POST /auth/login",
		"GET /auth/google",
		"GET /auth/callback",
		"POST /auth/logout",
		"GET /auth/current-user",
		"POST /auth/forgot-password",
		"POST /auth/reset-password",
		"GET /auth/admin/users",
		"POST /chat/message",
		"POST /chat/session",
		"GET /chat/session/:id/history",
		"DELETE /chat/session/:id",
		"GET /chat/sessions",
		"GET /chat/session/last",
		"POST /chat/topic",
		"GET /chat/topics",
		"GET /chat/admin/analytics",
		"POST /document/upload",
		"GET /document/list",
		"DELETE /document/:id",
		"GET /document/category/:category",
		"GET /document/categories",
		"GET /whatsapp/auth-url",
		"POST /whatsapp/exchange-code",
		"POST /whatsapp/complete-integration",
		"POST /whatsapp/complete-token-integration",
		"GET /whatsapp/account",
		"GET /whatsapp/webhook",
		"POST /whatsapp/webhook",
		"POST /whatsapp/send-message",
		"POST /whatsapp/register-phone-number",
		"POST /whatsapp/request-verification-code",
		"POST /whatsapp/verify-phone-number",
		"POST /whatsapp/register-cloud-api",
	}
	for _, route := range expected {
		assert.True(t, routes[route], "missing route %s", route)
	}
}
