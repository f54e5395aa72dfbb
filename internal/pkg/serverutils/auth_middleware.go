package serverutils

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/repository/specification"
	"mindful-ai-be/internal/repository/unitofwork"
	"mindful-ai-be/pkg/identity"
)

// TokenResolver resolves an access token into the identity-provider user.
type TokenResolver interface {
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
}

// AuthMiddleware guards routes behind the identity provider. Resolved tokens
// are cached briefly so each request does not round-trip to the provider.
type AuthMiddleware struct {
	resolver   TokenResolver
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
	logger     logger.ILogger
}

func NewAuthMiddleware(resolver TokenResolver, uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:   resolver,
		uowFactory: uowFactory,
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
		logger:     logger,
	}
}

// Protected authenticates the bearer token and stores the resolved user id,
// email and token in request locals.
func (m *AuthMiddleware) Protected() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := bearerToken(ctx)
		if token == "" {
			return Fail(ctx, fiber.StatusUnauthorized, "Missing or invalid authorization header")
		}

		user, err := m.resolveUser(ctx.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				return Fail(ctx, fiber.StatusUnauthorized, "Invalid or expired token")
			}
			m.logger.Error("auth.middleware", "token resolution failed", map[string]interface{}{
				"error": err.Error(),
			})
			return Fail(ctx, fiber.StatusInternalServerError, "Internal server error")
		}

		userId, err := uuid.Parse(user.ID)
		if err != nil {
			return Fail(ctx, fiber.StatusUnauthorized, "Invalid or expired token")
		}

		ctx.Locals("user_id", userId)
		ctx.Locals("user_email", user.Email)
		ctx.Locals("access_token", token)
		return ctx.Next()
	}
}

// AdminOnly must run after Protected. The token's role claim is trusted as a
// fast path; when it carries no admin claim the users table decides. A valid
// token without the admin role is a 403, never a 401.
func (m *AuthMiddleware) AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, ok := ctx.Locals("user_id").(uuid.UUID)
		if !ok {
			return Fail(ctx, fiber.StatusUnauthorized, "Missing or invalid authorization header")
		}

		admin, err := m.resolveAdmin(ctx, userId)
		if err != nil {
			m.logger.Error("auth.middleware", "role lookup failed", map[string]interface{}{
				"user_id": userId.String(),
				"error":   err.Error(),
			})
			return Fail(ctx, fiber.StatusInternalServerError, "Internal server error")
		}
		if !admin {
			return Fail(ctx, fiber.StatusForbidden, "Forbidden: admin access required")
		}
		return ctx.Next()
	}
}

// IsAdmin reports whether the already-authenticated caller has the admin role,
// using the same claim-then-store resolution as AdminOnly. Lookup failures
// count as not-admin; callers use this to widen behavior, never to deny.
func (m *AuthMiddleware) IsAdmin(ctx *fiber.Ctx) bool {
	userId, ok := ctx.Locals("user_id").(uuid.UUID)
	if !ok {
		return false
	}

	admin, err := m.resolveAdmin(ctx, userId)
	if err != nil {
		m.logger.Warn("auth.middleware", "role lookup failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return false
	}
	return admin
}

// resolveAdmin is the two-tier role check: cheap token-claim fast path, users
// table as the authoritative fallback for tokens issued before a promotion.
func (m *AuthMiddleware) resolveAdmin(ctx *fiber.Ctx, userId uuid.UUID) (bool, error) {
	token, _ := ctx.Locals("access_token").(string)
	if roleFromClaims(token) == string(entity.UserRoleAdmin) {
		return true, nil
	}

	uow := m.uowFactory.NewUnitOfWork(ctx.Context())
	user, err := uow.UserRepository().FindOne(ctx.Context(), specification.ByID{ID: userId})
	if err != nil {
		return false, err
	}
	return user != nil && user.Role == entity.UserRoleAdmin, nil
}

// InvalidateToken evicts a token's cached resolution, used on logout so a
// revoked token stops authenticating before the cache TTL.
func (m *AuthMiddleware) InvalidateToken(token string) {
	if token != "" {
		m.cache.Delete(token)
	}
}

func (m *AuthMiddleware) resolveUser(ctx context.Context, token string) (*identity.User, error) {
	if cached, found := m.cache.Get(token); found {
		return cached.(*identity.User), nil
	}

	user, err := m.resolver.GetUser(ctx, token)
	if err != nil {
		return nil, err
	}

	m.cache.Set(token, user, gocache.DefaultExpiration)
	return user, nil
}

func bearerToken(ctx *fiber.Ctx) string {
	header := ctx.Get("Authorization")
	if len(header) < 8 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// roleFromClaims reads the role claim without verifying the signature. The
// token was already authenticated against the provider; this only avoids a
// database round-trip for tokens that carry the claim.
func roleFromClaims(tokenStr string) string {
	if tokenStr == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return ""
	}

	if appMeta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if role, ok := appMeta["role"].(string); ok {
			return role
		}
	}
	if role, ok := claims["user_role"].(string); ok {
		return role
	}
	return ""
}
