package controller

import (
	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/entity"
	"mindful-ai-be/internal/pkg/serverutils"
	"mindful-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
}

type authController struct {
	authService service.IAuthService
	middleware  *serverutils.AuthMiddleware
}

func NewAuthController(authService service.IAuthService, middleware *serverutils.AuthMiddleware) IAuthController {
	return &authController{
		authService: authService,
		middleware:  middleware,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("register", c.Register)
	h.Post("verify-otp", c.VerifyOTP)
	h.Post("resend-otp", c.ResendOTP)
	h.Post("login", c.Login)
	h.Post("login-admin", c.LoginAdmin)
	h.Get("google", c.GoogleAuthURL)
	h.Get("callback", c.OAuthCallback)
	h.Post("forgot-password", c.ForgotPassword)
	h.Post("reset-password", c.ResetPassword)
	h.Post("setup-admin", c.CreateAdmin)

	h.Post("logout", c.middleware.Protected(), c.Logout)
	h.Get("current-user", c.middleware.Protected(), c.CurrentUser)

	admin := h.Group("/admin", c.middleware.Protected(), c.middleware.AdminOnly())
	admin.Get("users", c.ListUsers)
	admin.Put("users/:id/role", c.UpdateRole)
	admin.Delete("users/:id", c.DeleteUser)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.Register(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusCreated, "Registration successful, check your email for the verification code", res)
}

func (c *authController) VerifyOTP(ctx *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.VerifyOTP(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Email verified", res)
}

func (c *authController) ResendOTP(ctx *fiber.Ctx) error {
	var req dto.ResendOTPRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ResendOTP(ctx.Context(), req.Email); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Verification code resent", nil)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *authController) LoginAdmin(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.LoginAdmin(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *authController) GoogleAuthURL(ctx *fiber.Ctx) error {
	return serverutils.Success(ctx, fiber.StatusOK, c.authService.GoogleAuthURL())
}

func (c *authController) OAuthCallback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing code parameter")
	}

	res, err := c.authService.HandleOAuthCallback(ctx.Context(), code)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.ForgotPassword(ctx.Context(), req.Email); err != nil {
		return mapServiceError(err)
	}
	// Always the same message, existing account or not.
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "If the email exists, a reset link has been sent", nil)
}

// ResetPassword expects the recovery access token as the bearer token.
func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	header := ctx.Get("Authorization")
	if len(header) < 8 {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing or invalid authorization header")
	}
	token := header[7:]

	if err := c.authService.ResetPassword(ctx.Context(), token, req.Password); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Password updated", nil)
}

func (c *authController) CreateAdmin(ctx *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.authService.CreateAdmin(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusCreated, "Admin account created", res)
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	token, _ := ctx.Locals("access_token").(string)
	// Drop the cached resolution so the revoked token stops authenticating
	// immediately, not at cache expiry.
	c.middleware.InvalidateToken(token)

	if err := c.authService.Logout(ctx.Context(), token); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Logged out", nil)
}

func (c *authController) CurrentUser(ctx *fiber.Ctx) error {
	res, err := c.authService.CurrentUser(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *authController) ListUsers(ctx *fiber.Ctx) error {
	res, err := c.authService.ListUsers(ctx.Context())
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *authController) UpdateRole(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateRoleRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.authService.UpdateRole(ctx.Context(), id, entity.UserRole(req.Role)); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Role updated", nil)
}

func (c *authController) DeleteUser(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.authService.DeleteUser(ctx.Context(), id); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "User deleted", nil)
}
