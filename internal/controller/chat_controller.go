package controller

import (
	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/pkg/serverutils"
	"mindful-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
}

type chatController struct {
	chatService service.IChatService
	middleware  *serverutils.AuthMiddleware
}

func NewChatController(chatService service.IChatService, middleware *serverutils.AuthMiddleware) IChatController {
	return &chatController{
		chatService: chatService,
		middleware:  middleware,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Get("topics", c.ListTopics)

	protected := h.Group("", c.middleware.Protected())
	protected.Post("session", c.CreateSession)
	protected.Post("message", c.SendMessage)
	protected.Get("sessions", c.GetSessions)
	protected.Get("session/last", c.GetLastSession)
	protected.Get("session/:id/history", c.GetHistory)
	protected.Delete("session/:id", c.DeleteSession)
	protected.Post("topic", c.CreateTopic)

	admin := h.Group("/admin", c.middleware.Protected(), c.middleware.AdminOnly())
	admin.Put("topics/:id", c.UpdateTopic)
	admin.Delete("topics/:id", c.DeleteTopic)
	admin.Get("analytics", c.Analytics)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.chatService.CreateSession(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusCreated, res)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.chatService.ProcessMessage(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetSessions(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *chatController) GetLastSession(ctx *fiber.Ctx) error {
	res, err := c.chatService.GetLastSession(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.chatService.GetHistory(ctx.Context(), currentUserId(ctx), id)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	// Admins may delete any session; the widened ownership uses the same
	// claim-then-store role resolution the admin routes use.
	if err := c.chatService.DeleteSession(ctx.Context(), currentUserId(ctx), id, c.middleware.IsAdmin(ctx)); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Session deleted", nil)
}

func (c *chatController) CreateTopic(ctx *fiber.Ctx) error {
	var req dto.CreateTopicRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.chatService.CreateTopic(ctx.Context(), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusCreated, res)
}

func (c *chatController) ListTopics(ctx *fiber.Ctx) error {
	res, err := c.chatService.ListTopics(ctx.Context())
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *chatController) UpdateTopic(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTopicRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.chatService.UpdateTopic(ctx.Context(), id, &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *chatController) DeleteTopic(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.chatService.DeleteTopic(ctx.Context(), id); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Topic deleted", nil)
}

func (c *chatController) Analytics(ctx *fiber.Ctx) error {
	res, err := c.chatService.Analytics(ctx.Context())
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}
