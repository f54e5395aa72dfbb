package controller

import (
	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/pkg/logger"
	"mindful-ai-be/internal/pkg/serverutils"
	"mindful-ai-be/internal/service"
	"mindful-ai-be/pkg/whatsapp"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
)

type IWhatsAppController interface {
	RegisterRoutes(r fiber.Router)
}

type whatsappController struct {
	whatsappService service.IWhatsAppService
	middleware      *serverutils.AuthMiddleware
	pubSub          *gochannel.GoChannel
	verifyToken     string
	appSecret       string
	logger          logger.ILogger
}

func NewWhatsAppController(
	whatsappService service.IWhatsAppService,
	middleware *serverutils.AuthMiddleware,
	pubSub *gochannel.GoChannel,
	verifyToken string,
	appSecret string,
	logger logger.ILogger,
) IWhatsAppController {
	return &whatsappController{
		whatsappService: whatsappService,
		middleware:      middleware,
		pubSub:          pubSub,
		verifyToken:     verifyToken,
		appSecret:       appSecret,
		logger:          logger,
	}
}

func (c *whatsappController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/whatsapp")
	h.Get("webhook", c.VerifyWebhook)
	h.Post("webhook", c.ReceiveWebhook)

	protected := h.Group("", c.middleware.Protected())
	protected.Get("auth-url", c.GetAuthURL)
	protected.Post("exchange-code", c.ExchangeCode)
	protected.Post("complete-integration", c.CompleteIntegration)
	protected.Post("complete-token-integration", c.CompleteTokenIntegration)
	protected.Get("account", c.GetAccount)
	protected.Post("send-message", c.SendMessage)
	protected.Post("register-phone-number", c.RegisterPhoneNumber)
	protected.Post("request-verification-code", c.RequestVerificationCode)
	protected.Post("verify-phone-number", c.VerifyPhoneNumber)
	protected.Post("register-cloud-api", c.RegisterCloudAPI)
}

// VerifyWebhook answers Meta's webhook handshake. A valid triad is echoed
// back with the raw challenge string.
func (c *whatsappController) VerifyWebhook(ctx *fiber.Ctx) error {
	mode := ctx.Query("hub.mode")
	token := ctx.Query("hub.verify_token")
	challenge := ctx.Query("hub.challenge")

	if !whatsapp.VerifyWebhook(mode, token, c.verifyToken) {
		return fiber.NewError(fiber.StatusForbidden, "Webhook verification failed")
	}
	return ctx.Status(fiber.StatusOK).SendString(challenge)
}

// ReceiveWebhook acks immediately and hands the raw payload to the consumer.
// Meta retries deliveries that do not get a fast 200.
func (c *whatsappController) ReceiveWebhook(ctx *fiber.Ctx) error {
	body := ctx.Body()

	if c.appSecret != "" {
		signature := ctx.Get("X-Hub-Signature-256")
		if !whatsapp.VerifySignature(c.appSecret, body, signature) {
			return fiber.NewError(fiber.StatusForbidden, "Invalid signature")
		}
	}

	payload := make([]byte, len(body))
	copy(payload, body)

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := c.pubSub.Publish(service.WhatsAppInboundTopic, msg); err != nil {
		c.logger.Error("whatsapp.controller", "failed to enqueue webhook payload", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return serverutils.Success(ctx, fiber.StatusOK, nil)
}

func (c *whatsappController) GetAuthURL(ctx *fiber.Ctx) error {
	return serverutils.Success(ctx, fiber.StatusOK, c.whatsappService.GetAuthURL(currentUserId(ctx)))
}

// ExchangeCode trades the embedded-signup OAuth code for an access token
// without linking an account.
func (c *whatsappController) ExchangeCode(ctx *fiber.Ctx) error {
	var req dto.ExchangeCodeRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	token, err := c.whatsappService.ExchangeCode(ctx.Context(), req.Code)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, fiber.Map{"access_token": token})
}

func (c *whatsappController) CompleteIntegration(ctx *fiber.Ctx) error {
	var req dto.CompleteIntegrationRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.whatsappService.CompleteIntegration(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "WhatsApp account linked", res)
}

func (c *whatsappController) CompleteTokenIntegration(ctx *fiber.Ctx) error {
	var req dto.CompleteTokenIntegrationRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	res, err := c.whatsappService.CompleteTokenIntegration(ctx.Context(), currentUserId(ctx), &req)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "WhatsApp account linked", res)
}

func (c *whatsappController) GetAccount(ctx *fiber.Ctx) error {
	res, err := c.whatsappService.GetAccount(ctx.Context(), currentUserId(ctx))
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *whatsappController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendWhatsAppMessageRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.whatsappService.SendMessage(ctx.Context(), currentUserId(ctx), &req); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Message sent", nil)
}

func (c *whatsappController) RegisterPhoneNumber(ctx *fiber.Ctx) error {
	var req dto.RegisterPhoneRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.whatsappService.RegisterPhoneNumber(ctx.Context(), currentUserId(ctx), req.Pin); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Phone registered", nil)
}

func (c *whatsappController) RequestVerificationCode(ctx *fiber.Ctx) error {
	var req dto.RequestVerificationCodeRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.whatsappService.RequestVerificationCode(ctx.Context(), currentUserId(ctx), &req); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Verification code requested", nil)
}

func (c *whatsappController) VerifyPhoneNumber(ctx *fiber.Ctx) error {
	var req dto.VerifyPhoneRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.whatsappService.VerifyPhoneNumber(ctx.Context(), currentUserId(ctx), req.Code); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Phone verified", nil)
}

func (c *whatsappController) RegisterCloudAPI(ctx *fiber.Ctx) error {
	var req dto.RegisterPhoneRequest
	if err := serverutils.ValidateRequest(ctx, &req); err != nil {
		return err
	}

	if err := c.whatsappService.RegisterCloudAPI(ctx.Context(), currentUserId(ctx), req.Pin); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Cloud API registration complete", nil)
}
