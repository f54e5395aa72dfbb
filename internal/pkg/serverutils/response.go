package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"mindful-ai-be/internal/pkg/logger"
)

// Response is the envelope every endpoint returns. Status is true on success
// and false on any failure.
type Response struct {
	Status bool        `json:"status"`
	Msg    string      `json:"msg,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

func Success(ctx *fiber.Ctx, code int, data interface{}) error {
	return ctx.Status(code).JSON(Response{Status: true, Data: data})
}

func SuccessMsg(ctx *fiber.Ctx, code int, msg string, data interface{}) error {
	return ctx.Status(code).JSON(Response{Status: true, Msg: msg, Data: data})
}

func Fail(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(Response{Status: false, Msg: msg})
}

// NewErrorHandler builds the Fiber error handler. Uncaught errors become a
// 500 with a generic message; details go to the log only.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return Fail(ctx, fiberErr.Code, fiberErr.Message)
		}

		log.Error("http", "unhandled error", map[string]interface{}{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"error":  err.Error(),
		})
		return Fail(ctx, fiber.StatusInternalServerError, "Internal server error")
	}
}
