package controller

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mindful-ai-be/internal/dto"
	"mindful-ai-be/internal/pkg/serverutils"
	"mindful-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
}

type documentController struct {
	documentService   service.IDocumentService
	middleware        *serverutils.AuthMiddleware
	maxFileSizeMB     int
	allowedExtensions []string
}

func NewDocumentController(
	documentService service.IDocumentService,
	middleware *serverutils.AuthMiddleware,
	maxFileSizeMB int,
	allowedExtensions []string,
) IDocumentController {
	return &documentController{
		documentService:   documentService,
		middleware:        middleware,
		maxFileSizeMB:     maxFileSizeMB,
		allowedExtensions: allowedExtensions,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document")
	h.Get("categories", c.Categories)

	admin := h.Group("", c.middleware.Protected(), c.middleware.AdminOnly())
	admin.Post("upload", c.Upload)
	admin.Get("list", c.List)
	admin.Get("category/:category", c.ListByCategory)
	admin.Delete(":id", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file")
	}

	if fileHeader.Size > int64(c.maxFileSizeMB)*1024*1024 {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("File exceeds the %d MB limit", c.maxFileSizeMB))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !c.extensionAllowed(ext) {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Unsupported file type %q", ext))
	}

	req := dto.UploadDocumentRequest{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Category:    ctx.FormValue("category"),
	}
	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+ext)
	if err := ctx.SaveFile(fileHeader, tmpPath); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}

	res, err := c.documentService.Upload(ctx.Context(), &req, fileHeader.Filename, tmpPath)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusCreated, "Document ingested", res)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	res, err := c.documentService.List(ctx.Context())
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *documentController) ListByCategory(ctx *fiber.Ctx) error {
	category := ctx.Params("category")
	if category == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing category parameter")
	}

	res, err := c.documentService.ListByCategory(ctx.Context(), category)
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *documentController) Categories(ctx *fiber.Ctx) error {
	res, err := c.documentService.Categories(ctx.Context())
	if err != nil {
		return mapServiceError(err)
	}
	return serverutils.Success(ctx, fiber.StatusOK, res)
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := parseUUIDParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.documentService.Delete(ctx.Context(), id); err != nil {
		return mapServiceError(err)
	}
	return serverutils.SuccessMsg(ctx, fiber.StatusOK, "Document deleted", nil)
}

func (c *documentController) extensionAllowed(ext string) bool {
	for _, allowed := range c.allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
