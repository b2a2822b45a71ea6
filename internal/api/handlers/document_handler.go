package handlers

import (
	"context"
	"errors"
	"io"

	"trustbridge/internal/async"
	"trustbridge/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxFileSize = 20 * 1024 * 1024 // 20 MB

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/tiff":      true,
}

type DocumentHandler struct {
	docService *service.DocumentService
	queue      *async.Queue
	logger     *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, queue *async.Queue, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		queue:      queue,
		logger:     logger,
	}
}

// Upload accepts a financial document, creates its record in the "uploaded"
// state and schedules a pipeline run. The response does not wait for
// processing; clients poll the status endpoint.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	if fileHeader.Size > maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File too large (max 20MB)",
		})
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type: " + contentType,
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	doc, err := h.docService.Upload(c.Context(), userID, fileHeader.Filename, contentType, content)
	if err != nil {
		h.logger.Error("Failed to upload document", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload document",
		})
	}

	documentID := doc.ID
	if err := h.queue.Submit(func(ctx context.Context) {
		_ = h.docService.Run(ctx, documentID)
	}); err != nil {
		h.logger.Error("Failed to schedule document processing",
			zap.String("document_id", documentID.String()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Processing queue is full, try again later",
		})
	}

	status, err := h.docService.Status(c.Context(), userID, documentID)
	if err != nil {
		h.logger.Error("Failed to read document status", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to upload document",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(status)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	docs, err := h.docService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list documents",
		})
	}

	return c.JSON(docs)
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	doc, err := h.docService.Get(c.Context(), userID, documentID)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		h.logger.Error("Failed to get document", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get document",
		})
	}

	return c.JSON(doc)
}

// Status is the polling endpoint for upload progress. The error message, if
// any, is already truncated by the pipeline.
func (h *DocumentHandler) Status(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	documentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid document ID",
		})
	}

	status, err := h.docService.Status(c.Context(), userID, documentID)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Document not found",
			})
		}
		h.logger.Error("Failed to get document status", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get document status",
		})
	}

	return c.JSON(status)
}
