package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-rewards/internal/config"
	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/middleware"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/services"
)

// ReceiptIngestor processes an uploaded receipt image
type ReceiptIngestor interface {
	Ingest(ctx context.Context, up services.Upload) (*models.UploadResult, error)
}

// ReceiptHandler handles receipt-related endpoints
type ReceiptHandler struct {
	db       *database.DB
	cfg      *config.Config
	storage  *services.StorageService
	ingestor ReceiptIngestor
}

// NewReceiptHandler creates a new receipt handler. storage may be nil.
func NewReceiptHandler(
	db *database.DB,
	cfg *config.Config,
	storage *services.StorageService,
	ingestor ReceiptIngestor,
) *ReceiptHandler {
	return &ReceiptHandler{
		db:       db,
		cfg:      cfg,
		storage:  storage,
		ingestor: ingestor,
	}
}

// UploadReceipt reads, deduplicates and scores a receipt image
func (h *ReceiptHandler) UploadReceipt(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "image file is required")
	}

	contentType := file.Header.Get("Content-Type")
	if _, ok := services.ImageExtension(contentType); !ok {
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	}

	if file.Size > int64(h.cfg.MaxUploadSize) {
		return Error(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large. Maximum size is %dMB", h.cfg.MaxUploadSize/(1024*1024)))
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	imageBytes, err := io.ReadAll(src)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}

	result, err := h.ingestor.Ingest(c.Context(), services.Upload{
		UserID:      userID,
		Image:       imageBytes,
		ContentType: contentType,
	})
	if err != nil {
		return h.ingestError(c, userID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    result,
	})
}

func (h *ReceiptHandler) ingestError(c *fiber.Ctx, userID int, err error) error {
	var dup *services.DuplicateReceiptError
	switch {
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(APIResponse{
			Success: false,
			Error:   dup.Verdict.Reason,
			Data:    dup.Verdict,
		})
	case errors.Is(err, services.ErrUnsupportedImage):
		return Error(c, fiber.StatusBadRequest, "invalid image type. Supported: JPEG, PNG, WebP")
	case errors.Is(err, services.ErrImageTooLarge):
		return Error(c, fiber.StatusRequestEntityTooLarge, "file too large")
	case errors.Is(err, services.ErrOCRFailed):
		return Error(c, fiber.StatusUnprocessableEntity, "could not read any text from the receipt image")
	case errors.Is(err, services.ErrProcessingUnavailable):
		return Error(c, fiber.StatusServiceUnavailable, "receipt processing is temporarily unavailable")
	default:
		log.Printf("Warning: receipt upload for user %d failed: %v", userID, err)
		return Error(c, fiber.StatusInternalServerError, "failed to process receipt")
	}
}

// ListReceipts returns a paginated list of user's receipts
func (h *ReceiptHandler) ListReceipts(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit, offset := pagination(c, 20)
	params := &models.ReceiptListParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	}

	if status := c.Query("status"); status != "" {
		params.Status = &status
	}

	receipts, total, err := h.db.ListReceipts(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list receipts")
	}

	return SuccessWithMeta(c, receipts, total, params.Limit, params.Offset)
}

// ownedReceipt loads the :id receipt and checks it belongs to the caller
func (h *ReceiptHandler) ownedReceipt(c *fiber.Ctx) (*models.ReceiptWithItems, error) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return nil, Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return nil, Error(c, fiber.StatusBadRequest, "invalid receipt ID")
	}

	receipt, err := h.db.GetReceiptByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrReceiptNotFound) {
			return nil, Error(c, fiber.StatusNotFound, "receipt not found")
		}
		return nil, Error(c, fiber.StatusInternalServerError, "failed to get receipt")
	}

	if receipt.UserID != userID && middleware.GetUserRole(c) != models.RoleAdmin {
		return nil, Error(c, fiber.StatusForbidden, "access denied")
	}
	return receipt, nil
}

// GetReceipt returns a single receipt with items
func (h *ReceiptHandler) GetReceipt(c *fiber.Ctx) error {
	receipt, err := h.ownedReceipt(c)
	if receipt == nil {
		return err
	}

	if h.storage != nil && receipt.S3Key != "" {
		if imageURL, err := h.storage.GetPresignedURL(c.Context(), receipt.S3Key, 1*time.Hour); err == nil {
			receipt.ImageURL = &imageURL
		}
	}

	return Success(c, receipt)
}

// GetReceiptImage returns a presigned URL for the receipt image
func (h *ReceiptHandler) GetReceiptImage(c *fiber.Ctx) error {
	receipt, err := h.ownedReceipt(c)
	if receipt == nil {
		return err
	}

	if h.storage == nil || receipt.S3Key == "" {
		return Error(c, fiber.StatusNotFound, "receipt has no stored image")
	}

	// Generate presigned URL (valid for 1 hour)
	url, err := h.storage.GetPresignedURL(c.Context(), receipt.S3Key, 1*time.Hour)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate image URL")
	}

	return Success(c, fiber.Map{"url": url})
}
