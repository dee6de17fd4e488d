package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-rewards/internal/config"
	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db            *database.DB
	cfg           *config.Config
	stores        *services.CatalogCache[models.Store]
	products      *services.CatalogCache[models.Product]
	storeResolver *matching.Resolver[models.Store]
	items         *services.ItemMatcher
}

// New creates a new Handler instance
func New(
	db *database.DB,
	cfg *config.Config,
	stores *services.CatalogCache[models.Store],
	products *services.CatalogCache[models.Product],
	items *services.ItemMatcher,
) *Handler {
	return &Handler{
		db:            db,
		cfg:           cfg,
		stores:        stores,
		products:      products,
		storeResolver: matching.StoreResolver(),
		items:         items,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return Error(c, code, message)
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// pagination reads limit and offset, clamping limit to 1..100
func pagination(c *fiber.Ctx, defaultLimit int) (int, int) {
	limit := c.QueryInt("limit", defaultLimit)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
