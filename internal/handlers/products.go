package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/models"
)

// ListProducts returns a paginated list of products
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50)
	params := &models.ProductListParams{
		Limit:  limit,
		Offset: offset,
		Search: c.Query("search"),
	}

	if brandID := c.Query("brand_id"); brandID != "" {
		if id, err := strconv.Atoi(brandID); err == nil {
			params.BrandID = &id
		}
	}
	if status := c.Query("status"); status != "" {
		s := models.EntityStatus(status)
		params.Status = &s
	}

	products, total, err := h.db.ListProducts(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list products")
	}

	return SuccessWithMeta(c, products, total, params.Limit, params.Offset)
}

// GetProduct returns a single product by ID
func (h *Handler) GetProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	product, err := h.db.GetProductByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get product")
	}

	return Success(c, product)
}

var validVolumeUnits = map[models.VolumeUnit]bool{
	models.VolumeUnitGram:       true,
	models.VolumeUnitMilliliter: true,
	models.VolumeUnitKilogram:   true,
	models.VolumeUnitLiter:      true,
	models.VolumeUnitPack:       true,
}

// CreateProduct creates a new product (admin only)
func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Points < 0 {
		return Error(c, fiber.StatusBadRequest, "points cannot be negative")
	}
	if req.Volume < 0 {
		return Error(c, fiber.StatusBadRequest, "volume cannot be negative")
	}
	if req.VolumeUnit != "" && !validVolumeUnits[req.VolumeUnit] {
		return Error(c, fiber.StatusBadRequest, "invalid volume_unit")
	}

	product, err := h.db.CreateProduct(c.Context(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create product")
	}
	h.products.Invalidate(c.Context())

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    product,
	})
}

// DeactivateProduct removes a product from item resolution (admin only)
func (h *Handler) DeactivateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.db.DeactivateProduct(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrProductNotFound) {
			return Error(c, fiber.StatusNotFound, "product not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to deactivate product")
	}
	h.products.Invalidate(c.Context())

	return Success(c, fiber.Map{"deactivated": true})
}

// ListBrands returns all brands
func (h *Handler) ListBrands(c *fiber.Ctx) error {
	brands, err := h.db.ListBrands(c.Context())
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list brands")
	}
	return Success(c, brands)
}

// MatchProduct resolves a receipt item name against the active catalog
func (h *Handler) MatchProduct(c *fiber.Ctx) error {
	var req MatchRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	catalog, err := h.products.Get(c.Context())
	if err != nil {
		return Error(c, fiber.StatusServiceUnavailable, "product catalog unavailable")
	}

	match := h.items.Resolve(req.Name, catalog)
	return Success(c, newMatchResponse(req.Name, match))
}

// ProductSuggestions returns the closest products to a name, best first
func (h *Handler) ProductSuggestions(c *fiber.Ctx) error {
	name := nameParam(c)
	if name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	catalog, err := h.products.Get(c.Context())
	if err != nil {
		return Error(c, fiber.StatusServiceUnavailable, "product catalog unavailable")
	}

	return Success(c, h.items.FindMatches(name, catalog, suggestionLimit(c)))
}
