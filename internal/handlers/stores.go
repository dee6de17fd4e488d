package handlers

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/models"
)

// MatchRequest is the request body of the match endpoints
type MatchRequest struct {
	Name string `json:"name"`
}

// MatchResponse reports the resolved catalog entry, if any. A keyword
// fallback or a fair/poor match is returned for review, not auto-accepted.
type MatchResponse[T any] struct {
	Query       string             `json:"query"`
	Matched     bool               `json:"matched"`
	NeedsReview bool               `json:"needs_review"`
	Match       *matching.Match[T] `json:"match,omitempty"`
}

func newMatchResponse[T any](query string, match *matching.Match[T]) MatchResponse[T] {
	resp := MatchResponse[T]{Query: query, Match: match}
	if match != nil {
		resp.Matched = match.Tier.Accepted()
		resp.NeedsReview = match.Fallback || (resp.Matched && !match.Tier.AutoAccept())
	}
	return resp
}

// ListStores returns a paginated list of stores
func (h *Handler) ListStores(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50)
	params := &models.StoreListParams{
		Limit:  limit,
		Offset: offset,
		Search: c.Query("search"),
	}

	if status := c.Query("status"); status != "" {
		s := models.EntityStatus(status)
		params.Status = &s
	}

	stores, total, err := h.db.ListStores(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list stores")
	}

	return SuccessWithMeta(c, stores, total, params.Limit, params.Offset)
}

// GetStore returns a single store by ID
func (h *Handler) GetStore(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid store id")
	}

	store, err := h.db.GetStoreByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrStoreNotFound) {
			return Error(c, fiber.StatusNotFound, "store not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get store")
	}

	return Success(c, store)
}

// CreateStore creates a new store (admin only)
func (h *Handler) CreateStore(c *fiber.Ctx) error {
	var req models.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}
	if req.Type != "" && req.Type != models.StoreTypePhysical && req.Type != models.StoreTypeOnline {
		return Error(c, fiber.StatusBadRequest, "type must be physical or online")
	}

	store, err := h.db.CreateStore(c.Context(), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create store")
	}
	h.stores.Invalidate(c.Context())

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    store,
	})
}

// DeactivateStore removes a store from receipt resolution (admin only)
func (h *Handler) DeactivateStore(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid store id")
	}

	if err := h.db.DeactivateStore(c.Context(), id); err != nil {
		if errors.Is(err, database.ErrStoreNotFound) {
			return Error(c, fiber.StatusNotFound, "store not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to deactivate store")
	}
	h.stores.Invalidate(c.Context())

	return Success(c, fiber.Map{"deactivated": true})
}

// MatchStore resolves a raw store name against the active catalog
func (h *Handler) MatchStore(c *fiber.Ctx) error {
	var req MatchRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	catalog, err := h.stores.Get(c.Context())
	if err != nil {
		return Error(c, fiber.StatusServiceUnavailable, "store catalog unavailable")
	}

	match := h.storeResolver.Resolve(req.Name, catalog)
	return Success(c, newMatchResponse(req.Name, match))
}

// StoreSuggestions returns the closest stores to a name, best first
func (h *Handler) StoreSuggestions(c *fiber.Ctx) error {
	name := nameParam(c)
	if name == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	catalog, err := h.stores.Get(c.Context())
	if err != nil {
		return Error(c, fiber.StatusServiceUnavailable, "store catalog unavailable")
	}

	return Success(c, h.storeResolver.Suggest(name, catalog, suggestionLimit(c)))
}

// nameParam returns the unescaped :name route parameter
func nameParam(c *fiber.Ctx) string {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

func suggestionLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 20 {
		limit = 5
	}
	return limit
}
