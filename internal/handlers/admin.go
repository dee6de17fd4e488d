package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/patterns"
)

// AdminListUsers returns a paginated list of all users
func (h *Handler) AdminListUsers(c *fiber.Ctx) error {
	limit, offset := pagination(c, 20)

	users, total, err := h.db.ListUsers(c.Context(), limit, offset)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return SuccessWithMeta(c, users, total, limit, offset)
}

// AdminGetUser returns a user with their points summary
func (h *Handler) AdminGetUser(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.db.GetUserByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusNotFound, "user not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get user")
	}

	points, _ := h.db.GetPointsSummary(c.Context(), id)

	return Success(c, fiber.Map{
		"user":   user,
		"points": points,
	})
}

// catalogStatus describes the cached catalog snapshots
type catalogStatus struct {
	StoresFetchedAt   *time.Time `json:"stores_fetched_at,omitempty"`
	ProductsFetchedAt *time.Time `json:"products_fetched_at,omitempty"`
	StoreTTL          string     `json:"store_ttl"`
	ProductTTL        string     `json:"product_ttl"`
}

func fetchedAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// AdminCatalogStatus reports when the catalog snapshots were last loaded
func (h *Handler) AdminCatalogStatus(c *fiber.Ctx) error {
	return Success(c, catalogStatus{
		StoresFetchedAt:   fetchedAt(h.stores.FetchedAt()),
		ProductsFetchedAt: fetchedAt(h.products.FetchedAt()),
		StoreTTL:          h.cfg.StoreCacheTTL.String(),
		ProductTTL:        h.cfg.ProductCacheTTL.String(),
	})
}

// AdminInvalidateCatalogs forces both catalogs to reload on next use
func (h *Handler) AdminInvalidateCatalogs(c *fiber.Ctx) error {
	h.stores.Invalidate(c.Context())
	h.products.Invalidate(c.Context())
	return Success(c, fiber.Map{"invalidated": true})
}

// AdminBroadRules lists the correction rules flagged as over-matching
func (h *Handler) AdminBroadRules(c *fiber.Ctx) error {
	out := make(map[string][]string)
	for group, rules := range patterns.BroadRules() {
		for _, r := range rules {
			out[group] = append(out[group], r.Pattern.String()+" -> "+r.Replacement)
		}
	}
	return Success(c, out)
}
