package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/middleware"
	"github.com/foxxcyber/receipt-rewards/internal/models"
)

var redeemSources = map[models.TransactionSource]bool{
	models.SourceVoucher: true,
	models.SourceReward:  true,
	models.SourceProduct: true,
	models.SourceEvent:   true,
}

// ListTransactions returns the caller's points ledger
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	limit, offset := pagination(c, 20)
	params := &models.TransactionListParams{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	}
	if action := c.Query("action"); action != "" {
		a := models.TransactionAction(action)
		params.Action = &a
	}

	transactions, total, err := h.db.ListTransactions(c.Context(), params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list transactions")
	}

	return SuccessWithMeta(c, transactions, total, params.Limit, params.Offset)
}

// Redeem spends points from the caller's balance
func (h *Handler) Redeem(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req models.RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Points <= 0 {
		return Error(c, fiber.StatusBadRequest, "points must be positive")
	}
	if req.Source == "" {
		req.Source = models.SourceReward
	}
	if !redeemSources[req.Source] {
		return Error(c, fiber.StatusBadRequest, "invalid source")
	}

	t, balance, err := h.db.Redeem(c.Context(), userID, req.Points, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrInsufficientPoints):
			return Error(c, fiber.StatusConflict, "insufficient points")
		case errors.Is(err, database.ErrUserNotFound):
			return Error(c, fiber.StatusNotFound, "user not found")
		default:
			return Error(c, fiber.StatusInternalServerError, "failed to redeem points")
		}
	}

	return Success(c, fiber.Map{
		"transaction": t,
		"balance":     balance,
	})
}
