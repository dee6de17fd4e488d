package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidPoints      = errors.New("points must be positive")
)

// Redeem spends points from a user's balance and records a redeemed transaction.
// It returns the transaction and the balance left.
func (db *DB) Redeem(ctx context.Context, userID, points int, source models.TransactionSource) (*models.Transaction, int, error) {
	if points <= 0 {
		return nil, 0, ErrInvalidPoints
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback(ctx)

	var balance int
	err = tx.QueryRow(ctx, `SELECT points_balance FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	if balance < points {
		return nil, balance, fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientPoints, balance, points)
	}

	t := &models.Transaction{
		UserID: userID,
		Points: points,
		Action: models.ActionRedeemed,
		Source: source,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, points, action, source, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`, userID, points, string(t.Action), string(t.Source)).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, 0, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE users SET points_balance = points_balance - $2, updated_at = NOW()
		WHERE id = $1
		RETURNING points_balance
	`, userID, points).Scan(&balance)
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, err
	}
	return t, balance, nil
}

// ListTransactions returns a user's ledger, newest first
func (db *DB) ListTransactions(ctx context.Context, params *models.TransactionListParams) ([]*models.Transaction, int, error) {
	whereClause := "WHERE user_id = $1"
	args := []interface{}{params.UserID}

	if params.Action != nil {
		args = append(args, string(*params.Action))
		whereClause += fmt.Sprintf(" AND action = $%d", len(args))
	}

	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, receipt_id, store_id, purchase_amount, points, action, source, created_at
		FROM transactions
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	transactions := []*models.Transaction{}
	for rows.Next() {
		t := &models.Transaction{}
		err := rows.Scan(&t.ID, &t.UserID, &t.ReceiptID, &t.StoreID, &t.PurchaseAmount,
			&t.Points, &t.Action, &t.Source, &t.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, t)
	}

	return transactions, total, rows.Err()
}

// GetPointsSummary returns a user's balance with receipt and redemption totals
func (db *DB) GetPointsSummary(ctx context.Context, userID int) (*models.PointsSummary, error) {
	s := &models.PointsSummary{UserID: userID}

	err := db.Pool.QueryRow(ctx, `
		SELECT u.points_balance, u.points_lifetime, u.last_earned_at,
		       (SELECT COUNT(*) FROM receipts WHERE user_id = u.id),
		       COALESCE((SELECT SUM(points) FROM transactions WHERE user_id = u.id AND action = 'redeemed'), 0)
		FROM users u
		WHERE u.id = $1
	`, userID).Scan(&s.Balance, &s.Lifetime, &s.LastEarnedAt, &s.ReceiptCount, &s.RedeemedPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s, nil
}
