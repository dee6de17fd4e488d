package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

const receiptColumns = `r.id, r.reference_id, r.user_id, r.store_id, r.store_name, r.s3_bucket, r.s3_key,
	r.total_amount, r.valid_amount, r.purchase_date, r.status, r.reason, r.fingerprint,
	r.image_hash, r.receipt_number, r.ocr_data, r.created_at, r.updated_at`

func scanReceipt(row pgx.Row, r *models.Receipt) error {
	return row.Scan(
		&r.ID, &r.ReferenceID, &r.UserID, &r.StoreID, &r.StoreName, &r.S3Bucket, &r.S3Key,
		&r.TotalAmount, &r.ValidAmount, &r.PurchaseDate, &r.Status, &r.Reason, &r.Fingerprint,
		&r.ImageHash, &r.ReceiptNumber, &r.OCRData, &r.CreatedAt, &r.UpdatedAt,
	)
}

// FindReceipt returns the earliest receipt matching every set field of the
// filter, or nil when there is none. StoreName is a case-insensitive substring.
func (db *DB) FindReceipt(ctx context.Context, filter models.ReceiptFilter) (*models.Receipt, error) {
	whereClauses := []string{"r.user_id = $1"}
	args := []interface{}{filter.UserID}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		whereClauses = append(whereClauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.ImageHash != "" {
		add("r.image_hash = $%d", filter.ImageHash)
	}
	if filter.Fingerprint != "" {
		add("r.fingerprint = $%d", filter.Fingerprint)
	}
	if filter.StoreName != "" {
		add("r.store_name ILIKE '%%' || $%d || '%%'", filter.StoreName)
	}
	if filter.ReceiptNumber != "" {
		add("r.receipt_number = $%d", filter.ReceiptNumber)
	}
	if filter.TotalMin != nil {
		add("r.total_amount >= $%d", *filter.TotalMin)
	}
	if filter.TotalMax != nil {
		add("r.total_amount <= $%d", *filter.TotalMax)
	}
	if filter.PurchasedFrom != nil {
		add("r.purchase_date >= $%d", *filter.PurchasedFrom)
	}
	if filter.PurchasedTo != nil {
		add("r.purchase_date <= $%d", *filter.PurchasedTo)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("r.status = ANY($%d)", statuses)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM receipts r
		WHERE %s
		ORDER BY r.created_at ASC, r.id ASC
		LIMIT 1
	`, receiptColumns, strings.Join(whereClauses, " AND "))

	receipt := &models.Receipt{}
	if err := scanReceipt(db.Pool.QueryRow(ctx, query, args...), receipt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return receipt, nil
}

// HasEarnedTransaction reports whether points were already paid out for a receipt
func (db *DB) HasEarnedTransaction(ctx context.Context, receiptID int) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE receipt_id = $1 AND action = 'earned')
	`, receiptID).Scan(&exists)
	return exists, err
}

// CommitReceipt stores a receipt with its items and, when earned is not nil,
// the earned transaction and the user's balance update, in one transaction.
// It returns the user's balance after the commit.
func (db *DB) CommitReceipt(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem, earned *models.Transaction) (int, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO receipts (reference_id, user_id, store_id, store_name, s3_bucket, s3_key,
		                      total_amount, valid_amount, purchase_date, status, reason, fingerprint,
		                      image_hash, receipt_number, ocr_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, receipt.ReferenceID, receipt.UserID, receipt.StoreID, receipt.StoreName, receipt.S3Bucket, receipt.S3Key,
		receipt.TotalAmount, receipt.ValidAmount, receipt.PurchaseDate, string(receipt.Status), receipt.Reason,
		receipt.Fingerprint, receipt.ImageHash, receipt.ReceiptNumber, receipt.OCRData,
	).Scan(&receipt.ID, &receipt.CreatedAt, &receipt.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert receipt: %w", err)
	}

	for i := range items {
		item := &items[i]
		item.ReceiptID = receipt.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO receipt_items (receipt_id, name, quantity, unit_price, total_price, source_pattern,
			                           line_number, product_id, matched, match_score, match_quality, points)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`, item.ReceiptID, item.Name, item.Quantity, item.UnitPrice, item.TotalPrice, item.SourcePattern,
			item.LineNumber, item.ProductID, item.Matched, item.MatchScore, item.MatchQuality, item.Points,
		).Scan(&item.ID)
		if err != nil {
			return 0, fmt.Errorf("insert receipt item %d: %w", i, err)
		}
	}

	var balance int
	if earned != nil {
		earned.ReceiptID = &receipt.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO transactions (user_id, receipt_id, store_id, purchase_amount, points, action, source, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id, created_at
		`, earned.UserID, earned.ReceiptID, earned.StoreID, earned.PurchaseAmount, earned.Points,
			string(earned.Action), string(earned.Source),
		).Scan(&earned.ID, &earned.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}

		err = tx.QueryRow(ctx, `
			UPDATE users
			SET points_balance = points_balance + $2,
			    points_lifetime = points_lifetime + $2,
			    last_earned_at = NOW(),
			    updated_at = NOW()
			WHERE id = $1
			RETURNING points_balance
		`, receipt.UserID, earned.Points).Scan(&balance)
	} else {
		err = tx.QueryRow(ctx, `SELECT points_balance FROM users WHERE id = $1`, receipt.UserID).Scan(&balance)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return balance, nil
}

// GetReceiptByID retrieves a receipt with its items
func (db *DB) GetReceiptByID(ctx context.Context, id int) (*models.ReceiptWithItems, error) {
	receipt := &models.ReceiptWithItems{}

	err := scanReceipt(db.Pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM receipts r WHERE r.id = $1", receiptColumns), id), &receipt.Receipt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReceiptNotFound
		}
		return nil, err
	}

	items, err := db.GetReceiptItems(ctx, id)
	if err != nil {
		return nil, err
	}
	receipt.Items = items

	return receipt, nil
}

// GetReceiptItems retrieves all items for a receipt
func (db *DB) GetReceiptItems(ctx context.Context, receiptID int) ([]models.ReceiptItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT ri.id, ri.receipt_id, ri.name, ri.quantity, ri.unit_price, ri.total_price, ri.source_pattern,
		       ri.line_number, ri.product_id, p.name, ri.matched, ri.match_score, ri.match_quality, ri.points
		FROM receipt_items ri
		LEFT JOIN products p ON ri.product_id = p.id
		WHERE ri.receipt_id = $1
		ORDER BY ri.line_number ASC, ri.id ASC
	`, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.ReceiptItem{}
	for rows.Next() {
		item := models.ReceiptItem{}
		err := rows.Scan(
			&item.ID, &item.ReceiptID, &item.Name, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.SourcePattern,
			&item.LineNumber, &item.ProductID, &item.ProductName, &item.Matched, &item.MatchScore, &item.MatchQuality, &item.Points,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListReceipts returns a paginated list of receipts for a user
func (db *DB) ListReceipts(ctx context.Context, params *models.ReceiptListParams) ([]*models.Receipt, int, error) {
	whereClause := "WHERE r.user_id = $1"
	args := []interface{}{params.UserID}

	if params.Status != nil && *params.Status != "" {
		args = append(args, *params.Status)
		whereClause += fmt.Sprintf(" AND r.status = $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM receipts r " + whereClause
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM receipts r
		%s
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $%d OFFSET $%d
	`, receiptColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	receipts := []*models.Receipt{}
	for rows.Next() {
		receipt := &models.Receipt{}
		if err := scanReceipt(rows, receipt); err != nil {
			return nil, 0, err
		}
		receipts = append(receipts, receipt)
	}

	return receipts, total, rows.Err()
}
