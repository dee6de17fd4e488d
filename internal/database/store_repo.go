package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/models"
)

var (
	ErrStoreNotFound = errors.New("store not found")
)

const storeColumns = `s.id, s.name, s.normalized_name, s.keywords, s.type, s.category,
	s.status, s.is_default, s.deactivated_at, s.created_at, s.updated_at`

func scanStore(row pgx.Row) (*models.Store, error) {
	s := &models.Store{}
	err := row.Scan(
		&s.ID, &s.Name, &s.NormalizedName, &s.Keywords, &s.Type, &s.Category,
		&s.Status, &s.IsDefault, &s.DeactivatedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListStores returns a paginated list of stores with optional filtering
func (db *DB) ListStores(ctx context.Context, params *models.StoreListParams) ([]*models.Store, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(LOWER(s.name) LIKE LOWER($%d) OR s.normalized_name LIKE LOWER($%d))",
			argIndex, argIndex,
		))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("s.status = $%d", argIndex))
		args = append(args, string(*params.Status))
		argIndex++
	} else {
		whereClauses = append(whereClauses, "s.status <> 'deleted'")
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM stores s %s", whereClause)
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM stores s
		%s
		ORDER BY s.name ASC, s.id ASC
		LIMIT $%d OFFSET $%d
	`, storeColumns, whereClause, argIndex, argIndex+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	stores := []*models.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, 0, err
		}
		stores = append(stores, s)
	}

	return stores, total, rows.Err()
}

// ListActiveStores loads the store catalog used for receipt resolution, in id order.
func (db *DB) ListActiveStores(ctx context.Context) ([]models.Store, error) {
	rows, err := db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM stores s
		WHERE s.status = 'active'
		ORDER BY s.id ASC
	`, storeColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stores := []models.Store{}
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *s)
	}

	return stores, rows.Err()
}

// GetStoreByID retrieves a store by ID
func (db *DB) GetStoreByID(ctx context.Context, id int) (*models.Store, error) {
	s, err := scanStore(db.Pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM stores s WHERE s.id = $1", storeColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return s, nil
}

// CreateStore creates a new store. The normalized name is derived from the name.
func (db *DB) CreateStore(ctx context.Context, req *models.CreateStoreRequest) (*models.Store, error) {
	storeType := req.Type
	if storeType == "" {
		storeType = models.StoreTypePhysical
	}
	keywords := req.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return scanStore(db.Pool.QueryRow(ctx, `
		INSERT INTO stores AS s (name, normalized_name, keywords, type, category, is_default, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 'active', NOW(), NOW())
		RETURNING `+storeColumns,
		req.Name, matching.NormalizeStoreName(req.Name), keywords, string(storeType), req.Category, req.IsDefault,
	))
}

// DeactivateStore takes a store out of receipt resolution
func (db *DB) DeactivateStore(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE stores
		SET status = 'deactivated', deactivated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrStoreNotFound
	}
	return nil
}
