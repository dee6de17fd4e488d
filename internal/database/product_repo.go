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

var ErrProductNotFound = errors.New("product not found")

const productColumns = `p.id, p.name, p.normalized_name, p.keywords, p.status, p.brand_id, b.name,
	p.volume, p.volume_unit, p.points, p.expires_at, p.deactivated_at, p.created_at, p.updated_at`

const productFrom = `FROM products p LEFT JOIN brands b ON p.brand_id = b.id`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.NormalizedName, &p.Keywords, &p.Status, &p.BrandID, &p.BrandName,
		&p.Volume, &p.VolumeUnit, &p.Points, &p.ExpiresAt, &p.DeactivatedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts returns a paginated list of products with optional filtering
func (db *DB) ListProducts(ctx context.Context, params *models.ProductListParams) ([]*models.Product, int, error) {
	var whereClauses []string
	var args []interface{}
	argIndex := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(LOWER(p.name) LIKE LOWER($%d) OR p.normalized_name LIKE LOWER($%d))",
			argIndex, argIndex,
		))
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	if params.BrandID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.brand_id = $%d", argIndex))
		args = append(args, *params.BrandID)
		argIndex++
	}

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("p.status = $%d", argIndex))
		args = append(args, string(*params.Status))
		argIndex++
	} else {
		whereClauses = append(whereClauses, "p.status <> 'deleted'")
	}

	whereClause := "WHERE " + strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	if err := db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		%s
		ORDER BY p.name ASC, p.id ASC
		LIMIT $%d OFFSET $%d
	`, productColumns, productFrom, whereClause, argIndex, argIndex+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, total, rows.Err()
}

// ListActiveProducts loads the product catalog used for item resolution, in id order.
// Expired products are included; expiry only stops them from earning.
func (db *DB) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		%s
		WHERE p.status = 'active'
		ORDER BY p.id ASC
	`, productColumns, productFrom))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

// GetProductByID retrieves a product by ID
func (db *DB) GetProductByID(ctx context.Context, id int) (*models.Product, error) {
	p, err := scanProduct(db.Pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s %s WHERE p.id = $1", productColumns, productFrom), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateProduct creates a new product. The normalized name is derived from the name.
func (db *DB) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	unit := req.VolumeUnit
	if unit == "" {
		unit = models.VolumeUnitGram
	}
	keywords := req.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO products (name, normalized_name, keywords, brand_id, volume, volume_unit, points, expires_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', NOW(), NOW())
		RETURNING id
	`, req.Name, matching.NormalizeProductName(req.Name), keywords, req.BrandID,
		req.Volume, string(unit), req.Points, req.ExpiresAt).Scan(&id)
	if err != nil {
		return nil, err
	}

	return db.GetProductByID(ctx, id)
}

// DeactivateProduct takes a product out of item resolution
func (db *DB) DeactivateProduct(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, `
		UPDATE products
		SET status = 'deactivated', deactivated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'active'
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ListBrands returns all brands ordered by name
func (db *DB) ListBrands(ctx context.Context) ([]*models.Brand, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name, category, created_at FROM brands ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brands := []*models.Brand{}
	for rows.Next() {
		b := &models.Brand{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.CreatedAt); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}

	return brands, rows.Err()
}

// UpsertBrand returns the brand with the given name, creating it if needed
func (db *DB) UpsertBrand(ctx context.Context, name string, category *string) (*models.Brand, error) {
	b := &models.Brand{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO brands (name, category)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET category = COALESCE(EXCLUDED.category, brands.category)
		RETURNING id, name, category, created_at
	`, name, category).Scan(&b.ID, &b.Name, &b.Category, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}
