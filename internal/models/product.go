package models

import (
	"time"
)

// VolumeUnit is the package size unit of a product
type VolumeUnit string

const (
	VolumeUnitGram       VolumeUnit = "g"
	VolumeUnitMilliliter VolumeUnit = "ml"
	VolumeUnitKilogram   VolumeUnit = "kg"
	VolumeUnitLiter      VolumeUnit = "l"
	VolumeUnitPack       VolumeUnit = "pack"
)

// Brand groups products under a manufacturer label
type Brand struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a canonical catalog item that earns points when bought
type Product struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	NormalizedName string       `json:"normalized_name"`
	Keywords       []string     `json:"keywords"`
	Status         EntityStatus `json:"status"`
	BrandID        *int         `json:"brand_id,omitempty"`
	BrandName      *string      `json:"brand_name,omitempty"`
	Volume         float64      `json:"volume"`
	VolumeUnit     VolumeUnit   `json:"volume_unit"`
	Points         int          `json:"points"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
	DeactivatedAt  *time.Time   `json:"deactivated_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Earns reports whether the product can award points at the given time.
func (p *Product) Earns(at time.Time) bool {
	if p.Status != EntityStatusActive || p.Points <= 0 {
		return false
	}
	return p.ExpiresAt == nil || at.Before(*p.ExpiresAt)
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name       string     `json:"name"`
	Keywords   []string   `json:"keywords"`
	BrandID    *int       `json:"brand_id,omitempty"`
	Volume     float64    `json:"volume"`
	VolumeUnit VolumeUnit `json:"volume_unit"`
	Points     int        `json:"points"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// ProductListParams contains parameters for listing products
type ProductListParams struct {
	Limit   int
	Offset  int
	Search  string
	BrandID *int
	Status  *EntityStatus
}
