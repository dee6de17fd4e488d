package models

import (
	"time"
)

// EntityStatus is the lifecycle state of a catalog entry
type EntityStatus string

const (
	EntityStatusActive      EntityStatus = "active"
	EntityStatusDeactivated EntityStatus = "deactivated"
	EntityStatusDeleted     EntityStatus = "deleted"
)

// StoreType distinguishes physical branches from online shops
type StoreType string

const (
	StoreTypePhysical StoreType = "physical"
	StoreTypeOnline   StoreType = "online"
)

// Store is a canonical retailer that receipts are resolved against
type Store struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	NormalizedName string       `json:"normalized_name"`
	Keywords       []string     `json:"keywords"`
	Type           StoreType    `json:"type"`
	Category       *string      `json:"category,omitempty"`
	Status         EntityStatus `json:"status"`
	IsDefault      bool         `json:"is_default"`
	DeactivatedAt  *time.Time   `json:"deactivated_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// CreateStoreRequest is the request body for creating a store
type CreateStoreRequest struct {
	Name      string    `json:"name"`
	Keywords  []string  `json:"keywords"`
	Type      StoreType `json:"type"`
	Category  *string   `json:"category,omitempty"`
	IsDefault bool      `json:"is_default"`
}

// StoreListParams contains parameters for listing stores
type StoreListParams struct {
	Limit  int
	Offset int
	Search string
	Status *EntityStatus
}
