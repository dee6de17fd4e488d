package models

import (
	"time"
)

// ReceiptStatus represents the acceptance status of a receipt
type ReceiptStatus string

const (
	ReceiptStatusValid   ReceiptStatus = "valid"
	ReceiptStatusInvalid ReceiptStatus = "invalid"
	ReceiptStatusFlagged ReceiptStatus = "flagged"
)

// Reasons recorded on receipts that are not valid.
const (
	ReasonStoreNotFound    = "STORE_NOT_FOUND"
	ReasonStoreNeedsReview = "STORE_NEEDS_REVIEW"
	ReasonNoItemsFound     = "NO_ITEMS_FOUND"
)

// Receipt represents an accepted receipt upload. StoreName is the name as read
// from the receipt; the catalog store is linked through StoreID.
type Receipt struct {
	ID            int           `json:"id"`
	ReferenceID   string        `json:"reference_id"`
	UserID        int           `json:"user_id"`
	StoreID       *int          `json:"store_id,omitempty"`
	StoreName     string        `json:"store_name"`
	S3Bucket      string        `json:"s3_bucket,omitempty"`
	S3Key         string        `json:"s3_key,omitempty"`
	TotalAmount   float64       `json:"total_amount"`
	ValidAmount   float64       `json:"valid_amount"`
	PurchaseDate  time.Time     `json:"purchase_date"`
	Status        ReceiptStatus `json:"status"`
	Reason        *string       `json:"reason,omitempty"`
	Fingerprint   string        `json:"fingerprint"`
	ImageHash     *string       `json:"image_hash,omitempty"`
	ReceiptNumber *string       `json:"receipt_number,omitempty"`
	OCRData       *OCRData      `json:"ocr_data,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OCRData is the OCR payload kept with a receipt for audit
type OCRData struct {
	Text             string          `json:"text"`
	CorrectedText    string          `json:"corrected_text"`
	Confidence       float64         `json:"confidence"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	Variant          string          `json:"variant,omitempty"`
	Totals           Totals          `json:"totals"`
	Metadata         ReceiptMetadata `json:"metadata"`
}

// ReceiptWithItems includes the matched line items
type ReceiptWithItems struct {
	Receipt
	Items    []ReceiptItem `json:"items"`
	ImageURL *string       `json:"image_url,omitempty"`
}

// ReceiptItem is an extracted line stored with its match outcome
type ReceiptItem struct {
	ID            int      `json:"id"`
	ReceiptID     int      `json:"receipt_id"`
	Name          string   `json:"name"`
	Quantity      float64  `json:"quantity"`
	UnitPrice     float64  `json:"unit_price"`
	TotalPrice    float64  `json:"total_price"`
	SourcePattern string   `json:"source_pattern"`
	LineNumber    int      `json:"line_number"`
	ProductID     *int     `json:"product_id,omitempty"`
	ProductName   *string  `json:"product_name,omitempty"`
	Matched       bool     `json:"matched"`
	MatchScore    *float64 `json:"match_score,omitempty"`
	MatchQuality  *string  `json:"match_quality,omitempty"`
	Points        int      `json:"points"`
}

// ReceiptFilter selects a single prior receipt of one user.
// Zero-valued fields are not applied.
type ReceiptFilter struct {
	UserID        int
	ImageHash     string
	Fingerprint   string
	StoreName     string
	ReceiptNumber string
	TotalMin      *float64
	TotalMax      *float64
	PurchasedFrom *time.Time
	PurchasedTo   *time.Time
	Statuses      []ReceiptStatus
}

// ReceiptListParams contains parameters for listing receipts
type ReceiptListParams struct {
	Limit  int
	Offset int
	Status *string
	UserID int
}

// UploadResult is returned to the client after a receipt is ingested
type UploadResult struct {
	Receipt       *Receipt         `json:"receipt"`
	Items         []ReceiptItem    `json:"items"`
	Extraction    ExtractionResult `json:"extraction"`
	StoreMatched  bool             `json:"store_matched"`
	MatchedStore  *Store           `json:"matched_store,omitempty"`
	StoreScore    *float64         `json:"store_score,omitempty"`
	PointsEarned  int              `json:"points_earned"`
	TransactionID *int             `json:"transaction_id,omitempty"`
	Balance       int              `json:"balance"`
	ImageURL      *string          `json:"image_url,omitempty"`
}
