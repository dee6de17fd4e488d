package models

import (
	"errors"
	"time"
)

// ErrNoReceiptDate is returned by ReceiptMetadata.Date when the receipt carried no date.
var ErrNoReceiptDate = errors.New("receipt date not present")

// receiptDateLayouts are the date shapes the extractor recognises, in scan order.
var receiptDateLayouts = []string{"2006-01-02", "01/02/2006", "01-02-2006"}

// ExtractedItem is a single purchased line recovered from receipt text
type ExtractedItem struct {
	Name            string  `json:"name"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	TotalPrice      float64 `json:"total_price"`
	SourcePattern   string  `json:"source_pattern"`
	SpecificProduct string  `json:"specific_product,omitempty"`
	Line            int     `json:"line"`
}

// HasPrice reports whether a price was read for the item.
func (i ExtractedItem) HasPrice() bool {
	return i.TotalPrice != 0
}

// Totals holds the money summary scanned from the receipt
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// ReceiptMetadata holds best-effort header and footer fields
type ReceiptMetadata struct {
	ReceiptDate   string `json:"receipt_date,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	Cashier       string `json:"cashier,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// Date parses ReceiptDate using the layouts the extractor scans for.
func (m ReceiptMetadata) Date() (time.Time, error) {
	if m.ReceiptDate == "" {
		return time.Time{}, ErrNoReceiptDate
	}
	var lastErr error
	for _, layout := range receiptDateLayouts {
		t, err := time.Parse(layout, m.ReceiptDate)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ExtractionResult is the structured reading of one OCR pass
type ExtractionResult struct {
	StoreName        string          `json:"store_name"`
	Items            []ExtractedItem `json:"items"`
	VoidedItems      []ExtractedItem `json:"voided_items,omitempty"`
	Totals           Totals          `json:"totals"`
	Metadata         ReceiptMetadata `json:"metadata"`
	Confidence       float64         `json:"confidence"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	RawText          string          `json:"raw_text"`
	CorrectedText    string          `json:"corrected_text"`
	Variant          string          `json:"variant,omitempty"`
}

// StoreKnown reports whether store detection produced anything but the sentinel.
func (r *ExtractionResult) StoreKnown() bool {
	return r.StoreName != "" && r.StoreName != UnknownStore
}

// UnknownStore is the store name used when detection finds nothing.
const UnknownStore = "Unknown Store"
