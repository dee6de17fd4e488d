package duplicate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

type fingerprintItem struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type fingerprintData struct {
	Store         string            `json:"store"`
	Total         string            `json:"total"`
	Date          string            `json:"date"`
	ReceiptNumber string            `json:"receiptNumber"`
	Items         []fingerprintItem `json:"items"`
}

// Fingerprint hashes the identifying fields of an extraction. Items are sorted
// by name, price and quantity so line order does not change the result.
func Fingerprint(r *models.ExtractionResult) string {
	data := fingerprintData{
		Store:         r.StoreName,
		Total:         decimal.NewFromFloat(r.Totals.Total).StringFixed(2),
		Date:          r.Metadata.ReceiptDate,
		ReceiptNumber: r.Metadata.ReceiptNumber,
		Items:         make([]fingerprintItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		data.Items = append(data.Items, fingerprintItem{
			Name:     item.Name,
			Price:    decimal.NewFromFloat(item.TotalPrice).StringFixed(2),
			Quantity: decimal.NewFromFloat(item.Quantity).String(),
		})
	}
	sort.SliceStable(data.Items, func(i, j int) bool {
		a, b := data.Items[i], data.Items[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.Quantity < b.Quantity
	})

	// Marshalling a struct of strings cannot fail.
	payload, _ := json.Marshal(data)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// ImageHash returns the hex sha256 of the uploaded image bytes.
func ImageHash(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}
