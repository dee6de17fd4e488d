package duplicate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

// memLedger is an in-memory Ledger applying ReceiptFilter the way the
// Postgres repository does.
type memLedger struct {
	receipts  []models.Receipt
	earned    map[int]bool
	findErr   func(models.ReceiptFilter) error
	findCalls int
}

func (l *memLedger) FindReceipt(_ context.Context, f models.ReceiptFilter) (*models.Receipt, error) {
	l.findCalls++
	if l.findErr != nil {
		if err := l.findErr(f); err != nil {
			return nil, err
		}
	}
	for i := range l.receipts {
		if matches(l.receipts[i], f) {
			r := l.receipts[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (l *memLedger) HasEarnedTransaction(_ context.Context, receiptID int) (bool, error) {
	return l.earned[receiptID], nil
}

func matches(r models.Receipt, f models.ReceiptFilter) bool {
	if r.UserID != f.UserID {
		return false
	}
	if f.ImageHash != "" && (r.ImageHash == nil || *r.ImageHash != f.ImageHash) {
		return false
	}
	if f.Fingerprint != "" && r.Fingerprint != f.Fingerprint {
		return false
	}
	if f.StoreName != "" && !strings.Contains(strings.ToLower(r.StoreName), strings.ToLower(f.StoreName)) {
		return false
	}
	if f.ReceiptNumber != "" && (r.ReceiptNumber == nil || *r.ReceiptNumber != f.ReceiptNumber) {
		return false
	}
	if f.TotalMin != nil && r.TotalAmount < *f.TotalMin {
		return false
	}
	if f.TotalMax != nil && r.TotalAmount > *f.TotalMax {
		return false
	}
	if f.PurchasedFrom != nil && r.PurchaseDate.Before(*f.PurchasedFrom) {
		return false
	}
	if f.PurchasedTo != nil && r.PurchaseDate.After(*f.PurchasedTo) {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			ok = ok || s == r.Status
		}
		return ok
	}
	return true
}

func strPtr(s string) *string { return &s }

func mercuryResult() *models.ExtractionResult {
	return &models.ExtractionResult{
		StoreName: "MERCURY DRUG",
		Items: []models.ExtractedItem{
			{Name: "BEAR BRAND FORT2400g", Quantity: 1, UnitPrice: 347, TotalPrice: 347},
			{Name: "NESCAFE GOLD 2g", Quantity: 2, UnitPrice: 6.5, TotalPrice: 13},
		},
		Totals: models.Totals{Total: 360, Subtotal: 360, Currency: "PHP"},
	}
}

func TestCheck_FingerprintWithEarnedTransaction(t *testing.T) {
	result := mercuryResult()
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 1, UserID: 7, StoreName: "MERCURY DRUG", Fingerprint: Fingerprint(result), Status: models.ReceiptStatusValid},
		},
		earned: map[int]bool{1: true},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "")

	assert.True(t, v.IsDuplicate)
	assert.True(t, v.PointsAlreadyEarned)
	assert.Equal(t, []Method{MethodFingerprint}, v.DetectionMethods)
	assert.InDelta(t, 0.95, v.Confidence, 1e-9)
	require.NotNil(t, v.ExistingReceipt)
	assert.Equal(t, 1, v.ExistingReceipt.ID)
	assert.Equal(t, "Duplicate detected with points already earned (1 methods)", v.Reason)
}

func TestCheck_FingerprintWithoutEarnedTransaction(t *testing.T) {
	result := mercuryResult()
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 1, UserID: 7, StoreName: "MERCURY DRUG", Fingerprint: Fingerprint(result), Status: models.ReceiptStatusFlagged},
		},
		earned: map[int]bool{},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "")

	assert.False(t, v.IsDuplicate)
	assert.False(t, v.PointsAlreadyEarned)
	assert.Empty(t, v.DetectionMethods)
	assert.Equal(t, "No duplicates found", v.Reason)

	require.Len(t, v.Checks, 2)
	fp := v.Checks[0]
	assert.Equal(t, MethodFingerprint, fp.Method)
	assert.False(t, fp.IsDuplicate)
	assert.InDelta(t, 0.3, fp.Confidence, 1e-9)
	require.NotNil(t, fp.ExistingReceipt)
}

func TestCheck_OtherUsersReceiptsIgnored(t *testing.T) {
	result := mercuryResult()
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 1, UserID: 99, Fingerprint: Fingerprint(result), ImageHash: strPtr("abc"), Status: models.ReceiptStatusValid},
		},
		earned: map[int]bool{1: true},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "abc")

	assert.False(t, v.IsDuplicate)
}

func TestCheck_ImageHashExitsEarly(t *testing.T) {
	result := mercuryResult()
	result.Metadata.ReceiptNumber = "000123"
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 4, UserID: 7, ImageHash: strPtr("abc"), Status: models.ReceiptStatusValid},
		},
		earned: map[int]bool{4: true},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "abc")

	assert.True(t, v.IsDuplicate)
	assert.Equal(t, 1, ledger.findCalls)
	require.Len(t, v.Checks, 1)
	assert.Equal(t, MethodImageHash, v.Checks[0].Method)
	assert.InDelta(t, 0.99, v.Confidence, 1e-9)
}

func TestCheck_ImageHashWithoutPayoutContinues(t *testing.T) {
	result := mercuryResult()
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 4, UserID: 7, ImageHash: strPtr("abc"), Status: models.ReceiptStatusValid},
		},
		earned: map[int]bool{},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "abc")

	assert.False(t, v.IsDuplicate)
	require.Len(t, v.Checks, 3)
	assert.InDelta(t, 0.3, v.Checks[0].Confidence, 1e-9)
}

func TestCheck_ReceiptNumberExitsEarly(t *testing.T) {
	result := mercuryResult()
	result.Metadata.ReceiptNumber = "000123"
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 5, UserID: 7, StoreName: "Mercury Drug", ReceiptNumber: strPtr("000123"), Status: models.ReceiptStatusValid},
		},
		earned: map[int]bool{5: true},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "")

	assert.True(t, v.IsDuplicate)
	require.Len(t, v.Checks, 1)
	assert.Equal(t, MethodReceiptNumber, v.Checks[0].Method)
	assert.InDelta(t, 0.98, v.Confidence, 1e-9)
}

func TestCheck_StoreTotalDateTolerance(t *testing.T) {
	prior := models.Receipt{
		ID:           9,
		UserID:       7,
		StoreName:    "MERCURY DRUG",
		TotalAmount:  360.50,
		PurchaseDate: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Fingerprint:  "something else",
		Status:       models.ReceiptStatusValid,
	}

	tests := []struct {
		name  string
		total float64
		date  string
		want  bool
	}{
		{name: "within tolerance", total: 360, date: "2024-03-15", want: true},
		{name: "next day", total: 361, date: "2024-03-16", want: true},
		{name: "total too far", total: 362, date: "2024-03-15", want: false},
		{name: "date too far", total: 360, date: "2024-03-17", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mercuryResult()
			result.Totals.Total = tt.total
			result.Metadata.ReceiptDate = tt.date
			ledger := &memLedger{receipts: []models.Receipt{prior}, earned: map[int]bool{9: true}}

			v := NewDetector(ledger).Check(context.Background(), 7, result, "")

			assert.Equal(t, tt.want, v.IsDuplicate)
			if tt.want {
				assert.Equal(t, []Method{MethodStoreTotalDate}, v.DetectionMethods)
				assert.InDelta(t, 0.85, v.Confidence, 1e-9)
			}
		})
	}
}

func TestCheck_MalformedDateDoesNotFailOtherMethods(t *testing.T) {
	result := mercuryResult()
	result.Metadata.ReceiptDate = "13/45/2024"
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 1, UserID: 7, Fingerprint: Fingerprint(result), Status: models.ReceiptStatusValid},
		},
		earned: map[int]bool{1: true},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "")

	assert.True(t, v.IsDuplicate)
	assert.Equal(t, []Method{MethodFingerprint}, v.DetectionMethods)

	require.Len(t, v.Checks, 2)
	std := v.Checks[1]
	assert.Equal(t, MethodStoreTotalDate, std.Method)
	assert.False(t, std.IsDuplicate)
	assert.Zero(t, std.Confidence)
	assert.Error(t, std.Err)
}

func TestCheck_LedgerErrorIsContained(t *testing.T) {
	result := mercuryResult()
	result.Metadata.ReceiptDate = "2024-03-15"
	ledger := &memLedger{
		receipts: []models.Receipt{
			{ID: 2, UserID: 7, StoreName: "MERCURY DRUG", TotalAmount: 360, PurchaseDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Status: models.ReceiptStatusValid},
		},
		earned: map[int]bool{2: true},
		findErr: func(f models.ReceiptFilter) error {
			if f.Fingerprint != "" {
				return errors.New("connection reset")
			}
			return nil
		},
	}

	v := NewDetector(ledger).Check(context.Background(), 7, result, "")

	assert.True(t, v.IsDuplicate)
	assert.Equal(t, []Method{MethodStoreTotalDate}, v.DetectionMethods)
	require.Len(t, v.Checks, 2)
	assert.ErrorContains(t, v.Checks[0].Err, "connection reset")
}

func TestFingerprint(t *testing.T) {
	a := mercuryResult()
	b := mercuryResult()
	b.Items[0], b.Items[1] = b.Items[1], b.Items[0]

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 64)

	c := mercuryResult()
	c.Items[1].TotalPrice = 14
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))

	d := mercuryResult()
	d.Metadata.ReceiptNumber = "1"
	assert.NotEqual(t, Fingerprint(a), Fingerprint(d))
}

func TestImageHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ImageHash(nil))
	assert.Equal(t, ImageHash([]byte("receipt")), ImageHash([]byte("receipt")))
}

func TestAnalyze(t *testing.T) {
	t.Run("nothing triggered", func(t *testing.T) {
		v := Analyze([]MethodResult{{Method: MethodFingerprint, Confidence: 0.3}})
		assert.False(t, v.IsDuplicate)
		assert.Zero(t, v.Confidence)
		assert.Empty(t, v.DetectionMethods)
	})

	t.Run("mean confidence and most confident receipt", func(t *testing.T) {
		fp := &models.Receipt{ID: 1}
		std := &models.Receipt{ID: 2}
		v := Analyze([]MethodResult{
			{Method: MethodFingerprint, IsDuplicate: true, PointsAlreadyEarned: true, Confidence: 0.95, ExistingReceipt: fp},
			{Method: MethodStoreTotalDate, IsDuplicate: true, PointsAlreadyEarned: true, Confidence: 0.85, ExistingReceipt: std},
		})

		assert.True(t, v.IsDuplicate)
		assert.InDelta(t, 0.9, v.Confidence, 1e-9)
		assert.Same(t, fp, v.ExistingReceipt)
		assert.Equal(t, 2, v.Details.TotalMethods)
		assert.Equal(t, []Method{MethodFingerprint, MethodStoreTotalDate}, v.Details.HighConfidenceMethods)
		assert.Empty(t, v.Details.LowConfidenceMethods)
	})

	t.Run("duplicate without payout is let through", func(t *testing.T) {
		v := Analyze([]MethodResult{
			{Method: MethodStoreTotalDate, IsDuplicate: true, Confidence: 0.25},
		})
		assert.False(t, v.IsDuplicate)
		assert.Equal(t, "Similar receipts found but allowing retry (no points earned)", v.Reason)
		assert.Equal(t, []Method{MethodStoreTotalDate}, v.Details.LowConfidenceMethods)
	})
}
