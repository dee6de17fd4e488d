// Package duplicate decides whether an uploaded receipt repeats a purchase the
// user was already paid for.
//
// Four methods look for a prior receipt of the same user. A method blocks only
// when the receipt it found already has an earned transaction; a look-alike
// receipt without a payout is let through so a failed upload can be retried.
package duplicate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

// Method names a detection method.
type Method string

const (
	MethodImageHash      Method = "image_hash"
	MethodReceiptNumber  Method = "receipt_number"
	MethodFingerprint    Method = "fingerprint"
	MethodStoreTotalDate Method = "store_total_date"
)

// Confidence reported by each method when it blocks.
var blockConfidence = map[Method]float64{
	MethodImageHash:      0.99,
	MethodReceiptNumber:  0.98,
	MethodFingerprint:    0.95,
	MethodStoreTotalDate: 0.85,
}

// Confidence reported when a prior receipt was found but nothing was paid out.
var retryConfidence = map[Method]float64{
	MethodImageHash:      0.3,
	MethodReceiptNumber:  0.3,
	MethodFingerprint:    0.3,
	MethodStoreTotalDate: 0.25,
}

const (
	totalTolerance = 1.0
	dateTolerance  = 24 * time.Hour
)

// Statuses of prior receipts that can be duplicated.
var priorStatuses = []models.ReceiptStatus{models.ReceiptStatusValid, models.ReceiptStatusFlagged}

// Ledger is the receipt and transaction history the detector reads.
type Ledger interface {
	// FindReceipt returns the first receipt matching the filter, or nil.
	FindReceipt(ctx context.Context, filter models.ReceiptFilter) (*models.Receipt, error)
	// HasEarnedTransaction reports whether points were paid out for the receipt.
	HasEarnedTransaction(ctx context.Context, receiptID int) (bool, error)
}

// MethodResult is the outcome of one detection method.
type MethodResult struct {
	Method              Method          `json:"method"`
	IsDuplicate         bool            `json:"is_duplicate"`
	Confidence          float64         `json:"confidence"`
	ExistingReceipt     *models.Receipt `json:"existing_receipt,omitempty"`
	PointsAlreadyEarned bool            `json:"points_already_earned"`
	Reason              string          `json:"reason,omitempty"`
	Err                 error           `json:"-"`
}

// Detector runs the duplicate checks against a ledger.
type Detector struct {
	ledger Ledger
}

// NewDetector creates a new duplicate detector
func NewDetector(ledger Ledger) *Detector {
	return &Detector{ledger: ledger}
}

// Check runs the detection methods for one upload and fuses their results.
// An exact image or receipt-number hit on a paid receipt ends the run early.
// Method failures are logged and count as "not a duplicate".
func (d *Detector) Check(ctx context.Context, userID int, r *models.ExtractionResult, imageHash string) Verdict {
	var checks []MethodResult

	if imageHash != "" {
		res := d.byImageHash(ctx, userID, imageHash)
		checks = append(checks, res)
		if res.IsDuplicate && res.PointsAlreadyEarned {
			return Analyze(checks)
		}
	}

	if r.Metadata.ReceiptNumber != "" {
		res := d.byReceiptNumber(ctx, userID, r)
		checks = append(checks, res)
		if res.IsDuplicate && res.PointsAlreadyEarned {
			return Analyze(checks)
		}
	}

	checks = append(checks,
		d.byFingerprint(ctx, userID, Fingerprint(r)),
		d.byStoreTotalDate(ctx, userID, r),
	)
	return Analyze(checks)
}

func (d *Detector) byImageHash(ctx context.Context, userID int, imageHash string) MethodResult {
	return d.lookup(ctx, MethodImageHash, models.ReceiptFilter{
		UserID:    userID,
		ImageHash: imageHash,
		Statuses:  priorStatuses,
	})
}

func (d *Detector) byReceiptNumber(ctx context.Context, userID int, r *models.ExtractionResult) MethodResult {
	if r.StoreName == "" {
		return MethodResult{Method: MethodReceiptNumber}
	}
	return d.lookup(ctx, MethodReceiptNumber, models.ReceiptFilter{
		UserID:        userID,
		StoreName:     r.StoreName,
		ReceiptNumber: r.Metadata.ReceiptNumber,
		Statuses:      priorStatuses,
	})
}

func (d *Detector) byFingerprint(ctx context.Context, userID int, fingerprint string) MethodResult {
	return d.lookup(ctx, MethodFingerprint, models.ReceiptFilter{
		UserID:      userID,
		Fingerprint: fingerprint,
		Statuses:    priorStatuses,
	})
}

func (d *Detector) byStoreTotalDate(ctx context.Context, userID int, r *models.ExtractionResult) MethodResult {
	if r.StoreName == "" || r.Totals.Total == 0 || r.Metadata.ReceiptDate == "" {
		return MethodResult{Method: MethodStoreTotalDate}
	}
	date, err := r.Metadata.Date()
	if err != nil {
		return failed(MethodStoreTotalDate, err)
	}

	minTotal, maxTotal := r.Totals.Total-totalTolerance, r.Totals.Total+totalTolerance
	from, to := date.Add(-dateTolerance), date.Add(dateTolerance)
	return d.lookup(ctx, MethodStoreTotalDate, models.ReceiptFilter{
		UserID:        userID,
		StoreName:     r.StoreName,
		TotalMin:      &minTotal,
		TotalMax:      &maxTotal,
		PurchasedFrom: &from,
		PurchasedTo:   &to,
		Statuses:      priorStatuses,
	})
}

// lookup finds a prior receipt and applies the points-earned gate to it.
func (d *Detector) lookup(ctx context.Context, method Method, filter models.ReceiptFilter) MethodResult {
	existing, err := d.ledger.FindReceipt(ctx, filter)
	if err != nil {
		return failed(method, err)
	}
	if existing == nil {
		return MethodResult{Method: method}
	}

	earned, err := d.ledger.HasEarnedTransaction(ctx, existing.ID)
	if err != nil {
		return failed(method, err)
	}

	res := MethodResult{
		Method:              method,
		IsDuplicate:         earned,
		ExistingReceipt:     existing,
		PointsAlreadyEarned: earned,
	}
	if earned {
		res.Confidence = blockConfidence[method]
		res.Reason = "Duplicate receipt with points already earned"
	} else {
		res.Confidence = retryConfidence[method]
		res.Reason = "Similar receipt found but no points earned - allowing retry"
	}
	return res
}

func failed(method Method, err error) MethodResult {
	log.Printf("Warning: duplicate check %s failed: %v", method, err)
	return MethodResult{Method: method, Err: fmt.Errorf("%s: %w", method, err)}
}
