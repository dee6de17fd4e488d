package duplicate

import (
	"fmt"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

// highConfidence separates strong signals from weak ones in the verdict details.
const highConfidence = 0.8

// Verdict is the fused decision for one upload.
type Verdict struct {
	IsDuplicate         bool            `json:"is_duplicate"`
	Confidence          float64         `json:"confidence"`
	Reason              string          `json:"reason"`
	ExistingReceipt     *models.Receipt `json:"existing_receipt,omitempty"`
	PointsAlreadyEarned bool            `json:"points_already_earned"`
	DetectionMethods    []Method        `json:"detection_methods"`
	Details             VerdictDetails  `json:"details"`
	Checks              []MethodResult  `json:"checks"`
}

// VerdictDetails breaks the triggering methods down by confidence.
type VerdictDetails struct {
	HighConfidenceMethods []Method `json:"high_confidence_methods"`
	LowConfidenceMethods  []Method `json:"low_confidence_methods"`
	TotalMethods          int      `json:"total_methods"`
}

// Analyze fuses method results. Only methods that reported a duplicate
// contribute; the confidence is their mean and the existing receipt comes from
// the most confident one.
//
// A method only reports a duplicate when points were earned, so the
// high-confidence and agreement conditions are subsumed by pointsEarned.
func Analyze(checks []MethodResult) Verdict {
	v := Verdict{
		DetectionMethods: []Method{},
		Checks:           checks,
		Details: VerdictDetails{
			HighConfidenceMethods: []Method{},
			LowConfidenceMethods:  []Method{},
		},
	}

	var triggered []MethodResult
	for _, c := range checks {
		if c.IsDuplicate {
			triggered = append(triggered, c)
		}
	}
	if len(triggered) == 0 {
		v.Reason = "No duplicates found"
		return v
	}

	pointsEarned := false
	total := 0.0
	best := triggered[0]
	for _, c := range triggered {
		if c.PointsAlreadyEarned {
			pointsEarned = true
		}
		if c.Confidence >= highConfidence {
			v.Details.HighConfidenceMethods = append(v.Details.HighConfidenceMethods, c.Method)
		} else {
			v.Details.LowConfidenceMethods = append(v.Details.LowConfidenceMethods, c.Method)
		}
		if c.Confidence > best.Confidence {
			best = c
		}
		total += c.Confidence
		v.DetectionMethods = append(v.DetectionMethods, c.Method)
	}

	highConfidenceHit := len(v.Details.HighConfidenceMethods) > 0 && pointsEarned
	agreement := len(triggered) >= 3 && pointsEarned
	block := pointsEarned || highConfidenceHit || agreement

	switch {
	case !block:
		v.Reason = "Similar receipts found but allowing retry (no points earned)"
	case pointsEarned:
		v.Reason = fmt.Sprintf("Duplicate detected with points already earned (%d methods)", len(triggered))
	case highConfidenceHit:
		v.Reason = fmt.Sprintf("High confidence duplicate detected (%d methods)", len(v.Details.HighConfidenceMethods))
	default:
		v.Reason = fmt.Sprintf("Multiple duplicate detection methods (%d methods)", len(triggered))
	}

	v.IsDuplicate = block
	v.Confidence = total / float64(len(triggered))
	v.ExistingReceipt = best.ExistingReceipt
	v.PointsAlreadyEarned = pointsEarned
	v.Details.TotalMethods = len(triggered)
	return v
}
