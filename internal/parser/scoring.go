package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

var (
	scoreStoreToken   = regexp.MustCompile(`(?i)MERCURY`)
	scoreProductToken = regexp.MustCompile(`(?i)BBRAND|BEAR BRAND|NIDO|MLK|MILK`)
	scoreTotalToken   = regexp.MustCompile(`(?i)(?:TOTAL|GRAND TOTAL).*?\d+\.?\d*`)
	scoreProductCode  = regexp.MustCompile(`\d{12,}`)
	scoreInvoiceToken = regexp.MustCompile(`(?i)TXN|INVOICE`)
)

// StrategyScore rates a raw OCR reading from its text and engine confidence,
// on a 0-100 scale.
func StrategyScore(text string, confidence float64) float64 {
	score := confidence * 0.4

	lines := 0
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines++
		}
	}
	score += math.Min(float64(lines*2), 20)

	if scoreStoreToken.MatchString(text) {
		score += 15
	}
	if scoreProductToken.MatchString(text) {
		score += 10
	}
	if scoreTotalToken.MatchString(text) {
		score += 15
	}
	if scoreProductCode.MatchString(text) {
		score += 10
	}
	if scoreInvoiceToken.MatchString(text) {
		score += 10
	}
	return math.Min(score, 100)
}

// CompositeScore rates a parsed reading: 60% OCR confidence, 30% items found
// (ten or more is full marks), 10% store detected.
func CompositeScore(r *models.ExtractionResult) float64 {
	items := math.Min(float64(len(r.Items))/10*100, 100)
	store := 0.0
	if r.StoreKnown() {
		store = 100
	}
	return r.Confidence*0.6 + items*0.3 + store*0.1
}

// BestReading returns the reading with the highest composite score. Equal
// composites go to the higher StrategyScore of the raw text; a full tie keeps
// the earlier reading. It returns nil for an empty slice.
func BestReading(readings []*models.ExtractionResult) *models.ExtractionResult {
	var best *models.ExtractionResult
	bestScore, bestStrategy := -1.0, -1.0
	for _, r := range readings {
		if r == nil {
			continue
		}
		s := CompositeScore(r)
		if s < bestScore {
			continue
		}
		strategy := StrategyScore(r.RawText, r.Confidence)
		if s > bestScore || strategy > bestStrategy {
			best, bestScore, bestStrategy = r, s, strategy
		}
	}
	return best
}
