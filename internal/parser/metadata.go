package parser

import (
	"regexp"
	"strings"

	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/patterns"
)

// ScanTotals reads the money summary from uncorrected OCR text.
// Subtotal falls back to the total when not printed.
func ScanTotals(raw string) models.Totals {
	t := models.Totals{Currency: patterns.DefaultCurrency}

	for _, re := range patterns.TotalPatterns {
		if v, ok := firstAmount(re, raw); ok {
			t.Total = v
			break
		}
	}
	if v, ok := firstAmount(patterns.SubtotalPattern, raw); ok {
		t.Subtotal = v
	}
	if t.Subtotal == 0 {
		t.Subtotal = t.Total
	}
	if v, ok := firstAmount(patterns.VATPattern, raw); ok {
		t.Tax = v
	}
	return t
}

// ScanMetadata reads date, receipt number, cashier and tender from uncorrected text.
func ScanMetadata(raw string) models.ReceiptMetadata {
	var md models.ReceiptMetadata

	for _, re := range patterns.DatePatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			md.ReceiptDate = m[1]
			break
		}
	}
	for _, re := range patterns.ReceiptNumberPatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			md.ReceiptNumber = m[1]
			break
		}
	}
	if m := patterns.CashierPattern.FindStringSubmatch(raw); m != nil {
		md.Cashier = strings.TrimSpace(m[1])
	}
	for _, pm := range patterns.PaymentMethods {
		if pm.Expr.MatchString(raw) {
			md.PaymentMethod = pm.Method
			break
		}
	}
	return md
}

func firstAmount(re *regexp.Regexp, text string) (float64, bool) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if v, err := parseAmount(m[1]); err == nil {
			return v, true
		}
	}
	return 0, false
}
