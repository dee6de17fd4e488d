// Package parser turns noisy receipt OCR text into a structured reading.
//
// Correct rewrites the text with the ordered correction rule groups, and
// Extract reads the store, line items, totals and header metadata from it.
// Both are total functions: malformed input yields fewer results, never an error.
package parser

import (
	"strings"

	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/patterns"
)

// ReceiptParser reads receipts using a pattern catalog
type ReceiptParser struct {
	corrections      []patterns.RuleGroup
	itemCorrections  []patterns.RuleGroup
	storeGroups      []patterns.StoreGroup
	storeKeywords    []patterns.StoreKeyword
	specificProducts []patterns.SpecificProduct
	metadataKeywords []string
	grammar          []patterns.LineShape
}

// NewReceiptParser creates a parser over the built-in catalog
func NewReceiptParser() *ReceiptParser {
	return &ReceiptParser{
		corrections:      patterns.CorrectionGroups,
		itemCorrections:  patterns.ItemCorrectionGroups,
		storeGroups:      patterns.StoreGroups,
		storeKeywords:    patterns.StoreKeywords,
		specificProducts: patterns.SpecificProducts,
		metadataKeywords: patterns.MetadataKeywords,
		grammar:          patterns.LineGrammar,
	}
}

// Correct applies every correction group in order. Each rule sees the output
// of the rule before it.
func (p *ReceiptParser) Correct(raw string) string {
	text := raw
	for _, g := range p.corrections {
		text = ApplyRules(text, g.Rules)
	}
	return text
}

// CorrectItemName applies the product and volume rules to a single item name.
func (p *ReceiptParser) CorrectItemName(name string) string {
	for _, g := range p.itemCorrections {
		name = ApplyRules(name, g.Rules)
	}
	return name
}

// ApplyRules runs rules over text in order.
func ApplyRules(text string, rules []patterns.Rule) string {
	for _, r := range rules {
		text = applyRule(text, r)
	}
	return text
}

func applyRule(text string, r patterns.Rule) string {
	if r.Global {
		return r.Pattern.ReplaceAllString(text, r.Replacement)
	}
	loc := r.Pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	expanded := r.Pattern.ExpandString(nil, r.Replacement, text, loc)
	return text[:loc[0]] + string(expanded) + text[loc[1]:]
}

// Extract corrects raw OCR text and reads a receipt from it. Store and items
// come from the corrected text; totals and metadata from the raw text.
func (p *ReceiptParser) Extract(raw string) *models.ExtractionResult {
	corrected := p.Correct(raw)
	items, voided := p.ExtractItems(corrected)

	return &models.ExtractionResult{
		StoreName:     p.DetectStoreName(corrected),
		Items:         items,
		VoidedItems:   voided,
		Totals:        ScanTotals(raw),
		Metadata:      ScanMetadata(raw),
		RawText:       raw,
		CorrectedText: corrected,
	}
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
