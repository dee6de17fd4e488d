package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/patterns"
)

var (
	ErrItemNameLength = errors.New("item name length out of range")
	ErrItemNameChars  = errors.New("item name has unsupported characters")
	ErrItemPrice      = errors.New("item price out of range")
)

// MatchSpecificProduct returns the canonical name of the known product whose
// signature appears in text, or "".
func (p *ReceiptParser) MatchSpecificProduct(text string) string {
	for _, sp := range p.specificProducts {
		for _, re := range sp.Patterns {
			if re.MatchString(text) {
				return sp.Name
			}
		}
	}
	return ""
}

// IsLikelyProduct screens a receipt line before grammar matching. A known
// product signature overrides the metadata keyword screen.
func (p *ReceiptParser) IsLikelyProduct(line string) bool {
	name := strings.ToLower(strings.TrimSpace(line))
	if utf8.RuneCountInString(name) < 2 {
		return false
	}
	if patterns.NumericOnly.MatchString(name) {
		return false
	}
	if p.MatchSpecificProduct(line) != "" {
		return true
	}
	for _, kw := range p.metadataKeywords {
		if strings.Contains(name, kw) {
			return false
		}
	}
	return patterns.HasLetter.MatchString(name)
}

// ExtractItems reads purchased lines from corrected text. Lines holding a
// negative amount are returned separately as voided.
func (p *ReceiptParser) ExtractItems(corrected string) (items, voided []models.ExtractedItem) {
	lines := splitLines(corrected)
	items = []models.ExtractedItem{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		lineNo := i + 1
		if !p.IsLikelyProduct(line) {
			continue
		}

		// Price printed alone on the next line.
		if i+1 < len(lines) && !patterns.TrailingPrice.MatchString(line) && patterns.PriceOnlyLine.MatchString(lines[i+1]) {
			line = line + " " + strings.TrimSpace(strings.TrimPrefix(lines[i+1], "₱"))
			i++
		}

		item, isVoid, ok := p.readLine(line)
		if !ok {
			continue
		}
		item.Line = lineNo
		if isVoid {
			voided = append(voided, item)
			continue
		}
		items = append(items, item)
	}
	return items, voided
}

// readLine maps the first matching grammar shape onto an item and decides
// whether it is kept.
func (p *ReceiptParser) readLine(line string) (models.ExtractedItem, bool, bool) {
	for _, shape := range p.grammar {
		m := shape.Expr.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		item, ok := p.readShape(shape, m)
		return item, shape.Voided, ok
	}
	return models.ExtractedItem{}, false, false
}

func (p *ReceiptParser) readShape(shape patterns.LineShape, m []string) (models.ExtractedItem, bool) {
	item := models.ExtractedItem{
		Name:          shape.DefaultName,
		Quantity:      1,
		SourcePattern: shape.ID,
	}
	if shape.Name > 0 {
		item.Name = strings.Join(strings.Fields(m[shape.Name]), " ")
	}

	if shape.Qty > 0 {
		q, err := strconv.ParseFloat(m[shape.Qty], 64)
		if err != nil || q <= 0 {
			return item, false
		}
		item.Quantity = q
	}

	var unit, total float64
	var err error
	if shape.Unit > 0 {
		if unit, err = parseAmount(m[shape.Unit]); err != nil {
			return item, false
		}
	}
	if shape.Total > 0 {
		if total, err = parseAmount(m[shape.Total]); err != nil {
			return item, false
		}
	}
	if shape.Voided {
		total = math.Abs(total)
	}

	switch {
	case unit > 0 && total > 0:
		// Both amounts printed: the quantity is whatever makes them agree.
		if q := math.Round(total / unit); q >= 1 && math.Abs(q*unit-total) < 0.01 {
			item.Quantity = q
		}
		item.TotalPrice = total
		item.UnitPrice = total / item.Quantity
	case unit > 0:
		item.UnitPrice = unit
		item.TotalPrice = unit * item.Quantity
	case total > 0:
		item.TotalPrice = total
		item.UnitPrice = total / item.Quantity
	}

	specific := p.MatchSpecificProduct(item.Name)
	if utf8.RuneCountInString(item.Name) <= 2 {
		return item, false
	}
	if item.TotalPrice == 0 {
		if specific == "" {
			return item, false
		}
		item.Name = specific
		item.UnitPrice = 0
	}
	item.SpecificProduct = specific
	return item, true
}

// parseAmount reads a price token, dropping thousands separators and a
// trailing tax marker.
func parseAmount(s string) (float64, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "TVXZ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, fmt.Errorf("empty amount")
	}
	return strconv.ParseFloat(s, 64)
}

// ValidateItem checks an extracted item against the product validation bounds.
// A missing price is not an error.
func ValidateItem(item models.ExtractedItem) error {
	v := patterns.ProductValidation
	n := utf8.RuneCountInString(item.Name)
	if n < v.MinLength || n > v.MaxLength {
		return fmt.Errorf("%w: %d", ErrItemNameLength, n)
	}
	if !v.Allowed.MatchString(item.Name) {
		return ErrItemNameChars
	}
	if item.HasPrice() && (item.TotalPrice < v.MinPrice || item.TotalPrice > v.MaxPrice) {
		return fmt.Errorf("%w: %.2f", ErrItemPrice, item.TotalPrice)
	}
	return nil
}
