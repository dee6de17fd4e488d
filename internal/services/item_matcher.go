package services

import (
	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/parser"
)

// ItemMatcher handles fuzzy matching of receipt items to catalog products
type ItemMatcher struct {
	parser   *parser.ReceiptParser
	resolver *matching.Resolver[models.Product]
}

// NewItemMatcher creates a new item matcher
func NewItemMatcher(p *parser.ReceiptParser) *ItemMatcher {
	return &ItemMatcher{
		parser:   p,
		resolver: matching.ProductResolver(),
	}
}

// MatchedReceiptItem represents an extracted item with match results
type MatchedReceiptItem struct {
	Item        models.ExtractedItem
	BestMatch   *matching.Match[models.Product]
	Suggestions []matching.Match[models.Product]
}

// Resolve matches one item name against the product catalog. Names that do
// not look like products are not matched.
func (m *ItemMatcher) Resolve(name string, catalog []models.Product) *matching.Match[models.Product] {
	if !m.parser.IsLikelyProduct(name) {
		return nil
	}
	return m.resolver.Resolve(m.parser.CorrectItemName(name), catalog)
}

// FindMatches returns up to limit ranked products for an item name
func (m *ItemMatcher) FindMatches(name string, catalog []models.Product, limit int) []matching.Match[models.Product] {
	return m.resolver.Suggest(m.parser.CorrectItemName(name), catalog, limit)
}

// MatchReceiptItems matches extracted items against the catalog. An item
// recognised as a known product is retried under its canonical name.
func (m *ItemMatcher) MatchReceiptItems(items []models.ExtractedItem, catalog []models.Product) []MatchedReceiptItem {
	results := make([]MatchedReceiptItem, 0, len(items))

	for _, item := range items {
		matched := MatchedReceiptItem{Item: item}

		best := m.Resolve(item.Name, catalog)
		if best == nil && item.SpecificProduct != "" && item.SpecificProduct != item.Name {
			best = m.Resolve(item.SpecificProduct, catalog)
		}
		matched.BestMatch = best
		if best == nil {
			matched.Suggestions = m.FindMatches(item.Name, catalog, 5)
		}

		results = append(results, matched)
	}

	return results
}
