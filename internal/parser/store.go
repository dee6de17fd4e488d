package parser

import (
	"strings"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

// DetectStoreName returns the store named on the receipt, or models.UnknownStore.
// Pattern groups are tried in catalog order and the first match wins; keyword
// presence is the last resort.
func (p *ReceiptParser) DetectStoreName(corrected string) string {
	text := strings.TrimSpace(corrected)
	if text == "" {
		return models.UnknownStore
	}

	for _, group := range p.storeGroups {
		for _, sp := range group.Patterns {
			m := sp.Expr.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			name := m[0]
			if len(m) > 1 && m[1] != "" {
				name = m[1]
			}
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}

	for _, kw := range p.storeKeywords {
		for _, k := range kw.Keywords {
			if strings.Contains(text, k) {
				return kw.Display
			}
		}
	}

	return models.UnknownStore
}
