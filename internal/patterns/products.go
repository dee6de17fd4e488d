package patterns

import (
	"regexp"
	"strings"
)

// SpecificProduct is a well-known product recognised by signature alone,
// even when its line carries no readable price.
type SpecificProduct struct {
	Name     string
	Patterns []*regexp.Regexp
}

func res(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var SpecificProducts = []SpecificProduct{
	{Name: "Nestle Milo", Patterns: res(
		`(?i)(MILO\s+\d+[gml])\s+([\d,]+\.?\d*)`,
		`(?i)(NESTLE\s+MILO\s+\d+[gml])\s+([\d,]+\.?\d*)`,
	)},
	{Name: "Coca-Cola", Patterns: res(
		`(?i)(COCA\s*COLA\s+\d+\.?\d*[lml])\s+([\d,]+\.?\d*)`,
		`(?i)(COKE\s+\d+\.?\d*[lml])\s+([\d,]+\.?\d*)`,
	)},
	{Name: "Bear Brand Fortified", Patterns: res(
		`(?i)45000\s*a\s*RTIFIED`,
		`(?i)BEAR\s+B\s+FORT\d+[A-Za-z]*`,
		`(?i)BEAR\s+BRAND\s+FORT\d+[A-Za-z]*`,
		`(?i)BEAR\s+BRAND\s+FORTIFIED`,
		`(?i)BEAR\s+BIECRTEA0`,
	)},
	{Name: "Nescafe Gold", Patterns: res(
		`(?i)NESCAFE\s+GOLD\s+29`,
		`(?i)NESCAFE\s+GOLD\s+2g`,
	)},
	{Name: "NIDO3+PRE-S1.6KG", Patterns: res(
		`(?i)WIDO3HPRE-51\s*6KG`,
		`(?i)NIDO3\+PRE-S1\.6KG`,
	)},
	{Name: "NIDO3+PRE-S2.4KG", Patterns: res(
		`(?i)MIO034PRE-S7.`,
		`(?i)NIDO3\+PRE-S2\.4KG`,
	)},
}

// MetadataKeywords mark receipt lines that are not purchases. Matching is a
// lowercase substring test.
var MetadataKeywords = []string{
	"total", "subtotal", "cash", "cast", "change", "vat", "tax", "amount", "due",
	"tendered", "payment", "receipt", "date", "time", "cashier", "operator",
	"invoice", "transaction", "serial", "number", "reference", "mercury", "drug",
	"corporation", "address", "phone", "hypermarket", "supermarket", "mall",
	"store", "sold", "cred", "crd", "suki", "points", "balance", "earned",
	"redeemed", "previous", "extra",
}

// ProductValidation bounds a plausible purchased line.
var ProductValidation = struct {
	MinLength int
	MaxLength int
	MinPrice  float64
	MaxPrice  float64
	Allowed   *regexp.Regexp
}{
	MinLength: 3,
	MaxLength: 100,
	MinPrice:  0.01,
	MaxPrice:  10000,
	Allowed:   regexp.MustCompile(`^[A-Za-z0-9\s.\-()+]+$`),
}

// ProductCategories groups lowercase product names by category.
var ProductCategories = map[string][]string{
	"beverages": {"milo", "coca-cola", "pepsi", "coffee", "tea", "nescafe gold"},
	"snacks":    {"chips", "crackers", "cookies", "candy"},
	"household": {"soap", "detergent", "cleaning"},
	"baby":      {"diapers", "milk", "baby food", "bear brand fortified", "nido 3+ pre-s1.6kg"},
	"personal":  {"shampoo", "toothpaste", "deodorant"},
	"grocery":   {"rice", "oil", "sugar", "flour"},
}

// ProductCategory returns the first category whose terms appear in name.
func ProductCategory(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, category := range []string{"beverages", "snacks", "household", "baby", "personal", "grocery"} {
		for _, term := range ProductCategories[category] {
			if strings.Contains(lower, term) {
				return category, true
			}
		}
	}
	return "", false
}
