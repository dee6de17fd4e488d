package patterns

import "regexp"

// LineShape is one row of the line-item grammar. Group fields hold the
// capture index feeding each item field; zero means the shape does not
// capture it.
type LineShape struct {
	ID      string
	Expr    *regexp.Regexp
	Name    int
	Qty     int
	Unit    int
	Total   int
	Voided  bool
	NoPrice bool
	// DefaultName is used when the shape captures no name.
	DefaultName string
}

func shape(id, expr string) LineShape {
	return LineShape{ID: id, Expr: regexp.MustCompile(expr)}
}

func (s LineShape) groups(name, qty, unit, total int) LineShape {
	s.Name, s.Qty, s.Unit, s.Total = name, qty, unit, total
	return s
}

func (s LineShape) voided() LineShape {
	s.Voided = true
	return s
}

func (s LineShape) priceless() LineShape {
	s.NoPrice = true
	return s
}

func (s LineShape) named(name string) LineShape {
	s.DefaultName = name
	return s
}

const (
	sizeTok  = `(?:\s+\d+\.?\d*[kglmlpack]+)?`
	priceTok = `([\d,]+\.?\d*)`
	taxPrice = `([\d,]+\.?\d*[TVXZ]?)`
)

// LineGrammar is tried in order against each screened line; the first shape
// that matches decides how the line is read.
var LineGrammar = []LineShape{
	shape("name-price", `^([A-Za-z\s]+`+sizeTok+`)\s+`+priceTok+`$`).groups(1, 0, 0, 2),
	shape("name-peso-price", `^([A-Za-z\s]+`+sizeTok+`)\s+₱?`+priceTok+`$`).groups(1, 0, 0, 2),
	shape("qty-name-price", `^(\d+)\s+([A-Za-z\s]+`+sizeTok+`)\s+`+priceTok+`$`).groups(2, 1, 0, 3),
	shape("name-at-unit-total", `^([A-Za-z\s]+)\s+@`+priceTok+`\s+`+priceTok+`$`).groups(1, 0, 2, 3),
	shape("qty-name-at-unit", `^(\d+)\s+([A-Za-z\s]+`+sizeTok+`)\s+@`+priceTok+`$`).groups(2, 1, 3, 0),
	shape("decimal-qty-name-at-unit", `^(\d+\.\d+)\s+([A-Za-z\s]+`+sizeTok+`)\s+@`+priceTok+`$`).groups(2, 1, 3, 0),
	shape("name-code-price", `^([A-Za-z\s]+)\s+(\d{6,15})\s+`+priceTok+`$`).groups(1, 0, 0, 3),
	shape("name-mixed-price", `^([A-Za-z\s]+(?:\s+[A-Za-z]*\d+[A-Za-z]*)?)\s+`+priceTok+`$`).groups(1, 0, 0, 2),
	shape("name-size-price", `^([A-Za-z\s]+)\s+(\d+[A-Za-z]+)\s+`+priceTok+`$`).groups(1, 0, 0, 3),
	shape("name-unitspec-price", `^([A-Za-z\s]+)\s+([A-Za-z]+\d+[A-Za-z]*)\s+`+priceTok+`$`).groups(1, 0, 0, 3),
	shape("embedded-size-price", `^([A-Za-z\s]+\d+[A-Za-z]*)\s+`+taxPrice+`$`).groups(1, 0, 0, 2),
	shape("embedded-digits-price", `^([A-Za-z\s]+\d+[A-Za-z]*\d*[A-Za-z]*)\s+`+taxPrice+`$`).groups(1, 0, 0, 2),
	shape("name-tax-price", `^([A-Za-z\s]+)\s+([\d,]+\.?\d*[TVXZ])$`).groups(1, 0, 0, 2),
	shape("voided", `^([A-Za-z\s]+)\s+(-[\d,]+\.?\d*[TVXZ])$`).groups(1, 0, 0, 2).voided(),
	shape("embedded-symbols-price", `^([A-Za-z\s]+\d+[A-Za-z]*[+\-]?\d*[A-Za-z]*)\s+`+taxPrice+`$`).groups(1, 0, 0, 2),
	shape("catch-all-price", `^([A-Za-z\s\d+\-]+)\s+`+taxPrice+`$`).groups(1, 0, 0, 2),
	shape("dashed-name-price", `^([A-Za-z\s\-]+\d+[A-Za-z]*)\s+`+taxPrice+`$`).groups(1, 0, 0, 2),
	shape("qty-at-unit", `^(\d+)\s+@\s+`+priceTok+`$`).groups(0, 1, 2, 0).named("Unknown Product"),
	shape("mixed-decimal-size-price", `^([A-Za-z\s]+[A-Za-z]*\d+[A-Za-z]*\.?\d*[A-Za-z]*)\s+`+taxPrice+`$`).groups(1, 0, 0, 2),
	shape("name-only", `^([A-Za-z\s]+(?:\s+\d+[A-Za-z]*)?)\s*[A-Za-z]*$`).groups(1, 0, 0, 0).priceless(),
	shape("bear-brand-trailer", `^(BEAR\s+B\s+FORT\d+[A-Za-z]*)\s*[A-Za-z]*$`).groups(1, 0, 0, 0).priceless(),
	shape("nido-price", `^(NIDO3\+PRE-S\d+\.\d+KG)\s+`+priceTok+`$`).groups(1, 0, 0, 2),
}

var (
	// TrailingPrice matches a line that already ends in an amount.
	TrailingPrice = regexp.MustCompile(`\s-?[\d,]+\.\d{2}[TVXZ]?$`)
	// PriceOnlyLine matches a line holding nothing but an amount.
	PriceOnlyLine = regexp.MustCompile(`^₱?\s*[\d,]+\.\d{2}[TVXZ]?$`)
	// NumericOnly matches lines made only of digits and currency punctuation.
	NumericOnly = regexp.MustCompile(`^[\d.,₱$]+$`)
	// HasLetter matches any ASCII letter.
	HasLetter = regexp.MustCompile(`[a-zA-Z]`)
)
