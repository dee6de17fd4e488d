package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Receipt shorthand expanded token by token before comparison.
var abbreviations = map[string]string{
	"mlk":    "milk",
	"pwd":    "powder",
	"pwdr":   "powder",
	"bbrand": "bear brand",
	"choco":  "chocolate",
	"crml":   "caramel",
	"orig":   "original",
	"pk":     "pack",
	"pck":    "pack",
	"btl":    "bottle",
}

// fold lowercases s and strips combining marks so "Ñ" and "n" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

func clean(s string) string {
	s = nonAlnum.ReplaceAllString(fold(s), "")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// NormalizeStoreName folds a store name for comparison. Branch suffixes of
// Mercury Drug collapse to the chain name.
func NormalizeStoreName(name string) string {
	n := clean(name)
	if strings.Contains(n, "mercury drug") {
		return "mercury drug"
	}
	return n
}

// NormalizeProductName folds a product name for comparison. Decimal points are
// dropped so "2.4kg" and "24kg" compare equal, and receipt shorthand is expanded.
func NormalizeProductName(name string) string {
	tokens := strings.Fields(clean(name))
	for i, tok := range tokens {
		if full, ok := abbreviations[tok]; ok {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}
