package patterns

import "regexp"

// StorePattern is one store-detection expression. The first capture group,
// or the whole match when there is none, is the detected store name.
type StorePattern struct {
	Expr  *regexp.Regexp
	Broad bool
}

// StoreGroup is an ordered set of patterns tried together.
type StoreGroup struct {
	Name     string
	Patterns []StorePattern
}

func sp(expr string) StorePattern {
	return StorePattern{Expr: regexp.MustCompile(expr)}
}

func spBroad(expr string) StorePattern {
	return StorePattern{Expr: regexp.MustCompile(expr), Broad: true}
}

// Store patterns only span horizontal whitespace so a match never runs into
// the next receipt line.
var StoreGroups = []StoreGroup{
	{Name: "mercury_drug", Patterns: []StorePattern{
		sp(`(?i)(MERCURY[ \t]+DRUG[ \t]+[A-Z]+)`),
		sp(`(?i)(MERCURY[ \t]+DRUG)`),
		sp(`(?i)(SOUTHERN[ \t]+LUZON[ \t]+DRUG[ \t]+CORPORATION)`),
		sp(`(?i)(MERCURY[ \t]+DRUG[ \t]+LUCBAN)`),
		sp(`(?i)(MERCURY[ \t]+DRUG[ \t]+NAKAGISIGURO)`),
		sp(`(?i)(MERCURY[ \t]+DRUG[ \t]+[A-Z \t]+)`),
	}},
	{Name: "savemore", Patterns: []StorePattern{
		sp(`(?i)(SAVEMORE[ \t]+MARKET)`),
		sp(`(?i)(SAVEMORE)`),
		sp(`(?i)(SANFORD[ \t]+MARKETING[ \t]+CORPORATION)`),
		sp(`(?i)(FESTIVAL[ \t]+MALL)`),
	}},
	{Name: "sm_group", Patterns: []StorePattern{
		sp(`(?i)(SM[ \t]+HYPERMARKET|SM[ \t]+SUPERMARKET|SM[ \t]+MALL)`),
		spBroad(`(?i)(SM[ \t]+[A-Z]+)`),
		spBroad(`(?i)(HYPERMARKET|SUPERMARKET)`),
		sp(`(?i)(SM[ \t]+[A-Z]+[ \t]+HYPERMARKET)`),
		sp(`(?i)(SM[ \t]+[A-Z]+[ \t]+SUPERMARKET)`),
	}},
	{Name: "major_retailers", Patterns: []StorePattern{
		spBroad(`(?i)(SAVEMORE|SM|ROBINSONS|PUREGOLD|7-ELEVEN|WALMART|TARGET)`),
		sp(`(?i)(ROBINSONS[ \t]+SUPERMARKET)`),
		sp(`(?i)(PUREGOLD[ \t]+SUPERMARKET)`),
		sp(`(?i)(SAVEMORE[ \t]+SUPERMARKET)`),
		sp(`(?i)(SAVEMORE[ \t]+MARKET)`),
		sp(`(?i)(SANFORD[ \t]+MARKETING[ \t]+CORPORATION)`),
		sp(`(?i)(7-ELEVEN|7ELEVEN|SEVEN[ \t]+ELEVEN)`),
	}},
	{Name: "generic", Patterns: []StorePattern{
		spBroad(`(?i)^([A-Z \t]+(?:HYPERMARKET|SUPERMARKET|MARKET|STORE|SHOP|MALL))`),
		spBroad(`(?i)^([A-Z \t]+(?:INC|CORP|LLC))`),
		sp(`(?i)^([A-Z \t]{3,}(?:HYPERMARKET|SUPERMARKET|MARKET|STORE))`),
	}},
}

// StoreKeyword maps case-sensitive keyword presence to a display name.
type StoreKeyword struct {
	Key      string
	Keywords []string
	Display  string
}

// StoreKeywords is the last-resort store detection, tried in order.
var StoreKeywords = []StoreKeyword{
	{Key: "sm", Keywords: []string{"SM", "HYPERMARKET", "SUPERMARKET"}, Display: "SM HYPERMARKET"},
	{Key: "mercury", Keywords: []string{"MERCURY", "DRUG", "SOUTHERN LUZON"}, Display: "MERCURY DRUG"},
	{Key: "robinsons", Keywords: []string{"ROBINSONS", "MALL", "ROBINSON'S"}, Display: "ROBINSONS SUPERMARKET"},
	{Key: "puregold", Keywords: []string{"PUREGOLD"}, Display: "PUREGOLD"},
	{Key: "savemore", Keywords: []string{"SAVEMORE"}, Display: "SAVEMORE"},
	{Key: "seven_eleven", Keywords: []string{"7-ELEVEN", "7ELEVEN", "SEVEN ELEVEN"}, Display: "7-ELEVEN"},
}

// StoreCategories groups canonical store names by retail category.
var StoreCategories = map[string][]string{
	"pharmacy":    {"MERCURY DRUG"},
	"hypermarket": {"SM HYPERMARKET", "ROBINSONS SUPERMARKET"},
	"supermarket": {"PUREGOLD", "SAVEMORE"},
	"convenience": {"7-ELEVEN"},
}

// StoreCategory returns the category of a canonical store name, if any.
func StoreCategory(name string) (string, bool) {
	for category, names := range StoreCategories {
		for _, n := range names {
			if n == name {
				return category, true
			}
		}
	}
	return "", false
}
