package patterns

import "regexp"

// Money and header scans run over the uncorrected OCR text.
var (
	TotalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:\bGRAND\s+TOTAL\b|\bTOTAL\b|\bAMOUNT\s+DUE\b).*?(\d[\d,]*\.?\d*)`),
		regexp.MustCompile(`(?i)₱\s*(\d[\d,]*\.?\d*)`),
		regexp.MustCompile(`(?i)PHP\s*(\d[\d,]*\.?\d*)`),
	}
	SubtotalPattern = regexp.MustCompile(`(?i)\bSUB\s*TOTAL\b.*?(\d[\d,]*\.?\d*)`)
	VATPattern      = regexp.MustCompile(`(?i)\bVAT\b.*?(\d[\d,]*\.\d{2})`)

	DatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`(\d{2}-\d{2}-\d{4})`),
	}

	ReceiptNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:\bRECEIPT\b|\bNO\b\.?|#)[ \t]*[:#-]*[ \t]*(\w*\d\w*)`),
		regexp.MustCompile(`(?i)(?:\bSN\b|\bSERIAL\b)[ \t]*[:#-]*[ \t]*(\w*\d\w*)`),
		regexp.MustCompile(`(?i)(?:\bPTU\b|\bTIN\b)[ \t]*[:#-]*[ \t]*(\w*\d\w*)`),
	}

	CashierPattern = regexp.MustCompile(`(?i)\bCASHIER\b[ \t]*[:#-]?[ \t]*([A-Za-z][A-Za-z .]*[A-Za-z])`)
)

// PaymentMethods maps a tender keyword to its reported method, in scan order.
var PaymentMethods = []struct {
	Expr   *regexp.Regexp
	Method string
}{
	{regexp.MustCompile(`(?i)\bG-?CASH\b`), "gcash"},
	{regexp.MustCompile(`(?i)\bMAYA\b|\bPAYMAYA\b`), "maya"},
	{regexp.MustCompile(`(?i)\b(?:CREDIT|DEBIT)\s+CARD\b|\bVISA\b|\bMASTERCARD\b`), "card"},
	{regexp.MustCompile(`(?i)\bCASH\b`), "cash"},
}

// DefaultCurrency is reported on every extraction.
const DefaultCurrency = "PHP"
