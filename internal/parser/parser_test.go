package parser

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/receipt-rewards/internal/models"
)

const mercuryReceipt = "Mercury Drug\nBEAR B FORT24000\n  347.00\nTOTAL 347.00"

func TestCorrect(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty input", in: "", want: ""},
		{name: "word fix", in: "cast 100.00", want: "CASH 100.00"},
		{name: "non-global rule rewrites first match only", in: "cast cast", want: "CASH cast"},
		{name: "global rule rewrites every match", in: "mercury drug / Mercury Drug", want: "MERCURY DRUG / MERCURY DRUG"},
		{name: "product rules chain", in: "BEAR BIECRTEA0 120.00", want: "BEAR BRAND FORT840g 120.00"},
		{name: "store misread", in: "SM HVPERMARKET", want: "SM HYPERMARKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Correct(tt.in))
		})
	}
}

func TestCorrect_Idempotent(t *testing.T) {
	p := NewReceiptParser()

	fixtures := []string{
		mercuryReceipt,
		"SAVEMORE MARKET\nBREAD 45.00\nTOTAL 45.00",
		"SM HVPERMARKET\nCOKE 1.5l 65.00\nTOTAL 65.00",
	}

	for _, raw := range fixtures {
		once := p.Correct(raw)
		assert.Equal(t, once, p.Correct(once), "fixture %q", raw)
	}
}

func TestExtract_MercuryDrugReceipt(t *testing.T) {
	p := NewReceiptParser()

	result := p.Extract(mercuryReceipt)

	assert.Contains(t, result.CorrectedText, "MERCURY DRUG")
	assert.Contains(t, result.CorrectedText, "BEAR BRAND FORT2400g")
	assert.Equal(t, "MERCURY DRUG", result.StoreName)

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	assert.Equal(t, "BEAR BRAND FORT2400g", item.Name)
	assert.Equal(t, "Bear Brand Fortified", item.SpecificProduct)
	assert.InDelta(t, 347.00, item.TotalPrice, 0.001)
	assert.InDelta(t, 347.00, item.UnitPrice, 0.001)
	assert.Equal(t, 1.0, item.Quantity)

	assert.InDelta(t, 347.00, result.Totals.Total, 0.001)
	assert.InDelta(t, 347.00, result.Totals.Subtotal, 0.001)
	assert.Equal(t, "PHP", result.Totals.Currency)
	assert.Equal(t, mercuryReceipt, result.RawText)
}

func TestExtractItems_TotalLineNeverAnItem(t *testing.T) {
	p := NewReceiptParser()

	result := p.Extract("MILO 200g 45.00\nTOTAL 500.00")

	require.Len(t, result.Items, 1)
	assert.True(t, strings.EqualFold("MILO 200g", result.Items[0].Name))
	for _, item := range result.Items {
		assert.NotContains(t, strings.ToLower(item.Name), "total")
	}
	assert.InDelta(t, 500.00, result.Totals.Total, 0.001)
}

func TestExtractItems_Shapes(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name      string
		line      string
		wantName  string
		wantQty   float64
		wantUnit  float64
		wantTotal float64
		wantShape string
	}{
		{
			name: "quantity with at-sign unit price", line: "2 COFFEE MATE @45.50",
			wantName: "COFFEE MATE", wantQty: 2, wantUnit: 45.50, wantTotal: 91.00, wantShape: "qty-name-at-unit",
		},
		{
			name: "unit and total infer quantity", line: "SOAP BAR @25.00 75.00",
			wantName: "SOAP BAR", wantQty: 3, wantUnit: 25.00, wantTotal: 75.00, wantShape: "name-at-unit-total",
		},
		{
			name: "embedded size with tax marker", line: "SUGO PNT GRA100g 45.00T",
			wantName: "SUGO PNT GRA100g", wantQty: 1, wantUnit: 45.00, wantTotal: 45.00, wantShape: "embedded-size-price",
		},
		{
			name: "quantity prefix", line: "2 MILO 200g 90.00",
			wantName: "MILO 200g", wantQty: 2, wantUnit: 45.00, wantTotal: 90.00, wantShape: "qty-name-price",
		},
		{
			name: "thousands separator", line: "RICE SACK 1,250.00",
			wantName: "RICE SACK", wantQty: 1, wantUnit: 1250.00, wantTotal: 1250.00, wantShape: "name-price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, voided := p.ExtractItems(tt.line)
			assert.Empty(t, voided)
			require.Len(t, items, 1)

			item := items[0]
			assert.Equal(t, tt.wantName, item.Name)
			assert.Equal(t, tt.wantShape, item.SourcePattern)
			assert.InDelta(t, tt.wantQty, item.Quantity, 0.0001)
			assert.InDelta(t, tt.wantUnit, item.UnitPrice, 0.0001)
			assert.InDelta(t, tt.wantTotal, item.TotalPrice, 0.0001)
		})
	}
}

func TestExtractItems_PricedItemsAgree(t *testing.T) {
	p := NewReceiptParser()

	text := strings.Join([]string{
		"2 COFFEE MATE @45.50",
		"SOAP BAR @25.00 75.00",
		"1.5 CHICKEN BREAST @180.00",
		"3 PANCIT CANTON 45.00",
		"SUGO PNT GRA100g 45.00T",
		"DOVE SOAP 52.75",
	}, "\n")

	items, _ := p.ExtractItems(text)
	require.NotEmpty(t, items)
	for _, item := range items {
		if !item.HasPrice() {
			continue
		}
		assert.Less(t, math.Abs(item.Quantity*item.UnitPrice-item.TotalPrice), 0.01, item.Name)
	}
}

func TestExtractItems_VoidedLine(t *testing.T) {
	p := NewReceiptParser()

	items, voided := p.ExtractItems("LICEAL S SC -16.50V")

	assert.Empty(t, items)
	require.Len(t, voided, 1)
	assert.Equal(t, "LICEAL S SC", voided[0].Name)
	assert.InDelta(t, 16.50, voided[0].TotalPrice, 0.0001)
}

func TestExtractItems_SpecificProductWithoutPrice(t *testing.T) {
	p := NewReceiptParser()

	items, _ := p.ExtractItems("NESCAFE GOLD 2g")

	require.Len(t, items, 1)
	assert.Equal(t, "Nescafe Gold", items[0].Name)
	assert.Equal(t, "Nescafe Gold", items[0].SpecificProduct)
	assert.Zero(t, items[0].TotalPrice)
	assert.Zero(t, items[0].UnitPrice)
}

func TestExtractItems_RejectsUnpricedUnknownLine(t *testing.T) {
	p := NewReceiptParser()

	items, _ := p.ExtractItems("THANK YOU COME AGAIN")

	assert.Empty(t, items)
}

func TestIsLikelyProduct(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		line string
		want bool
	}{
		{"MILO 200g 45.00", true},
		{"TOTAL 500.00", false},
		{"CASH 1000.00", false},
		{"347.00", false},
		{"₱1,250.00", false},
		{"x", false},
		{"-- 12 --", false},
		{"MERCURY DRUG", false},
		{"BEAR B FORT2400g wo", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsLikelyProduct(tt.line))
		})
	}
}

func TestDetectStoreName(t *testing.T) {
	p := NewReceiptParser()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "pharmacy stays on its line", text: "MERCURY DRUG\nBEAR BRAND FORT2400g", want: "MERCURY DRUG"},
		{name: "savemore market", text: "SAVEMORE MARKET\nBREAD 45.00", want: "SAVEMORE MARKET"},
		{name: "sm hypermarket", text: "SM HYPERMARKET\nCOKE 1.5l 65.00", want: "SM HYPERMARKET"},
		{name: "generic header", text: "JOLLY FOODS STORE\nITEM 1.00", want: "JOLLY FOODS STORE"},
		{name: "keyword fallback", text: "ROBINSON'S\nBREAD 45.00", want: "ROBINSONS SUPERMARKET"},
		{name: "nothing recognisable", text: "thank you\n123", want: models.UnknownStore},
		{name: "empty", text: "", want: models.UnknownStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.DetectStoreName(tt.text))
		})
	}
}

func TestScanTotalsAndMetadata(t *testing.T) {
	raw := strings.Join([]string{
		"PUREGOLD",
		"DATE: 2024-03-15",
		"RECEIPT #: 000123",
		"CASHIER: ANNA",
		"SUBTOTAL 300.00",
		"VAT 32.14",
		"TOTAL 347.00",
		"CASH 500.00",
	}, "\n")

	totals := ScanTotals(raw)
	assert.InDelta(t, 347.00, totals.Total, 0.001)
	assert.InDelta(t, 300.00, totals.Subtotal, 0.001)
	assert.InDelta(t, 32.14, totals.Tax, 0.001)

	md := ScanMetadata(raw)
	assert.Equal(t, "2024-03-15", md.ReceiptDate)
	assert.Equal(t, "000123", md.ReceiptNumber)
	assert.Equal(t, "ANNA", md.Cashier)
	assert.Equal(t, "cash", md.PaymentMethod)

	d, err := md.Date()
	require.NoError(t, err)
	assert.Equal(t, 15, d.Day())
}

func TestReceiptMetadata_Date(t *testing.T) {
	_, err := models.ReceiptMetadata{}.Date()
	assert.ErrorIs(t, err, models.ErrNoReceiptDate)

	d, err := models.ReceiptMetadata{ReceiptDate: "03/15/2024"}.Date()
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = models.ReceiptMetadata{ReceiptDate: "13/45/2024"}.Date()
	assert.Error(t, err)
}

func TestValidateItem(t *testing.T) {
	assert.NoError(t, ValidateItem(models.ExtractedItem{Name: "MILO 200g", TotalPrice: 45}))
	assert.NoError(t, ValidateItem(models.ExtractedItem{Name: "Nescafe Gold"}))
	assert.ErrorIs(t, ValidateItem(models.ExtractedItem{Name: "AB", TotalPrice: 5}), ErrItemNameLength)
	assert.ErrorIs(t, ValidateItem(models.ExtractedItem{Name: "GOLD BAR", TotalPrice: 25000}), ErrItemPrice)
	assert.ErrorIs(t, ValidateItem(models.ExtractedItem{Name: "M&M'S", TotalPrice: 5}), ErrItemNameChars)
}

func TestStrategyScore(t *testing.T) {
	assert.Zero(t, StrategyScore("", 0))
	assert.InDelta(t, 54.0, StrategyScore("MERCURY DRUG\nTOTAL 5.00", 50), 0.0001)
	assert.Equal(t, 100.0, StrategyScore("MERCURY DRUG\nBEAR BRAND 12.00\nTOTAL 12.00\nINVOICE 123456789012", 80))
}

func TestBestReading(t *testing.T) {
	weak := &models.ExtractionResult{Confidence: 90, StoreName: models.UnknownStore}
	strong := &models.ExtractionResult{
		Confidence: 80,
		StoreName:  "MERCURY DRUG",
		Items:      make([]models.ExtractedItem, 5),
	}

	assert.InDelta(t, 73.0, CompositeScore(strong), 0.0001)
	assert.InDelta(t, 54.0, CompositeScore(weak), 0.0001)
	assert.Same(t, strong, BestReading([]*models.ExtractionResult{weak, nil, strong}))
	assert.Nil(t, BestReading(nil))

	tie := &models.ExtractionResult{Confidence: 90, StoreName: models.UnknownStore}
	assert.Same(t, weak, BestReading([]*models.ExtractionResult{weak, tie}))
}

func TestBestReading_EqualCompositeUsesRawTextScore(t *testing.T) {
	sparse := &models.ExtractionResult{
		Confidence: 70,
		StoreName:  "MERCURY DRUG",
		Items:      make([]models.ExtractedItem, 2),
		RawText:    "MERCURY DRUG\nBEAR BRAND 12.00",
	}
	rich := &models.ExtractionResult{
		Confidence: 70,
		StoreName:  "MERCURY DRUG",
		Items:      make([]models.ExtractedItem, 2),
		RawText:    "MERCURY DRUG\nBEAR BRAND 12.00\nNIDO 99.00\nTOTAL 111.00\nINVOICE 000123",
	}

	require.InDelta(t, CompositeScore(sparse), CompositeScore(rich), 0.0001)
	assert.Greater(t, StrategyScore(rich.RawText, rich.Confidence), StrategyScore(sparse.RawText, sparse.Confidence))

	assert.Same(t, rich, BestReading([]*models.ExtractionResult{sparse, rich}))
	assert.Same(t, rich, BestReading([]*models.ExtractionResult{rich, sparse}))

	// A higher composite still wins over a richer raw text.
	better := &models.ExtractionResult{Confidence: 75, StoreName: "MERCURY DRUG", Items: make([]models.ExtractedItem, 2)}
	assert.Same(t, better, BestReading([]*models.ExtractionResult{rich, better}))
}
