package services

import (
	"context"
	"fmt"
	"log"

	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/parser"
)

// Recognizer runs OCR over an image with one preprocessing variant.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, variant OCRVariant) (*OCRResult, error)
}

// ReceiptReader runs every configured OCR variant over an image and keeps the
// parsed reading with the best composite score.
type ReceiptReader struct {
	ocr      Recognizer
	parser   *parser.ReceiptParser
	variants []OCRVariant
}

// NewReceiptReader creates a new receipt reader
func NewReceiptReader(ocr Recognizer, p *parser.ReceiptParser, variants []OCRVariant) *ReceiptReader {
	if len(variants) == 0 {
		variants = DefaultVariants
	}
	return &ReceiptReader{ocr: ocr, parser: p, variants: variants}
}

// Read returns the best extraction across variants. A failing variant is
// skipped; ErrOCRFailed is returned only when none produced text.
func (r *ReceiptReader) Read(ctx context.Context, image []byte) (*models.ExtractionResult, error) {
	var readings []*models.ExtractionResult

	for _, v := range r.variants {
		res, err := r.ocr.Recognize(ctx, image, v)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("Warning: OCR variant %s failed: %v", v, err)
			continue
		}
		if parser.StrategyScore(res.Text, res.Confidence) == 0 {
			continue
		}

		ext := r.parser.Extract(res.Text)
		ext.Confidence = res.Confidence
		ext.ProcessingTimeMS = res.Timing.Milliseconds()
		ext.Variant = string(res.Variant)
		readings = append(readings, ext)
	}

	best := parser.BestReading(readings)
	if best == nil {
		return nil, fmt.Errorf("%w (%d variants tried)", ErrOCRFailed, len(r.variants))
	}
	return best, nil
}
