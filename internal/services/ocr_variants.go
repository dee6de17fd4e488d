package services

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/disintegration/imaging"
)

// OCRVariant names an image preprocessing pass run before recognition.
type OCRVariant string

const (
	VariantMinimal      OCRVariant = "minimal"
	VariantEnhanced     OCRVariant = "enhanced"
	VariantHighContrast OCRVariant = "high-contrast"
	VariantSharpFocus   OCRVariant = "sharp-focus"
)

// DefaultVariants is the order variants are tried in when none are configured.
var DefaultVariants = []OCRVariant{VariantMinimal, VariantEnhanced, VariantHighContrast, VariantSharpFocus}

// OCRResult contains the OCR processing result
type OCRResult struct {
	Text       string
	Confidence float64 // 0-100
	Timing     time.Duration
	Variant    OCRVariant
}

// ParseVariants converts configured names to variants, skipping unknown ones.
func ParseVariants(names []string) []OCRVariant {
	var out []OCRVariant
	for _, n := range names {
		switch v := OCRVariant(n); v {
		case VariantMinimal, VariantEnhanced, VariantHighContrast, VariantSharpFocus:
			out = append(out, v)
		default:
			log.Printf("Warning: unknown OCR variant %q ignored", n)
		}
	}
	if len(out) == 0 {
		return DefaultVariants
	}
	return out
}

// Preprocess prepares image bytes for the given variant. The minimal variant
// returns the input untouched; the others return a PNG.
func Preprocess(data []byte, variant OCRVariant) ([]byte, error) {
	if variant == VariantMinimal {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var out image.Image
	switch variant {
	case VariantEnhanced:
		out = imaging.Sharpen(imaging.AdjustContrast(imaging.Grayscale(img), 20), 1.0)
	case VariantHighContrast:
		out = imaging.AdjustBrightness(imaging.AdjustContrast(imaging.Grayscale(img), 40), 10)
	case VariantSharpFocus:
		out = imaging.AdjustContrast(imaging.Sharpen(imaging.Grayscale(img), 1.2), 10)
	default:
		return nil, fmt.Errorf("unknown OCR variant %q", variant)
	}

	// Small captures are upscaled so Tesseract sees legible glyphs.
	if out.Bounds().Dy() < 800 {
		out = imaging.Resize(out, 0, 1200, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
