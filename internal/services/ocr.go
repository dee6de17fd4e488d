//go:build !windows

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// OCRService handles optical character recognition
type OCRService struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// NewOCRService creates a new OCR service
func NewOCRService(language string) (*OCRService, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Configure for receipt scanning
	// PSM 6 = Assume a single uniform block of text
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	return &OCRService{
		client: client,
	}, nil
}

// Recognize preprocesses the image for the variant and runs Tesseract on it.
// Confidence is the mean word confidence.
func (s *OCRService) Recognize(ctx context.Context, image []byte, variant OCRVariant) (*OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	prepared, err := Preprocess(image, variant)
	if err != nil {
		return nil, err
	}

	// The Tesseract handle is not safe for concurrent use.
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.SetImageFromBytes(prepared); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := s.client.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	confidence := 0.0
	boxes, err := s.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err == nil && len(boxes) > 0 {
		for _, b := range boxes {
			confidence += b.Confidence
		}
		confidence /= float64(len(boxes))
	}

	return &OCRResult{
		Text:       text,
		Confidence: confidence,
		Timing:     time.Since(start),
		Variant:    variant,
	}, nil
}

// Close releases OCR resources
func (s *OCRService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
