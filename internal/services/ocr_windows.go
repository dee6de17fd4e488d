//go:build windows

package services

import (
	"context"
	"errors"
)

// OCRService handles optical character recognition (stub for Windows)
type OCRService struct{}

// NewOCRService creates a new OCR service (not available on Windows)
func NewOCRService(language string) (*OCRService, error) {
	return nil, errors.New("OCR service is not available on Windows - run in Docker container")
}

// Recognize is not available on Windows
func (s *OCRService) Recognize(ctx context.Context, image []byte, variant OCRVariant) (*OCRResult, error) {
	return nil, errors.New("OCR service is not available on Windows")
}

// Close releases OCR resources
func (s *OCRService) Close() error {
	return nil
}
