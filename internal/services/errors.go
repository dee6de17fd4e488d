package services

import "errors"

var (
	// ErrCatalogUnavailable means a reference catalog could not be loaded and no
	// earlier snapshot exists.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrProcessingUnavailable means neither the store nor the product catalog
	// could be loaded, so receipts cannot be processed right now.
	ErrProcessingUnavailable = errors.New("receipt processing unavailable")
	ErrOCRFailed             = errors.New("no OCR variant produced text")
	ErrUnsupportedImage      = errors.New("unsupported image type")
	ErrImageTooLarge         = errors.New("image too large")
	ErrDuplicateReceipt      = errors.New("duplicate receipt")
)
