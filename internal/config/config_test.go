package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OCR_VARIANTS", "")
	t.Setenv("STORE_CACHE_TTL_MINUTES", "")
	t.Setenv("DISABLE_DUPLICATE_DETECTION", "")

	cfg := Load()

	assert.Equal(t, []string{"minimal", "enhanced", "high-contrast", "sharp-focus"}, cfg.OCRVariants)
	assert.Equal(t, 10*time.Minute, cfg.StoreCacheTTL)
	assert.False(t, cfg.DisableDuplicateDetection)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OCR_VARIANTS", " enhanced , ,sharp-focus")
	t.Setenv("PRODUCT_CACHE_TTL_MINUTES", "2")
	t.Setenv("DISABLE_DUPLICATE_DETECTION", "true")
	t.Setenv("MAX_UPLOAD_SIZE", "not-a-number")

	cfg := Load()

	assert.Equal(t, []string{"enhanced", "sharp-focus"}, cfg.OCRVariants)
	assert.Equal(t, 2*time.Minute, cfg.ProductCacheTTL)
	assert.True(t, cfg.DisableDuplicateDetection)
	assert.Equal(t, 10*1024*1024, cfg.MaxUploadSize)
}
