package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/receipt-rewards/internal/config"
	"github.com/foxxcyber/receipt-rewards/internal/duplicate"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/services"
)

type fakeIngestor struct {
	result *models.UploadResult
	err    error
	got    *services.Upload
}

func (f *fakeIngestor) Ingest(_ context.Context, up services.Upload) (*models.UploadResult, error) {
	f.got = &up
	return f.result, f.err
}

func newUploadApp(ing ReceiptIngestor) *fiber.App {
	h := NewReceiptHandler(nil, &config.Config{MaxUploadSize: 1024}, nil, ing)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/receipts", func(c *fiber.Ctx) error {
		c.Locals("user_id", 7)
		return c.Next()
	}, h.UploadReceipt)
	return app
}

func uploadRequest(t *testing.T, contentType string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="receipt.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/receipts", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) APIResponse {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out APIResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestUploadReceipt_Success(t *testing.T) {
	ing := &fakeIngestor{result: &models.UploadResult{PointsEarned: 10, Balance: 110}}
	app := newUploadApp(ing)

	resp, err := app.Test(uploadRequest(t, "image/jpeg", []byte("jpeg-bytes")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.True(t, body.Success)
	require.NotNil(t, ing.got)
	assert.Equal(t, 7, ing.got.UserID)
	assert.Equal(t, "image/jpeg", ing.got.ContentType)
	assert.Equal(t, []byte("jpeg-bytes"), ing.got.Image)
}

func TestUploadReceipt_RejectedBeforeIngest(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        int
	}{
		{"pdf", "application/pdf", []byte("%PDF"), http.StatusBadRequest},
		{"too large", "image/png", bytes.Repeat([]byte("x"), 2048), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing := &fakeIngestor{}
			app := newUploadApp(ing)

			resp, err := app.Test(uploadRequest(t, tt.contentType, tt.body))
			require.NoError(t, err)

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Nil(t, ing.got)
		})
	}
}

func TestUploadReceipt_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ocr", fmt.Errorf("%w: all variants failed", services.ErrOCRFailed), http.StatusUnprocessableEntity},
		{"catalogs down", services.ErrProcessingUnavailable, http.StatusServiceUnavailable},
		{"unsupported", services.ErrUnsupportedImage, http.StatusBadRequest},
		{"too large", services.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newUploadApp(&fakeIngestor{err: tt.err})

			resp, err := app.Test(uploadRequest(t, "image/jpeg", []byte("jpeg-bytes")))
			require.NoError(t, err)

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.False(t, decode(t, resp).Success)
		})
	}
}

func TestUploadReceipt_DuplicateReturnsVerdict(t *testing.T) {
	verdict := duplicate.Verdict{
		IsDuplicate:         true,
		Confidence:          0.95,
		Reason:              "Identical receipt content already processed and points earned",
		PointsAlreadyEarned: true,
		DetectionMethods:    []duplicate.Method{duplicate.MethodFingerprint},
	}
	app := newUploadApp(&fakeIngestor{err: &services.DuplicateReceiptError{Verdict: verdict}})

	resp, err := app.Test(uploadRequest(t, "image/jpeg", []byte("jpeg-bytes")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode(t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, verdict.Reason, body.Error)
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["is_duplicate"])
}

func TestUploadReceipt_MissingFile(t *testing.T) {
	app := newUploadApp(&fakeIngestor{})

	req := httptest.NewRequest(http.MethodPost, "/receipts", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
