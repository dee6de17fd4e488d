package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foxxcyber/receipt-rewards/internal/duplicate"
	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/parser"
)

// ExtractionSource turns an image into a parsed receipt reading.
type ExtractionSource interface {
	Read(ctx context.Context, image []byte) (*models.ExtractionResult, error)
}

// DuplicateChecker decides whether an upload repeats a paid-out purchase.
type DuplicateChecker interface {
	Check(ctx context.Context, userID int, r *models.ExtractionResult, imageHash string) duplicate.Verdict
}

// CatalogSource returns the current snapshot of a reference catalog.
type CatalogSource[T any] interface {
	Get(ctx context.Context) ([]T, error)
}

// ImageStore keeps receipt images.
type ImageStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ReceiptCommitter writes a receipt, its items, the optional earned transaction
// and the user's new balance as one unit, and returns that balance.
type ReceiptCommitter interface {
	CommitReceipt(ctx context.Context, receipt *models.Receipt, items []models.ReceiptItem, earned *models.Transaction) (int, error)
}

// DuplicateReceiptError carries the verdict that blocked an upload.
type DuplicateReceiptError struct {
	Verdict duplicate.Verdict
}

func (e *DuplicateReceiptError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicateReceipt, e.Verdict.Reason)
}

func (e *DuplicateReceiptError) Is(target error) bool {
	return target == ErrDuplicateReceipt
}

// Upload is one receipt image submitted by a user.
type Upload struct {
	UserID      int
	Image       []byte
	ContentType string
}

// Ingestor runs the receipt upload workflow: read, deduplicate, resolve,
// award points and commit.
type Ingestor struct {
	reader         ExtractionSource
	parser         *parser.ReceiptParser
	duplicates     DuplicateChecker
	stores         CatalogSource[models.Store]
	products       CatalogSource[models.Product]
	storeResolver  *matching.Resolver[models.Store]
	matcher        *ItemMatcher
	images         ImageStore
	ledger         ReceiptCommitter
	maxImageSize   int64
	skipDuplicates bool
	now            func() time.Time
}

// IngestorDeps groups the collaborators of an Ingestor. Images may be nil when
// object storage is not configured; a zero MaxImageSize disables the size check.
type IngestorDeps struct {
	Reader       ExtractionSource
	Parser       *parser.ReceiptParser
	Duplicates   DuplicateChecker
	Stores       CatalogSource[models.Store]
	Products     CatalogSource[models.Product]
	Images       ImageStore
	Ledger       ReceiptCommitter
	MaxImageSize int64
}

// NewIngestor creates a new ingest workflow
func NewIngestor(deps IngestorDeps, disableDuplicateDetection bool) *Ingestor {
	return &Ingestor{
		reader:         deps.Reader,
		parser:         deps.Parser,
		duplicates:     deps.Duplicates,
		stores:         deps.Stores,
		products:       deps.Products,
		storeResolver:  matching.StoreResolver(),
		matcher:        NewItemMatcher(deps.Parser),
		images:         deps.Images,
		ledger:         deps.Ledger,
		maxImageSize:   deps.MaxImageSize,
		skipDuplicates: disableDuplicateDetection,
		now:            time.Now,
	}
}

// Ingest processes one upload. A duplicate of a paid-out receipt is rejected
// with a *DuplicateReceiptError before anything is stored.
func (i *Ingestor) Ingest(ctx context.Context, up Upload) (*models.UploadResult, error) {
	ext, ok := ImageExtension(up.ContentType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, up.ContentType)
	}
	if i.maxImageSize > 0 && int64(len(up.Image)) > i.maxImageSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrImageTooLarge, len(up.Image))
	}
	now := i.now()
	imageHash := duplicate.ImageHash(up.Image)

	extraction, err := i.reader.Read(ctx, up.Image)
	if err != nil {
		return nil, err
	}

	if !i.skipDuplicates {
		verdict := i.duplicates.Check(ctx, up.UserID, extraction, imageHash)
		if verdict.IsDuplicate {
			return nil, &DuplicateReceiptError{Verdict: verdict}
		}
	}

	stores, storeErr := i.stores.Get(ctx)
	products, productErr := i.products.Get(ctx)
	if storeErr != nil && productErr != nil {
		return nil, fmt.Errorf("%w: stores: %v; products: %v", ErrProcessingUnavailable, storeErr, productErr)
	}
	if storeErr != nil {
		log.Printf("Warning: store catalog unavailable, receipt will be flagged: %v", storeErr)
	}
	if productErr != nil {
		log.Printf("Warning: product catalog unavailable, no items will match: %v", productErr)
	}

	var storeMatch *matching.Match[models.Store]
	if extraction.StoreKnown() {
		storeMatch = i.storeResolver.Resolve(extraction.StoreName, stores)
	}
	storeMatched := storeMatch != nil && storeMatch.Tier.Accepted()
	storeFallback := storeMatch != nil && storeMatch.Fallback

	items, validAmount, points := i.scoreItems(extraction.Items, products, storeMatched, now)

	receipt := &models.Receipt{
		ReferenceID:  uuid.New().String(),
		UserID:       up.UserID,
		StoreName:    extraction.StoreName,
		TotalAmount:  extraction.Totals.Total,
		ValidAmount:  validAmount,
		PurchaseDate: now,
		Status:       models.ReceiptStatusValid,
		Fingerprint:  duplicate.Fingerprint(extraction),
		ImageHash:    &imageHash,
		OCRData: &models.OCRData{
			Text:             extraction.RawText,
			CorrectedText:    extraction.CorrectedText,
			Confidence:       extraction.Confidence,
			ProcessingTimeMS: extraction.ProcessingTimeMS,
			Variant:          extraction.Variant,
			Totals:           extraction.Totals,
			Metadata:         extraction.Metadata,
		},
	}
	if d, err := extraction.Metadata.Date(); err == nil {
		receipt.PurchaseDate = d
	}
	if n := extraction.Metadata.ReceiptNumber; n != "" {
		receipt.ReceiptNumber = &n
	}

	switch {
	case len(extraction.Items) == 0 && extraction.Totals.Total == 0:
		reason := models.ReasonNoItemsFound
		receipt.Status, receipt.Reason = models.ReceiptStatusInvalid, &reason
	case storeFallback:
		reason := models.ReasonStoreNeedsReview
		receipt.StoreID = &storeMatch.Entity.ID
		receipt.Status, receipt.Reason = models.ReceiptStatusFlagged, &reason
	case !storeMatched:
		reason := models.ReasonStoreNotFound
		receipt.Status, receipt.Reason = models.ReceiptStatusFlagged, &reason
	default:
		receipt.StoreID = &storeMatch.Entity.ID
	}

	var earned *models.Transaction
	if receipt.Status == models.ReceiptStatusValid && points > 0 {
		earned = &models.Transaction{
			UserID:         up.UserID,
			StoreID:        receipt.StoreID,
			PurchaseAmount: validAmount,
			Points:         points,
			Action:         models.ActionEarned,
			Source:         models.SourceReceipt,
		}
	}

	if i.images != nil {
		key := ReceiptImageKey(up.UserID, now, ext)
		obj, err := i.images.Upload(ctx, key, up.Image, up.ContentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store receipt image: %w", err)
		}
		receipt.S3Bucket, receipt.S3Key = obj.Bucket, obj.Key
	}

	balance, err := i.ledger.CommitReceipt(ctx, receipt, items, earned)
	if err != nil {
		if receipt.S3Key != "" {
			if delErr := i.images.Delete(ctx, receipt.S3Key); delErr != nil {
				log.Printf("Warning: Failed to clean up S3 object %s after commit failure: %v", receipt.S3Key, delErr)
			}
		}
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	result := &models.UploadResult{
		Receipt:      receipt,
		Items:        items,
		Extraction:   *extraction,
		StoreMatched: storeMatched,
		Balance:      balance,
	}
	if storeMatch != nil {
		result.StoreScore = &storeMatch.Score
		if storeMatched || storeFallback {
			result.MatchedStore = &storeMatch.Entity
		}
	}
	if earned != nil {
		result.PointsEarned = earned.Points
		result.TransactionID = &earned.ID
	}
	if receipt.S3Key != "" {
		if url, err := i.images.GetPresignedURL(ctx, receipt.S3Key, time.Hour); err == nil {
			result.ImageURL = &url
		}
	}
	return result, nil
}

// scoreItems matches items to products and computes their points. Points are
// only given when the store matched, the product match is not low tier, the
// product still earns and the line passes validation.
func (i *Ingestor) scoreItems(extracted []models.ExtractedItem, products []models.Product, storeMatched bool, now time.Time) ([]models.ReceiptItem, float64, int) {
	matched := i.matcher.MatchReceiptItems(extracted, products)

	items := make([]models.ReceiptItem, 0, len(matched))
	valid := decimal.Zero
	total := 0

	for _, m := range matched {
		item := models.ReceiptItem{
			Name:          m.Item.Name,
			Quantity:      m.Item.Quantity,
			UnitPrice:     m.Item.UnitPrice,
			TotalPrice:    m.Item.TotalPrice,
			SourcePattern: m.Item.SourcePattern,
			LineNumber:    m.Item.Line,
		}

		if best := m.BestMatch; best != nil && best.Tier.Accepted() {
			product := best.Entity
			score, quality := best.Score, string(best.Tier)
			item.ProductID = &product.ID
			item.ProductName = &product.Name
			item.Matched = true
			item.MatchScore = &score
			item.MatchQuality = &quality
			valid = valid.Add(decimal.NewFromFloat(m.Item.TotalPrice))

			if storeMatched && product.Earns(now) && parser.ValidateItem(m.Item) == nil {
				item.Points = int(decimal.NewFromInt(int64(product.Points)).
					Mul(decimal.NewFromFloat(m.Item.Quantity)).
					Floor().IntPart())
				total += item.Points
			}
		}

		items = append(items, item)
	}

	amount, _ := valid.Round(2).Float64()
	return items, amount, total
}
