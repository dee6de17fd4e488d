package models

import (
	"time"
)

// TransactionAction is the kind of ledger movement
type TransactionAction string

const (
	ActionPurchase TransactionAction = "purchase"
	ActionEarned   TransactionAction = "earned"
	ActionRedeemed TransactionAction = "redeemed"
	ActionExpired  TransactionAction = "expired"
)

// TransactionSource records what caused a ledger movement
type TransactionSource string

const (
	SourceSystem   TransactionSource = "system"
	SourceEvent    TransactionSource = "event"
	SourceActivity TransactionSource = "activity"
	SourceReceipt  TransactionSource = "receipt"
	SourceProduct  TransactionSource = "product"
	SourceVoucher  TransactionSource = "voucher"
	SourceReward   TransactionSource = "reward"
)

// Transaction is an append-only points ledger entry.
// An earned transaction linked to a receipt means that receipt was paid out.
type Transaction struct {
	ID             int               `json:"id"`
	UserID         int               `json:"user_id"`
	ReceiptID      *int              `json:"receipt_id,omitempty"`
	StoreID        *int              `json:"store_id,omitempty"`
	PurchaseAmount float64           `json:"purchase_amount"`
	Points         int               `json:"points"`
	Action         TransactionAction `json:"action"`
	Source         TransactionSource `json:"source"`
	CreatedAt      time.Time         `json:"created_at"`
}

// RedeemRequest is the request body for spending points
type RedeemRequest struct {
	Points int               `json:"points"`
	Source TransactionSource `json:"source"`
}

// TransactionListParams contains parameters for listing a user's ledger
type TransactionListParams struct {
	Limit  int
	Offset int
	UserID int
	Action *TransactionAction
}
