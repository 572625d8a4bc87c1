package dto

import (
	"github.com/google/uuid"
)

// MidtransNotification: body HTTP notification Midtrans (field yang dipakai saja).
type MidtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	TransactionID     string `json:"transaction_id"`
}

type PayResult struct {
	BillingID   uuid.UUID `json:"billing_id"`
	OrderID     string    `json:"order_id"`
	Amount      int64     `json:"amount"`
	SnapToken   string    `json:"snap_token"`
	RedirectURL string    `json:"redirect_url"`
	Reused      bool      `json:"reused"`
}
