package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

const (
	PaymentMethodGateway = "gateway"
	PaymentMethodCash    = "cash"
)

const GatewayProviderMidtrans = "midtrans"

// PaymentModel: satu percobaan bayar via gateway (order_id unik ke Midtrans).
type PaymentModel struct {
	PaymentID          uuid.UUID     `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentBillingID   uuid.UUID     `gorm:"column:payment_billing_id;type:uuid;not null;index" json:"payment_billing_id"`
	PaymentCandidateID uuid.UUID     `gorm:"column:payment_candidate_id;type:uuid;not null;index" json:"payment_candidate_id"`
	PaymentOrderID     string        `gorm:"column:payment_order_id;size:64;not null;uniqueIndex:uq_payments_order_id" json:"payment_order_id"`
	PaymentProvider    string        `gorm:"column:payment_provider;size:20;not null" json:"payment_provider"`
	PaymentAmount      int64         `gorm:"column:payment_amount;not null" json:"payment_amount"`
	PaymentStatus      PaymentStatus `gorm:"column:payment_status;size:20;not null" json:"payment_status"`
	PaymentSnapToken   *string       `gorm:"column:payment_snap_token;type:text" json:"payment_snap_token,omitempty"`
	PaymentRedirectURL *string       `gorm:"column:payment_redirect_url;type:text" json:"payment_redirect_url,omitempty"`
	PaymentPaidAt      *time.Time    `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`
	PaymentCreatedAt   time.Time     `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt   time.Time     `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (PaymentModel) TableName() string { return "payments" }

func (m *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	return nil
}

// PaymentGatewayEventModel: raw webhook yang diterima (audit + idempotensi).
type PaymentGatewayEventModel struct {
	GatewayEventID        uuid.UUID      `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`
	GatewayEventProvider  string         `gorm:"column:gateway_event_provider;size:20;not null" json:"gateway_event_provider"`
	GatewayEventOrderID   string         `gorm:"column:gateway_event_order_id;size:64;not null;index" json:"gateway_event_order_id"`
	GatewayEventStatus    string         `gorm:"column:gateway_event_status;size:30;not null" json:"gateway_event_status"`
	GatewayEventSignature *string        `gorm:"column:gateway_event_signature;type:text" json:"gateway_event_signature,omitempty"`
	GatewayEventVerified  bool           `gorm:"column:gateway_event_verified;not null" json:"gateway_event_verified"`
	GatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload" json:"gateway_event_payload"`
	GatewayEventCreatedAt time.Time      `gorm:"column:gateway_event_created_at;autoCreateTime" json:"gateway_event_created_at"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }

func (m *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	return nil
}
