package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM billing ------------------------------------------------------------
const (
	BillingUnpaid    = "unpaid"
	BillingPending   = "pending"
	BillingPaid      = "paid"
	BillingCancelled = "cancelled"
)

var BillingStatuses = []string{BillingUnpaid, BillingPending, BillingPaid, BillingCancelled}

const (
	TypeRegistration = "registration"
	TypeTuition      = "tuition"
	TypeDormitory    = "dormitory"
	TypeUniform      = "uniform"
	TypeOther        = "other"
)

var BillingTypes = []string{TypeRegistration, TypeTuition, TypeDormitory, TypeUniform, TypeOther}

var billingTypeLabels = map[string]string{
	TypeRegistration: "Biaya Registrasi",
	TypeTuition:      "Biaya Kuliah",
	TypeDormitory:    "Biaya Asrama",
	TypeUniform:      "Biaya Seragam",
	TypeOther:        "Biaya Lainnya",
}

func BillingTypeLabel(t string) string {
	if l, ok := billingTypeLabels[t]; ok {
		return l
	}
	return t
}

var billingStatusLabels = map[string]string{
	BillingUnpaid:    "Belum Dibayar",
	BillingPending:   "Menunggu Pembayaran",
	BillingPaid:      "Lunas",
	BillingCancelled: "Dibatalkan",
}

func BillingStatusLabel(s string) string {
	if l, ok := billingStatusLabels[s]; ok {
		return l
	}
	return s
}

// BillingModel: tagihan per kandidat. Hanya status unpaid yang boleh diedit/dibatalkan.
type BillingModel struct {
	BillingID          uuid.UUID  `gorm:"column:billing_id;type:uuid;primaryKey" json:"billing_id"`
	BillingNumber      string     `gorm:"column:billing_number;size:40;not null;uniqueIndex:uq_billings_number" json:"billing_number"`
	BillingCandidateID uuid.UUID  `gorm:"column:billing_candidate_id;type:uuid;not null;index" json:"billing_candidate_id"`
	BillingType        string     `gorm:"column:billing_type;size:20;not null;index" json:"billing_type"`
	BillingAmount      int64      `gorm:"column:billing_amount;not null" json:"billing_amount"`
	BillingDueDate     *time.Time `gorm:"column:billing_due_date;type:date" json:"billing_due_date,omitempty"`
	BillingDescription *string    `gorm:"column:billing_description;type:text" json:"billing_description,omitempty"`
	BillingStatus      string     `gorm:"column:billing_status;size:20;not null;index" json:"billing_status"`

	BillingPaidAt        *time.Time `gorm:"column:billing_paid_at" json:"billing_paid_at,omitempty"`
	BillingPaymentMethod *string    `gorm:"column:billing_payment_method;size:20" json:"billing_payment_method,omitempty"`
	BillingCancelledAt   *time.Time `gorm:"column:billing_cancelled_at" json:"billing_cancelled_at,omitempty"`
	BillingCreatedBy     *uuid.UUID `gorm:"column:billing_created_by;type:uuid" json:"billing_created_by,omitempty"`

	BillingCreatedAt time.Time `gorm:"column:billing_created_at;autoCreateTime" json:"billing_created_at"`
	BillingUpdatedAt time.Time `gorm:"column:billing_updated_at;autoUpdateTime" json:"billing_updated_at"`
}

func (BillingModel) TableName() string { return "billings" }

func (m *BillingModel) BeforeCreate(tx *gorm.DB) error {
	if m.BillingID == uuid.Nil {
		m.BillingID = uuid.New()
	}
	if m.BillingStatus == "" {
		m.BillingStatus = BillingUnpaid
	}
	return nil
}

func (m *BillingModel) IsEditable() bool { return m.BillingStatus == BillingUnpaid }
