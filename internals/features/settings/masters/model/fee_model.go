package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeModel: tarif baku per jenis tagihan, opsional khusus prodi & tahun akademik.
type FeeModel struct {
	FeeID           uuid.UUID  `gorm:"column:fee_id;type:uuid;primaryKey" json:"fee_id"`
	FeeName         string     `gorm:"column:fee_name;size:150;not null" json:"fee_name"`
	FeeBillingType  string     `gorm:"column:fee_billing_type;size:20;not null;index" json:"fee_billing_type"`
	FeeProgramID    *uuid.UUID `gorm:"column:fee_program_id;type:uuid;index" json:"fee_program_id,omitempty"`
	FeeAcademicYear *string    `gorm:"column:fee_academic_year;size:9" json:"fee_academic_year,omitempty"`
	FeeAmount       int64      `gorm:"column:fee_amount;not null" json:"fee_amount"`
	FeeIsActive     bool       `gorm:"column:fee_is_active;not null" json:"fee_is_active"`
	FeeCreatedAt    time.Time  `gorm:"column:fee_created_at;autoCreateTime" json:"fee_created_at"`
	FeeUpdatedAt    time.Time  `gorm:"column:fee_updated_at;autoUpdateTime" json:"fee_updated_at"`
}

func (FeeModel) TableName() string { return "fees" }

func (m *FeeModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeID == uuid.Nil {
		m.FeeID = uuid.New()
	}
	return nil
}
