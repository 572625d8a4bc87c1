package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM tipe referrer ------------------------------------------------------
const (
	TypeAlumni  = "alumni"
	TypeTeacher = "teacher"
	TypeStudent = "student"
	TypePartner = "partner"
	TypeStaff   = "staff"
)

var Types = []string{TypeAlumni, TypeTeacher, TypeStudent, TypePartner, TypeStaff}

var typeLabels = map[string]string{
	TypeAlumni:  "Alumni",
	TypeTeacher: "Guru",
	TypeStudent: "Mahasiswa",
	TypePartner: "Mitra",
	TypeStaff:   "Staf",
}

func TypeLabel(t string) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return t
}

// --- ENUM preferensi pembayaran ----------------------------------------------
const (
	PayoutBank = "bank"
	PayoutCash = "cash"
)

// ReferrerModel: pihak ketiga yang berhak atas komisi.
type ReferrerModel struct {
	ReferrerID          uuid.UUID `gorm:"column:referrer_id;type:uuid;primaryKey" json:"referrer_id"`
	ReferrerName        string    `gorm:"column:referrer_name;size:150;not null" json:"referrer_name"`
	ReferrerType        string    `gorm:"column:referrer_type;size:20;not null;index" json:"referrer_type"`
	ReferrerCode        *string   `gorm:"column:referrer_code;size:40;uniqueIndex:uq_referrers_code" json:"referrer_code,omitempty"`
	ReferrerPhone       *string   `gorm:"column:referrer_phone;size:30" json:"referrer_phone,omitempty"`
	ReferrerEmail       *string   `gorm:"column:referrer_email;size:255" json:"referrer_email,omitempty"`
	ReferrerInstitution *string   `gorm:"column:referrer_institution;size:200" json:"referrer_institution,omitempty"`

	ReferrerPayoutMethod      string  `gorm:"column:referrer_payout_method;size:10;not null" json:"referrer_payout_method"`
	ReferrerBankName          *string `gorm:"column:referrer_bank_name;size:100" json:"referrer_bank_name,omitempty"`
	ReferrerBankAccountNumber *string `gorm:"column:referrer_bank_account_number;size:50" json:"referrer_bank_account_number,omitempty"`
	ReferrerBankAccountName   *string `gorm:"column:referrer_bank_account_name;size:150" json:"referrer_bank_account_name,omitempty"`

	// override nominal komisi per trigger; nil → ikut reward config
	ReferrerCommissionAmount *int64 `gorm:"column:referrer_commission_amount" json:"referrer_commission_amount,omitempty"`

	ReferrerIsActive  bool           `gorm:"column:referrer_is_active;not null" json:"referrer_is_active"`
	ReferrerCreatedAt time.Time      `gorm:"column:referrer_created_at;autoCreateTime" json:"referrer_created_at"`
	ReferrerUpdatedAt time.Time      `gorm:"column:referrer_updated_at;autoUpdateTime" json:"referrer_updated_at"`
	ReferrerDeletedAt gorm.DeletedAt `gorm:"column:referrer_deleted_at;index" json:"-"`
}

func (ReferrerModel) TableName() string { return "referrers" }

func (m *ReferrerModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReferrerID == uuid.Nil {
		m.ReferrerID = uuid.New()
	}
	return nil
}
