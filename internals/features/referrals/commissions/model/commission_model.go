package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- ENUM status komisi ------------------------------------------------------
const (
	CommissionPending  = "pending"
	CommissionApproved = "approved"
	CommissionPaid     = "paid"
)

var CommissionStatuses = []string{CommissionPending, CommissionApproved, CommissionPaid}

var commissionStatusLabels = map[string]string{
	CommissionPending:  "Menunggu Approval",
	CommissionApproved: "Disetujui",
	CommissionPaid:     "Dibayar",
}

func CommissionStatusLabel(s string) string {
	if l, ok := commissionStatusLabels[s]; ok {
		return l
	}
	return s
}

func IsValidCommissionStatus(s string) bool {
	_, ok := commissionStatusLabels[s]
	return ok
}

// Asal nominal komisi
const (
	SourceOverride     = "override"
	SourceMGM          = "mgm"
	SourceRewardConfig = "reward_config"
)

// CommissionModel: hutang komisi ke referrer. Unik per (referrer, kandidat, trigger).
type CommissionModel struct {
	CommissionID           uuid.UUID      `gorm:"column:commission_id;type:uuid;primaryKey" json:"commission_id"`
	CommissionReferrerID   uuid.UUID      `gorm:"column:commission_referrer_id;type:uuid;not null;uniqueIndex:uq_commissions_key,priority:1" json:"commission_referrer_id"`
	CommissionCandidateID  uuid.UUID      `gorm:"column:commission_candidate_id;type:uuid;not null;uniqueIndex:uq_commissions_key,priority:2;index" json:"commission_candidate_id"`
	CommissionTriggerEvent string         `gorm:"column:commission_trigger_event;size:20;not null;uniqueIndex:uq_commissions_key,priority:3" json:"commission_trigger_event"`
	CommissionAmount       int64          `gorm:"column:commission_amount;not null" json:"commission_amount"`
	CommissionStatus       string         `gorm:"column:commission_status;size:20;not null;index" json:"commission_status"`
	CommissionSource       string         `gorm:"column:commission_source;size:20;not null" json:"commission_source"` // override | mgm | reward_config
	CommissionSnapshot     datatypes.JSON `gorm:"column:commission_snapshot" json:"commission_snapshot,omitempty"`
	CommissionApprovedBy   *uuid.UUID     `gorm:"column:commission_approved_by;type:uuid" json:"commission_approved_by,omitempty"`
	CommissionApprovedAt   *time.Time     `gorm:"column:commission_approved_at" json:"commission_approved_at,omitempty"`
	CommissionPaidBy       *uuid.UUID     `gorm:"column:commission_paid_by;type:uuid" json:"commission_paid_by,omitempty"`
	CommissionPaidAt       *time.Time     `gorm:"column:commission_paid_at" json:"commission_paid_at,omitempty"`
	CommissionCreatedAt    time.Time      `gorm:"column:commission_created_at;autoCreateTime" json:"commission_created_at"`
	CommissionUpdatedAt    time.Time      `gorm:"column:commission_updated_at;autoUpdateTime" json:"commission_updated_at"`
}

func (CommissionModel) TableName() string { return "commissions" }

func (m *CommissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.CommissionID == uuid.Nil {
		m.CommissionID = uuid.New()
	}
	if m.CommissionStatus == "" {
		m.CommissionStatus = CommissionPending
	}
	return nil
}
