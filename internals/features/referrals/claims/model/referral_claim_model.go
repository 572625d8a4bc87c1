package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- ENUM status klaim -------------------------------------------------------
const (
	ClaimUnverified = "unverified"
	ClaimLinked     = "linked"
	ClaimInvalid    = "invalid"
)

// ReferralClaimModel: klaim referral isian bebas dari kandidat, menunggu verifikasi admin.
type ReferralClaimModel struct {
	ReferralClaimID          uuid.UUID  `gorm:"column:referral_claim_id;type:uuid;primaryKey" json:"referral_claim_id"`
	ReferralClaimCandidateID uuid.UUID  `gorm:"column:referral_claim_candidate_id;type:uuid;not null;index" json:"referral_claim_candidate_id"`
	ReferralClaimSourceType  string     `gorm:"column:referral_claim_source_type;size:30;not null" json:"referral_claim_source_type"`
	ReferralClaimText        string     `gorm:"column:referral_claim_text;type:text;not null" json:"referral_claim_text"`
	ReferralClaimStatus      string     `gorm:"column:referral_claim_status;size:20;not null;index" json:"referral_claim_status"`
	ReferralClaimReferrerID  *uuid.UUID `gorm:"column:referral_claim_referrer_id;type:uuid" json:"referral_claim_referrer_id,omitempty"`
	ReferralClaimResolvedBy  *uuid.UUID `gorm:"column:referral_claim_resolved_by;type:uuid" json:"referral_claim_resolved_by,omitempty"`
	ReferralClaimResolvedAt  *time.Time `gorm:"column:referral_claim_resolved_at" json:"referral_claim_resolved_at,omitempty"`
	ReferralClaimCreatedAt   time.Time  `gorm:"column:referral_claim_created_at;autoCreateTime" json:"referral_claim_created_at"`
	ReferralClaimUpdatedAt   time.Time  `gorm:"column:referral_claim_updated_at;autoUpdateTime" json:"referral_claim_updated_at"`
}

func (ReferralClaimModel) TableName() string { return "referral_claims" }

func (m *ReferralClaimModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReferralClaimID == uuid.Nil {
		m.ReferralClaimID = uuid.New()
	}
	if m.ReferralClaimStatus == "" {
		m.ReferralClaimStatus = ClaimUnverified
	}
	return nil
}
