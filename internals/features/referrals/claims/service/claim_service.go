package service

import (
	"errors"
	"strings"
	"time"

	database "pmb_backend/internals/databases"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/referrals/claims/dto"
	"pmb_backend/internals/features/referrals/claims/model"
	commissionService "pmb_backend/internals/features/referrals/commissions/service"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	referrerService "pmb_backend/internals/features/referrals/referrers/service"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrClaimResolved    = fiber.NewError(fiber.StatusConflict, "Klaim referral sudah diproses")
	ErrConfirmRequired  = fiber.NewError(fiber.StatusBadRequest, "Konfirmasi diperlukan untuk menandai klaim tidak valid")
	ErrReferrerInactive = fiber.NewError(fiber.StatusUnprocessableEntity, "Referrer tidak ditemukan atau nonaktif")
)

type ClaimService struct {
	DB          *gorm.DB
	Referrers   *referrerService.ReferrerService
	Commissions *commissionService.CommissionService
	Now         func() time.Time
}

func NewClaimService(db *gorm.DB) *ClaimService {
	return &ClaimService{
		DB:          db,
		Referrers:   referrerService.NewReferrerService(db),
		Commissions: commissionService.NewCommissionService(db),
		Now:         time.Now,
	}
}

// OpenForCandidate: dipanggil saat registrasi selesai. Sumber non-referral atau teks kosong → nil.
func OpenForCandidate(tx *gorm.DB, candidateID uuid.UUID, sourceType, text string) (*model.ReferralClaimModel, error) {
	text = strings.TrimSpace(text)
	if !candidateModel.IsReferralSource(sourceType) || text == "" {
		return nil, nil
	}
	row := &model.ReferralClaimModel{
		ReferralClaimCandidateID: candidateID,
		ReferralClaimSourceType:  sourceType,
		ReferralClaimText:        text,
		ReferralClaimStatus:      model.ClaimUnverified,
	}
	if err := tx.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

/* =========================================================
   QUEUE
========================================================= */

type ClaimRow struct {
	model.ReferralClaimModel
	CandidateName   string  `json:"candidate_name"`
	CandidateStatus string  `json:"candidate_status"`
	ConsultantName  *string `json:"consultant_name,omitempty"`
}

// Pending: hanya klaim unverified; klaim yang sudah di-link/invalid tidak pernah kembali.
func (s *ClaimService) Pending(sourceType string, p helper.Params) ([]ClaimRow, int64, error) {
	q := s.DB.Model(&model.ReferralClaimModel{}).Where("referral_claim_status = ?", model.ClaimUnverified)
	if sourceType != "" {
		q = q.Where("referral_claim_source_type = ?", sourceType)
	}
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"created_at": "referral_claim_created_at",
	}, "created_at")

	var claims []model.ReferralClaimModel
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&claims).Error; err != nil {
		return nil, 0, err
	}
	rows, err := s.hydrate(claims)
	return rows, total, err
}

func (s *ClaimService) hydrate(claims []model.ReferralClaimModel) ([]ClaimRow, error) {
	out := make([]ClaimRow, 0, len(claims))
	if len(claims) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(claims))
	for _, c := range claims {
		ids = append(ids, c.ReferralClaimCandidateID)
	}
	var cands []candidateModel.CandidateModel
	if err := s.DB.Select("candidate_id", "candidate_name", "candidate_status", "candidate_consultant_id").
		Where("candidate_id IN ?", ids).Find(&cands).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]candidateModel.CandidateModel, len(cands))
	consultantIDs := make([]uuid.UUID, 0, len(cands))
	for _, c := range cands {
		byID[c.CandidateID] = c
		if c.CandidateConsultantID != nil {
			consultantIDs = append(consultantIDs, *c.CandidateConsultantID)
		}
	}
	names := map[uuid.UUID]string{}
	if len(consultantIDs) > 0 {
		var users []userModel.UserModel
		if err := s.DB.Unscoped().Select("user_id", "user_name").Where("user_id IN ?", consultantIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.UserID] = u.UserName
		}
	}

	for _, c := range claims {
		cand := byID[c.ReferralClaimCandidateID]
		row := ClaimRow{
			ReferralClaimModel: c,
			CandidateName:      cand.CandidateName.String(),
			CandidateStatus:    cand.CandidateStatus,
		}
		if cand.CandidateConsultantID != nil {
			if n, ok := names[*cand.CandidateConsultantID]; ok {
				row.ConsultantName = &n
			}
		}
		out = append(out, row)
	}
	return out, nil
}

/* =========================================================
   RESOLVE
========================================================= */

func (s *ClaimService) lockUnverified(tx *gorm.DB, id uuid.UUID) (*model.ReferralClaimModel, error) {
	var claim model.ReferralClaimModel
	if err := database.ForUpdate(tx).Where("referral_claim_id = ?", id).Take(&claim).Error; err != nil {
		return nil, err
	}
	if claim.ReferralClaimStatus != model.ClaimUnverified {
		return nil, ErrClaimResolved
	}
	return &claim, nil
}

type LinkResult struct {
	Claim       *model.ReferralClaimModel    `json:"claim"`
	Referrer    *referrerModel.ReferrerModel `json:"referrer"`
	Commissions int                          `json:"commissions_generated"`
}

// Link: hubungkan klaim ke referrer (lama atau baru), set referrer kandidat, backfill komisi.
func (s *ClaimService) Link(id uuid.UUID, req dto.LinkClaimRequest, by uuid.UUID) (*LinkResult, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}
	var out LinkResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		claim, err := s.lockUnverified(tx, id)
		if err != nil {
			return err
		}

		var ref *referrerModel.ReferrerModel
		if rid := req.ParsedReferrerID(); rid != nil {
			var m referrerModel.ReferrerModel
			err := tx.Where("referrer_id = ? AND referrer_is_active = ?", *rid, true).Take(&m).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferrerInactive
			}
			if err != nil {
				return err
			}
			ref = &m
		} else {
			if ref, err = s.Referrers.Create(tx, *req.NewReferrer); err != nil {
				return err
			}
		}

		now := s.Now()
		if err := tx.Model(claim).Updates(map[string]any{
			"referral_claim_status":      model.ClaimLinked,
			"referral_claim_referrer_id": ref.ReferrerID,
			"referral_claim_resolved_by": by,
			"referral_claim_resolved_at": now,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&candidateModel.CandidateModel{}).
			Where("candidate_id = ?", claim.ReferralClaimCandidateID).
			Update("candidate_referrer_id", ref.ReferrerID).Error; err != nil {
			return err
		}

		n, err := s.Commissions.Backfill(tx, claim.ReferralClaimCandidateID)
		if err != nil {
			return err
		}

		claim.ReferralClaimStatus = model.ClaimLinked
		claim.ReferralClaimReferrerID = &ref.ReferrerID
		claim.ReferralClaimResolvedBy = &by
		claim.ReferralClaimResolvedAt = &now
		out = LinkResult{Claim: claim, Referrer: ref, Commissions: n}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("🔗 klaim referral di-link", "claim", id, "referrer", out.Referrer.ReferrerName, "komisi", out.Commissions)
	return &out, nil
}

// Invalidate: tandai klaim tidak valid. Wajib confirm=true.
func (s *ClaimService) Invalidate(id uuid.UUID, req dto.InvalidClaimRequest, by uuid.UUID) (*model.ReferralClaimModel, error) {
	if !req.Confirm {
		return nil, ErrConfirmRequired
	}
	var out *model.ReferralClaimModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		claim, err := s.lockUnverified(tx, id)
		if err != nil {
			return err
		}
		now := s.Now()
		if err := tx.Model(claim).Updates(map[string]any{
			"referral_claim_status":      model.ClaimInvalid,
			"referral_claim_resolved_by": by,
			"referral_claim_resolved_at": now,
		}).Error; err != nil {
			return err
		}
		claim.ReferralClaimStatus = model.ClaimInvalid
		claim.ReferralClaimResolvedBy = &by
		claim.ReferralClaimResolvedAt = &now
		out = claim
		return nil
	})
	return out, err
}
