package service

import (
	"errors"
	"fmt"
	"time"

	"pmb_backend/internals/constants"
	assignmentService "pmb_backend/internals/features/assignment/service"
	"pmb_backend/internals/features/candidates/candidates/dto"
	"pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	documentModel "pmb_backend/internals/features/candidates/documents/model"
	interactionService "pmb_backend/internals/features/candidates/interactions/service"
	billingModel "pmb_backend/internals/features/finance/billings/model"
	claimModel "pmb_backend/internals/features/referrals/claims/model"
	commissionService "pmb_backend/internals/features/referrals/commissions/service"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidTransition = fiber.NewError(fiber.StatusConflict, "Perubahan status tidak diizinkan")
	ErrLostReason        = helper.Invalid("lost_reason_id", "Alasan batal wajib dipilih")
	ErrReassignForbidden = fiber.NewError(fiber.StatusForbidden, "Hanya admin dan supervisor yang boleh mengalihkan kandidat")
	ErrSameConsultant    = helper.Invalid("consultant_id", "Kandidat sudah ditangani konsultan ini")
	ErrInvalidConsultant = helper.Invalid("consultant_id", "Konsultan tidak ditemukan atau nonaktif")
)

type CandidateService struct {
	DB          *gorm.DB
	Candidates  repository.CandidateRepository
	Assignment  *assignmentService.AssignmentService
	Commissions *commissionService.CommissionService
	Now         func() time.Time
}

func NewCandidateService(db *gorm.DB) *CandidateService {
	return &CandidateService{
		DB:          db,
		Candidates:  repository.NewCandidateRepository(),
		Assignment:  assignmentService.NewAssignmentService(db),
		Commissions: commissionService.NewCommissionService(db),
		Now:         time.Now,
	}
}

/* =========================================================
   LIST
========================================================= */

func (s *CandidateService) List(v repository.Viewer, f repository.ListFilter, p helper.Params) ([]dto.CandidateListItem, int64, error) {
	rows, total, err := s.Candidates.List(s.DB, v, f, p)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.CandidateListItem, 0, len(rows))
	if len(rows) == 0 {
		return items, total, nil
	}

	userIDs := []uuid.UUID{}
	programIDs := []uuid.UUID{}
	for _, r := range rows {
		if r.CandidateConsultantID != nil {
			userIDs = append(userIDs, *r.CandidateConsultantID)
		}
		if r.CandidateProgramID != nil {
			programIDs = append(programIDs, *r.CandidateProgramID)
		}
	}
	users, err := s.userNames(userIDs)
	if err != nil {
		return nil, 0, err
	}
	programs := map[uuid.UUID]string{}
	if len(programIDs) > 0 {
		var ps []masterModel.ProgramModel
		if err := s.DB.Select("program_id", "program_name").Where("program_id IN ?", programIDs).Find(&ps).Error; err != nil {
			return nil, 0, err
		}
		for _, p := range ps {
			programs[p.ProgramID] = p.ProgramName
		}
	}

	for _, r := range rows {
		it := dto.ToListItem(r)
		if r.CandidateConsultantID != nil {
			if n, ok := users[*r.CandidateConsultantID]; ok {
				it.ConsultantName = &n
			}
		}
		if r.CandidateProgramID != nil {
			if n, ok := programs[*r.CandidateProgramID]; ok {
				it.ProgramName = &n
			}
		}
		items = append(items, it)
	}
	return items, total, nil
}

func (s *CandidateService) userNames(ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var users []userModel.UserModel
	if err := s.DB.Unscoped().Select("user_id", "user_name").Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.UserID] = u.UserName
	}
	return out, nil
}

/* =========================================================
   DETAIL
========================================================= */

type PersonRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone,omitempty"`
}

type CandidateDetail struct {
	model.CandidateModel
	StatusLabel string                         `json:"candidate_status_label"`
	Consultant  *PersonRef                     `json:"consultant,omitempty"`
	Supervisor  *PersonRef                     `json:"supervisor,omitempty"`
	Program     *masterModel.ProgramModel      `json:"program,omitempty"`
	Campaign    *masterModel.CampaignModel     `json:"campaign,omitempty"`
	Referrer    *referrerModel.ReferrerModel   `json:"referrer,omitempty"`
	LostReason  *masterModel.LostReasonModel   `json:"lost_reason,omitempty"`
	Claim       *claimModel.ReferralClaimModel `json:"referral_claim,omitempty"`
	Documents   []documentModel.DocumentModel  `json:"documents"`
	Billings    []billingModel.BillingModel    `json:"billings"`
	Transitions []string                       `json:"allowed_transitions"`
}

// takeOptional: nil kalau id nil atau baris tidak ada.
func takeOptional[T any](db *gorm.DB, id *uuid.UUID, column string) (*T, error) {
	if id == nil {
		return nil, nil
	}
	var m T
	err := db.Where(column+" = ?", *id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func personRef(db *gorm.DB, id *uuid.UUID) (*PersonRef, error) {
	u, err := takeOptional[userModel.UserModel](db.Unscoped(), id, "user_id")
	if err != nil || u == nil {
		return nil, err
	}
	return &PersonRef{ID: u.UserID, Name: u.UserName, Phone: u.UserPhone}, nil
}

func (s *CandidateService) Detail(v repository.Viewer, id uuid.UUID) (*CandidateDetail, error) {
	c, err := s.Candidates.FindVisible(s.DB, v, id)
	if err != nil {
		return nil, err
	}
	d := &CandidateDetail{
		CandidateModel: *c,
		StatusLabel:    model.StatusLabel(c.CandidateStatus),
		Transitions:    AllowedTransitions(c.CandidateStatus),
	}
	if d.Consultant, err = personRef(s.DB, c.CandidateConsultantID); err != nil {
		return nil, err
	}
	if d.Supervisor, err = personRef(s.DB, c.CandidateSupervisorID); err != nil {
		return nil, err
	}
	if d.Program, err = takeOptional[masterModel.ProgramModel](s.DB, c.CandidateProgramID, "program_id"); err != nil {
		return nil, err
	}
	if d.Campaign, err = takeOptional[masterModel.CampaignModel](s.DB, c.CandidateCampaignID, "campaign_id"); err != nil {
		return nil, err
	}
	if d.Referrer, err = takeOptional[referrerModel.ReferrerModel](s.DB.Unscoped(), c.CandidateReferrerID, "referrer_id"); err != nil {
		return nil, err
	}
	if d.LostReason, err = takeOptional[masterModel.LostReasonModel](s.DB, c.CandidateLostReasonID, "lost_reason_id"); err != nil {
		return nil, err
	}
	if d.Claim, err = takeOptional[claimModel.ReferralClaimModel](s.DB.Order("referral_claim_created_at DESC"), &c.CandidateID, "referral_claim_candidate_id"); err != nil {
		return nil, err
	}
	if err := s.DB.Where("document_candidate_id = ?", c.CandidateID).Order("document_type_code ASC").Find(&d.Documents).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("billing_candidate_id = ?", c.CandidateID).Order("billing_created_at DESC").Find(&d.Billings).Error; err != nil {
		return nil, err
	}
	return d, nil
}

/* =========================================================
   STATUS
========================================================= */

var transitions = map[string][]string{
	model.StatusRegistered:  {model.StatusLost},
	model.StatusProspecting: {model.StatusCommitted, model.StatusLost},
	model.StatusCommitted:   {model.StatusEnrolled, model.StatusLost},
}

// AllowedTransitions: maju satu langkah atau batal. registered → prospecting hanya lewat wizard.
func AllowedTransitions(from string) []string {
	out := transitions[from]
	if out == nil {
		return []string{}
	}
	return out
}

func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func (s *CandidateService) UpdateStatus(v repository.Viewer, id uuid.UUID, req dto.StatusRequest) (*model.CandidateModel, error) {
	var out *model.CandidateModel
	var commissions int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		c, err := s.Candidates.FindVisible(tx, v, id)
		if err != nil {
			return err
		}
		from := c.CandidateStatus
		if !CanTransition(from, req.Status) {
			return ErrInvalidTransition
		}

		now := s.Now()
		updates := map[string]any{"candidate_status": req.Status}
		var trigger string
		switch req.Status {
		case model.StatusCommitted:
			updates["candidate_committed_at"] = now
			c.CandidateCommittedAt = &now
			trigger = rewardModel.TriggerCommitment
		case model.StatusEnrolled:
			updates["candidate_enrolled_at"] = now
			c.CandidateEnrolledAt = &now
			trigger = rewardModel.TriggerEnrollment
		case model.StatusLost:
			reasonID := req.ParsedLostReasonID()
			if reasonID == nil {
				return ErrLostReason
			}
			var n int64
			if err := tx.Model(&masterModel.LostReasonModel{}).
				Where("lost_reason_id = ? AND lost_reason_is_active = ?", *reasonID, true).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrLostReason
			}
			updates["candidate_lost_at"] = now
			updates["candidate_lost_reason_id"] = *reasonID
			updates["candidate_lost_note"] = req.LostNote
			c.CandidateLostAt = &now
			c.CandidateLostReasonID = reasonID
			c.CandidateLostNote = req.LostNote
		}
		if err := tx.Model(c).Updates(updates).Error; err != nil {
			return err
		}
		c.CandidateStatus = req.Status

		remarks := fmt.Sprintf("Status diubah dari %s ke %s", model.StatusLabel(from), model.StatusLabel(req.Status))
		if _, err := interactionService.LogSystem(tx, c.CandidateID, &v.UserID, remarks, map[string]any{
			"event": "status_changed", "from": from, "to": req.Status,
		}); err != nil {
			return err
		}
		if trigger != "" {
			row, err := s.Commissions.Generate(tx, c.CandidateID, trigger)
			if err != nil {
				return err
			}
			if row != nil {
				commissions++
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("📌 status kandidat diubah", "candidate", id, "to", req.Status, "by", v.UserID, "komisi", commissions)
	return out, nil
}

/* =========================================================
   REASSIGN
========================================================= */

type ReassignOptions struct {
	CandidateID         uuid.UUID                          `json:"candidate_id"`
	CurrentConsultantID *uuid.UUID                         `json:"current_consultant_id,omitempty"`
	Consultants         []assignmentService.ConsultantLoad `json:"consultants"`
	CanSubmit           bool                               `json:"can_submit"`
}

// Options: semua konsultan aktif + beban kerja. Konsultan boleh melihat tapi tidak submit.
func (s *CandidateService) Options(v repository.Viewer, id uuid.UUID) (*ReassignOptions, error) {
	c, err := s.Candidates.FindVisible(s.DB, v, id)
	if err != nil {
		return nil, err
	}
	loads, err := s.Assignment.ConsultantLoads(s.DB)
	if err != nil {
		return nil, err
	}
	return &ReassignOptions{
		CandidateID:         c.CandidateID,
		CurrentConsultantID: c.CandidateConsultantID,
		Consultants:         loads,
		CanSubmit:           constants.Can(v.Role, constants.CapCandidatesReassign),
	}, nil
}

// Reassign: ganti konsultan + supervisor turunan, tambah satu interaksi sistem.
func (s *CandidateService) Reassign(v repository.Viewer, id, consultantID uuid.UUID) (*model.CandidateModel, error) {
	if !constants.Can(v.Role, constants.CapCandidatesReassign) {
		return nil, ErrReassignForbidden
	}
	var out *model.CandidateModel
	var remarks string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		c, err := s.Candidates.FindVisible(tx, v, id)
		if err != nil {
			return err
		}
		if c.CandidateConsultantID != nil && *c.CandidateConsultantID == consultantID {
			return ErrSameConsultant
		}

		var target userModel.UserModel
		err = tx.Where("user_id = ? AND user_role = ? AND user_is_active = ?", consultantID, constants.RoleConsultant, true).
			Take(&target).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidConsultant
		}
		if err != nil {
			return err
		}

		oldName := "-"
		if c.CandidateConsultantID != nil {
			var old userModel.UserModel
			if err := tx.Unscoped().Select("user_id", "user_name").Where("user_id = ?", *c.CandidateConsultantID).Take(&old).Error; err == nil {
				oldName = old.UserName
			}
		}

		now := s.Now()
		if err := tx.Model(c).Updates(map[string]any{
			"candidate_consultant_id": target.UserID,
			"candidate_supervisor_id": target.UserSupervisorID,
			"candidate_assigned_at":   now,
		}).Error; err != nil {
			return err
		}
		prev := c.CandidateConsultantID
		c.CandidateConsultantID = &target.UserID
		c.CandidateSupervisorID = target.UserSupervisorID
		c.CandidateAssignedAt = &now

		remarks = fmt.Sprintf("Kandidat dialihkan ke konsultan %s (sebelumnya %s)", target.UserName, oldName)
		meta := map[string]any{"event": "reassigned", "to": target.UserID, "by": v.UserID}
		if prev != nil {
			meta["from"] = *prev
		}
		if _, err := interactionService.LogSystem(tx, c.CandidateID, &target.UserID, remarks, meta); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("🔁 "+remarks, "candidate", id, "by", v.UserID)
	return out, nil
}
