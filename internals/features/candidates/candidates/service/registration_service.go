package service

import (
	"errors"
	"time"

	database "pmb_backend/internals/databases"
	assignmentService "pmb_backend/internals/features/assignment/service"
	"pmb_backend/internals/features/candidates/candidates/dto"
	"pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	interactionService "pmb_backend/internals/features/candidates/interactions/service"
	claimService "pmb_backend/internals/features/referrals/claims/service"
	commissionService "pmb_backend/internals/features/referrals/commissions/service"
	referrerService "pmb_backend/internals/features/referrals/referrers/service"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	authService "pmb_backend/internals/features/users/auth/service"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/helpers/fieldcrypt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmailRegistered    = fiber.NewError(fiber.StatusConflict, "Email sudah terdaftar")
	ErrPhoneRegistered    = fiber.NewError(fiber.StatusConflict, "Nomor HP sudah terdaftar")
	ErrStepOrder          = fiber.NewError(fiber.StatusConflict, "Selesaikan langkah registrasi sebelumnya terlebih dahulu")
	ErrAlreadyRegistered  = fiber.NewError(fiber.StatusConflict, "Registrasi sudah selesai")
	ErrSessionRequired    = fiber.NewError(fiber.StatusUnauthorized, "Sesi registrasi tidak ditemukan, silakan mulai dari langkah 1")
	ErrInvalidProgram     = helper.Invalid("program_id", "Program studi tidak tersedia")
	ErrInvalidCampaign    = helper.Invalid("campaign_id", "Kampanye tidak valid atau sudah berakhir")
	ErrInvalidReferralKey = helper.Invalid("referral_code", "Kode referral tidak ditemukan")
)

type RegistrationService struct {
	DB          *gorm.DB
	Candidates  repository.CandidateRepository
	Assignment  *assignmentService.AssignmentService
	Commissions *commissionService.CommissionService
	Now         func() time.Time
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{
		DB:          db,
		Candidates:  repository.NewCandidateRepository(),
		Assignment:  assignmentService.NewAssignmentService(db),
		Commissions: commissionService.NewCommissionService(db),
		Now:         time.Now,
	}
}

// checkStep: langkah n hanya boleh jika langkah sebelumnya selesai; mengulang langkah terakhir boleh.
func checkStep(c *model.CandidateModel, n int) error {
	if c.CandidateStatus != model.StatusRegistered {
		return ErrAlreadyRegistered
	}
	if c.CandidateRegistrationStep+1 != n && c.CandidateRegistrationStep != n {
		return ErrStepOrder
	}
	return nil
}

func indexPtr(v string) (*string, error) {
	idx, err := fieldcrypt.BlindIndex(v)
	if err != nil || idx == "" {
		return nil, err
	}
	return &idx, nil
}

/* =========================================================
   STEP 1: akun
========================================================= */

// Account membuat kandidat baru (status registered, step 1). Jika session kandidat masih
// di step 1, isian akun diperbarui.
func (s *RegistrationService) Account(session *uuid.UUID, req dto.AccountRequest) (*model.CandidateModel, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	var out *model.CandidateModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing *model.CandidateModel
		if session != nil {
			c, err := s.Candidates.FindByID(tx, *session)
			if err != nil && !repository.IsNotFound(err) {
				return err
			}
			if c != nil {
				if err := checkStep(c, model.StepAccount); err != nil {
					return err
				}
				existing = c
			}
		}
		var except *uuid.UUID
		if existing != nil {
			except = &existing.CandidateID
		}

		if req.Email != "" {
			taken, err := s.Candidates.EmailTaken(tx, req.Email, except)
			if err != nil {
				return err
			}
			if taken {
				return ErrEmailRegistered
			}
		}
		if req.Phone != "" {
			taken, err := s.Candidates.PhoneTaken(tx, req.Phone, except)
			if err != nil {
				return err
			}
			if taken {
				return ErrPhoneRegistered
			}
		}

		hash, err := authService.HashPassword(req.Password)
		if err != nil {
			return err
		}
		emailIdx, err := indexPtr(req.Email)
		if err != nil {
			return err
		}
		phoneIdx, err := indexPtr(req.Phone)
		if err != nil {
			return err
		}

		c := existing
		if c == nil {
			c = &model.CandidateModel{
				CandidateStatus:           model.StatusRegistered,
				CandidateRegistrationStep: model.StepAccount,
			}
		}
		c.CandidateEmail = fieldcrypt.Sealed(req.Email)
		c.CandidateEmailIndex = emailIdx
		c.CandidatePhone = fieldcrypt.Sealed(req.Phone)
		c.CandidatePhoneIndex = phoneIdx
		c.CandidatePassword = hash

		if existing == nil {
			err = tx.Create(c).Error
		} else {
			err = tx.Select("candidate_email", "candidate_email_index", "candidate_phone", "candidate_phone_index", "candidate_password").Updates(c).Error
		}
		if err != nil {
			// balapan registrasi paralel: unique index yang jadi hakim terakhir
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				if req.Email != "" {
					return ErrEmailRegistered
				}
				return ErrPhoneRegistered
			}
			return err
		}
		out = c
		return nil
	})
	return out, err
}

/* =========================================================
   STEP 2 & 3
========================================================= */

func (s *RegistrationService) load(tx *gorm.DB, session *uuid.UUID, step int) (*model.CandidateModel, error) {
	if session == nil {
		return nil, ErrSessionRequired
	}
	c, err := s.Candidates.FindByID(database.ForUpdate(tx), *session)
	if repository.IsNotFound(err) {
		return nil, ErrSessionRequired
	}
	if err != nil {
		return nil, err
	}
	if err := checkStep(c, step); err != nil {
		return nil, err
	}
	return c, nil
}

func nextStep(current, n int) int {
	if current > n {
		return current
	}
	return n
}

func (s *RegistrationService) Personal(session *uuid.UUID, req dto.PersonalRequest) (*model.CandidateModel, error) {
	req.Normalize()
	var out *model.CandidateModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		c, err := s.load(tx, session, model.StepPersonal)
		if err != nil {
			return err
		}
		c.CandidateName = fieldcrypt.Sealed(req.Name)
		c.CandidateAddress = req.Address
		c.CandidateCity = req.City
		c.CandidateProvince = req.Province
		c.CandidateRegistrationStep = nextStep(c.CandidateRegistrationStep, model.StepPersonal)
		if err := tx.Select("candidate_name", "candidate_address", "candidate_city", "candidate_province", "candidate_registration_step").
			Updates(c).Error; err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *RegistrationService) Education(session *uuid.UUID, req dto.EducationRequest) (*model.CandidateModel, error) {
	var out *model.CandidateModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		c, err := s.load(tx, session, model.StepEducation)
		if err != nil {
			return err
		}
		pid := req.ParsedProgramID()
		var n int64
		if err := tx.Model(&masterModel.ProgramModel{}).
			Where("program_id = ? AND program_is_active = ?", pid, true).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrInvalidProgram
		}
		school := req.HighSchool
		year := req.GraduationYear
		c.CandidateHighSchool = &school
		c.CandidateGraduationYear = &year
		c.CandidateProgramID = &pid
		c.CandidateRegistrationStep = nextStep(c.CandidateRegistrationStep, model.StepEducation)
		if err := tx.Select("candidate_high_school", "candidate_graduation_year", "candidate_program_id", "candidate_registration_step").
			Updates(c).Error; err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

/* =========================================================
   STEP 4: sumber + selesai
========================================================= */

type CompleteResult struct {
	Candidate  *model.CandidateModel `json:"candidate"`
	Consultant string                `json:"consultant_name"`
	Algorithm  string                `json:"algorithm"`
	Redirect   string                `json:"redirect"`
}

// Complete: status → prospecting, tahun akademik, konsultan via algoritma aktif,
// klaim referral atau link langsung via kode, log sistem, trigger registration.
func (s *RegistrationService) Complete(session *uuid.UUID, req dto.SourceRequest) (*CompleteResult, error) {
	req.Normalize()
	var res CompleteResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		c, err := s.load(tx, session, model.StepSource)
		if err != nil {
			return err
		}
		now := s.Now()

		campaignID := req.ParsedCampaignID()
		if campaignID != nil {
			ok, err := activeCampaign(tx, *campaignID, now)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInvalidCampaign
			}
		}

		var referrerID *uuid.UUID
		if req.ReferralCode != nil {
			ref, err := referrerService.FindActiveByCode(tx, *req.ReferralCode)
			if err != nil {
				return err
			}
			if ref == nil {
				return ErrInvalidReferralKey
			}
			referrerID = &ref.ReferrerID
		}

		picked, algo, err := s.Assignment.Pick(tx)
		if err != nil {
			return err
		}

		year := helper.AcademicYearFor(now)
		st := req.SourceType
		c.CandidateSourceType = &st
		c.CandidateSourceDetail = req.SourceDetail
		c.CandidateCampaignID = campaignID
		c.CandidateReferrerID = referrerID
		c.CandidateStatus = model.StatusProspecting
		c.CandidateRegistrationStep = model.StepSource
		c.CandidateAcademicYear = &year
		c.CandidateConsultantID = &picked.ID
		c.CandidateSupervisorID = picked.SupervisorID
		c.CandidateAssignedAt = &now
		c.CandidateRegisteredAt = &now
		if err := tx.Select(
			"candidate_source_type", "candidate_source_detail", "candidate_campaign_id", "candidate_referrer_id",
			"candidate_status", "candidate_registration_step", "candidate_academic_year",
			"candidate_consultant_id", "candidate_supervisor_id", "candidate_assigned_at", "candidate_registered_at",
		).Updates(c).Error; err != nil {
			return err
		}

		// kode referral valid → link langsung, tanpa klaim
		if referrerID == nil {
			if _, err := claimService.OpenForCandidate(tx, c.CandidateID, st, req.Detail()); err != nil {
				return err
			}
		}

		if _, err := interactionService.LogSystem(tx, c.CandidateID, &picked.ID, "Registrasi selesai", map[string]any{
			"event":      "registration_completed",
			"algorithm":  algo,
			"consultant": picked.Name,
		}); err != nil {
			return err
		}
		if _, err := s.Commissions.Generate(tx, c.CandidateID, rewardModel.TriggerRegistration); err != nil {
			return err
		}

		res = CompleteResult{Candidate: c, Consultant: picked.Name, Algorithm: algo, Redirect: "/portal"}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("🎓 registrasi selesai", "candidate", res.Candidate.CandidateID, "consultant", res.Consultant, "algorithm", res.Algorithm)
	return &res, nil
}

func activeCampaign(tx *gorm.DB, id uuid.UUID, now time.Time) (bool, error) {
	var cmp masterModel.CampaignModel
	err := tx.Where("campaign_id = ? AND campaign_is_active = ?", id, true).Take(&cmp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	today := now.In(helper.Jakarta()).Format("2006-01-02")
	if cmp.CampaignStartDate != nil && cmp.CampaignStartDate.Format("2006-01-02") > today {
		return false, nil
	}
	if cmp.CampaignEndDate != nil && cmp.CampaignEndDate.Format("2006-01-02") < today {
		return false, nil
	}
	return true, nil
}

/* =========================================================
   STATE
========================================================= */

func (s *RegistrationService) State(session uuid.UUID) (*dto.RegistrationState, error) {
	c, err := s.Candidates.FindByID(s.DB, session)
	if err != nil {
		return nil, err
	}
	next := c.CandidateRegistrationStep + 1
	if c.CandidateStatus != model.StatusRegistered || next > model.StepSource {
		next = 0
	}
	return &dto.RegistrationState{
		CandidateID:    c.CandidateID,
		Step:           c.CandidateRegistrationStep,
		NextStep:       next,
		Status:         c.CandidateStatus,
		Email:          c.CandidateEmail.String(),
		Phone:          c.CandidatePhone.String(),
		Name:           c.CandidateName.String(),
		Address:        c.CandidateAddress,
		City:           c.CandidateCity,
		Province:       c.CandidateProvince,
		HighSchool:     c.CandidateHighSchool,
		GraduationYear: c.CandidateGraduationYear,
		ProgramID:      c.CandidateProgramID,
		SourceType:     c.CandidateSourceType,
		SourceDetail:   c.CandidateSourceDetail,
		CampaignID:     c.CandidateCampaignID,
	}, nil
}
