package service

import (
	"errors"
	"strings"
	"time"

	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	billingModel "pmb_backend/internals/features/finance/billings/model"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	helper "pmb_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotPending  = fiber.NewError(fiber.StatusConflict, "Komisi tidak dalam status menunggu approval")
	ErrNotApproved = fiber.NewError(fiber.StatusConflict, "Komisi belum disetujui")
)

type CommissionService struct {
	DB *gorm.DB
	Now func() time.Time
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{DB: db, Now: time.Now}
}

/* =========================================================
   GENERATE
========================================================= */

// Generate membuat komisi pending untuk trigger yang baru tercapai kandidat.
// Tanpa referrer aktif atau tanpa konfigurasi reward → nil, nil.
// Idempoten: unique (referrer, kandidat, trigger).
func (s *CommissionService) Generate(tx *gorm.DB, candidateID uuid.UUID, trigger string) (*commissionModel.CommissionModel, error) {
	var cand candidateModel.CandidateModel
	if err := tx.Select("candidate_id", "candidate_referrer_id", "candidate_academic_year").
		Where("candidate_id = ?", candidateID).Take(&cand).Error; err != nil {
		return nil, err
	}
	if cand.CandidateReferrerID == nil {
		return nil, nil
	}

	var ref referrerModel.ReferrerModel
	err := tx.Where("referrer_id = ? AND referrer_is_active = ?", *cand.CandidateReferrerID, true).Take(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	mgm, cfg, err := s.lookupConfigs(tx, ref.ReferrerType, cand.CandidateAcademicYear, trigger)
	if err != nil {
		return nil, err
	}
	res, ok := ResolveAmount(ref, mgm, cfg)
	if !ok {
		return nil, nil
	}

	snap, err := snapshotOf(ref, cand.CandidateAcademicYear, res)
	if err != nil {
		return nil, err
	}
	row := &commissionModel.CommissionModel{
		CommissionReferrerID:   ref.ReferrerID,
		CommissionCandidateID:  candidateID,
		CommissionTriggerEvent: trigger,
		CommissionAmount:       res.Amount,
		CommissionStatus:       commissionModel.CommissionPending,
		CommissionSource:       res.Source,
		CommissionSnapshot:     snap,
	}
	created := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if created.Error != nil {
		return nil, created.Error
	}
	if created.RowsAffected == 0 {
		return nil, nil
	}
	zap.S().Infow("💰 komisi dibuat", "referrer", ref.ReferrerName, "trigger", trigger, "amount", res.Amount, "source", res.Source)
	return row, nil
}

// snapshotOf: data referrer + konfigurasi pada saat komisi dibuat.
func snapshotOf(ref referrerModel.ReferrerModel, academicYear *string, res Resolution) (datatypes.JSON, error) {
	b, err := sonic.Marshal(map[string]any{
		"referrer_name": ref.ReferrerName,
		"referrer_type": ref.ReferrerType,
		"academic_year": academicYear,
		"config_id":     res.ConfigID,
		"source":        res.Source,
	})
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func (s *CommissionService) lookupConfigs(tx *gorm.DB, referrerType string, academicYear *string, trigger string) (*rewardModel.MGMRewardConfigModel, *rewardModel.RewardConfigModel, error) {
	var mgm *rewardModel.MGMRewardConfigModel
	if referrerType == referrerModel.TypeStudent && academicYear != nil {
		var m rewardModel.MGMRewardConfigModel
		err := tx.Where("mgm_reward_config_academic_year = ? AND mgm_reward_config_reward_type = ? AND mgm_reward_config_trigger_event = ? AND mgm_reward_config_is_active = ?",
			*academicYear, rewardModel.RewardCommission, trigger, true).Take(&m).Error
		switch {
		case err == nil:
			mgm = &m
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, nil, err
		}
	}

	var c rewardModel.RewardConfigModel
	err := tx.Where("reward_config_referrer_type = ? AND reward_config_reward_type = ? AND reward_config_trigger_event = ? AND reward_config_is_active = ?",
		referrerType, rewardModel.RewardCommission, trigger, true).Take(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mgm, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return mgm, &c, nil
}

// ReachedTriggers: trigger yang sudah dilewati kandidat (untuk backfill saat klaim di-link).
func ReachedTriggers(tx *gorm.DB, cand candidateModel.CandidateModel) ([]string, error) {
	var out []string
	if cand.CandidateStatus != candidateModel.StatusRegistered {
		out = append(out, rewardModel.TriggerRegistration)
	}
	var paid int64
	if err := tx.Model(&billingModel.BillingModel{}).
		Where("billing_candidate_id = ? AND billing_type = ? AND billing_status = ?",
			cand.CandidateID, billingModel.TypeRegistration, billingModel.BillingPaid).
		Count(&paid).Error; err != nil {
		return nil, err
	}
	if paid > 0 {
		out = append(out, rewardModel.TriggerPayment)
	}
	if cand.CandidateCommittedAt != nil {
		out = append(out, rewardModel.TriggerCommitment)
	}
	if cand.CandidateEnrolledAt != nil {
		out = append(out, rewardModel.TriggerEnrollment)
	}
	return out, nil
}

// Backfill: generate komisi untuk semua trigger yang sudah tercapai.
func (s *CommissionService) Backfill(tx *gorm.DB, candidateID uuid.UUID) (int, error) {
	var cand candidateModel.CandidateModel
	if err := tx.Where("candidate_id = ?", candidateID).Take(&cand).Error; err != nil {
		return 0, err
	}
	triggers, err := ReachedTriggers(tx, cand)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, tr := range triggers {
		row, err := s.Generate(tx, candidateID, tr)
		if err != nil {
			return n, err
		}
		if row != nil {
			n++
		}
	}
	return n, nil
}

/* =========================================================
   LIST
========================================================= */

// CommissionRow: baris ledger lengkap dengan data referrer + nama kandidat.
type CommissionRow struct {
	commissionModel.CommissionModel
	StatusLabel       string  `json:"commission_status_label"`
	ReferrerName      string  `json:"referrer_name"`
	ReferrerType      string  `json:"referrer_type"`
	BankName          *string `json:"referrer_bank_name,omitempty"`
	BankAccountNumber *string `json:"referrer_bank_account_number,omitempty"`
	BankAccountName   *string `json:"referrer_bank_account_name,omitempty"`
	PayoutMethod      string  `json:"referrer_payout_method"`
	CandidateName     string  `json:"candidate_name"`
}

type ListFilter struct {
	Status     string
	Trigger    string
	ReferrerID *uuid.UUID
	Search     string // nama referrer
}

func (s *CommissionService) query(f ListFilter) *gorm.DB {
	q := s.DB.Model(&commissionModel.CommissionModel{}).
		Joins("JOIN referrers ON referrers.referrer_id = commissions.commission_referrer_id")
	if f.Status != "" {
		q = q.Where("commissions.commission_status = ?", f.Status)
	}
	if f.Trigger != "" {
		q = q.Where("commissions.commission_trigger_event = ?", f.Trigger)
	}
	if f.ReferrerID != nil {
		q = q.Where("commissions.commission_referrer_id = ?", *f.ReferrerID)
	}
	if f.Search != "" {
		q = q.Where("LOWER(referrers.referrer_name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	return q
}

func (s *CommissionService) List(f ListFilter, p helper.Params) ([]CommissionRow, int64, error) {
	q := s.query(f)
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"created_at":  "commissions.commission_created_at",
		"amount":      "commissions.commission_amount",
		"approved_at": "commissions.commission_approved_at",
	}, "created_at")

	var models []commissionModel.CommissionModel
	if err := q.Select("commissions.*").Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	rows, err := s.hydrate(models)
	return rows, total, err
}

func (s *CommissionService) hydrate(models []commissionModel.CommissionModel) ([]CommissionRow, error) {
	if len(models) == 0 {
		return []CommissionRow{}, nil
	}
	refIDs := make([]uuid.UUID, 0, len(models))
	candIDs := make([]uuid.UUID, 0, len(models))
	for _, m := range models {
		refIDs = append(refIDs, m.CommissionReferrerID)
		candIDs = append(candIDs, m.CommissionCandidateID)
	}

	var refs []referrerModel.ReferrerModel
	if err := s.DB.Unscoped().Where("referrer_id IN ?", refIDs).Find(&refs).Error; err != nil {
		return nil, err
	}
	refByID := make(map[uuid.UUID]referrerModel.ReferrerModel, len(refs))
	for _, r := range refs {
		refByID[r.ReferrerID] = r
	}

	var cands []candidateModel.CandidateModel
	if err := s.DB.Unscoped().Select("candidate_id", "candidate_name").
		Where("candidate_id IN ?", candIDs).Find(&cands).Error; err != nil {
		return nil, err
	}
	nameByID := make(map[uuid.UUID]string, len(cands))
	for _, c := range cands {
		nameByID[c.CandidateID] = c.CandidateName.String()
	}

	out := make([]CommissionRow, 0, len(models))
	for _, m := range models {
		r := refByID[m.CommissionReferrerID]
		out = append(out, CommissionRow{
			CommissionModel:   m,
			StatusLabel:       commissionModel.CommissionStatusLabel(m.CommissionStatus),
			ReferrerName:      r.ReferrerName,
			ReferrerType:      r.ReferrerType,
			BankName:          r.ReferrerBankName,
			BankAccountNumber: r.ReferrerBankAccountNumber,
			BankAccountName:   r.ReferrerBankAccountName,
			PayoutMethod:      r.ReferrerPayoutMethod,
			CandidateName:     nameByID[m.CommissionCandidateID],
		})
	}
	return out, nil
}

// Summary: total nominal per status.
func (s *CommissionService) Summary() (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	if err := s.DB.Model(&commissionModel.CommissionModel{}).
		Select("commission_status AS status, COALESCE(SUM(commission_amount), 0) AS total").
		Group("commission_status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, st := range commissionModel.CommissionStatuses {
		out[st] = 0
	}
	for _, r := range rows {
		out[r.Status] = r.Total
	}
	return out, nil
}

/* =========================================================
   APPROVE / PAY
========================================================= */

// Approve: pending → approved.
func (s *CommissionService) Approve(id, by uuid.UUID) (*commissionModel.CommissionModel, error) {
	return s.transition(id, by, commissionModel.CommissionPending, commissionModel.CommissionApproved, ErrNotPending)
}

// Pay: approved → paid.
func (s *CommissionService) Pay(id, by uuid.UUID) (*commissionModel.CommissionModel, error) {
	return s.transition(id, by, commissionModel.CommissionApproved, commissionModel.CommissionPaid, ErrNotApproved)
}

func (s *CommissionService) transition(id, by uuid.UUID, from, to string, conflict error) (*commissionModel.CommissionModel, error) {
	var row commissionModel.CommissionModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("commission_id = ?", id).Take(&row).Error; err != nil {
			return err
		}
		if row.CommissionStatus != from {
			return conflict
		}
		res := tx.Model(&commissionModel.CommissionModel{}).
			Where("commission_id = ? AND commission_status = ?", id, from).
			Updates(s.transitionColumns(by, to))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return conflict
		}
		return tx.Where("commission_id = ?", id).Take(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *CommissionService) transitionColumns(by uuid.UUID, to string) map[string]any {
	now := s.Now().UTC()
	cols := map[string]any{"commission_status": to}
	if to == commissionModel.CommissionApproved {
		cols["commission_approved_by"] = by
		cols["commission_approved_at"] = now
	} else {
		cols["commission_paid_by"] = by
		cols["commission_paid_at"] = now
	}
	return cols
}

// ApproveMany / PayMany: yang statusnya tidak cocok dilewati. Return jumlah yang berubah.
func (s *CommissionService) ApproveMany(ids []uuid.UUID, by uuid.UUID) (int64, error) {
	return s.transitionMany(ids, by, commissionModel.CommissionPending, commissionModel.CommissionApproved)
}

func (s *CommissionService) PayMany(ids []uuid.UUID, by uuid.UUID) (int64, error) {
	return s.transitionMany(ids, by, commissionModel.CommissionApproved, commissionModel.CommissionPaid)
}

func (s *CommissionService) transitionMany(ids []uuid.UUID, by uuid.UUID, from, to string) (int64, error) {
	if len(ids) == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Pilih minimal satu komisi")
	}
	res := s.DB.Model(&commissionModel.CommissionModel{}).
		Where("commission_id IN ? AND commission_status = ?", ids, from).
		Updates(s.transitionColumns(by, to))
	return res.RowsAffected, res.Error
}
