package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/finance/billings/dto"
	"pmb_backend/internals/features/finance/billings/model"
	paymentModel "pmb_backend/internals/features/finance/payments/model"
	commissionService "pmb_backend/internals/features/referrals/commissions/service"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotEditable      = fiber.NewError(fiber.StatusConflict, "Tagihan hanya bisa diubah selama belum dibayar")
	ErrNotPayable       = fiber.NewError(fiber.StatusConflict, "Tagihan sudah lunas atau dibatalkan")
	ErrConfirmRequired  = helper.Invalid("confirm", "Centang konfirmasi untuk membatalkan tagihan")
	ErrUnknownCandidate = fiber.NewError(fiber.StatusUnprocessableEntity, "Kandidat tidak ditemukan")
)

type BillingService struct {
	DB          *gorm.DB
	Commissions *commissionService.CommissionService
	Now         func() time.Time
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db, Commissions: commissionService.NewCommissionService(db), Now: time.Now}
}

// NextNumber: "INV-<yyyymm>-<8 hex>", unik lewat uq_billings_number.
func NextNumber(now time.Time) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("INV-%s-%s", now.Format("200601"), strings.ToUpper(raw[:8]))
}

/* =========================================================
   LIST
========================================================= */

type ListFilter struct {
	Status     string
	Type       string
	Identifier string
}

// List: tagihan dibatalkan disembunyikan kecuali diminta lewat filter status.
func (s *BillingService) List(f ListFilter, p helper.Params) ([]dto.BillingRow, int64, error) {
	q := s.DB.Model(&model.BillingModel{})
	if f.Status != "" {
		q = q.Where("billings.billing_status = ?", f.Status)
	} else {
		q = q.Where("billings.billing_status <> ?", model.BillingCancelled)
	}
	if f.Type != "" {
		q = q.Where("billings.billing_type = ?", f.Type)
	}
	if f.Identifier != "" {
		col, idx, err := repository.IdentifierIndex(f.Identifier)
		if err != nil {
			return nil, 0, err
		}
		if col == "" {
			return []dto.BillingRow{}, 0, nil
		}
		q = q.Joins("JOIN candidates ON candidates.candidate_id = billings.billing_candidate_id").
			Where("candidates."+col+" = ?", idx)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"created_at": "billings.billing_created_at",
		"due_date":   "billings.billing_due_date",
		"amount":     "billings.billing_amount",
		"status":     "billings.billing_status",
	}, "created_at")

	var bills []model.BillingModel
	if err := q.Select("billings.*").Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&bills).Error; err != nil {
		return nil, 0, err
	}
	rows, err := s.rows(bills)
	return rows, total, err
}

func (s *BillingService) rows(bills []model.BillingModel) ([]dto.BillingRow, error) {
	out := make([]dto.BillingRow, 0, len(bills))
	if len(bills) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(bills))
	for _, b := range bills {
		ids = append(ids, b.BillingCandidateID)
	}
	var cands []candidateModel.CandidateModel
	if err := s.DB.Unscoped().Select("candidate_id", "candidate_name").Where("candidate_id IN ?", ids).Find(&cands).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(cands))
	for _, c := range cands {
		names[c.CandidateID] = c.CandidateName.String()
	}
	for _, b := range bills {
		out = append(out, dto.NewBillingRow(b, names[b.BillingCandidateID]))
	}
	return out, nil
}

func (s *BillingService) Get(id uuid.UUID) (*dto.BillingRow, error) {
	var b model.BillingModel
	if err := s.DB.Where("billing_id = ?", id).Take(&b).Error; err != nil {
		return nil, err
	}
	rows, err := s.rows([]model.BillingModel{b})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

/* =========================================================
   CREATE FORM
========================================================= */

func (s *BillingService) CreateForm(candidateID uuid.UUID) (*dto.CreateForm, error) {
	var c candidateModel.CandidateModel
	if err := s.DB.Where("candidate_id = ?", candidateID).Take(&c).Error; err != nil {
		return nil, err
	}
	form := &dto.CreateForm{
		Candidate: dto.CandidateSummary{
			CandidateID:  c.CandidateID,
			Name:         c.CandidateName.String(),
			Email:        c.CandidateEmail.String(),
			Phone:        c.CandidatePhone.String(),
			Status:       c.CandidateStatus,
			AcademicYear: c.CandidateAcademicYear,
		},
		Types: model.BillingTypes,
	}

	if c.CandidateProgramID != nil {
		var p masterModel.ProgramModel
		if err := s.DB.Where("program_id = ?", *c.CandidateProgramID).Take(&p).Error; err == nil {
			form.Candidate.ProgramName = &p.ProgramName
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
	}
	var campaign *masterModel.CampaignModel
	if c.CandidateCampaignID != nil {
		var cp masterModel.CampaignModel
		if err := s.DB.Where("campaign_id = ?", *c.CandidateCampaignID).Take(&cp).Error; err == nil {
			campaign = &cp
			form.Candidate.CampaignName = &cp.CampaignName
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
	}

	suggestions, err := s.suggest(c, campaign)
	if err != nil {
		return nil, err
	}
	form.Suggestions = suggestions

	var bills []model.BillingModel
	if err := s.DB.Where("billing_candidate_id = ?", c.CandidateID).Order("billing_created_at ASC").Find(&bills).Error; err != nil {
		return nil, err
	}
	if form.Existing, err = s.rows(bills); err != nil {
		return nil, err
	}
	return form, nil
}

// suggest: fee paling spesifik (prodi + tahun > prodi > tahun > umum) per jenis tagihan.
// Biaya registrasi dari kampanye yang sedang berjalan menggantikan fee.
func (s *BillingService) suggest(c candidateModel.CandidateModel, campaign *masterModel.CampaignModel) ([]dto.SuggestedAmount, error) {
	var fees []masterModel.FeeModel
	if err := s.DB.Where("fee_is_active = ?", true).Order("fee_created_at ASC").Find(&fees).Error; err != nil {
		return nil, err
	}

	best := map[string]masterModel.FeeModel{}
	bestScore := map[string]int{}
	for _, f := range fees {
		score := 0
		if f.FeeProgramID != nil {
			if c.CandidateProgramID == nil || *f.FeeProgramID != *c.CandidateProgramID {
				continue
			}
			score += 2
		}
		if f.FeeAcademicYear != nil {
			if c.CandidateAcademicYear == nil || *f.FeeAcademicYear != *c.CandidateAcademicYear {
				continue
			}
			score++
		}
		if cur, ok := bestScore[f.FeeBillingType]; !ok || score > cur {
			best[f.FeeBillingType] = f
			bestScore[f.FeeBillingType] = score
		}
	}

	out := []dto.SuggestedAmount{}
	for _, t := range model.BillingTypes {
		if t == model.TypeRegistration && campaign != nil && campaign.CampaignFeeOverride != nil && campaign.IsRunningOn(s.Now()) {
			out = append(out, dto.SuggestedAmount{
				Type: t, Amount: *campaign.CampaignFeeOverride, Source: "campaign", Label: campaign.CampaignName,
			})
			continue
		}
		if f, ok := best[t]; ok {
			out = append(out, dto.SuggestedAmount{Type: t, Amount: f.FeeAmount, Source: "fee", Label: f.FeeName})
		}
	}
	return out, nil
}

/* =========================================================
   CREATE / EDIT / CANCEL
========================================================= */

func (s *BillingService) Create(by uuid.UUID, req dto.CreateBillingRequest) (*dto.BillingRow, error) {
	m, err := req.ToModel()
	if err != nil {
		return nil, err
	}
	var n int64
	if err := s.DB.Model(&candidateModel.CandidateModel{}).Where("candidate_id = ?", m.BillingCandidateID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrUnknownCandidate
	}
	m.BillingCreatedBy = &by

	for attempt := 0; ; attempt++ {
		m.BillingNumber = NextNumber(s.Now())
		err = s.DB.Create(m).Error
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == 2 {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	zap.S().Infow("🧾 tagihan dibuat", "number", m.BillingNumber, "candidate_id", m.BillingCandidateID, "amount", m.BillingAmount)
	return s.Get(m.BillingID)
}

// mutateUnpaid: update bersyarat status unpaid, selain itu 409.
func (s *BillingService) mutateUnpaid(id uuid.UUID, cols map[string]any) (*dto.BillingRow, error) {
	var b model.BillingModel
	if err := s.DB.Where("billing_id = ?", id).Take(&b).Error; err != nil {
		return nil, err
	}
	if !b.IsEditable() {
		return nil, ErrNotEditable
	}
	res := s.DB.Model(&model.BillingModel{}).
		Where("billing_id = ? AND billing_status = ?", id, model.BillingUnpaid).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotEditable
	}
	return s.Get(id)
}

func (s *BillingService) Update(id uuid.UUID, req dto.UpdateBillingRequest) (*dto.BillingRow, error) {
	cols, err := req.Columns()
	if err != nil {
		return nil, err
	}
	return s.mutateUnpaid(id, cols)
}

func (s *BillingService) Cancel(id uuid.UUID, req dto.CancelBillingRequest) (*dto.BillingRow, error) {
	if !req.Confirm {
		return nil, ErrConfirmRequired
	}
	row, err := s.mutateUnpaid(id, map[string]any{
		"billing_status":       model.BillingCancelled,
		"billing_cancelled_at": s.Now(),
	})
	if err == nil {
		zap.S().Infow("🗑️ tagihan dibatalkan", "billing_id", id)
	}
	return row, err
}

/* =========================================================
   PELUNASAN
========================================================= */

// Settle: unpaid|pending → paid di dalam tx pemanggil. Tagihan registrasi memicu komisi "payment".
// false tanpa error berarti tagihan sudah tidak bisa dilunasi (paid/cancelled).
func (s *BillingService) Settle(tx *gorm.DB, id uuid.UUID, method string, at time.Time) (bool, error) {
	var b model.BillingModel
	if err := tx.Where("billing_id = ?", id).Take(&b).Error; err != nil {
		return false, err
	}
	res := tx.Model(&model.BillingModel{}).
		Where("billing_id = ? AND billing_status IN ?", id, []string{model.BillingUnpaid, model.BillingPending}).
		Updates(map[string]any{
			"billing_status":         model.BillingPaid,
			"billing_paid_at":        at,
			"billing_payment_method": method,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	if b.BillingType == model.TypeRegistration {
		if _, err := s.Commissions.Generate(tx, b.BillingCandidateID, rewardModel.TriggerPayment); err != nil {
			return false, err
		}
	}
	zap.S().Infow("💵 tagihan lunas", "number", b.BillingNumber, "method", method)
	return true, nil
}

// MarkPaid: pelunasan manual (tunai) oleh finance. Percobaan bayar gateway yang masih pending ikut ditutup.
func (s *BillingService) MarkPaid(id uuid.UUID) (*dto.BillingRow, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Settle(tx, id, paymentModel.PaymentMethodCash, s.Now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotPayable
		}
		return tx.Model(&paymentModel.PaymentModel{}).
			Where("payment_billing_id = ? AND payment_status = ?", id, paymentModel.PaymentStatusPending).
			Update("payment_status", paymentModel.PaymentStatusExpired).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

/* =========================================================
   PORTAL
========================================================= */

// ForCandidate: tagihan milik kandidat (tanpa yang dibatalkan).
func (s *BillingService) ForCandidate(candidateID uuid.UUID) ([]dto.BillingRow, error) {
	var bills []model.BillingModel
	if err := s.DB.Where("billing_candidate_id = ? AND billing_status <> ?", candidateID, model.BillingCancelled).
		Order("billing_created_at ASC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return s.rows(bills)
}
