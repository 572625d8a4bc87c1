package service

import (
	"errors"
	"testing"
	"time"

	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/finance/billings/dto"
	"pmb_backend/internals/features/finance/billings/model"
	paymentModel "pmb_backend/internals/features/finance/payments/model"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createBilling(t *testing.T, svc *BillingService, by, candidateID uuid.UUID, typ string, amount int64) *dto.BillingRow {
	t.Helper()
	row, err := svc.Create(by, dto.CreateBillingRequest{
		CandidateID: candidateID.String(), Type: typ, Amount: amount, DueDate: "2026-12-01",
	})
	require.NoError(t, err)
	return row
}

func linkReferrer(t *testing.T, db *gorm.DB, cand candidateModel.CandidateModel) {
	t.Helper()
	ref := referrerModel.ReferrerModel{
		ReferrerName: "Bu Tini", ReferrerType: referrerModel.TypeAlumni,
		ReferrerPayoutMethod: referrerModel.PayoutCash, ReferrerIsActive: true,
	}
	require.NoError(t, db.Create(&ref).Error)
	require.NoError(t, db.Model(&cand).Update("candidate_referrer_id", ref.ReferrerID).Error)
	require.NoError(t, db.Create(&rewardModel.RewardConfigModel{
		RewardConfigReferrerType: referrerModel.TypeAlumni,
		RewardConfigRewardType:   rewardModel.RewardCommission,
		RewardConfigTriggerEvent: rewardModel.TriggerPayment,
		RewardConfigAmount:       50000,
		RewardConfigIsActive:     true,
	}).Error)
}

func TestCreateAndListHidesCancelled(t *testing.T) {
	db := testkit.NewDB(t)
	fin := testkit.CreateUser(t, db, constants.RoleFinance, "Fina", nil)
	rina := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	dewi := testkit.CreateCandidate(t, db, "Dewi", "dewi@example.com", nil)
	svc := NewBillingService(db)
	page := helper.Params{Page: 1, PerPage: 20}

	a := createBilling(t, svc, fin.UserID, rina.CandidateID, model.TypeRegistration, 250000)
	assert.Regexp(t, `^INV-\d{6}-[0-9A-F]{8}$`, a.BillingNumber)
	assert.Equal(t, model.BillingUnpaid, a.BillingStatus)
	assert.Equal(t, "Belum Dibayar", a.StatusLabel)
	assert.Equal(t, "Rina", a.CandidateName)
	assert.True(t, a.Editable)
	require.NotNil(t, a.BillingDueDate)
	assert.Equal(t, "2026-12-01", a.BillingDueDate.Format("2006-01-02"))

	b := createBilling(t, svc, fin.UserID, dewi.CandidateID, model.TypeTuition, 4000000)
	_, err := svc.Cancel(b.BillingID, dto.CancelBillingRequest{Confirm: true})
	require.NoError(t, err)

	rows, total, err := svc.List(ListFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, a.BillingID, rows[0].BillingID)

	_, total, err = svc.List(ListFilter{Status: model.BillingCancelled}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	rows, total, err = svc.List(ListFilter{Identifier: "RINA@example.com"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, rina.CandidateID, rows[0].BillingCandidateID)

	_, err = svc.Create(fin.UserID, dto.CreateBillingRequest{CandidateID: uuid.NewString(), Type: model.TypeOther, Amount: 1})
	assert.ErrorIs(t, err, ErrUnknownCandidate)

	var fe *helper.FieldError
	_, err = svc.Create(fin.UserID, dto.CreateBillingRequest{CandidateID: rina.CandidateID.String(), Type: model.TypeOther, Amount: 1, DueDate: "01-12-2026"})
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "billing_due_date", fe.Field)
}

func TestOnlyUnpaidIsEditable(t *testing.T) {
	db := testkit.NewDB(t)
	fin := testkit.CreateUser(t, db, constants.RoleFinance, "Fina", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	svc := NewBillingService(db)

	row := createBilling(t, svc, fin.UserID, cand.CandidateID, model.TypeUniform, 300000)

	_, err := svc.Cancel(row.BillingID, dto.CancelBillingRequest{})
	assert.ErrorIs(t, err, ErrConfirmRequired)

	desc := "  seragam lengkap  "
	upd, err := svc.Update(row.BillingID, dto.UpdateBillingRequest{Type: model.TypeUniform, Amount: 350000, Description: &desc})
	require.NoError(t, err)
	assert.EqualValues(t, 350000, upd.BillingAmount)
	require.NotNil(t, upd.BillingDescription)
	assert.Equal(t, "seragam lengkap", *upd.BillingDescription)
	assert.Nil(t, upd.BillingDueDate)

	require.NoError(t, db.Model(&model.BillingModel{}).Where("billing_id = ?", row.BillingID).
		Update("billing_status", model.BillingPending).Error)

	_, err = svc.Update(row.BillingID, dto.UpdateBillingRequest{Type: model.TypeUniform, Amount: 1})
	assert.ErrorIs(t, err, ErrNotEditable)
	_, err = svc.Cancel(row.BillingID, dto.CancelBillingRequest{Confirm: true})
	assert.ErrorIs(t, err, ErrNotEditable)

	paid, err := svc.MarkPaid(row.BillingID)
	require.NoError(t, err)
	assert.Equal(t, model.BillingPaid, paid.BillingStatus)
	assert.Equal(t, "Lunas", paid.StatusLabel)
	require.NotNil(t, paid.BillingPaymentMethod)
	assert.Equal(t, paymentModel.PaymentMethodCash, *paid.BillingPaymentMethod)
	assert.False(t, paid.Editable)

	_, err = svc.MarkPaid(row.BillingID)
	assert.ErrorIs(t, err, ErrNotPayable)
}

func TestMarkPaidRegistrationFiresPaymentTrigger(t *testing.T) {
	db := testkit.NewDB(t)
	fin := testkit.CreateUser(t, db, constants.RoleFinance, "Fina", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	linkReferrer(t, db, cand)
	svc := NewBillingService(db)

	tuition := createBilling(t, svc, fin.UserID, cand.CandidateID, model.TypeTuition, 4000000)
	_, err := svc.MarkPaid(tuition.BillingID)
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&commissionModel.CommissionModel{}).Count(&n).Error)
	assert.Zero(t, n, "hanya tagihan registrasi yang memicu komisi")

	reg := createBilling(t, svc, fin.UserID, cand.CandidateID, model.TypeRegistration, 250000)
	require.NoError(t, db.Create(&paymentModel.PaymentModel{
		PaymentBillingID: reg.BillingID, PaymentCandidateID: cand.CandidateID, PaymentOrderID: reg.BillingNumber + "-1",
		PaymentProvider: paymentModel.GatewayProviderMidtrans, PaymentAmount: 250000, PaymentStatus: paymentModel.PaymentStatusPending,
	}).Error)

	_, err = svc.MarkPaid(reg.BillingID)
	require.NoError(t, err)

	var c commissionModel.CommissionModel
	require.NoError(t, db.Where("commission_candidate_id = ?", cand.CandidateID).Take(&c).Error)
	assert.Equal(t, rewardModel.TriggerPayment, c.CommissionTriggerEvent)
	assert.EqualValues(t, 50000, c.CommissionAmount)

	var p paymentModel.PaymentModel
	require.NoError(t, db.Where("payment_billing_id = ?", reg.BillingID).Take(&p).Error)
	assert.Equal(t, paymentModel.PaymentStatusExpired, p.PaymentStatus)
}

func TestCreateFormSuggestsMostSpecificFee(t *testing.T) {
	db := testkit.NewDB(t)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	prog := masterModel.ProgramModel{ProgramCode: "TI", ProgramName: "Teknik Informatika", ProgramIsActive: true}
	require.NoError(t, db.Create(&prog).Error)
	year := "2026/2027"
	require.NoError(t, db.Model(&cand).Updates(map[string]any{
		"candidate_program_id": prog.ProgramID, "candidate_academic_year": year,
	}).Error)

	for _, f := range []masterModel.FeeModel{
		{FeeName: "Registrasi umum", FeeBillingType: model.TypeRegistration, FeeAmount: 300000, FeeIsActive: true},
		{FeeName: "SPP umum", FeeBillingType: model.TypeTuition, FeeAmount: 5000000, FeeIsActive: true},
		{FeeName: "SPP TI", FeeBillingType: model.TypeTuition, FeeProgramID: &prog.ProgramID, FeeAmount: 6000000, FeeIsActive: true},
		{FeeName: "SPP TI 2026", FeeBillingType: model.TypeTuition, FeeProgramID: &prog.ProgramID, FeeAcademicYear: &year, FeeAmount: 6500000, FeeIsActive: true},
		{FeeName: "SPP lama", FeeBillingType: model.TypeTuition, FeeProgramID: &prog.ProgramID, FeeAcademicYear: &year, FeeAmount: 1, FeeIsActive: false},
	} {
		require.NoError(t, db.Create(&f).Error)
	}
	svc := NewBillingService(db)

	form, err := svc.CreateForm(cand.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, "Rina", form.Candidate.Name)
	require.NotNil(t, form.Candidate.ProgramName)
	assert.Equal(t, "Teknik Informatika", *form.Candidate.ProgramName)

	got := map[string]dto.SuggestedAmount{}
	for _, s := range form.Suggestions {
		got[s.Type] = s
	}
	assert.EqualValues(t, 300000, got[model.TypeRegistration].Amount)
	assert.EqualValues(t, 6500000, got[model.TypeTuition].Amount)
	assert.Equal(t, "SPP TI 2026", got[model.TypeTuition].Label)
	_, ok := got[model.TypeDormitory]
	assert.False(t, ok)

	override := int64(150000)
	camp := masterModel.CampaignModel{
		CampaignName: "Early Bird", CampaignType: "early_bird", CampaignFeeOverride: &override, CampaignIsActive: true,
	}
	require.NoError(t, db.Create(&camp).Error)
	require.NoError(t, db.Model(&cand).Update("candidate_campaign_id", camp.CampaignID).Error)

	svc.Now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	form, err = svc.CreateForm(cand.CandidateID)
	require.NoError(t, err)
	for _, s := range form.Suggestions {
		if s.Type == model.TypeRegistration {
			assert.EqualValues(t, 150000, s.Amount)
			assert.Equal(t, "campaign", s.Source)
		}
	}
}

func TestForCandidateSkipsCancelled(t *testing.T) {
	db := testkit.NewDB(t)
	fin := testkit.CreateUser(t, db, constants.RoleFinance, "Fina", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	svc := NewBillingService(db)

	createBilling(t, svc, fin.UserID, cand.CandidateID, model.TypeRegistration, 250000)
	b := createBilling(t, svc, fin.UserID, cand.CandidateID, model.TypeOther, 10000)
	_, err := svc.Cancel(b.BillingID, dto.CancelBillingRequest{Confirm: true})
	require.NoError(t, err)

	rows, err := svc.ForCandidate(cand.CandidateID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.TypeRegistration, rows[0].BillingType)
}
