package service

import (
	"bytes"
	"strings"
	"testing"
	"time"

	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReferrer(t *testing.T, db *gorm.DB, typ string, override *int64) referrerModel.ReferrerModel {
	bank, acc, holder := "BSI", "7123456789", "Pak Guru"
	r := referrerModel.ReferrerModel{
		ReferrerName:              "Pak Guru",
		ReferrerType:              typ,
		ReferrerPayoutMethod:      referrerModel.PayoutBank,
		ReferrerBankName:          &bank,
		ReferrerBankAccountNumber: &acc,
		ReferrerBankAccountName:   &holder,
		ReferrerCommissionAmount:  override,
		ReferrerIsActive:          true,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func seedRewardConfig(t *testing.T, db *gorm.DB, refType, trigger string, amount int64) {
	require.NoError(t, db.Create(&rewardModel.RewardConfigModel{
		RewardConfigReferrerType: refType,
		RewardConfigRewardType:   rewardModel.RewardCommission,
		RewardConfigTriggerEvent: trigger,
		RewardConfigAmount:       amount,
		RewardConfigIsActive:     true,
	}).Error)
}

func linkedCandidate(t *testing.T, db *gorm.DB, email string, ref referrerModel.ReferrerModel) candidateModel.CandidateModel {
	c := testkit.CreateCandidate(t, db, "Siti", email, nil)
	year := "2026/2027"
	require.NoError(t, db.Model(&c).Updates(map[string]any{
		"candidate_referrer_id":   ref.ReferrerID,
		"candidate_academic_year": year,
	}).Error)
	c.CandidateReferrerID = &ref.ReferrerID
	c.CandidateAcademicYear = &year
	return c
}

func TestGenerateIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	ref := seedReferrer(t, db, referrerModel.TypeTeacher, nil)
	seedRewardConfig(t, db, referrerModel.TypeTeacher, rewardModel.TriggerEnrollment, 500000)
	cand := linkedCandidate(t, db, "siti@example.com", ref)
	svc := NewCommissionService(db)

	row, err := svc.Generate(db, cand.CandidateID, rewardModel.TriggerEnrollment)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.EqualValues(t, 500000, row.CommissionAmount)
	assert.Equal(t, commissionModel.CommissionPending, row.CommissionStatus)
	assert.Equal(t, commissionModel.SourceRewardConfig, row.CommissionSource)

	again, err := svc.Generate(db, cand.CandidateID, rewardModel.TriggerEnrollment)
	require.NoError(t, err)
	assert.Nil(t, again)

	var n int64
	require.NoError(t, db.Model(&commissionModel.CommissionModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	// trigger tanpa konfigurasi → tidak ada komisi
	none, err := svc.Generate(db, cand.CandidateID, rewardModel.TriggerCommitment)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGenerateStoresSnapshot(t *testing.T) {
	db := testkit.NewDB(t)
	ref := seedReferrer(t, db, referrerModel.TypeTeacher, nil)
	seedRewardConfig(t, db, referrerModel.TypeTeacher, rewardModel.TriggerRegistration, 100000)
	cand := linkedCandidate(t, db, "dewi@example.com", ref)

	row, err := NewCommissionService(db).Generate(db, cand.CandidateID, rewardModel.TriggerRegistration)
	require.NoError(t, err)
	require.NotNil(t, row)

	var stored commissionModel.CommissionModel
	require.NoError(t, db.Where("commission_id = ?", row.CommissionID).Take(&stored).Error)
	snap := map[string]any{}
	require.NoError(t, sonic.Unmarshal(stored.CommissionSnapshot, &snap))
	assert.Equal(t, "Pak Guru", snap["referrer_name"])
	assert.Equal(t, referrerModel.TypeTeacher, snap["referrer_type"])
	assert.Equal(t, commissionModel.SourceRewardConfig, snap["source"])
	assert.NotEmpty(t, snap["config_id"])
}

func TestGenerateWithoutReferrer(t *testing.T) {
	db := testkit.NewDB(t)
	cand := testkit.CreateCandidate(t, db, "Andi", "andi@example.com", nil)
	row, err := NewCommissionService(db).Generate(db, cand.CandidateID, rewardModel.TriggerRegistration)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestGenerateStudentUsesMGMTable(t *testing.T) {
	db := testkit.NewDB(t)
	ref := seedReferrer(t, db, referrerModel.TypeStudent, nil)
	seedRewardConfig(t, db, referrerModel.TypeStudent, rewardModel.TriggerEnrollment, 100000)
	require.NoError(t, db.Create(&rewardModel.MGMRewardConfigModel{
		MGMRewardConfigAcademicYear: "2026/2027",
		MGMRewardConfigRewardType:   rewardModel.RewardCommission,
		MGMRewardConfigTriggerEvent: rewardModel.TriggerEnrollment,
		MGMRewardConfigAmount:       250000,
		MGMRewardConfigIsActive:     true,
	}).Error)
	cand := linkedCandidate(t, db, "mgm@example.com", ref)

	row, err := NewCommissionService(db).Generate(db, cand.CandidateID, rewardModel.TriggerEnrollment)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.EqualValues(t, 250000, row.CommissionAmount)
	assert.Equal(t, commissionModel.SourceMGM, row.CommissionSource)
}

func TestResolveAmountOverride(t *testing.T) {
	override := int64(750000)
	ref := referrerModel.ReferrerModel{ReferrerType: referrerModel.TypePartner, ReferrerCommissionAmount: &override}
	cfg := &rewardModel.RewardConfigModel{
		RewardConfigReferrerType: referrerModel.TypePartner,
		RewardConfigRewardType:   rewardModel.RewardCommission,
		RewardConfigAmount:       100000,
		RewardConfigIsActive:     true,
	}
	res, ok := ResolveAmount(ref, nil, cfg)
	require.True(t, ok)
	assert.EqualValues(t, 750000, res.Amount)
	assert.Equal(t, commissionModel.SourceOverride, res.Source)

	// merchandise tidak masuk ledger
	cfg.RewardConfigRewardType = rewardModel.RewardMerchandise
	_, ok = ResolveAmount(ref, nil, cfg)
	assert.False(t, ok)

	// konfigurasi nonaktif
	cfg.RewardConfigRewardType = rewardModel.RewardCommission
	cfg.RewardConfigIsActive = false
	_, ok = ResolveAmount(ref, nil, cfg)
	assert.False(t, ok)
}

func TestBackfillReachedTriggers(t *testing.T) {
	db := testkit.NewDB(t)
	ref := seedReferrer(t, db, referrerModel.TypeAlumni, nil)
	for _, tr := range rewardModel.TriggerEvents {
		seedRewardConfig(t, db, referrerModel.TypeAlumni, tr, 100000)
	}
	cand := linkedCandidate(t, db, "backfill@example.com", ref)
	now := time.Now()
	require.NoError(t, db.Model(&cand).Updates(map[string]any{
		"candidate_status":       candidateModel.StatusCommitted,
		"candidate_committed_at": now,
	}).Error)

	n, err := NewCommissionService(db).Backfill(db, cand.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "registration + commitment")
}

func TestApprovePayTransitions(t *testing.T) {
	db := testkit.NewDB(t)
	ref := seedReferrer(t, db, referrerModel.TypeTeacher, nil)
	seedRewardConfig(t, db, referrerModel.TypeTeacher, rewardModel.TriggerRegistration, 50000)
	cand := linkedCandidate(t, db, "flow@example.com", ref)
	svc := NewCommissionService(db)
	row, err := svc.Generate(db, cand.CandidateID, rewardModel.TriggerRegistration)
	require.NoError(t, err)
	admin := uuid.New()

	_, err = svc.Pay(row.CommissionID, admin)
	assert.ErrorIs(t, err, ErrNotApproved)

	approved, err := svc.Approve(row.CommissionID, admin)
	require.NoError(t, err)
	assert.Equal(t, commissionModel.CommissionApproved, approved.CommissionStatus)
	require.NotNil(t, approved.CommissionApprovedAt)

	_, err = svc.Approve(row.CommissionID, admin)
	assert.ErrorIs(t, err, ErrNotPending)

	paid, err := svc.Pay(row.CommissionID, admin)
	require.NoError(t, err)
	assert.Equal(t, commissionModel.CommissionPaid, paid.CommissionStatus)

	_, err = svc.Approve(uuid.New(), admin)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestExportCSV(t *testing.T) {
	db := testkit.NewDB(t)
	ref := seedReferrer(t, db, referrerModel.TypeTeacher, nil)
	seedRewardConfig(t, db, referrerModel.TypeTeacher, rewardModel.TriggerRegistration, 50000)
	seedRewardConfig(t, db, referrerModel.TypeTeacher, rewardModel.TriggerEnrollment, 450000)
	cand := linkedCandidate(t, db, "csv@example.com", ref)
	svc := NewCommissionService(db)

	reg, err := svc.Generate(db, cand.CandidateID, rewardModel.TriggerRegistration)
	require.NoError(t, err)
	_, err = svc.Generate(db, cand.CandidateID, rewardModel.TriggerEnrollment)
	require.NoError(t, err)
	_, err = svc.Approve(reg.CommissionID, uuid.New())
	require.NoError(t, err)

	rows, err := svc.ExportRows(ListFilter{Status: commissionModel.CommissionApproved})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"))
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "No,Nama Referrer,Tipe,Nama Bank,No Rekening,Atas Nama,Jumlah,Kandidat,Trigger Event,Tanggal Approve", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,Pak Guru,Guru,BSI,7123456789,Pak Guru,50000,Siti,registration,"))

	assert.Equal(t, "komisi-approved-20261018.csv",
		ExportFilename("approved", time.Date(2026, 10, 18, 3, 0, 0, 0, helper.Jakarta())))
}
