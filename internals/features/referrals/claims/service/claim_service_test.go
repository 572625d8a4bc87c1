package service

import (
	"testing"

	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/referrals/claims/dto"
	"pmb_backend/internals/features/referrals/claims/model"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerDTO "pmb_backend/internals/features/referrals/referrers/dto"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var page = helper.Params{Page: 1, PerPage: 20}

func openClaim(t *testing.T, db *gorm.DB, email, text string) (candidateModel.CandidateModel, *model.ReferralClaimModel) {
	t.Helper()
	cand := testkit.CreateCandidate(t, db, "Rina", email, nil)
	claim, err := OpenForCandidate(db, cand.CandidateID, candidateModel.SourceTeacherAlumni, text)
	require.NoError(t, err)
	require.NotNil(t, claim)
	return cand, claim
}

func TestOpenForCandidateSkipsNonReferral(t *testing.T) {
	db := testkit.NewDB(t)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)

	c, err := OpenForCandidate(db, cand.CandidateID, candidateModel.SourceInstagram, "iklan")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = OpenForCandidate(db, cand.CandidateID, candidateModel.SourceReferral, "   ")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestLinkExistingReferrerBackfillsAndLeavesQueue(t *testing.T) {
	db := testkit.NewDB(t)
	admin := testkit.CreateUser(t, db, "admin", "Admin", nil)
	svc := NewClaimService(db)

	require.NoError(t, db.Create(&rewardModel.RewardConfigModel{
		RewardConfigReferrerType: referrerModel.TypeTeacher,
		RewardConfigRewardType:   rewardModel.RewardCommission,
		RewardConfigTriggerEvent: rewardModel.TriggerRegistration,
		RewardConfigAmount:       50000,
		RewardConfigIsActive:     true,
	}).Error)
	ref, err := svc.Referrers.Create(db, referrerDTO.ReferrerRequest{
		Name: "Pak Budi", Type: referrerModel.TypeTeacher, PayoutMethod: referrerModel.PayoutCash,
	})
	require.NoError(t, err)

	cand, claim := openClaim(t, db, "rina@example.com", "Pak Budi guru BK")
	_, _ = openClaim(t, db, "dewi@example.com", "kakak kelas")

	rows, total, err := svc.Pending("", page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)

	idStr := ref.ReferrerID.String()
	res, err := svc.Link(claim.ReferralClaimID, dto.LinkClaimRequest{ReferrerID: &idStr}, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimLinked, res.Claim.ReferralClaimStatus)
	assert.Equal(t, 1, res.Commissions)

	var got candidateModel.CandidateModel
	require.NoError(t, db.Where("candidate_id = ?", cand.CandidateID).Take(&got).Error)
	require.NotNil(t, got.CandidateReferrerID)
	assert.Equal(t, ref.ReferrerID, *got.CandidateReferrerID)

	var n int64
	require.NoError(t, db.Model(&commissionModel.CommissionModel{}).
		Where("commission_candidate_id = ?", cand.CandidateID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, total, err = svc.Pending("", page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "klaim yang sudah di-link keluar dari antrian")

	_, err = svc.Link(claim.ReferralClaimID, dto.LinkClaimRequest{ReferrerID: &idStr}, admin.UserID)
	assert.ErrorIs(t, err, ErrClaimResolved)
	_, err = svc.Invalidate(claim.ReferralClaimID, dto.InvalidClaimRequest{Confirm: true}, admin.UserID)
	assert.ErrorIs(t, err, ErrClaimResolved)
}

func TestLinkNewReferrer(t *testing.T) {
	db := testkit.NewDB(t)
	admin := testkit.CreateUser(t, db, "admin", "Admin", nil)
	svc := NewClaimService(db)
	_, claim := openClaim(t, db, "rina@example.com", "Bu Sari alumni 2019")

	res, err := svc.Link(claim.ReferralClaimID, dto.LinkClaimRequest{
		NewReferrer: &referrerDTO.ReferrerRequest{Name: "Bu Sari", Type: referrerModel.TypeAlumni, PayoutMethod: referrerModel.PayoutCash},
	}, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Bu Sari", res.Referrer.ReferrerName)
	assert.Equal(t, 0, res.Commissions, "tanpa konfigurasi reward tidak ada komisi")

	var count int64
	require.NoError(t, db.Model(&referrerModel.ReferrerModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLinkRequiresExactlyOneTarget(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewClaimService(db)
	_, claim := openClaim(t, db, "rina@example.com", "teman")

	_, err := svc.Link(claim.ReferralClaimID, dto.LinkClaimRequest{}, uuid.New())
	assert.Error(t, err)

	missing := uuid.NewString()
	_, err = svc.Link(claim.ReferralClaimID, dto.LinkClaimRequest{ReferrerID: &missing}, uuid.New())
	assert.ErrorIs(t, err, ErrReferrerInactive)

	var fresh model.ReferralClaimModel
	require.NoError(t, db.Where("referral_claim_id = ?", claim.ReferralClaimID).Take(&fresh).Error)
	assert.Equal(t, model.ClaimUnverified, fresh.ReferralClaimStatus, "gagal link tidak mengubah klaim")
}

func TestInvalidateNeedsConfirmation(t *testing.T) {
	db := testkit.NewDB(t)
	admin := testkit.CreateUser(t, db, "admin", "Admin", nil)
	svc := NewClaimService(db)
	_, claim := openClaim(t, db, "rina@example.com", "lupa nama")

	_, err := svc.Invalidate(claim.ReferralClaimID, dto.InvalidClaimRequest{}, admin.UserID)
	assert.ErrorIs(t, err, ErrConfirmRequired)

	row, err := svc.Invalidate(claim.ReferralClaimID, dto.InvalidClaimRequest{Confirm: true}, admin.UserID)
	require.NoError(t, err)
	assert.Equal(t, model.ClaimInvalid, row.ReferralClaimStatus)
	assert.Nil(t, row.ReferralClaimReferrerID)

	_, total, err := svc.Pending("", page)
	require.NoError(t, err)
	assert.Zero(t, total)
}
