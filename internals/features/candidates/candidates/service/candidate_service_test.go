package service

import (
	"strings"
	"testing"

	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/candidates/dto"
	"pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	interactionModel "pmb_backend/internals/features/candidates/interactions/model"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func asViewer(u userModel.UserModel) repository.Viewer {
	return repository.Viewer{UserID: u.UserID, Role: u.UserRole}
}

func systemLogs(t *testing.T, db *gorm.DB, candidateID uuid.UUID) []interactionModel.InteractionModel {
	t.Helper()
	var rows []interactionModel.InteractionModel
	require.NoError(t, db.Where("interaction_candidate_id = ? AND interaction_channel = ?", candidateID, interactionModel.ChannelSystem).
		Order("interaction_created_at ASC").Find(&rows).Error)
	return rows
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{model.StatusRegistered, model.StatusProspecting, false},
		{model.StatusRegistered, model.StatusLost, true},
		{model.StatusProspecting, model.StatusCommitted, true},
		{model.StatusProspecting, model.StatusEnrolled, false},
		{model.StatusCommitted, model.StatusEnrolled, true},
		{model.StatusCommitted, model.StatusProspecting, false},
		{model.StatusEnrolled, model.StatusLost, false},
		{model.StatusLost, model.StatusProspecting, false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to))
		})
	}
	assert.Empty(t, AllowedTransitions(model.StatusEnrolled))
	assert.NotNil(t, AllowedTransitions(model.StatusLost))
}

func TestUpdateStatusForwardFiresTriggers(t *testing.T) {
	db := testkit.NewDB(t)
	cons := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &cons)
	svc := NewCandidateService(db)

	ref := referrerModel.ReferrerModel{
		ReferrerName: "Bu Tini", ReferrerType: referrerModel.TypeAlumni,
		ReferrerPayoutMethod: referrerModel.PayoutCash, ReferrerIsActive: true,
	}
	require.NoError(t, db.Create(&ref).Error)
	require.NoError(t, db.Model(&cand).Update("candidate_referrer_id", ref.ReferrerID).Error)
	for _, trig := range []string{rewardModel.TriggerCommitment, rewardModel.TriggerEnrollment} {
		require.NoError(t, db.Create(&rewardModel.RewardConfigModel{
			RewardConfigReferrerType: referrerModel.TypeAlumni,
			RewardConfigRewardType:   rewardModel.RewardCommission,
			RewardConfigTriggerEvent: trig,
			RewardConfigAmount:       100000,
			RewardConfigIsActive:     true,
		}).Error)
	}

	m, err := svc.UpdateStatus(asViewer(cons), cand.CandidateID, dto.StatusRequest{Status: model.StatusCommitted})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCommitted, m.CandidateStatus)
	assert.NotNil(t, m.CandidateCommittedAt)

	_, err = svc.UpdateStatus(asViewer(cons), cand.CandidateID, dto.StatusRequest{Status: model.StatusEnrolled})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(asViewer(cons), cand.CandidateID, dto.StatusRequest{Status: model.StatusCommitted})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var triggers []string
	require.NoError(t, db.Model(&commissionModel.CommissionModel{}).
		Where("commission_candidate_id = ?", cand.CandidateID).
		Order("commission_trigger_event ASC").Pluck("commission_trigger_event", &triggers).Error)
	assert.Equal(t, []string{rewardModel.TriggerCommitment, rewardModel.TriggerEnrollment}, triggers)

	logs := systemLogs(t, db, cand.CandidateID)
	require.Len(t, logs, 2)
	assert.Equal(t, "Status diubah dari Dalam Proses ke Komitmen", logs[0].InteractionRemarks)
}

func TestUpdateStatusLostNeedsReason(t *testing.T) {
	db := testkit.NewDB(t)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	svc := NewCandidateService(db)

	_, err := svc.UpdateStatus(asViewer(admin), cand.CandidateID, dto.StatusRequest{Status: model.StatusLost})
	assert.ErrorIs(t, err, ErrLostReason)

	inactive := masterModel.LostReasonModel{LostReasonName: "Pindah kota", LostReasonIsActive: false}
	require.NoError(t, db.Create(&inactive).Error)
	rid := inactive.LostReasonID.String()
	_, err = svc.UpdateStatus(asViewer(admin), cand.CandidateID, dto.StatusRequest{Status: model.StatusLost, LostReasonID: &rid})
	assert.ErrorIs(t, err, ErrLostReason)

	reason := masterModel.LostReasonModel{LostReasonName: "Biaya", LostReasonIsActive: true}
	require.NoError(t, db.Create(&reason).Error)
	rid = reason.LostReasonID.String()
	note := "diterima di PTN"
	m, err := svc.UpdateStatus(asViewer(admin), cand.CandidateID, dto.StatusRequest{Status: model.StatusLost, LostReasonID: &rid, LostNote: &note})
	require.NoError(t, err)
	assert.Equal(t, model.StatusLost, m.CandidateStatus)

	var got model.CandidateModel
	require.NoError(t, db.Where("candidate_id = ?", cand.CandidateID).Take(&got).Error)
	require.NotNil(t, got.CandidateLostReasonID)
	assert.Equal(t, reason.LostReasonID, *got.CandidateLostReasonID)
	assert.NotNil(t, got.CandidateLostAt)
}

func TestConsultantScope(t *testing.T) {
	db := testkit.NewDB(t)
	sup := testkit.CreateUser(t, db, constants.RoleSupervisor, "Sari", nil)
	a := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", &sup.UserID)
	b := testkit.CreateUser(t, db, constants.RoleConsultant, "Budi", nil)
	fin := testkit.CreateUser(t, db, constants.RoleFinance, "Fina", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &a)
	testkit.CreateCandidate(t, db, "Dewi", "dewi@example.com", &b)
	svc := NewCandidateService(db)
	page := helper.Params{Page: 1, PerPage: 20}

	_, err := svc.Detail(asViewer(b), cand.CandidateID)
	assert.True(t, repository.IsNotFound(err), "kandidat konsultan lain = 404")

	d, err := svc.Detail(asViewer(sup), cand.CandidateID)
	require.NoError(t, err)
	require.NotNil(t, d.Consultant)
	assert.Equal(t, "Andi", d.Consultant.Name)
	assert.Equal(t, "Dalam Proses", d.StatusLabel)
	assert.Equal(t, []string{model.StatusCommitted, model.StatusLost}, d.Transitions)

	rows, total, err := svc.List(asViewer(a), repository.ListFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rina", rows[0].Name)
	require.NotNil(t, rows[0].ConsultantName)
	assert.Equal(t, "Andi", *rows[0].ConsultantName)

	_, total, err = svc.List(repository.Viewer{UserID: uuid.New(), Role: constants.RoleAdmin}, repository.ListFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	_, total, err = svc.List(asViewer(fin), repository.ListFilter{}, page)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListSearchIsExactIdentifier(t *testing.T) {
	db := testkit.NewDB(t)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	testkit.CreateCandidate(t, db, "Rini", "rini@example.com", nil)
	svc := NewCandidateService(db)
	page := helper.Params{Page: 1, PerPage: 20}

	rows, total, err := svc.List(asViewer(admin), repository.ListFilter{Identifier: " RINA@example.com"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "rina@example.com", rows[0].Email)

	_, total, err = svc.List(asViewer(admin), repository.ListFilter{Identifier: "rin"}, page)
	require.NoError(t, err)
	assert.Zero(t, total, "nama/potongan email tidak bisa dicari")
}

func TestReassignWritesSystemInteraction(t *testing.T) {
	db := testkit.NewDB(t)
	sup := testkit.CreateUser(t, db, constants.RoleSupervisor, "Sari", nil)
	sup2 := testkit.CreateUser(t, db, constants.RoleSupervisor, "Tono", nil)
	a := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", &sup.UserID)
	b := testkit.CreateUser(t, db, constants.RoleConsultant, "Budi", &sup2.UserID)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &a)
	svc := NewCandidateService(db)

	_, err := svc.Reassign(asViewer(a), cand.CandidateID, b.UserID)
	assert.ErrorIs(t, err, ErrReassignForbidden)

	_, err = svc.Reassign(asViewer(admin), cand.CandidateID, a.UserID)
	assert.ErrorIs(t, err, ErrSameConsultant)

	_, err = svc.Reassign(asViewer(admin), cand.CandidateID, sup.UserID)
	assert.ErrorIs(t, err, ErrInvalidConsultant)

	opts, err := svc.Options(asViewer(a), cand.CandidateID)
	require.NoError(t, err)
	assert.False(t, opts.CanSubmit)
	assert.Len(t, opts.Consultants, 2)

	m, err := svc.Reassign(asViewer(admin), cand.CandidateID, b.UserID)
	require.NoError(t, err)
	assert.Equal(t, b.UserID, *m.CandidateConsultantID)
	assert.Equal(t, sup2.UserID, *m.CandidateSupervisorID)

	logs := systemLogs(t, db, cand.CandidateID)
	require.Len(t, logs, 1)
	assert.True(t, strings.Contains(logs[0].InteractionRemarks, "dialihkan ke konsultan Budi"), logs[0].InteractionRemarks)

	// setelah dialihkan, konsultan lama kehilangan akses
	_, err = svc.Detail(asViewer(a), cand.CandidateID)
	assert.True(t, repository.IsNotFound(err))
}
