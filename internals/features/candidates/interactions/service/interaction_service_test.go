package service

import (
	"errors"
	"testing"
	"time"

	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/candidates/interactions/dto"
	"pmb_backend/internals/features/candidates/interactions/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func asViewer(u userModel.UserModel) repository.Viewer {
	return repository.Viewer{UserID: u.UserID, Role: u.UserRole}
}

func seedCategory(t *testing.T, db *gorm.DB) masterModel.InteractionCategoryModel {
	t.Helper()
	c := masterModel.InteractionCategoryModel{CategoryName: "Tertarik", CategoryIsActive: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func TestLogInteractionUpdatesFollowup(t *testing.T) {
	db := testkit.NewDB(t)
	cons := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &cons)
	cat := seedCategory(t, db)
	svc := NewInteractionService(db)

	res, err := svc.Log(asViewer(cons), cand.CandidateID, dto.LogInteractionRequest{
		Channel:          model.ChannelWhatsapp,
		CategoryID:       cat.CategoryID.String(),
		Remarks:          "  minta info beasiswa  ",
		NextFollowupDate: "2026-11-02",
	})
	require.NoError(t, err)
	assert.Equal(t, "/admin/candidates/"+cand.CandidateID.String(), res.Redirect)
	assert.Equal(t, "minta info beasiswa", res.Interaction.InteractionRemarks)

	var got candidateModel.CandidateModel
	require.NoError(t, db.Where("candidate_id = ?", cand.CandidateID).Take(&got).Error)
	assert.NotNil(t, got.CandidateLastContactAt)
	require.NotNil(t, got.CandidateNextFollowupAt)
	assert.Equal(t, "2026-11-02", got.CandidateNextFollowupAt.Format("2006-01-02"))

	rows, err := svc.List(asViewer(cons), cand.CandidateID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CategoryName)
	assert.Equal(t, "Tertarik", *rows[0].CategoryName)
	require.NotNil(t, rows[0].ConsultantName)
	assert.Equal(t, "Andi", *rows[0].ConsultantName)
}

func TestLogInteractionValidation(t *testing.T) {
	db := testkit.NewDB(t)
	cons := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", nil)
	other := testkit.CreateUser(t, db, constants.RoleConsultant, "Budi", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &cons)
	cat := seedCategory(t, db)
	svc := NewInteractionService(db)

	_, err := svc.Log(asViewer(cons), cand.CandidateID, dto.LogInteractionRequest{
		Channel: model.ChannelCall, CategoryID: cat.CategoryID.String(), Remarks: "   ",
	})
	var fe *helper.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "remarks", fe.Field)

	_, err = svc.Log(asViewer(cons), cand.CandidateID, dto.LogInteractionRequest{
		Channel: model.ChannelCall, CategoryID: cat.CategoryID.String(), Remarks: "ok", NextFollowupDate: "02/11/2026",
	})
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "next_followup_date", fe.Field)

	_, err = svc.Log(asViewer(cons), cand.CandidateID, dto.LogInteractionRequest{
		Channel: model.ChannelCall, CategoryID: cand.CandidateID.String(), Remarks: "ok",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = svc.Log(asViewer(other), cand.CandidateID, dto.LogInteractionRequest{
		Channel: model.ChannelCall, CategoryID: cat.CategoryID.String(), Remarks: "ok",
	})
	assert.True(t, repository.IsNotFound(err))
}

func TestSaveAndNextPicksQueue(t *testing.T) {
	db := testkit.NewDB(t)
	cons := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", nil)
	first := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &cons)
	plain := testkit.CreateCandidate(t, db, "Dewi", "dewi@example.com", &cons)
	scheduled := testkit.CreateCandidate(t, db, "Sinta", "sinta@example.com", &cons)
	cat := seedCategory(t, db)
	svc := NewInteractionService(db)

	tomorrow := time.Now().AddDate(0, 0, 1)
	require.NoError(t, db.Model(&scheduled).Update("candidate_next_followup_at", tomorrow).Error)

	res, err := svc.Log(asViewer(cons), first.CandidateID, dto.LogInteractionRequest{
		Channel: model.ChannelCall, CategoryID: cat.CategoryID.String(), Remarks: "sudah ditelepon", Action: dto.ActionSaveAndNext,
	})
	require.NoError(t, err)
	require.NotNil(t, res.NextID)
	assert.Equal(t, scheduled.CandidateID, *res.NextID, "belum dihubungi + follow-up terdekat didahulukan")
	assert.Equal(t, "/admin/candidates/"+scheduled.CandidateID.String(), res.Redirect)

	next, err := svc.NextInQueue(asViewer(cons), scheduled.CandidateID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, plain.CandidateID, *next)
}

func TestSuggestionLifecycle(t *testing.T) {
	db := testkit.NewDB(t)
	sup := testkit.CreateUser(t, db, constants.RoleSupervisor, "Sari", nil)
	cons := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", &sup.UserID)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &cons)
	cat := seedCategory(t, db)
	svc := NewInteractionService(db)

	res, err := svc.Log(asViewer(cons), cand.CandidateID, dto.LogInteractionRequest{
		Channel: model.ChannelCall, CategoryID: cat.CategoryID.String(), Remarks: "ragu soal biaya",
	})
	require.NoError(t, err)

	sg, err := svc.Suggest(asViewer(sup), res.Interaction.InteractionID, "Tawarkan cicilan")
	require.NoError(t, err)
	_, err = svc.Suggest(asViewer(sup), res.Interaction.InteractionID, "saran kedua")
	assert.ErrorIs(t, err, ErrSuggestionExists)

	n, err := svc.UnreadCount(cons.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = svc.UnreadCount(sup.UserID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = svc.MarkRead(sup.UserID, sg.SuggestionID)
	assert.ErrorIs(t, err, ErrNotSuggestionUser)

	read, err := svc.MarkRead(cons.UserID, sg.SuggestionID)
	require.NoError(t, err)
	require.NotNil(t, read.SuggestionReadAt)
	again, err := svc.MarkRead(cons.UserID, sg.SuggestionID)
	require.NoError(t, err)
	assert.Equal(t, read.SuggestionReadAt.Unix(), again.SuggestionReadAt.Unix())

	n, err = svc.UnreadCount(cons.UserID)
	require.NoError(t, err)
	assert.Zero(t, n)

	sys, err := LogSystem(db, cand.CandidateID, &cons.UserID, "Registrasi selesai", nil)
	require.NoError(t, err)
	_, err = svc.Suggest(asViewer(sup), sys.InteractionID, "tidak boleh")
	assert.ErrorIs(t, err, ErrSystemImmutable)

	rows, err := svc.List(asViewer(sup), cand.CandidateID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	var withSuggestion int
	for _, r := range rows {
		if r.Suggestion != nil {
			withSuggestion++
			assert.Equal(t, "Tawarkan cicilan", r.Suggestion.SuggestionBody)
		}
	}
	assert.Equal(t, 1, withSuggestion)
}
