package service

import (
	"errors"
	"testing"

	"pmb_backend/internals/features/referrals/rewards/dto"
	"pmb_backend/internals/features/referrals/rewards/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardConfigUniqueKey(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewRewardService(db)

	req := dto.RewardConfigRequest{
		ReferrerType: "teacher", RewardType: model.RewardCommission,
		TriggerEvent: model.TriggerRegistration, Amount: 50000,
	}
	row, err := svc.CreateConfig(req)
	require.NoError(t, err)
	assert.True(t, row.RewardConfigIsActive)

	_, err = svc.CreateConfig(req)
	assert.ErrorIs(t, err, ErrDuplicateKey)

	req.TriggerEvent = model.TriggerEnrollment
	_, err = svc.CreateConfig(req)
	require.NoError(t, err)

	rows, err := svc.ListConfigs("teacher")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	off, err := svc.ToggleConfig(row.RewardConfigID)
	require.NoError(t, err)
	assert.False(t, off.RewardConfigIsActive)

	req.TriggerEvent = model.TriggerRegistration
	req.Amount = 75000
	f := false
	req.IsActive = &f
	upd, err := svc.UpdateConfig(row.RewardConfigID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(75000), upd.RewardConfigAmount)
}

func TestMGMAcademicYearValidation(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewRewardService(db)

	_, err := svc.CreateMGM(dto.MGMRewardConfigRequest{
		AcademicYear: "2026/2028", RewardType: model.RewardCommission, TriggerEvent: model.TriggerPayment, Amount: 100000,
	})
	var fe *helper.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "mgm_reward_config_academic_year", fe.Field)

	row, err := svc.CreateMGM(dto.MGMRewardConfigRequest{
		AcademicYear: " 2026/2027 ", RewardType: model.RewardCommission, TriggerEvent: model.TriggerPayment, Amount: 100000,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026/2027", row.MGMRewardConfigAcademicYear)

	_, err = svc.CreateMGM(dto.MGMRewardConfigRequest{
		AcademicYear: "2026/2027", RewardType: model.RewardCommission, TriggerEvent: model.TriggerPayment, Amount: 1,
	})
	assert.ErrorIs(t, err, ErrDuplicateKey)

	rows, err := svc.ListMGM("2026/2027")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	toggled, err := svc.ToggleMGM(row.MGMRewardConfigID)
	require.NoError(t, err)
	assert.False(t, toggled.MGMRewardConfigIsActive)
}
