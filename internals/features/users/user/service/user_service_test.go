package service

import (
	"testing"

	"pmb_backend/internals/constants"
	authService "pmb_backend/internals/features/users/auth/service"
	"pmb_backend/internals/features/users/user/dto"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestCreateStaffWithSupervisor(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewUserService(db)
	sup := testkit.CreateUser(t, db, constants.RoleSupervisor, "Bu Supervisor", nil)

	_, err := svc.Create(dto.StaffRequest{Name: "Andi", Email: "andi@pmb.test", Role: constants.RoleConsultant})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	u, err := svc.Create(dto.StaffRequest{
		Name: " Andi ", Email: " ANDI@pmb.test ", Role: constants.RoleConsultant,
		Password: "rahasia123", Phone: strp("+62 812-3456"), SupervisorID: strp(sup.UserID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Andi", u.UserName)
	assert.Equal(t, "andi@pmb.test", u.UserEmail)
	assert.Equal(t, "08123456", *u.UserPhone)
	assert.True(t, u.UserIsActive)
	require.NotNil(t, u.UserSupervisorID)
	assert.Equal(t, sup.UserID, *u.UserSupervisorID)
	require.NoError(t, authService.CheckPasswordHash(u.UserPassword, "rahasia123"))

	_, err = svc.Create(dto.StaffRequest{Name: "Lain", Email: "andi@pmb.test", Role: constants.RoleFinance, Password: "rahasia123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// supervisor harus role supervisor
	_, err = svc.Create(dto.StaffRequest{
		Name: "Budi", Email: "budi@pmb.test", Role: constants.RoleConsultant,
		Password: "rahasia123", SupervisorID: strp(u.UserID.String()),
	})
	assert.ErrorIs(t, err, ErrInvalidSupervisor)

	// non-konsultan tidak punya supervisor
	fin, err := svc.Create(dto.StaffRequest{
		Name: "Fina", Email: "fina@pmb.test", Role: constants.RoleFinance,
		Password: "rahasia123", SupervisorID: strp(sup.UserID.String()),
	})
	require.NoError(t, err)
	assert.Nil(t, fin.UserSupervisorID)
}

func TestUpdateKeepsPasswordWhenEmpty(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewUserService(db)
	u := testkit.CreateUser(t, db, constants.RoleConsultant, "Citra", nil)

	upd, err := svc.Update(u.UserID, dto.StaffRequest{Name: "Citra Dewi", Email: u.UserEmail, Role: constants.RoleSupervisor})
	require.NoError(t, err)
	assert.Equal(t, "Citra Dewi", upd.UserName)
	assert.Equal(t, constants.RoleSupervisor, upd.UserRole)
	require.NoError(t, authService.CheckPasswordHash(upd.UserPassword, testkit.Password))

	_, err = svc.Update(u.UserID, dto.StaffRequest{Name: "x", Email: u.UserEmail, Role: constants.RoleConsultant, SupervisorID: strp(u.UserID.String())})
	assert.ErrorIs(t, err, ErrInvalidSupervisor)
}

func TestToggleAndList(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewUserService(db)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	cons := testkit.CreateUser(t, db, constants.RoleConsultant, "Dodi", nil)
	testkit.CreateCandidate(t, db, "Kandidat", "k@example.com", &cons)

	_, err := svc.Toggle(admin.UserID, admin.UserID)
	assert.ErrorIs(t, err, ErrSelfDeactivate)

	off, err := svc.Toggle(cons.UserID, admin.UserID)
	require.NoError(t, err)
	assert.False(t, off.UserIsActive)

	active := false
	rows, total, err := svc.List(ListFilter{IsActive: &active}, helper.Params{Page: 1, PerPage: 10, SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dodi", rows[0].UserName)
	assert.EqualValues(t, 1, rows[0].ActiveCandidate)

	rows, _, err = svc.List(ListFilter{Search: "ADM"}, helper.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, admin.UserID, rows[0].UserID)
}
