package service

import (
	"errors"
	"testing"
	"time"

	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	authModel "pmb_backend/internals/features/users/auth/model"
	"pmb_backend/internals/helpers/fieldcrypt"
	authMw "pmb_backend/internals/middlewares/auth"
	"pmb_backend/internals/testkit"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStaff(t *testing.T) {
	db := testkit.NewDB(t)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin PMB", nil)
	svc := NewAuthService(db)

	res, err := svc.Login("  "+admin.UserEmail+" ", testkit.Password)
	require.NoError(t, err)
	assert.Equal(t, "/admin", res.Redirect)
	assert.Equal(t, constants.KindStaff, res.Kind)

	p, err := authMw.ParseToken(testkit.JWTKey, res.Token, 0)
	require.NoError(t, err)
	assert.Equal(t, admin.UserID, p.ID)
	assert.Equal(t, constants.RoleAdmin, p.Role)

	_, err = svc.Login(admin.UserEmail, "salah-password")
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusUnauthorized, fe.Code)
	assert.Contains(t, fe.Message, "salah")
}

func TestLoginInactiveStaff(t *testing.T) {
	db := testkit.NewDB(t)
	u := testkit.CreateUser(t, db, constants.RoleConsultant, "Konsultan", nil)
	require.NoError(t, db.Model(&u).Update("user_is_active", false).Error)

	_, err := NewAuthService(db).Login(u.UserEmail, testkit.Password)
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusForbidden, fe.Code)
}

func TestLoginCandidateByEmailOrPhone(t *testing.T) {
	db := testkit.NewDB(t)
	cand := testkit.CreateCandidate(t, db, "Budi", "budi@example.com", nil)

	phoneIdx, err := fieldcrypt.BlindIndex("081234567890")
	require.NoError(t, err)
	require.NoError(t, db.Model(&candidateModel.CandidateModel{}).
		Where("candidate_id = ?", cand.CandidateID).
		Updates(map[string]any{"candidate_phone": fieldcrypt.Sealed("081234567890"), "candidate_phone_index": phoneIdx}).Error)

	svc := NewAuthService(db)
	for _, id := range []string{"BUDI@example.com", "+62 812-3456-7890", "081234567890"} {
		res, err := svc.Login(id, testkit.Password)
		require.NoError(t, err, id)
		assert.Equal(t, cand.CandidateID, res.ID)
		assert.Equal(t, "/portal", res.Redirect)
		assert.Equal(t, "Budi", res.Name)
	}

	_, err = svc.Login("tidak.ada@example.com", testkit.Password)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBlacklistAndPurge(t *testing.T) {
	db := testkit.NewDB(t)
	exp := time.Now().UTC().Add(-10 * 24 * time.Hour)

	require.NoError(t, Blacklist(db, "tok-lama", exp))
	require.NoError(t, Blacklist(db, "tok-lama", exp), "token sama dua kali tidak error")
	require.NoError(t, Blacklist(db, "tok-baru", time.Now().UTC().Add(time.Hour)))

	var n int64
	require.NoError(t, db.Model(&authModel.TokenBlacklist{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}
