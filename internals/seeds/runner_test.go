package seeds

import (
	"testing"

	"pmb_backend/internals/constants"
	assignmentModel "pmb_backend/internals/features/assignment/model"
	documentModel "pmb_backend/internals/features/candidates/documents/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	userModel "pmb_backend/internals/features/users/user/model"
	"pmb_backend/internals/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestRunAllSeedsIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	admin := Admin{Email: " Admin@PMB.local ", Password: "supersecret"}

	require.NoError(t, RunAllSeeds(db, admin))
	require.NoError(t, RunAllSeeds(db, admin))

	assert.EqualValues(t, 5, count(t, db, &masterModel.ProgramModel{}))
	assert.EqualValues(t, 5, count(t, db, &documentModel.DocumentTypeModel{}))
	assert.EqualValues(t, 3, count(t, db, &assignmentModel.AssignmentAlgorithmModel{}))
	assert.EqualValues(t, 5, count(t, db, &masterModel.InteractionCategoryModel{}))
	assert.EqualValues(t, 5, count(t, db, &masterModel.LostReasonModel{}))
	assert.EqualValues(t, 1, count(t, db, &userModel.UserModel{}))

	var active []assignmentModel.AssignmentAlgorithmModel
	require.NoError(t, db.Where("assignment_algorithm_is_active = ?", true).Find(&active).Error)
	require.Len(t, active, 1)
	assert.Equal(t, assignmentModel.AlgoRoundRobin, active[0].AssignmentAlgorithmCode)

	var u userModel.UserModel
	require.NoError(t, db.Where("user_email = ?", "admin@pmb.local").Take(&u).Error)
	assert.Equal(t, constants.RoleAdmin, u.UserRole)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.UserPassword), []byte("supersecret")))
}

func TestSeedLookupsKeepsChosenAlgorithm(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedAlgorithms(t, db, assignmentModel.AlgoRandom)

	require.NoError(t, SeedLookups(db))

	var active []assignmentModel.AssignmentAlgorithmModel
	require.NoError(t, db.Where("assignment_algorithm_is_active = ?", true).Find(&active).Error)
	require.Len(t, active, 1)
	assert.Equal(t, assignmentModel.AlgoRandom, active[0].AssignmentAlgorithmCode)
}

func TestSeedAdminSkipsOrRejects(t *testing.T) {
	db := testkit.NewDB(t)

	require.NoError(t, SeedAdmin(db, Admin{Email: "admin@pmb.local"}))
	assert.EqualValues(t, 0, count(t, db, &userModel.UserModel{}))

	assert.Error(t, SeedAdmin(db, Admin{Email: "admin@pmb.local", Password: "pendek"}))
}
