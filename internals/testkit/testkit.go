// Package testkit menyiapkan DB SQLite in-memory + data dasar untuk test lintas paket.
package testkit

import (
	"fmt"
	"testing"
	"time"

	"pmb_backend/internals/configs"
	database "pmb_backend/internals/databases"
	assignmentModel "pmb_backend/internals/features/assignment/model"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	documentModel "pmb_backend/internals/features/candidates/documents/model"
	userModel "pmb_backend/internals/features/users/user/model"
	"pmb_backend/internals/helpers/fieldcrypt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	EncKey   = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	IndexKey = "1f1e1d1c1b1a191817161514131211100f0e0d0c0b0a09080706050403020100"
	JWTKey   = "test-jwt-secret"
	Password = "rahasia123"
)

// NewDB: SQLite in-memory unik per test, skema dari AutoMigrate yang sama dengan produksi.
// Satu koneksi saja supaya in-memory DB tidak hilang; di dalam transaksi selalu pakai tx.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	require.NoError(t, fieldcrypt.Configure(EncKey, IndexKey))
	configs.Cfg.JWTSecret = JWTKey
	if configs.Cfg.JWTTTL == 0 {
		configs.Cfg.JWTTTL = time.Hour
	}
	if configs.Cfg.UploadMaxMB == 0 {
		configs.Cfg.UploadMaxMB = 5
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	cfg := database.GormConfig()
	cfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser: staf aktif dengan password Password.
func CreateUser(t *testing.T, db *gorm.DB, role, name string, supervisorID *uuid.UUID) userModel.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := userModel.UserModel{
		UserName:         name,
		UserEmail:        fmt.Sprintf("%s.%s@pmb.test", role, uuid.NewString()[:8]),
		UserPassword:     string(hash),
		UserRole:         role,
		UserIsActive:     true,
		UserSupervisorID: supervisorID,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// SeedAlgorithms: tiga strategi, activeCode yang aktif.
func SeedAlgorithms(t *testing.T, db *gorm.DB, activeCode string) {
	t.Helper()
	for _, code := range []string{assignmentModel.AlgoRoundRobin, assignmentModel.AlgoLeastWorkload, assignmentModel.AlgoRandom} {
		require.NoError(t, db.Create(&assignmentModel.AssignmentAlgorithmModel{
			AssignmentAlgorithmCode:     code,
			AssignmentAlgorithmName:     code,
			AssignmentAlgorithmIsActive: code == activeCode,
		}).Error)
	}
}

// SeedDocumentTypes: ktp (wajib), photo (wajib), ijazah (boleh menyusul).
func SeedDocumentTypes(t *testing.T, db *gorm.DB) {
	t.Helper()
	types := []documentModel.DocumentTypeModel{
		{DocumentTypeCode: "ktp", DocumentTypeName: "KTP", DocumentTypeIsRequired: true, DocumentTypeSortOrder: 1},
		{DocumentTypeCode: "photo", DocumentTypeName: "Pas Foto", DocumentTypeIsRequired: true, DocumentTypeSortOrder: 2},
		{DocumentTypeCode: "ijazah", DocumentTypeName: "Ijazah", DocumentTypeCanDefer: true, DocumentTypeSortOrder: 3},
	}
	for i := range types {
		types[i].DocumentTypeMaxSizeMB = 5
		types[i].DocumentTypeAcceptedMimes = "application/pdf,image/jpeg,image/png"
		types[i].DocumentTypeIsActive = true
		require.NoError(t, db.Create(&types[i]).Error)
	}
}

// CreateCandidate: kandidat yang sudah menyelesaikan registrasi (prospecting).
func CreateCandidate(t *testing.T, db *gorm.DB, name, email string, consultant *userModel.UserModel) candidateModel.CandidateModel {
	t.Helper()
	idx, err := fieldcrypt.BlindIndex(email)
	require.NoError(t, err)
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	c := candidateModel.CandidateModel{
		CandidateName:             fieldcrypt.Sealed(name),
		CandidateEmail:            fieldcrypt.Sealed(email),
		CandidateEmailIndex:       &idx,
		CandidatePassword:         string(hash),
		CandidateStatus:           candidateModel.StatusProspecting,
		CandidateRegistrationStep: candidateModel.StepSource,
		CandidateRegisteredAt:     &now,
	}
	if consultant != nil {
		c.CandidateConsultantID = &consultant.UserID
		c.CandidateSupervisorID = consultant.UserSupervisorID
		c.CandidateAssignedAt = &now
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}
