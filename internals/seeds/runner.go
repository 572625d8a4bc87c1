// Package seeds mengisi data master awal. Semua seeder idempoten: data yang sudah ada dilewati.
package seeds

import (
	"embed"
	"errors"
	"strings"

	"pmb_backend/internals/constants"
	assignmentModel "pmb_backend/internals/features/assignment/model"
	documentModel "pmb_backend/internals/features/candidates/documents/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	authService "pmb_backend/internals/features/users/auth/service"
	userModel "pmb_backend/internals/features/users/user/model"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed data/*.json
var dataFS embed.FS

type programSeed struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Faculty string `json:"faculty"`
	Degree  string `json:"degree"`
	Quota   int    `json:"quota"`
}

type documentTypeSeed struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Required  bool   `json:"required"`
	CanDefer  bool   `json:"can_defer"`
	MaxSizeMB int    `json:"max_size_mb"`
	Mimes     string `json:"mimes"`
}

type lookupSeed struct {
	Algorithms []struct {
		Code        string `json:"code"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"algorithms"`
	Categories  []string `json:"categories"`
	LostReasons []string `json:"lost_reasons"`
}

// Admin: akun admin pertama. Kosongkan Password untuk melewati.
type Admin struct {
	Email    string
	Password string
}

func readJSON(name string, out any) error {
	b, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(b, out)
}

func exists(db *gorm.DB, m any, where string, args ...any) (bool, error) {
	var n int64
	if err := db.Model(m).Where(where, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

/* =========================================================
   RUNNER
========================================================= */

func RunAllSeeds(db *gorm.DB, admin Admin) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"programs", SeedPrograms},
		{"document_types", SeedDocumentTypes},
		{"lookups", SeedLookups},
		{"admin", func(tx *gorm.DB) error { return SeedAdmin(tx, admin) }},
	}
	for _, s := range steps {
		if err := s.fn(db); err != nil {
			zap.S().Errorw("❌ seed gagal", "step", s.name, "err", err)
			return err
		}
	}
	zap.S().Info("🌱 Seed selesai")
	return nil
}

func SeedPrograms(db *gorm.DB) error {
	var rows []programSeed
	if err := readJSON("programs.json", &rows); err != nil {
		return err
	}
	for _, r := range rows {
		ok, err := exists(db, &masterModel.ProgramModel{}, "program_code = ?", r.Code)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		faculty, degree, quota := r.Faculty, r.Degree, r.Quota
		if err := db.Create(&masterModel.ProgramModel{
			ProgramCode:     r.Code,
			ProgramName:     r.Name,
			ProgramFaculty:  &faculty,
			ProgramDegree:   &degree,
			ProgramQuota:    &quota,
			ProgramIsActive: true,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

func SeedDocumentTypes(db *gorm.DB) error {
	var rows []documentTypeSeed
	if err := readJSON("document_types.json", &rows); err != nil {
		return err
	}
	for i, r := range rows {
		ok, err := exists(db, &documentModel.DocumentTypeModel{}, "document_type_code = ?", r.Code)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := db.Create(&documentModel.DocumentTypeModel{
			DocumentTypeCode:          r.Code,
			DocumentTypeName:          r.Name,
			DocumentTypeIsRequired:    r.Required,
			DocumentTypeCanDefer:      r.CanDefer,
			DocumentTypeMaxSizeMB:     r.MaxSizeMB,
			DocumentTypeAcceptedMimes: r.Mimes,
			DocumentTypeSortOrder:     i + 1,
			DocumentTypeIsActive:      true,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedLookups: algoritma penugasan (round_robin aktif kalau belum ada yang aktif), kategori interaksi, alasan lost.
func SeedLookups(db *gorm.DB) error {
	var data lookupSeed
	if err := readJSON("lookups.json", &data); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		anyActive, err := exists(tx, &assignmentModel.AssignmentAlgorithmModel{}, "assignment_algorithm_is_active = ?", true)
		if err != nil {
			return err
		}
		for _, a := range data.Algorithms {
			ok, err := exists(tx, &assignmentModel.AssignmentAlgorithmModel{}, "assignment_algorithm_code = ?", a.Code)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			desc := a.Description
			if err := tx.Create(&assignmentModel.AssignmentAlgorithmModel{
				AssignmentAlgorithmCode:        a.Code,
				AssignmentAlgorithmName:        a.Name,
				AssignmentAlgorithmDescription: &desc,
				AssignmentAlgorithmIsActive:    !anyActive && a.Code == assignmentModel.AlgoRoundRobin,
			}).Error; err != nil {
				return err
			}
		}

		for i, name := range data.Categories {
			ok, err := exists(tx, &masterModel.InteractionCategoryModel{}, "category_name = ?", name)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			if err := tx.Create(&masterModel.InteractionCategoryModel{
				CategoryName: name, CategorySortOrder: i + 1, CategoryIsActive: true,
			}).Error; err != nil {
				return err
			}
		}

		for i, name := range data.LostReasons {
			ok, err := exists(tx, &masterModel.LostReasonModel{}, "lost_reason_name = ?", name)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			if err := tx.Create(&masterModel.LostReasonModel{
				LostReasonName: name, LostReasonSortOrder: i + 1, LostReasonIsActive: true,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func SeedAdmin(db *gorm.DB, admin Admin) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		zap.S().Info("ℹ️ SEED_ADMIN_PASSWORD kosong, seed admin dilewati")
		return nil
	}
	if len(admin.Password) < 8 {
		return errors.New("SEED_ADMIN_PASSWORD minimal 8 karakter")
	}
	ok, err := exists(db, &userModel.UserModel{}, "user_email = ?", email)
	if err != nil || ok {
		return err
	}
	hash, err := authService.HashPassword(admin.Password)
	if err != nil {
		return err
	}
	if err := db.Create(&userModel.UserModel{
		UserName:     "Administrator",
		UserEmail:    email,
		UserPassword: hash,
		UserRole:     constants.RoleAdmin,
		UserIsActive: true,
	}).Error; err != nil {
		return err
	}
	zap.S().Infow("👤 admin dibuat", "email", email)
	return nil
}
