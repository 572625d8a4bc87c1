package service

import (
	"errors"
	"math/rand/v2"
	"time"

	"pmb_backend/internals/constants"
	database "pmb_backend/internals/databases"
	"pmb_backend/internals/features/assignment/model"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	userModel "pmb_backend/internals/features/users/user/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNoActiveConsultant = fiber.NewError(fiber.StatusServiceUnavailable, "Belum ada konsultan aktif untuk menerima kandidat")
	ErrNoActiveAlgorithm  = errors.New("tidak ada algoritma assignment yang aktif")
	ErrActivationConflict = fiber.NewError(fiber.StatusConflict, "Algoritma sedang diganti bersamaan, silakan coba lagi")
)

type AssignmentService struct {
	DB *gorm.DB
	IntN func(n int) int
	Now  func() time.Time
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: db, IntN: rand.IntN, Now: time.Now}
}

/* =========================
   Algoritma
========================= */

func (s *AssignmentService) List() ([]model.AssignmentAlgorithmModel, error) {
	var rows []model.AssignmentAlgorithmModel
	err := s.DB.Order("assignment_algorithm_code ASC").Find(&rows).Error
	return rows, err
}

// ActiveAlgorithm: fallback round_robin kalau belum ada baris aktif (DB baru tanpa seed).
func (s *AssignmentService) ActiveAlgorithm(tx *gorm.DB) (string, error) {
	var row model.AssignmentAlgorithmModel
	err := tx.Where("assignment_algorithm_is_active = ?", true).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		zap.S().Warnw("⚠️ "+ErrNoActiveAlgorithm.Error()+", pakai round_robin")
		return model.AlgoRoundRobin, nil
	}
	if err != nil {
		return "", err
	}
	return row.AssignmentAlgorithmCode, nil
}

// Activate: nonaktifkan semua lalu aktifkan target dalam satu transaksi.
// Semua baris dikunci dulu, aktivasi paralel jadi antre.
func (s *AssignmentService) Activate(id uuid.UUID) (*model.AssignmentAlgorithmModel, error) {
	var target model.AssignmentAlgorithmModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var all []model.AssignmentAlgorithmModel
		if err := database.ForUpdate(tx).Order("assignment_algorithm_id ASC").Find(&all).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_algorithm_id = ?", id).Take(&target).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.AssignmentAlgorithmModel{}).
			Where("assignment_algorithm_is_active = ? AND assignment_algorithm_id <> ?", true, id).
			Update("assignment_algorithm_is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&target).Update("assignment_algorithm_is_active", true).Error; err != nil {
			return err
		}
		target.AssignmentAlgorithmIsActive = true
		return nil
	})
	if err != nil {
		return nil, activationError(err)
	}
	zap.S().Infow("🔀 algoritma assignment diaktifkan", "code", target.AssignmentAlgorithmCode)
	return &target, nil
}

// activationError: tabrakan index "satu aktif" bukan duplikat data, cukup diulang.
func activationError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		zap.S().Warnw("⚠️ aktivasi algoritma bertabrakan", "err", err)
		return ErrActivationConflict
	}
	return err
}

/* =========================
   Beban kerja konsultan
========================= */

type countRow struct {
	ConsultantID uuid.UUID
	Total        int64
	Active       int64
}

// ConsultantLoads: semua konsultan aktif + jumlah kandidat aktif/total.
func (s *AssignmentService) ConsultantLoads(tx *gorm.DB) ([]ConsultantLoad, error) {
	// serialisasi pemilihan konsultan antar registrasi paralel
	q := database.ForUpdate(tx).Where("user_role = ? AND user_is_active = ?", constants.RoleConsultant, true)
	var users []userModel.UserModel
	if err := q.Order("user_name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	var counts []countRow
	if err := tx.Model(&candidateModel.CandidateModel{}).
		Select(`candidate_consultant_id AS consultant_id,
		        COUNT(*) AS total,
		        SUM(CASE WHEN candidate_status IN ? THEN 1 ELSE 0 END) AS active`, candidateModel.ActiveStatuses).
		Where("candidate_consultant_id IN ?", ids).
		Group("candidate_consultant_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]countRow, len(counts))
	for _, c := range counts {
		byID[c.ConsultantID] = c
	}

	out := make([]ConsultantLoad, 0, len(users))
	for _, u := range users {
		c := byID[u.UserID]
		out = append(out, ConsultantLoad{
			ID:             u.UserID,
			Name:           u.UserName,
			SupervisorID:   u.UserSupervisorID,
			LastAssignedAt: u.UserLastAssignedAt,
			ActiveCount:    c.Active,
			TotalCount:     c.Total,
		})
	}
	return out, nil
}

// Pick memilih konsultan sesuai algoritma aktif lalu mencatat user_last_assigned_at.
// Dipanggil di dalam transaksi registrasi.
func (s *AssignmentService) Pick(tx *gorm.DB) (*ConsultantLoad, string, error) {
	code, err := s.ActiveAlgorithm(tx)
	if err != nil {
		return nil, "", err
	}
	loads, err := s.ConsultantLoads(tx)
	if err != nil {
		return nil, "", err
	}

	var (
		picked ConsultantLoad
		ok     bool
	)
	switch code {
	case model.AlgoLeastWorkload:
		picked, ok = PickLeastWorkload(loads)
	case model.AlgoRandom:
		picked, ok = PickRandom(loads, s.IntN)
	default:
		picked, ok = PickRoundRobin(loads)
	}
	if !ok {
		return nil, code, ErrNoActiveConsultant
	}

	now := s.Now().UTC()
	if err := tx.Model(&userModel.UserModel{}).
		Where("user_id = ?", picked.ID).
		Update("user_last_assigned_at", now).Error; err != nil {
		return nil, code, err
	}
	picked.LastAssignedAt = &now
	return &picked, code, nil
}
