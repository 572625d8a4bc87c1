package service

import (
	"errors"
	"strings"

	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	authService "pmb_backend/internals/features/users/auth/service"
	"pmb_backend/internals/features/users/user/dto"
	"pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken        = fiber.NewError(fiber.StatusConflict, "Email sudah dipakai akun lain")
	ErrPasswordRequired  = helper.Invalid("password", "Password wajib diisi (minimal 8 karakter)")
	ErrInvalidSupervisor = helper.Invalid("user_supervisor_id", "Supervisor tidak ditemukan atau nonaktif")
	ErrSelfDeactivate    = fiber.NewError(fiber.StatusConflict, "Tidak bisa menonaktifkan akun sendiri")
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

type ListFilter struct {
	Role     string
	Search   string
	IsActive *bool
}

func (s *UserService) List(f ListFilter, p helper.Params) ([]dto.StaffResponse, int64, error) {
	q := s.DB.Model(&model.UserModel{})
	if f.Role != "" {
		q = q.Where("user_role = ?", f.Role)
	}
	if f.IsActive != nil {
		q = q.Where("user_is_active = ?", *f.IsActive)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("(LOWER(user_name) LIKE ? OR LOWER(user_email) LIKE ?)", like, like)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := p.OrderClause(map[string]string{
		"name":       "user_name",
		"role":       "user_role",
		"created_at": "user_created_at",
	}, "name")

	var users []model.UserModel
	if err := q.Order(order).Limit(p.Limit()).Offset(p.Offset()).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	out, err := s.decorate(users)
	return out, total, err
}

func (s *UserService) decorate(users []model.UserModel) ([]dto.StaffResponse, error) {
	out := make([]dto.StaffResponse, 0, len(users))
	if len(users) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(users))
	supIDs := make([]uuid.UUID, 0)
	for _, u := range users {
		ids = append(ids, u.UserID)
		if u.UserSupervisorID != nil {
			supIDs = append(supIDs, *u.UserSupervisorID)
		}
	}

	type countRow struct {
		ConsultantID uuid.UUID
		N            int64
	}
	var counts []countRow
	if err := s.DB.Model(&candidateModel.CandidateModel{}).
		Select("candidate_consultant_id AS consultant_id, COUNT(*) AS n").
		Where("candidate_consultant_id IN ? AND candidate_status IN ?", ids, candidateModel.ActiveStatuses).
		Group("candidate_consultant_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	active := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		active[c.ConsultantID] = c.N
	}

	names := map[uuid.UUID]string{}
	if len(supIDs) > 0 {
		var sups []model.UserModel
		if err := s.DB.Unscoped().Select("user_id", "user_name").Where("user_id IN ?", supIDs).Find(&sups).Error; err != nil {
			return nil, err
		}
		for _, u := range sups {
			names[u.UserID] = u.UserName
		}
	}

	for _, u := range users {
		r := dto.StaffResponse{UserModel: u, ActiveCandidate: active[u.UserID]}
		if u.UserSupervisorID != nil {
			if n, ok := names[*u.UserSupervisorID]; ok {
				r.SupervisorName = &n
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *UserService) Get(id uuid.UUID) (*dto.StaffResponse, error) {
	var u model.UserModel
	if err := s.DB.Where("user_id = ?", id).Take(&u).Error; err != nil {
		return nil, err
	}
	rows, err := s.decorate([]model.UserModel{u})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// Supervisors: pilihan dropdown supervisor untuk form konsultan.
func (s *UserService) Supervisors() ([]model.UserModel, error) {
	var rows []model.UserModel
	err := s.DB.Select("user_id", "user_name", "user_email").
		Where("user_role = ? AND user_is_active = ?", constants.RoleSupervisor, true).
		Order("user_name ASC").Find(&rows).Error
	return rows, err
}

func (s *UserService) checkSupervisor(req dto.StaffRequest, self *uuid.UUID) error {
	if req.SupervisorID == nil {
		return nil
	}
	id := req.ParsedSupervisorID()
	if id == nil || (self != nil && *id == *self) {
		return ErrInvalidSupervisor
	}
	var n int64
	if err := s.DB.Model(&model.UserModel{}).
		Where("user_id = ? AND user_role = ? AND user_is_active = ?", *id, constants.RoleSupervisor, true).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidSupervisor
	}
	return nil
}

func (s *UserService) Create(req dto.StaffRequest) (*model.UserModel, error) {
	req.Normalize()
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if err := s.checkSupervisor(req, nil); err != nil {
		return nil, err
	}
	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &model.UserModel{UserPassword: hash, UserIsActive: true}
	req.ApplyToModel(u)
	if err := s.DB.Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) Update(id uuid.UUID, req dto.StaffRequest) (*model.UserModel, error) {
	req.Normalize()
	if err := s.checkSupervisor(req, &id); err != nil {
		return nil, err
	}
	var u model.UserModel
	if err := s.DB.Where("user_id = ?", id).Take(&u).Error; err != nil {
		return nil, err
	}
	req.ApplyToModel(&u)
	if req.Password != "" {
		hash, err := authService.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		u.UserPassword = hash
	}
	if err := s.DB.Select("*").Omit("user_id", "user_created_at", "user_deleted_at", "user_last_assigned_at").Updates(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &u, nil
}

// Toggle aktif/nonaktif. Staf nonaktif tidak bisa login dan tidak menerima kandidat baru.
func (s *UserService) Toggle(id, actor uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := s.DB.Where("user_id = ?", id).Take(&u).Error; err != nil {
		return nil, err
	}
	if id == actor && u.UserIsActive {
		return nil, ErrSelfDeactivate
	}
	u.UserIsActive = !u.UserIsActive
	if err := s.DB.Model(&u).Update("user_is_active", u.UserIsActive).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
