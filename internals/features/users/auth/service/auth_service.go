package service

import (
	"errors"
	"strings"
	"time"

	"pmb_backend/internals/constants"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	candidateRepo "pmb_backend/internals/features/candidates/candidates/repository"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const MsgInvalidCredentials = "Email/No. HP atau password salah"

var ErrInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, MsgInvalidCredentials)

/* ==========================
   Password
========================== */

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPasswordHash(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

/* ==========================
   Login
========================== */

type LoginResult struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Role      string    `json:"role,omitempty"`
	Name      string    `json:"name"`
	Redirect  string    `json:"redirect"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService struct {
	DB         *gorm.DB
	Candidates candidateRepo.CandidateRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db, Candidates: candidateRepo.NewCandidateRepository()}
}

// Login: identifier berupa email atau no HP.
// Staf dicari lewat email; kandidat lewat blind index email / no HP yang sudah dinormalisasi.
func (s *AuthService) Login(identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	if helper.LooksLikeEmail(identifier) {
		u, err := s.findStaff(helper.NormalizeEmail(identifier))
		if err != nil {
			return nil, err
		}
		if u != nil {
			return s.loginStaff(u, password)
		}
	}

	cand, err := s.findCandidate(identifier)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPasswordHash(cand.CandidatePassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := IssueToken(cand.CandidateID, constants.KindCandidate, "")
	if err != nil {
		return nil, err
	}
	redirect := "/portal"
	if cand.CandidateStatus == candidateModel.StatusRegistered {
		redirect = "/register"
	}
	return &LoginResult{
		ID:        cand.CandidateID,
		Kind:      constants.KindCandidate,
		Name:      cand.CandidateName.String(),
		Redirect:  redirect,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

func (s *AuthService) loginStaff(u *userModel.UserModel, password string) (*LoginResult, error) {
	if err := CheckPasswordHash(u.UserPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.UserIsActive {
		return nil, fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
	}
	token, exp, err := IssueToken(u.UserID, constants.KindStaff, u.UserRole)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		ID:        u.UserID,
		Kind:      constants.KindStaff,
		Role:      u.UserRole,
		Name:      u.UserName,
		Redirect:  "/admin",
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

func (s *AuthService) findStaff(email string) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := s.DB.Where("user_email = ?", email).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) findCandidate(identifier string) (*candidateModel.CandidateModel, error) {
	c, err := s.Candidates.FindByIdentifier(s.DB, identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return c, err
}
