// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"time"

	"pmb_backend/internals/configs"
	"pmb_backend/internals/constants"
	authModel "pmb_backend/internals/features/users/auth/model"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const expirySkew = 30 * time.Second

var (
	errNoToken     = errors.New("no token")
	errBlacklisted = errors.New("token blacklisted")
	errInactive    = errors.New("principal inactive")
)

// AuthMiddleware: wajib login (cookie access_token atau Bearer).
func AuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := authenticate(c, db)
		if err != nil {
			switch {
			case errors.Is(err, errNoToken):
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Silakan login terlebih dahulu")
			case errors.Is(err, errBlacklisted):
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token is blacklisted")
			case errors.Is(err, errInactive):
				return fiber.NewError(fiber.StatusForbidden, "Akun Anda telah dinonaktifkan")
			case errors.Is(err, gorm.ErrRecordNotFound):
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Akun tidak ditemukan")
			default:
				zap.S().Debugw("auth gagal", "path", c.Path(), "err", err)
				return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Token tidak valid")
			}
		}
		SetPrincipal(c, p)
		return c.Next()
	}
}

// OptionalAuthMiddleware: pasang principal kalau token valid, selain itu lanjut sebagai anonim.
func OptionalAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p, err := authenticate(c, db); err == nil {
			SetPrincipal(c, p)
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, db *gorm.DB) (*Principal, error) {
	tokenString, err := extractBearerToken(c)
	if err != nil {
		return nil, errNoToken
	}

	var n int64
	if err := db.Model(&authModel.TokenBlacklist{}).
		Where("token_blacklist_token = ?", tokenString).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, errBlacklisted
	}

	p, err := ParseToken(configs.Cfg.JWTSecret, tokenString, expirySkew)
	if err != nil {
		return nil, err
	}
	if err := ensurePrincipalActive(db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func ensurePrincipalActive(db *gorm.DB, p *Principal) error {
	switch p.Kind {
	case constants.KindStaff:
		var row struct{ Active bool }
		if err := db.Table("users").
			Select("user_is_active AS active").
			Where("user_id = ? AND user_deleted_at IS NULL", p.ID).
			Take(&row).Error; err != nil {
			return err
		}
		if !row.Active {
			return errInactive
		}
	case constants.KindCandidate:
		var n int64
		if err := db.Table("candidates").
			Where("candidate_id = ? AND candidate_deleted_at IS NULL", p.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}
