package service

import (
	"errors"
	"strings"
	"time"

	"pmb_backend/internals/configs"
	authModel "pmb_backend/internals/features/users/auth/model"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const accessTTLDefault = 24 * time.Hour

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.Cfg.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET belum diset")
	}
	return secret, nil
}

// IssueToken membuat access token HS256 dengan klaim id/kind/role/exp.
func IssueToken(id uuid.UUID, kind, role string) (string, time.Time, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", time.Time{}, err
	}
	ttl := configs.Cfg.JWTTTL
	if ttl <= 0 {
		ttl = accessTTLDefault
	}
	now := nowUTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"id":   id.String(),
		"kind": kind,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// SetSessionCookie: cookie access_token httpOnly, Secure hanya di production.
func SetSessionCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     authMw.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   configs.Cfg.IsProduction(),
		SameSite: "Lax",
		Expires:  exp,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authMw.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   configs.Cfg.IsProduction(),
		SameSite: "Lax",
		Expires:  time.Unix(0, 0),
	})
}

// Blacklist menyimpan token sampai masa berlakunya habis. Token yang sama dua kali → no-op.
func Blacklist(db *gorm.DB, token string, exp time.Time) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token kosong")
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklist{Token: token, ExpiredAt: exp}).Error
}
