// internals/middlewares/auth/claim_utils.go
package auth

import (
	"fmt"
	"strings"
	"time"

	"pmb_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// Nama cookie sesi
	CookieName = "access_token"

	localsPrincipal = "principal"
)

// Principal: identitas yang sedang login (staf atau kandidat).
type Principal struct {
	ID        uuid.UUID
	Kind      string // staff | candidate
	Role      string // kosong untuk kandidat
	Token     string
	ExpiresAt time.Time
}

func (p *Principal) IsStaff() bool     { return p != nil && p.Kind == constants.KindStaff }
func (p *Principal) IsCandidate() bool { return p != nil && p.Kind == constants.KindCandidate }

// Can: capability check untuk staf. Kandidat tidak punya capability admin.
func (p *Principal) Can(c constants.Capability) bool {
	return p.IsStaff() && constants.Can(p.Role, c)
}

// CurrentPrincipal: nil kalau request belum terautentikasi.
func CurrentPrincipal(c *fiber.Ctx) *Principal {
	p, _ := c.Locals(localsPrincipal).(*Principal)
	return p
}

// SetPrincipal dipakai middleware dan login backdoor e2e.
func SetPrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals(localsPrincipal, p)
	c.Locals("user_id", p.ID.String())
	c.Locals("userRole", p.Role)
}

/* ======== Extractors ======== */

func extractBearerToken(c *fiber.Ctx) (string, error) {
	// Authorization header, fallback cookie
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := c.Cookies(CookieName); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", fmt.Errorf("unauthorized - No token provided")
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - Invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - Empty token")
	}
	return tok, nil
}

// ParseToken memverifikasi HS256 + exp lalu membentuk Principal dari klaim id/kind/role.
func ParseToken(secret, tokenString string, skew time.Duration) (*Principal, error) {
	if secret == "" {
		return nil, fmt.Errorf("missing JWT secret")
	}
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}); err != nil {
		return nil, fmt.Errorf("token parse error: %w", err)
	}

	exp, err := validateTokenExpiry(claims, skew)
	if err != nil {
		return nil, err
	}

	idRaw, _ := claims["id"].(string)
	id, err := uuid.Parse(strings.TrimSpace(idRaw))
	if err != nil {
		return nil, fmt.Errorf("invalid or missing id")
	}
	kind, _ := claims["kind"].(string)
	role, _ := claims["role"].(string)
	switch kind {
	case constants.KindStaff:
		if !constants.IsValidRole(role) {
			return nil, fmt.Errorf("invalid role %q", role)
		}
	case constants.KindCandidate:
		role = ""
	default:
		return nil, fmt.Errorf("invalid kind %q", kind)
	}

	return &Principal{ID: id, Kind: kind, Role: role, Token: tokenString, ExpiresAt: exp}, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) (time.Time, error) {
	var expUnix int64
	switch t := claims["exp"].(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case nil:
		return time.Time{}, fmt.Errorf("token has no exp")
	default:
		return time.Time{}, fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return time.Time{}, fmt.Errorf("token expired at %v", expTime)
	}
	return expTime, nil
}
