package auth

import (
	"pmb_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireCapability: staf dengan role yang punya capability c. Dipasang setelah AuthMiddleware.
func RequireCapability(c constants.Capability, feature string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p := CurrentPrincipal(ctx)
		if p == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Silakan login terlebih dahulu")
		}
		if !p.IsStaff() {
			return fiber.NewError(fiber.StatusForbidden, constants.ErrOnlyStaff)
		}
		if !p.Can(c) {
			zap.S().Infow("⛔ akses ditolak", "role", p.Role, "capability", c, "path", ctx.Path())
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorForbidden(p.Role, feature))
		}
		return ctx.Next()
	}
}

// OnlyStaff: semua role staf (dashboard admin).
func OnlyStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		if p == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Silakan login terlebih dahulu")
		}
		if !p.IsStaff() {
			return fiber.NewError(fiber.StatusForbidden, constants.ErrOnlyStaff)
		}
		return c.Next()
	}
}

// OnlyCandidate: portal kandidat.
func OnlyCandidate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		if p == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Silakan login terlebih dahulu")
		}
		if !p.IsCandidate() {
			return fiber.NewError(fiber.StatusForbidden, constants.ErrOnlyCandidate)
		}
		return c.Next()
	}
}
