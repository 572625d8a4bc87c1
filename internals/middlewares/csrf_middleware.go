package middlewares

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CSRFProtection menolak request state-changing lintas situs.
//
//   - Origin ada: host:port harus sama dengan Host request, atau origin ada di allow-list CORS.
//   - Origin tidak ada tapi Sec-Fetch-Site: cross-site → ditolak.
//   - Tanpa kedua header (curl, server-to-server, webhook) → diizinkan.
func CSRFProtection(allowedOrigins []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = normalizeOrigin(o); o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		origin := strings.TrimSpace(c.Get(fiber.HeaderOrigin))
		site := strings.ToLower(strings.TrimSpace(c.Get("Sec-Fetch-Site")))

		if origin != "" {
			if sameOrigin(origin, c.Protocol(), c.Hostname()) {
				return c.Next()
			}
			if _, ok := allowed[normalizeOrigin(origin)]; ok {
				return c.Next()
			}
			return csrfReject(c, origin, site)
		}
		if site == "cross-site" {
			return csrfReject(c, origin, site)
		}
		return c.Next()
	}
}

func csrfReject(c *fiber.Ctx, origin, site string) error {
	zap.S().Warnw("🛑 CSRF ditolak", "path", c.Path(), "origin", origin, "sec_fetch_site", site)
	return fiber.NewError(fiber.StatusForbidden, "Permintaan lintas situs ditolak")
}

func sameOrigin(origin, reqScheme, reqHost string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" {
		return false
	}
	oh, op := strings.ToLower(u.Hostname()), u.Port()
	if op == "" {
		op = defaultPort(u.Scheme)
	}
	rh, rp := splitHostPort(strings.ToLower(reqHost))
	if rp == "" {
		rp = defaultPort(reqScheme)
	}
	return oh != "" && oh == rh && op == rp && strings.EqualFold(u.Scheme, reqScheme)
}

func splitHostPort(h string) (string, string) {
	u, err := url.Parse("//" + h)
	if err != nil {
		return h, ""
	}
	return u.Hostname(), u.Port()
}

func defaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}

func normalizeOrigin(o string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/"))
}
