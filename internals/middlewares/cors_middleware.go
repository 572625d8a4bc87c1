// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware membuat middleware CORS dari daftar origin (CORS_ALLOW_ORIGINS)
func CorsMiddleware(origins []string) fiber.Handler {
	clean := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			clean = append(clean, o)
		}
	}
	if len(clean) == 0 {
		// tanpa allow-list: origin bebas, cookie tidak dikirim lintas origin
		return cors.New(cors.Config{AllowOrigins: "*", AllowCredentials: false})
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(clean, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, HX-Request, HX-Current-URL, X-Request-ID",
		ExposeHeaders:    "Content-Disposition, HX-Redirect, X-Request-ID",
		AllowCredentials: true,
	})
}
