package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// RequestIDLocal: key locals untuk id request, diisi middleware RequestID.
const RequestIDLocal = "request_id"

// skipPaths: probe load balancer, tidak perlu masuk access log.
var skipPaths = map[string]struct{}{
	"/health": {},
}

// AccessLog: satu baris per request, waktu WIB, id request di kolom kedua.
func AccessLog() fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			_, skip := skipPaths[c.Path()]
			return skip
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${locals:" + RequestIDLocal + "} ${ip} ${method} ${path} ${status} ${latency} ${bytesSent}B\n",
	})
}
