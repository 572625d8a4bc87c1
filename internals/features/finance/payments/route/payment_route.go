package route

import (
	"pmb_backend/internals/features/finance/payments/controller"
	"pmb_backend/internals/features/finance/payments/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentPortalRoutes: r = group /portal.
func PaymentPortalRoutes(r fiber.Router, db *gorm.DB, gw service.Gateway) {
	ctl := controller.NewPaymentController(db, gw)
	r.Post("/billings/:id/pay", ctl.Pay)
}

// PaymentWebhookRoutes: publik, keaslian dicek lewat signature.
func PaymentWebhookRoutes(app fiber.Router, db *gorm.DB, gw service.Gateway) {
	ctl := controller.NewPaymentController(db, gw)
	app.Post("/payments/midtrans/notification", ctl.MidtransNotification)
}
