package controller

import (
	"pmb_backend/internals/configs"
	"pmb_backend/internals/features/finance/payments/dto"
	"pmb_backend/internals/features/finance/payments/service"
	helper "pmb_backend/internals/helpers"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentController struct {
	Svc *service.PaymentService
}

func NewPaymentController(db *gorm.DB, gw service.Gateway) *PaymentController {
	return &PaymentController{Svc: service.NewPaymentService(db, gw, configs.Cfg.MidtransServerKey)}
}

// POST /portal/billings/:id/pay
func (h *PaymentController) Pay(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := h.Svc.Pay(c.UserContext(), authMw.CurrentPrincipal(c).ID, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Silakan lanjutkan pembayaran", res)
}

// POST /payments/midtrans/notification
func (h *PaymentController) MidtransNotification(c *fiber.Ctx) error {
	raw := append([]byte(nil), c.Body()...)
	var n dto.MidtransNotification
	if err := sonic.Unmarshal(raw, &n); err != nil || n.OrderID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload notifikasi tidak valid")
	}
	if err := h.Svc.Notify(n, raw); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "ok", nil)
}
