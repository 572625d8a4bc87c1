package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	database "pmb_backend/internals/databases"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	"pmb_backend/internals/features/candidates/candidates/repository"
	billingModel "pmb_backend/internals/features/finance/billings/model"
	billingService "pmb_backend/internals/features/finance/billings/service"
	"pmb_backend/internals/features/finance/payments/dto"
	"pmb_backend/internals/features/finance/payments/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrGatewayDisabled  = fiber.NewError(fiber.StatusServiceUnavailable, "Pembayaran online belum tersedia")
	ErrGatewayFailed    = fiber.NewError(fiber.StatusBadGateway, "Gateway pembayaran tidak bisa dihubungi, coba lagi")
	ErrInvalidSignature = fiber.NewError(fiber.StatusForbidden, "Signature notifikasi tidak valid")
	ErrUnknownOrder     = fiber.NewError(fiber.StatusNotFound, "Order pembayaran tidak ditemukan")
	ErrAmountMismatch   = fiber.NewError(fiber.StatusUnprocessableEntity, "Nominal notifikasi tidak sesuai tagihan")
)

type PaymentService struct {
	DB        *gorm.DB
	Gateway   Gateway
	Billings  *billingService.BillingService
	ServerKey string
	Now       func() time.Time
}

func NewPaymentService(db *gorm.DB, gw Gateway, serverKey string) *PaymentService {
	return &PaymentService{
		DB:        db,
		Gateway:   gw,
		Billings:  billingService.NewBillingService(db),
		ServerKey: serverKey,
		Now:       time.Now,
	}
}

/* =========================================================
   BAYAR (PORTAL)
========================================================= */

// Pay: buka transaksi Snap untuk tagihan milik kandidat. Percobaan pending dengan
// nominal sama dipakai ulang supaya kandidat tidak membuat order ganda.
func (s *PaymentService) Pay(ctx context.Context, candidateID, billingID uuid.UUID) (*dto.PayResult, error) {
	if s.Gateway == nil {
		return nil, ErrGatewayDisabled
	}
	var b billingModel.BillingModel
	if err := s.DB.Where("billing_id = ? AND billing_candidate_id = ?", billingID, candidateID).Take(&b).Error; err != nil {
		return nil, err
	}
	if b.BillingStatus != billingModel.BillingUnpaid && b.BillingStatus != billingModel.BillingPending {
		return nil, billingService.ErrNotPayable
	}

	var open model.PaymentModel
	err := s.DB.Where("payment_billing_id = ? AND payment_status = ? AND payment_amount = ?",
		b.BillingID, model.PaymentStatusPending, b.BillingAmount).
		Order("payment_created_at DESC").Take(&open).Error
	switch {
	case err == nil && open.PaymentSnapToken != nil:
		res := &dto.PayResult{
			BillingID: b.BillingID, OrderID: open.PaymentOrderID, Amount: open.PaymentAmount,
			SnapToken: *open.PaymentSnapToken, Reused: true,
		}
		if open.PaymentRedirectURL != nil {
			res.RedirectURL = *open.PaymentRedirectURL
		}
		return res, nil
	case err != nil && !repository.IsNotFound(err):
		return nil, err
	}

	var c candidateModel.CandidateModel
	if err := s.DB.Where("candidate_id = ?", candidateID).Take(&c).Error; err != nil {
		return nil, err
	}

	orderID := b.BillingNumber + "-" + strconv.FormatInt(s.Now().Unix(), 36)
	charge, err := s.Gateway.CreateCharge(ctx, ChargeRequest{
		OrderID:       orderID,
		Amount:        b.BillingAmount,
		ItemName:      billingModel.BillingTypeLabel(b.BillingType),
		CustomerName:  c.CandidateName.String(),
		CustomerEmail: c.CandidateEmail.String(),
		CustomerPhone: c.CandidatePhone.String(),
	})
	if err != nil {
		zap.S().Errorw("❌ buat transaksi gateway gagal", "order_id", orderID, "err", err)
		return nil, ErrGatewayFailed
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		p := model.PaymentModel{
			PaymentBillingID:   b.BillingID,
			PaymentCandidateID: candidateID,
			PaymentOrderID:     orderID,
			PaymentProvider:    s.Gateway.Provider(),
			PaymentAmount:      b.BillingAmount,
			PaymentStatus:      model.PaymentStatusPending,
			PaymentSnapToken:   &charge.Token,
			PaymentRedirectURL: &charge.RedirectURL,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		res := tx.Model(&billingModel.BillingModel{}).
			Where("billing_id = ? AND billing_status IN ?", b.BillingID,
				[]string{billingModel.BillingUnpaid, billingModel.BillingPending}).
			Update("billing_status", billingModel.BillingPending)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return billingService.ErrNotPayable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.S().Infow("💳 transaksi dibuka", "order_id", orderID, "amount", b.BillingAmount)
	return &dto.PayResult{
		BillingID: b.BillingID, OrderID: orderID, Amount: b.BillingAmount,
		SnapToken: charge.Token, RedirectURL: charge.RedirectURL,
	}, nil
}

/* =========================================================
   NOTIFICATION (WEBHOOK)
========================================================= */

func amountMatches(gross string, amount int64) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(gross), 64)
	if err != nil {
		return false
	}
	return int64(math.Round(f)) == amount
}

// Notify: semua notifikasi disimpan mentah dulu, baru diproses kalau signature valid.
func (s *PaymentService) Notify(n dto.MidtransNotification, raw []byte) error {
	verified := VerifyMidtransSignature(n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey, n.SignatureKey)

	ev := model.PaymentGatewayEventModel{
		GatewayEventProvider: model.GatewayProviderMidtrans,
		GatewayEventOrderID:  n.OrderID,
		GatewayEventStatus:   n.TransactionStatus,
		GatewayEventVerified: verified,
		GatewayEventPayload:  datatypes.JSON(raw),
	}
	if n.SignatureKey != "" {
		ev.GatewayEventSignature = &n.SignatureKey
	}
	if err := s.DB.Create(&ev).Error; err != nil {
		return err
	}
	if !verified {
		zap.S().Warnw("⚠️ notifikasi gateway ditolak: signature salah", "order_id", n.OrderID)
		return ErrInvalidSignature
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var p model.PaymentModel
		err := database.ForUpdate(tx).Where("payment_order_id = ?", n.OrderID).Take(&p).Error
		if repository.IsNotFound(err) {
			return ErrUnknownOrder
		}
		if err != nil {
			return err
		}
		if !amountMatches(n.GrossAmount, p.PaymentAmount) {
			zap.S().Warnw("⚠️ nominal notifikasi beda", "order_id", n.OrderID, "gross", n.GrossAmount, "amount", p.PaymentAmount)
			return ErrAmountMismatch
		}

		switch n.TransactionStatus {
		case "capture":
			if n.FraudStatus == "challenge" {
				return nil
			}
			fallthrough
		case "settlement":
			return s.markPaid(tx, &p)
		case "expire":
			return s.close(tx, &p, model.PaymentStatusExpired)
		case "cancel", "deny", "failure":
			return s.close(tx, &p, model.PaymentStatusFailed)
		}
		zap.S().Infow("ℹ️ status gateway tidak diproses", "order_id", n.OrderID, "status", n.TransactionStatus)
		return nil
	})
}

func (s *PaymentService) markPaid(tx *gorm.DB, p *model.PaymentModel) error {
	if p.PaymentStatus == model.PaymentStatusPaid {
		return nil
	}
	now := s.Now()
	if err := tx.Model(&model.PaymentModel{}).Where("payment_id = ?", p.PaymentID).
		Updates(map[string]any{"payment_status": model.PaymentStatusPaid, "payment_paid_at": now}).Error; err != nil {
		return err
	}
	ok, err := s.Billings.Settle(tx, p.PaymentBillingID, model.PaymentMethodGateway, now)
	if err != nil {
		return err
	}
	if !ok {
		zap.S().Warnw("⚠️ pembayaran masuk untuk tagihan yang sudah lunas/dibatalkan", "order_id", p.PaymentOrderID)
	}
	return nil
}

// close: percobaan gagal/kedaluwarsa. Tagihan kembali unpaid kalau tidak ada percobaan lain yang masih pending.
func (s *PaymentService) close(tx *gorm.DB, p *model.PaymentModel, to model.PaymentStatus) error {
	if p.PaymentStatus != model.PaymentStatusPending {
		return nil
	}
	if err := tx.Model(&model.PaymentModel{}).Where("payment_id = ?", p.PaymentID).
		Update("payment_status", to).Error; err != nil {
		return err
	}
	var open int64
	if err := tx.Model(&model.PaymentModel{}).
		Where("payment_billing_id = ? AND payment_status = ?", p.PaymentBillingID, model.PaymentStatusPending).
		Count(&open).Error; err != nil {
		return err
	}
	if open > 0 {
		return nil
	}
	return tx.Model(&billingModel.BillingModel{}).
		Where("billing_id = ? AND billing_status = ?", p.PaymentBillingID, billingModel.BillingPending).
		Update("billing_status", billingModel.BillingUnpaid).Error
}
