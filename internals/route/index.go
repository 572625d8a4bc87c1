package routes

import (
	"pmb_backend/internals/configs"
	"pmb_backend/internals/constants"
	announcementRoute "pmb_backend/internals/features/announcements/route"
	assignmentRoute "pmb_backend/internals/features/assignment/route"
	candidateRoute "pmb_backend/internals/features/candidates/candidates/route"
	documentRoute "pmb_backend/internals/features/candidates/documents/route"
	interactionRoute "pmb_backend/internals/features/candidates/interactions/route"
	billingRoute "pmb_backend/internals/features/finance/billings/route"
	paymentRoute "pmb_backend/internals/features/finance/payments/route"
	paymentService "pmb_backend/internals/features/finance/payments/service"
	claimRoute "pmb_backend/internals/features/referrals/claims/route"
	commissionRoute "pmb_backend/internals/features/referrals/commissions/route"
	referrerRoute "pmb_backend/internals/features/referrals/referrers/route"
	rewardRoute "pmb_backend/internals/features/referrals/rewards/route"
	reportRoute "pmb_backend/internals/features/reports/route"
	masterRoute "pmb_backend/internals/features/settings/masters/route"
	authRoute "pmb_backend/internals/features/users/auth/route"
	userRoute "pmb_backend/internals/features/users/user/route"
	oss "pmb_backend/internals/helpers/oss"
	"pmb_backend/internals/middlewares"
	authMw "pmb_backend/internals/middlewares/auth"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps: dependensi eksternal yang bisa diganti di test.
type Deps struct {
	Blob    oss.BlobService
	Gateway paymentService.Gateway // nil = pembayaran online mati
}

// NewApp: fiber.App dengan konfigurasi yang sama untuk main dan test.
func NewApp() *fiber.App {
	// body harus muat file terbesar yang boleh diset per jenis dokumen
	maxMB := max(configs.Cfg.UploadMaxMB, constants.MaxDocumentSizeMB)
	return fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          middlewares.ErrorHandler,
		BodyLimit:             (maxMB + 1) * 1024 * 1024, // multipart overhead di atas batas file
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})
}

// DepsFromConfig: OSS kalau USE_OSS, selain itu disk lokal; Midtrans aktif kalau server key ada.
func DepsFromConfig(cfg configs.AppConfig) Deps {
	var deps Deps
	if cfg.UseOSS {
		blob, err := oss.NewOSSBlobServiceFromEnv("pmb")
		if err != nil {
			zap.S().Fatalf("❌ OSS tidak bisa diinisialisasi: %v", err)
		}
		deps.Blob = blob
	} else {
		deps.Blob = oss.NewLocalBlobService(cfg.UploadDir, cfg.BaseURL)
	}
	if cfg.MidtransServerKey != "" {
		deps.Gateway = paymentService.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransUseProd)
	} else {
		zap.S().Warn("⚠️ MIDTRANS_SERVER_KEY kosong, pembayaran online dimatikan")
	}
	return deps
}

func SetupRoutes(app *fiber.App, db *gorm.DB, deps Deps) {
	BaseRoutes(app, db)
	testRoutes(app, db)

	if _, ok := deps.Blob.(*oss.LocalBlobService); ok {
		app.Static("/uploads", configs.Cfg.UploadDir)
	}

	// ===================== PUBLIC =====================
	zap.S().Info("[INFO] Setting up public routes...")
	authRoute.AuthRoutes(app, db)
	candidateRoute.RegistrationRoutes(app, db)
	paymentRoute.PaymentWebhookRoutes(app, db, deps.Gateway)

	// ===================== PORTAL (kandidat) =====================
	zap.S().Info("[INFO] Setting up PORTAL group...")
	portal := app.Group("/portal", authMw.AuthMiddleware(db), authMw.OnlyCandidate())
	candidateRoute.PortalRoutes(portal, db)
	documentRoute.DocumentPortalRoutes(portal, db, deps.Blob)
	billingRoute.BillingPortalRoutes(portal, db)
	paymentRoute.PaymentPortalRoutes(portal, db, deps.Gateway)

	// ===================== ADMIN (staf) =====================
	zap.S().Info("[INFO] Setting up ADMIN group...")
	admin := app.Group("/admin", authMw.AuthMiddleware(db), authMw.OnlyStaff())
	candidateRoute.CandidateAdminRoutes(admin, db)
	interactionRoute.InteractionAdminRoutes(admin, db)
	documentRoute.DocumentAdminRoutes(admin, db, deps.Blob)
	claimRoute.ClaimAdminRoutes(admin, db)
	commissionRoute.CommissionAdminRoutes(admin, db)
	billingRoute.BillingAdminRoutes(admin, db)
	announcementRoute.AnnouncementAdminRoutes(admin, db)
	reportRoute.ReportAdminRoutes(admin, db)
	assignmentRoute.AssignmentAdminRoutes(admin, db)

	// ===================== SETTINGS (admin) =====================
	settings := admin.Group("/settings", authMw.RequireCapability(constants.CapSettingsManage, "pengaturan"))
	masterRoute.MasterSettingsRoutes(settings, db)
	documentRoute.DocumentTypeSettingsRoutes(settings, db)
	referrerRoute.ReferrerSettingsRoutes(settings, db)
	rewardRoute.RewardSettingsRoutes(settings, db)
	userRoute.UserSettingsRoutes(settings, db)
}
