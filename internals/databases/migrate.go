package database

import (
	"fmt"

	announcementModel "pmb_backend/internals/features/announcements/model"
	assignmentModel "pmb_backend/internals/features/assignment/model"
	candidateModel "pmb_backend/internals/features/candidates/candidates/model"
	documentModel "pmb_backend/internals/features/candidates/documents/model"
	interactionModel "pmb_backend/internals/features/candidates/interactions/model"
	billingModel "pmb_backend/internals/features/finance/billings/model"
	paymentModel "pmb_backend/internals/features/finance/payments/model"
	claimModel "pmb_backend/internals/features/referrals/claims/model"
	commissionModel "pmb_backend/internals/features/referrals/commissions/model"
	referrerModel "pmb_backend/internals/features/referrals/referrers/model"
	rewardModel "pmb_backend/internals/features/referrals/rewards/model"
	masterModel "pmb_backend/internals/features/settings/masters/model"
	authModel "pmb_backend/internals/features/users/auth/model"
	userModel "pmb_backend/internals/features/users/user/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func models() []any {
	return []any{
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&masterModel.ProgramModel{},
		&masterModel.CampaignModel{},
		&masterModel.FeeModel{},
		&masterModel.InteractionCategoryModel{},
		&masterModel.LostReasonModel{},
		&assignmentModel.AssignmentAlgorithmModel{},
		&candidateModel.CandidateModel{},
		&interactionModel.InteractionModel{},
		&interactionModel.SuggestionModel{},
		&documentModel.DocumentTypeModel{},
		&documentModel.DocumentModel{},
		&referrerModel.ReferrerModel{},
		&claimModel.ReferralClaimModel{},
		&rewardModel.RewardConfigModel{},
		&rewardModel.MGMRewardConfigModel{},
		&commissionModel.CommissionModel{},
		&billingModel.BillingModel{},
		&paymentModel.PaymentModel{},
		&paymentModel.PaymentGatewayEventModel{},
		&announcementModel.AnnouncementModel{},
	}
}

// Constraint yang tidak bisa diekspresikan lewat tag GORM.
var extraDDL = []string{
	// paling banyak satu algoritma assignment aktif
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_assignment_algorithms_single_active
	   ON assignment_algorithms (assignment_algorithm_is_active)
	   WHERE assignment_algorithm_is_active = true`,
}

// AutoMigrate membuat/menyesuaikan skema. Dipakai oleh main (Postgres) dan test (SQLite).
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, ddl := range extraDDL {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("extra ddl: %w", err)
		}
	}
	zap.S().Info("✅ Migrasi skema selesai")
	return nil
}
