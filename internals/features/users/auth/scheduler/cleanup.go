package scheduler

import (
	"time"

	"pmb_backend/internals/configs"
	"pmb_backend/internals/features/users/auth/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PurgeExpiredTokens menghapus token blacklist yang sudah lewat expired + grace TTL.
func PurgeExpiredTokens(db *gorm.DB, now time.Time, ttlDays int) (int64, error) {
	deleteBefore := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	res := db.Where("token_blacklist_expired_at < ?", deleteBefore).Delete(&model.TokenBlacklist{})
	return res.RowsAffected, res.Error
}

func StartBlacklistCleanupScheduler(db *gorm.DB) {
	ttlDays := configs.Cfg.TokenBlacklistTTLDays
	if ttlDays <= 0 {
		ttlDays = 7
	}

	go func() {
		for {
			zap.S().Info("[CLEANUP] Menjalankan pembersihan token_blacklist...")
			n, err := PurgeExpiredTokens(db, time.Now().UTC(), ttlDays)
			switch {
			case err != nil:
				zap.S().Errorw("[CLEANUP ERROR] Gagal hapus token", "err", err)
			case n > 0:
				zap.S().Infof("[CLEANUP] %d token kadaluarsa dihapus", n)
			default:
				zap.S().Info("[CLEANUP] Tidak ada token yang memenuhi syarat dihapus")
			}

			// Jalankan tiap 24 jam
			time.Sleep(24 * time.Hour)
		}
	}()
}
