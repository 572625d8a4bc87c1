package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pmb_backend/internals/configs"
	database "pmb_backend/internals/databases"
	scheduler "pmb_backend/internals/features/users/auth/scheduler"
	"pmb_backend/internals/helpers/fieldcrypt"
	middlewares "pmb_backend/internals/middlewares"
	routes "pmb_backend/internals/route"
	"pmb_backend/internals/seeds"

	"go.uber.org/zap"
)

func main() {
	flush := configs.InitLogger(os.Getenv("APP_ENV") == "production")
	defer flush()

	configs.LoadEnv()
	cfg := configs.Cfg

	if err := fieldcrypt.Configure(cfg.FieldEncryptionKey, cfg.FieldIndexKey); err != nil {
		zap.S().Fatalf("❌ Kunci enkripsi field tidak valid: %v", err)
	}

	// 🔌 DB connect + pool + skema + warm-up
	database.ConnectDB()
	database.TunePool()
	if err := database.AutoMigrate(database.DB); err != nil {
		zap.S().Fatalf("❌ Migrasi gagal: %v", err)
	}
	if err := seeds.RunAllSeeds(database.DB, seeds.Admin{Email: cfg.SeedAdminEmail, Password: cfg.SeedAdminPassword}); err != nil {
		zap.S().Fatalf("❌ Seed gagal: %v", err)
	}
	database.WarmUpQueries()

	// ⏱ scheduler setelah DB siap
	scheduler.StartBlacklistCleanupScheduler(database.DB)

	app := routes.NewApp()
	middlewares.SetupMiddlewares(app, cfg)
	routes.SetupRoutes(app, database.DB, routes.DepsFromConfig(cfg))

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		v := configs.Version()
		zap.S().Infow("✅ Listening", "port", cfg.Port, "version", v.Short, "env", cfg.Env)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			zap.S().Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("🛑 Shutdown...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
