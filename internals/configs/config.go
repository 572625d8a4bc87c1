package configs

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// AppConfig menampung semua konfigurasi yang dibaca dari ENV.
type AppConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"3000"`
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"pmb"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"require"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	FieldEncryptionKey string `env:"FIELD_ENCRYPTION_KEY"`
	FieldIndexKey      string `env:"FIELD_INDEX_KEY"`

	MidtransServerKey string `env:"MIDTRANS_SERVER_KEY"`
	MidtransUseProd   bool   `env:"MIDTRANS_USE_PROD" envDefault:"false"`

	UploadDir   string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	UploadMaxMB int    `env:"UPLOAD_MAX_MB" envDefault:"5"`
	UseOSS      bool   `env:"USE_OSS" envDefault:"false"`

	CorsAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:4321,http://localhost:5173"`

	TokenBlacklistTTLDays int `env:"TOKEN_BLACKLIST_TTL_DAYS" envDefault:"7"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@pmb.local"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

var Cfg AppConfig

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			zap.S().Warn("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			zap.S().Info("✅ .env file berhasil dimuat!")
		}
	} else {
		zap.S().Info("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	cfg, err := ParseConfig()
	if err != nil {
		zap.S().Fatalf("❌ Konfigurasi tidak valid: %v", err)
	}
	Cfg = cfg

	if Cfg.JWTSecret == "" {
		zap.S().Error("❌ JWT_SECRET belum diset!")
	} else {
		zap.S().Info("✅ JWT_SECRET berhasil dimuat.")
	}
	if Cfg.FieldEncryptionKey == "" || Cfg.FieldIndexKey == "" {
		zap.S().Error("❌ FIELD_ENCRYPTION_KEY / FIELD_INDEX_KEY belum diset!")
	}
}

// ParseConfig membaca AppConfig dari ENV saat ini.
func ParseConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, err
	}
	if cfg.UploadMaxMB <= 0 {
		return AppConfig{}, errors.New("UPLOAD_MAX_MB harus > 0")
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	return cfg, nil
}

func (c AppConfig) IsProduction() bool { return c.Env == "production" }

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// =======================
// LOGGER
// =======================

// InitLogger memasang zap global logger. Dipanggil paling awal di main.
func InitLogger(production bool) func() {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewExample()
	}
	undo := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		undo()
	}
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if !Cfg.IsProduction() {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		zap.S().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		zap.S().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		zap.S().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gormLogger.ErrRecordNotFound):
		zap.S().Errorw("[SQL ERROR]", "file", file, "err", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case elapsed > l.SlowThreshold:
		zap.S().Warnw("[SLOW SQL]", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.LogLevel >= gormLogger.Info:
		zap.S().Debugw("[QUERY]", "file", file, "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
