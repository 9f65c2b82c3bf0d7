package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	DatabaseURL string        `env:"DATABASE_URL,required,notEmpty"`
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry   time.Duration `env:"JWT_EXPIRY" envDefault:"30m"`
	Port        int           `env:"PORT" envDefault:"8080"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string        `env:"APP_ENV" envDefault:"production"`

	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	QRCodeTTL     time.Duration `env:"QR_CODE_TTL" envDefault:"5m"`

	OpeningBalance      decimal.Decimal    `env:"OPENING_BALANCE" envDefault:"10000"`
	PaymentRequestTTL   time.Duration      `env:"PAYMENT_REQUEST_TTL" envDefault:"168h"`
	PaymentLinkBase     string             `env:"PAYMENT_LINK_BASE" envDefault:"https://securebank.com/pay/"`
	MaintenanceInterval time.Duration      `env:"MAINTENANCE_INTERVAL" envDefault:"1m"`
	InvestmentMarkups   map[string]float64 `env:"INVESTMENT_MARKUPS"`
	IdempotencyTTL      time.Duration      `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	HistoryDefaultLimit int `env:"HISTORY_DEFAULT_LIMIT" envDefault:"50"`
	HistoryMaxLimit     int `env:"HISTORY_MAX_LIMIT" envDefault:"500"`

	DBMaxOpenConns     int  `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int  `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int  `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int  `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
	DBConnectAttempts  int  `env:"DB_CONNECT_ATTEMPTS" envDefault:"30"`
	AutoMigrate        bool `env:"AUTO_MIGRATE" envDefault:"true"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.OpeningBalance.IsNegative() {
		return fmt.Errorf("OPENING_BALANCE must not be negative, got %s", c.OpeningBalance)
	}
	if c.HistoryDefaultLimit <= 0 || c.HistoryMaxLimit < c.HistoryDefaultLimit {
		return fmt.Errorf("history limits invalid: default %d max %d", c.HistoryDefaultLimit, c.HistoryMaxLimit)
	}
	if c.PaymentRequestTTL <= 0 || c.QRCodeTTL <= 0 || c.MaintenanceInterval <= 0 {
		return fmt.Errorf("PAYMENT_REQUEST_TTL, QR_CODE_TTL and MAINTENANCE_INTERVAL must be positive")
	}
	if c.RequestTimeout <= 0 || c.IdempotencyTTL <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT and IDEMPOTENCY_TTL must be positive")
	}
	return nil
}
