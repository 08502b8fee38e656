package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, master key, data dir)
// - default: Values common across all environments (policy constants, timeouts)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Engine  EngineConfig
	CORS    CORSConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type StorageConfig struct {
	// DataDir holds the encrypted primary store, the backup record and the
	// lockout record as separate files.
	DataDir string `envconfig:"DATA_DIR" required:"true"`
	// MasterKey is hex-encoded key material; store keys are derived from it,
	// it is never used as a cipher key directly.
	MasterKey       string `envconfig:"MASTER_KEY" required:"true"`
	BackupSizeLimit int    `envconfig:"BACKUP_SIZE_LIMIT" default:"2048"`
	BackupMaxItems  int    `envconfig:"BACKUP_MAX_ITEMS" default:"20"`
}

type EngineConfig struct {
	CostPerCoupon    int64         `envconfig:"COST_PER_COUPON" default:"50000"`
	MaxLiveCoupons   int           `envconfig:"MAX_LIVE_COUPONS" default:"100"`
	CouponCap        int           `envconfig:"COUPON_CAP" default:"120"`
	HistoryCap       int           `envconfig:"HISTORY_CAP" default:"200"`
	CouponTTL        time.Duration `envconfig:"COUPON_TTL" default:"2160h"` // 90 days
	ExchangeCooldown time.Duration `envconfig:"EXCHANGE_COOLDOWN" default:"5s"`
	MaxAttempts      int           `envconfig:"VERIFY_MAX_ATTEMPTS" default:"3"`
	LockoutDuration  time.Duration `envconfig:"VERIFY_LOCKOUT_DURATION" default:"5m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

func (c *StorageConfig) DecodeMasterKey() ([]byte, error) {
	key, err := hex.DecodeString(c.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("master key is not valid hex: %w", err)
	}
	if len(key) < 16 {
		return nil, fmt.Errorf("master key too short: %d bytes", len(key))
	}
	return key, nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Storage: StorageConfig{
			DataDir:         "", // Tests supply a temp dir
			MasterKey:       "5c4f3e2d1b0a99887766554433221100ffeeddccbbaa99887766554433221100",
			BackupSizeLimit: 2048,
			BackupMaxItems:  20,
		},
		Engine: EngineConfig{
			CostPerCoupon:    50000,
			MaxLiveCoupons:   100,
			CouponCap:        120,
			HistoryCap:       200,
			CouponTTL:        2160 * time.Hour,
			ExchangeCooldown: 5 * time.Second,
			MaxAttempts:      3,
			LockoutDuration:  5 * time.Minute,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
	}
}
