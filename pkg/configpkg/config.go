// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Balance modes understood by the transaction service.
const (
	BalanceModeAvailable = "available"
	BalanceModeDirect    = "direct"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver           string        `mapstructure:"DB_DRIVER"`
	DBSource           string        `mapstructure:"DB_SOURCE"`
	MigrationURL       string        `mapstructure:"MIGRATION_URL"`
	ServerAddress      string        `mapstructure:"SERVER_ADDRESS"`
	Environement       string        `mapstructure:"GO_ENV"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int           `mapstructure:"REDIS_DB"`
	RedisKeyPrefix     string        `mapstructure:"REDIS_KEY_PREFIX"`
	IdempotencyWindow  time.Duration `mapstructure:"IDEMPOTENCY_WINDOW"`
	SettlementCurrency string        `mapstructure:"SETTLEMENT_CURRENCY"`
	FXRates            string        `mapstructure:"FX_RATES"`
	MinAmount          string        `mapstructure:"MIN_AMOUNT"`
	MaxAmount          string        `mapstructure:"MAX_AMOUNT"`
	BalanceMode        string        `mapstructure:"BALANCE_MODE"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("GO_ENV", "production")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "wallet:idempotency")
	v.SetDefault("IDEMPOTENCY_WINDOW", 5*time.Minute)
	v.SetDefault("SETTLEMENT_CURRENCY", "MYR")
	v.SetDefault("FX_RATES", "MYR:1.0,USD:4.70,SGD:3.45")
	v.SetDefault("MIN_AMOUNT", "0.01")
	v.SetDefault("MAX_AMOUNT", "50000")
	v.SetDefault("BALANCE_MODE", BalanceModeAvailable)
}

// Load read configuration from file or environment variables.
//
// A missing app.env file is not an error, environment variables and defaults are used instead.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	// AutomaticEnv only affects keys viper already knows about.
	for _, key := range []string{"DB_SOURCE", "MIGRATION_URL", "REDIS_ADDR", "REDIS_PASSWORD"} {
		if err := v.BindEnv(key); err != nil {
			return c, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	if err := c.Validate(); err != nil {
		return c, err
	}

	return c, nil
}

// Validate checks values that viper cannot check by type alone.
func (c Config) Validate() error {
	if c.IdempotencyWindow <= 0 {
		return fmt.Errorf("IDEMPOTENCY_WINDOW must be positive, got %s", c.IdempotencyWindow)
	}

	min, err := decimal.NewFromString(c.MinAmount)
	if err != nil {
		return fmt.Errorf("invalid MIN_AMOUNT: %w", err)
	}

	max, err := decimal.NewFromString(c.MaxAmount)
	if err != nil {
		return fmt.Errorf("invalid MAX_AMOUNT: %w", err)
	}

	if !min.IsPositive() || max.LessThan(min) {
		return fmt.Errorf("invalid amount limits: min %s, max %s", min, max)
	}

	switch c.BalanceMode {
	case BalanceModeAvailable, BalanceModeDirect:
	default:
		return fmt.Errorf("unknown BALANCE_MODE %q", c.BalanceMode)
	}

	return nil
}

// Limits returns the parsed minimum and maximum transaction amounts.
//
// Load has already validated both values.
func (c Config) Limits() (decimal.Decimal, decimal.Decimal) {
	return decimal.RequireFromString(c.MinAmount), decimal.RequireFromString(c.MaxAmount)
}
