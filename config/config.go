package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"goflare.io/voucher/driver"
)

const (
	DefaultOutputPath    = "vouchers.txt"
	DefaultMaxRejections = 1000
)

type Config struct {
	Stripe        StripeConfig        `mapstructure:"stripe"`
	Output        OutputConfig        `mapstructure:"output"`
	PromotionCode PromotionCodeConfig `mapstructure:"promotion_code"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Log           LogConfig           `mapstructure:"log"`
}

type StripeConfig struct {
	SecretKey         string        `mapstructure:"secret_key"`
	APIURL            string        `mapstructure:"api_url"`
	MaxNetworkRetries int64         `mapstructure:"max_network_retries"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// PromotionCodeConfig controls how promotion codes are minted.
// MaxRejections caps the number of codes Stripe may reject (HTTP 400) during
// one run; zero means no cap.
type PromotionCodeConfig struct {
	FirstTimeTransaction bool `mapstructure:"first_time_transaction"`
	MaxRejections        int  `mapstructure:"max_rejections"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ProvideApplicationConfig reads ./voucher.yaml when present, then VOUCHER_*
// environment variables on top of the defaults.
func ProvideApplicationConfig() (*Config, error) {

	v := viper.New()
	v.SetConfigName("voucher")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	return Load(v)
}

// Load fills a Config from v. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {

	setDefaults(v)

	v.SetEnvPrefix("voucher")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.PromotionCode.MaxRejections < 0 {
		return nil, fmt.Errorf("promotion_code.max_rejections must not be negative, got %d", config.PromotionCode.MaxRejections)
	}
	if config.Output.Path == "" {
		config.Output.Path = DefaultOutputPath
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.api_url", "")
	v.SetDefault("stripe.max_network_retries", 0)
	v.SetDefault("stripe.timeout", 80*time.Second)
	v.SetDefault("output.path", DefaultOutputPath)
	v.SetDefault("promotion_code.first_time_transaction", false)
	v.SetDefault("promotion_code.max_rejections", DefaultMaxRejections)
	v.SetDefault("postgres.url", "")
	v.SetDefault("log.level", "warn")
}

// ProvidePostgresConn connects the ledger pool. Without postgres.url it
// returns a nil pool and the ledger stays disabled.
func ProvidePostgresConn(appConfig *Config) (driver.PostgresPool, func(), error) {

	if appConfig.Postgres.URL == "" {
		return nil, func() {}, nil
	}

	pool, err := driver.ConnectSQL(context.Background(), appConfig.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}

	return pool, pool.Close, nil
}

// NewLogger returns a production zap logger writing to stderr at the
// configured level, so it never interleaves with the prompts on stdout.
func NewLogger(appConfig *Config) (*zap.Logger, error) {

	level, err := zapcore.ParseLevel(appConfig.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", appConfig.Log.Level, err)
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	return zapConfig.Build()
}
