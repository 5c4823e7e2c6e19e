// Package config reads the process configuration from the environment,
// after loading .env when one is present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pixeltrader/internal/confirm"
	"pixeltrader/internal/market"
	"pixeltrader/pkg/integrations/s3doc"
	"pixeltrader/pkg/utils"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	PriceSourceBinance       = "binance"
	PriceSourceCoinGecko     = "coingecko"
	PriceSourceCryptoCompare = "cryptocompare"
)

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	PriceSource     string
	RESTEndpoints   []string
	StreamEndpoints []string
	EnrichInterval  time.Duration

	SyncDebounce        time.Duration
	SyncBucket          string
	SyncEndpoint        string
	SyncRegion          string
	SyncAccessKeyID     string
	SyncSecretAccessKey string
	SyncPollInterval    time.Duration

	TelegramBotToken string
	TelegramChatID   string
	BackupCron       string

	DeleteConfirmWindow time.Duration
}

// Load reads .env (optional) and the environment. Malformed values are
// reported, missing ones fall back to defaults.
func Load(envFiles ...string) (*Config, error) {
	if err := utils.LoadEnv(envFiles...); err != nil {
		return nil, errors.Wrap(err, "failed to load env file")
	}

	cfg := &Config{
		Port:      utils.GetEnv("APP_PORT", "2008"),
		DBPath:    utils.GetEnv("DB_PATH", "./data/pixeltrader.db"),
		LogLevel:  utils.GetEnv("LOG_LEVEL", "info"),
		LogFormat: utils.GetEnv("LOG_FORMAT", "json"),

		PriceSource:     strings.ToLower(utils.GetEnv("PRICE_SOURCE", PriceSourceBinance)),
		RESTEndpoints:   splitList(utils.GetEnv("BINANCE_REST_URLS", "")),
		StreamEndpoints: splitList(utils.GetEnv("BINANCE_STREAM_URLS", strings.Join(market.DefaultStreamEndpoints, ","))),

		SyncBucket:          utils.GetEnv("SYNC_BUCKET", ""),
		SyncEndpoint:        utils.GetEnv("SYNC_ENDPOINT", ""),
		SyncRegion:          utils.GetEnv("SYNC_REGION", "us-east-1"),
		SyncAccessKeyID:     utils.GetEnv("SYNC_ACCESS_KEY_ID", ""),
		SyncSecretAccessKey: utils.GetEnv("SYNC_SECRET_ACCESS_KEY", ""),

		TelegramBotToken: utils.GetEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   utils.GetEnv("TELEGRAM_CHAT_ID", ""),
		BackupCron:       utils.GetEnv("BACKUP_CRON", "@every 6h"),
	}

	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"ENRICH_INTERVAL", 200 * time.Millisecond, &cfg.EnrichInterval},
		{"SYNC_DEBOUNCE", time.Second, &cfg.SyncDebounce},
		{"SYNC_POLL_INTERVAL", s3doc.DefaultPollInterval, &cfg.SyncPollInterval},
		{"DELETE_CONFIRM_WINDOW", confirm.DefaultWindow, &cfg.DeleteConfirmWindow},
	}
	for _, d := range durations {
		v, err := durationEnv(d.key, d.fallback)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "APP_PORT %q is not a number", c.Port)
	}
	if c.DBPath == "" {
		return errors.Wrap(ErrInvalidConfig, "DB_PATH cannot be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "LOG_LEVEL %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return errors.Wrapf(ErrInvalidConfig, "LOG_FORMAT %q must be json or console", c.LogFormat)
	}
	switch c.PriceSource {
	case PriceSourceBinance, PriceSourceCoinGecko, PriceSourceCryptoCompare:
	default:
		return errors.Wrapf(ErrInvalidConfig, "PRICE_SOURCE %q", c.PriceSource)
	}
	if c.PriceSource == PriceSourceBinance && len(c.StreamEndpoints) == 0 {
		return errors.Wrap(ErrInvalidConfig, "BINANCE_STREAM_URLS cannot be empty")
	}
	if c.EnrichInterval <= 0 || c.SyncDebounce <= 0 || c.SyncPollInterval <= 0 || c.DeleteConfirmWindow <= 0 {
		return errors.Wrap(ErrInvalidConfig, "durations must be positive")
	}
	if c.SyncBucket != "" && (c.SyncAccessKeyID == "") != (c.SyncSecretAccessKey == "") {
		return errors.Wrap(ErrInvalidConfig, "SYNC_ACCESS_KEY_ID and SYNC_SECRET_ACCESS_KEY go together")
	}
	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		return errors.Wrap(ErrInvalidConfig, "TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID go together")
	}
	if c.TelegramEnabled() {
		if _, err := cron.ParseStandard(c.BackupCron); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "BACKUP_CRON %q: %v", c.BackupCron, err)
		}
	}
	return nil
}

func (c *Config) SyncEnabled() bool {
	return c.SyncBucket != ""
}

func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// Logger builds the root logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout)
	if c.LogFormat == "console" {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := utils.GetEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "%s %q: %v", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
