// Package config содержит логику чтения конфигурации витрины.
package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mmeshcher/puffingood/internal/summary"
)

const (
	defaultRunAddress      = "localhost:8080"
	defaultSummaryWindow   = 30
	defaultRefreshInterval = 30 * time.Second
)

// Config содержит параметры конфигурации витрины.
type Config struct {
	RunAddress             string        `env:"RUN_ADDRESS"`
	DatabaseURI            string        `env:"DATABASE_URI"`
	RedisAddress           string        `env:"REDIS_ADDRESS"`
	KafkaBrokers           []string      `env:"KAFKA_BROKERS" envSeparator:","`
	OTLPEndpoint           string        `env:"OTLP_ENDPOINT"`
	AuthSecret             string        `env:"AUTH_SECRET"`
	SummaryWindowDays      int           `env:"SUMMARY_WINDOW_DAYS"`
	SummaryRefreshInterval time.Duration `env:"SUMMARY_REFRESH_INTERVAL"`
	AdminEmail             string        `env:"ADMIN_EMAIL"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}
	var brokers string

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddress, "c", "", "redis address for menu cache and carts")
	flag.StringVar(&brokers, "k", "", "comma-separated kafka brokers for order events")
	flag.StringVar(&cfg.OTLPEndpoint, "t", "", "OTLP gRPC endpoint for traces")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret for signing auth cookies")
	flag.IntVar(&cfg.SummaryWindowDays, "w", defaultSummaryWindow, "order summary window in days")
	flag.DurationVar(&cfg.SummaryRefreshInterval, "i", defaultRefreshInterval, "order summary refresh interval")
	flag.StringVar(&cfg.AdminEmail, "e", "", "email of the account granted admin rights")

	flag.Parse()

	cfg.KafkaBrokers = splitList(brokers)

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.RedisAddress != "" {
		cfg.RedisAddress = envCfg.RedisAddress
	}
	if envBrokers := compact(envCfg.KafkaBrokers); len(envBrokers) > 0 {
		cfg.KafkaBrokers = envBrokers
	}
	if envCfg.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = envCfg.OTLPEndpoint
	}
	if envCfg.AuthSecret != "" {
		cfg.AuthSecret = envCfg.AuthSecret
	}
	if envCfg.SummaryWindowDays != 0 {
		cfg.SummaryWindowDays = envCfg.SummaryWindowDays
	}
	if envCfg.SummaryRefreshInterval != 0 {
		cfg.SummaryRefreshInterval = envCfg.SummaryRefreshInterval
	}
	if envCfg.AdminEmail != "" {
		cfg.AdminEmail = envCfg.AdminEmail
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.SummaryWindowDays < 0 || cfg.SummaryWindowDays > summary.MaxWindowDays {
		return nil, fmt.Errorf("summary window must be between 0 and %d days: %d", summary.MaxWindowDays, cfg.SummaryWindowDays)
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return compact(strings.Split(s, ","))
}

func compact(items []string) []string {
	var res []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			res = append(res, it)
		}
	}
	return res
}
