package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/spf13/pflag"
)

type ServerFlags struct {
	ServerAddr     string        `env:"ADDRESS"`
	LogLevel       string        `env:"LOGLEVEL"`
	DatabaseDSN    string        `env:"DATABASE_DSN"`
	MigrationsPath string        `env:"MIGRATIONS_PATH"`
	RulesFile      string        `env:"RULES_FILE"`
	RulesURL       string        `env:"RULES_URL"`
	RulesAPIKey    string        `env:"RULES_API_KEY"`
	RulesRefresh   time.Duration `env:"RULES_REFRESH"`
	SecretKey      string        `env:"KEY"`
	RateLimit      int           `env:"RATE_LIMIT"`
	MaxRetries     int           `env:"MAX_RETRIES"`
	RetryDelays    []string      `env:"RETRY_DELAYS"`
	AuditFile      string        `env:"AUDIT_FILE"`
	AuditURL       string        `env:"AUDIT_URL"`
}

func ParseServerConfig() *ServerFlags {
	return parseServerConfig(os.Args[1:])
}

func parseServerConfig(args []string) *ServerFlags {
	var cfg ServerFlags

	setDefaultServerFlag(&cfg)
	parseServerFlag(&cfg, args)
	parseServerEnv(&cfg)

	return &cfg
}

func setDefaultServerFlag(cfg *ServerFlags) {
	cfg.ServerAddr = ":8080"
	cfg.LogLevel = "info"
	cfg.MigrationsPath = "migrations"
	cfg.RulesFile = "rules.json"
	cfg.RulesRefresh = time.Hour
	cfg.MaxRetries = 3
	cfg.RetryDelays = []string{"1s", "3s", "5s"}
}

func parseServerEnv(cfg *ServerFlags) {
	err := env.Parse(cfg)
	if err != nil {
		log.Printf("Warning: failed to parse environment variables: %v", err)
	}
}

func parseServerFlag(cfg *ServerFlags, args []string) {
	flags := pflag.NewFlagSet("server", pflag.ContinueOnError)

	flags.StringVarP(&cfg.ServerAddr, "address", "a", cfg.ServerAddr, "HTTP server address")
	flags.StringVarP(&cfg.LogLevel, "loglevel", "g", cfg.LogLevel, "Logger level")
	flags.StringVarP(&cfg.DatabaseDSN, "database_dsn", "d", cfg.DatabaseDSN, "DSN string for db connection")
	flags.StringVar(&cfg.MigrationsPath, "migrations", cfg.MigrationsPath, "Path to migrations directory")
	flags.StringVarP(&cfg.RulesFile, "rules-file", "f", cfg.RulesFile, "Path to file to persist dynamic rules")
	flags.StringVarP(&cfg.RulesURL, "rules-url", "u", cfg.RulesURL, "Dynamic rules endpoint")
	flags.StringVar(&cfg.RulesAPIKey, "rules-api-key", cfg.RulesAPIKey, "API key for dynamic rules endpoint")
	flags.DurationVarP(&cfg.RulesRefresh, "rules-refresh", "r", cfg.RulesRefresh, "Dynamic rules refresh interval")
	flags.StringVarP(&cfg.SecretKey, "key", "k", cfg.SecretKey, "Key for HashSHA256 request and response signing")
	flags.IntVarP(&cfg.RateLimit, "ratelimit", "l", cfg.RateLimit, "Rate limit")
	flags.IntVarP(&cfg.MaxRetries, "max-retries", "m", cfg.MaxRetries, "Maximum number of retry attempts")
	flags.StringArrayVarP(&cfg.RetryDelays, "retry-delays", "s", cfg.RetryDelays, "Retry delays between attempts")
	flags.StringVar(&cfg.AuditFile, "audit-file", cfg.AuditFile, "Path to audit log file")
	flags.StringVar(&cfg.AuditURL, "audit-url", cfg.AuditURL, "URL to send audit events to")

	if err := flags.Parse(args); err != nil {
		log.Printf("Error parsing command-line flags: %v", err)
	}

	if flags.NArg() > 0 {
		for i := 0; i < flags.NArg(); i++ {
			arg := flags.Arg(i)
			if len(arg) > 0 && arg[0] == '-' {
				log.Printf("Unknown flag: %s", arg)
			}
		}
	}
}

func (a *ServerFlags) GetRetryDelaysAsDuration() ([]time.Duration, error) {
	return parseDelays(a.RetryDelays)
}

func parseDelays(raw []string) ([]time.Duration, error) {
	delays := make([]time.Duration, len(raw))
	for i, delayStr := range raw {
		delay, err := time.ParseDuration(delayStr)
		if err != nil {
			return nil, fmt.Errorf("invalid duration format '%s': %w", delayStr, err)
		}
		delays[i] = delay
	}
	return delays, nil
}
