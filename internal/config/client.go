package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/spf13/pflag"
)

type ClientFlags struct {
	TargetURL   string
	RulesFile   string   `env:"RULES_FILE"`
	UserID      string   `env:"USER_ID"`
	UserIDFile  string   `env:"USER_ID_FILE"`
	Timestamp   int64    `env:"TIMESTAMP"`
	LogLevel    string   `env:"LOGLEVEL"`
	Send        bool     `env:"SEND"`
	RateLimit   int      `env:"RATE_LIMIT"`
	MaxRetries  int      `env:"MAX_RETRIES"`
	RetryDelays []string `env:"RETRY_DELAYS"`
	Headers     []string `env:"HEADERS"`
	HashURL     string   `env:"HASH_URL"`
	Lookup      string   `env:"LOOKUP"`
	LookupUser  string   `env:"LOOKUP_USER"`
	OnlineLimit int      `env:"ONLINE_LIMIT"`
}

// Режимы --lookup. В этих режимах позиционный аргумент - базовый адрес API.
const (
	LookupSpend    = "spend"
	LookupLastSeen = "last-seen"
	LookupOnline   = "online"
)

func ParseClientConfig() (*ClientFlags, error) {
	return parseClientConfig(os.Args[1:])
}

func parseClientConfig(args []string) (*ClientFlags, error) {
	var cfg ClientFlags

	setDefaultClientFlag(&cfg)

	if err := parseClientFlag(&cfg, args); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.TargetURL == "" {
		return nil, fmt.Errorf("target url is required")
	}

	if err := validateLookup(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaultClientFlag(cfg *ClientFlags) {
	cfg.RulesFile = "rules.json"
	cfg.LogLevel = "warn"
	cfg.MaxRetries = 3
	cfg.RetryDelays = []string{"1s", "2s", "4s"}
	cfg.OnlineLimit = 50
}

func validateLookup(cfg *ClientFlags) error {
	switch cfg.Lookup {
	case "", LookupOnline:
		return nil
	case LookupSpend, LookupLastSeen:
		if cfg.LookupUser == "" {
			return fmt.Errorf("--lookup %s requires --lookup-user", cfg.Lookup)
		}
		return nil
	default:
		return fmt.Errorf("unknown lookup %q, expected %s, %s or %s", cfg.Lookup, LookupSpend, LookupLastSeen, LookupOnline)
	}
}

func parseClientFlag(cfg *ClientFlags, args []string) error {
	flags := pflag.NewFlagSet("signctl", pflag.ContinueOnError)

	flags.StringVarP(&cfg.RulesFile, "rules-file", "f", cfg.RulesFile, "Path to dynamic rules JSON")
	flags.StringVarP(&cfg.UserID, "user", "u", cfg.UserID, "User identifier")
	flags.StringVar(&cfg.UserIDFile, "user-file", cfg.UserIDFile, "File the user identifier is read from, polled until present")
	flags.Int64VarP(&cfg.Timestamp, "time", "t", cfg.Timestamp, "Epoch milliseconds to sign with (0 = now)")
	flags.StringVarP(&cfg.LogLevel, "loglevel", "g", cfg.LogLevel, "Logger level")
	flags.BoolVar(&cfg.Send, "send", cfg.Send, "Issue the signed GET request")
	flags.IntVarP(&cfg.RateLimit, "ratelimit", "l", cfg.RateLimit, "Rate limit")
	flags.IntVarP(&cfg.MaxRetries, "max-retries", "m", cfg.MaxRetries, "Maximum number of retry attempts")
	flags.StringArrayVarP(&cfg.RetryDelays, "retry-delays", "s", cfg.RetryDelays, "Retry delays between attempts")
	flags.StringArrayVarP(&cfg.Headers, "header", "H", cfg.Headers, "Extra request header, Name: value")
	flags.StringVar(&cfg.HashURL, "hash-url", cfg.HashURL, "X-Hash endpoint, queried with ?u=<user id>")
	flags.StringVar(&cfg.Lookup, "lookup", cfg.Lookup, "Signed API lookup: spend, last-seen or online")
	flags.StringVar(&cfg.LookupUser, "lookup-user", cfg.LookupUser, "User to look up for spend and last-seen")
	flags.IntVar(&cfg.OnlineLimit, "online-limit", cfg.OnlineLimit, "Number of online subscribers to request")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	if flags.NArg() != 1 {
		return fmt.Errorf("expected exactly one target url, got %d arguments", flags.NArg())
	}
	cfg.TargetURL = flags.Arg(0)

	return nil
}

func (c *ClientFlags) GetRetryDelaysAsDuration() ([]time.Duration, error) {
	return parseDelays(c.RetryDelays)
}
