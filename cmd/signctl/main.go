// signctl подписывает URL по динамическим правилам из файла. С --send выполняет
// подписанный GET-запрос, с --lookup читает данные пользователей через подписанный API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/apiclient"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/config"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/logger"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/model"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/repository/memstorage"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/retry"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/rules"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/signer"
)

func main() {
	cfg, err := config.ParseClientConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := execute(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute(cfg *config.ClientFlags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, os.Stdout)
}

func run(ctx context.Context, cfg *config.ClientFlags, out io.Writer) error {
	log, err := logger.Initialize(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger initialization error: %w", err)
	}
	defer func() { _ = log.Sync() }()

	delays, err := cfg.GetRetryDelaysAsDuration()
	if err != nil {
		return err
	}

	headers, err := parseHeaders(cfg.Headers)
	if err != nil {
		return err
	}

	provider := rules.NewProvider(
		rules.NewFileSource(cfg.RulesFile),
		memstorage.NewMemStorage("", log),
		rules.NewCache(0, nil),
		nil,
		log,
	)
	identity := newIdentity(cfg, log)
	requestSigner := signer.NewSigner()

	if !cfg.Send && cfg.Lookup == "" {
		return printSignature(ctx, cfg, provider, identity, requestSigner, out)
	}

	clientCfg := apiclient.Config{
		RateLimit:   cfg.RateLimit,
		MaxRetries:  cfg.MaxRetries,
		RetryDelays: delays,
		Headers:     headers,
	}
	if cfg.HashURL != "" {
		clientCfg.Hash = apiclient.NewRemoteHash(cfg.HashURL, headers, 0)
	}
	client := apiclient.NewClient(provider, requestSigner, identity, clientCfg, nil, log)

	if cfg.Lookup != "" {
		return runLookup(ctx, cfg, apiclient.NewUserLookup(client, cfg.TargetURL, 0, nil, log), out)
	}

	body, err := client.Get(ctx, cfg.TargetURL)
	if err != nil {
		return fmt.Errorf("signed request failed: %w", err)
	}

	_, err = out.Write(body)
	return err
}

func printSignature(
	ctx context.Context,
	cfg *config.ClientFlags,
	provider *rules.Provider,
	identity apiclient.IdentityProvider,
	requestSigner *signer.Signer,
	out io.Writer,
) error {
	ruleSet, err := provider.Current(ctx)
	if err != nil {
		return err
	}

	userID, err := identity.UserID(ctx)
	if err != nil {
		return fmt.Errorf("resolving user id: %w", err)
	}

	result, err := requestSigner.Sign(cfg.TargetURL, userID, cfg.Timestamp, ruleSet)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "%s: %s\n%s: %d\n", model.SignHeader, result.Sign, model.TimeHeader, result.Time)
	return err
}

func runLookup(ctx context.Context, cfg *config.ClientFlags, lookup *apiclient.UserLookup, out io.Writer) error {
	switch cfg.Lookup {
	case config.LookupSpend:
		spend, err := lookup.Spend(ctx, cfg.LookupUser)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Spend: %s\n", strconv.FormatFloat(spend, 'f', -1, 64))
		return err

	case config.LookupLastSeen:
		seen, ok, err := lookup.LastSeen(ctx, cfg.LookupUser)
		if err != nil {
			return err
		}
		if !ok {
			_, err = fmt.Fprintln(out, "LastSeen: unknown")
			return err
		}
		_, err = fmt.Fprintf(out, "LastSeen: %s\n", seen.Format(time.RFC3339))
		return err

	case config.LookupOnline:
		online, err := lookup.OnlineSubscribers(ctx, cfg.OnlineLimit)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "Online: %d\n", len(online)); err != nil {
			return err
		}
		for _, user := range online {
			if _, err := fmt.Fprintln(out, user.ID); err != nil {
				return err
			}
		}
		return nil
	}

	return fmt.Errorf("unknown lookup %q", cfg.Lookup)
}

func newIdentity(cfg *config.ClientFlags, log *zap.Logger) apiclient.IdentityProvider {
	if cfg.UserIDFile == "" {
		return apiclient.StaticIdentity(cfg.UserID)
	}

	delays, err := cfg.GetRetryDelaysAsDuration()
	if err != nil {
		delays = nil
	}
	return apiclient.NewRetryingIdentity(
		apiclient.NewFileIdentity(cfg.UserIDFile),
		retry.RetryConfig{MaxRetries: cfg.MaxRetries, Delays: delays},
		log,
	)
}

// parseHeaders разбирает заголовки в формате "Name: value".
func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}
