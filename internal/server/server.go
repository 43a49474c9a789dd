package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/config"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/config/db"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler/middlewares"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/metrics"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/observers"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/repository/dbstorage"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/repository/memstorage"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/rules"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service/signerservice"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service/signservice"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/signer"
)

const (
	shutdownTimeout = 30 * time.Second
	drainTimeout    = 10 * time.Second
)

type Server struct {
	cfg       *config.ServerFlags
	log       *zap.Logger
	resources *ResourceGroup
	tracker   *middlewares.RequestTracker
	refresher *rules.Refresher
	publisher *observers.AsyncPublisher
	server    *http.Server
}

func NewApp(cfg *config.ServerFlags, log *zap.Logger) (*Server, error) {
	app := &Server{
		cfg:       cfg,
		log:       log,
		resources: NewResourceGroup(log),
		tracker:   middlewares.NewRequestTracker(),
	}
	return app, nil
}

// Run обслуживает запросы, пока ctx не отменен, затем корректно останавливается.
func (a *Server) Run(ctx context.Context) error {
	router, err := a.setup(ctx)
	if err != nil {
		return fmt.Errorf("server initialization error: %w", err)
	}

	a.server = &http.Server{
		Addr:              a.cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if a.refresher != nil {
		a.refresher.Start()
	}

	serveErr := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("addr", a.cfg.ServerAddr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
	case <-ctx.Done():
	}

	a.shutdown()
	return nil
}

func (a *Server) shutdown() {
	a.log.Info("graceful shutdown initiated")

	drainCtx, cancelDrain := context.WithTimeout(context.Background(), drainTimeout)
	defer cancelDrain()

	a.log.Info("waiting for active requests to complete...")
	if err := a.tracker.Drain(drainCtx); err != nil {
		a.log.Warn("timeout waiting for requests", zap.Error(err))
	} else {
		a.log.Info("all requests completed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server shutdown failed", zap.Error(err))
	}

	a.log.Info("server stopped gracefully")
}

// Close освобождает ресурсы: планировщик, хранилище, файлы аудита.
func (a *Server) Close() {
	if a.publisher != nil {
		a.publisher.Wait()
	}
	if err := a.resources.CloseAll(); err != nil {
		a.log.Error("closing resources failed", zap.Error(err))
	}
}

func (a *Server) setup(ctx context.Context) (http.Handler, error) {
	delays, err := a.cfg.GetRetryDelaysAsDuration()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}
	m, err := metrics.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	storage := a.storageInitializer(ctx, delays)
	a.resources.Register("storage", storage)

	source := a.sourceInitializer(delays)
	provider := rules.NewProvider(source, storage, rules.NewCache(a.cfg.RulesRefresh, m), m, a.log)

	if source != nil && a.cfg.RulesRefresh > 0 {
		refresher, err := rules.NewRefresher(provider, a.cfg.RulesRefresh, a.log)
		if err != nil {
			return nil, err
		}
		a.refresher = refresher
		a.resources.Register("rules refresher", CloserFunc(refresher.Stop))
	}

	publisher, err := a.auditInitializer()
	if err != nil {
		return nil, err
	}
	a.publisher = publisher

	signService := signservice.NewSignService(provider, signer.NewSigner(), publisher, m, a.log)

	deps := handler.Dependencies{
		SignService:  signService,
		RulesService: provider,
		Storage:      storage,
		Metrics:      m.Handler(),
		Tracker:      a.tracker,
		RateLimit:    a.cfg.RateLimit,
	}
	if a.cfg.SecretKey != "" {
		deps.BodySigner = signerservice.NewHMACSigner(a.cfg.SecretKey)
	}

	return handler.SetupHandler(deps, a.log), nil
}

func (a *Server) storageInitializer(ctx context.Context, delays []time.Duration) service.RulesStorage {
	persistPath := ""
	if a.cfg.RulesURL != "" {
		persistPath = a.cfg.RulesFile
	}

	if a.cfg.DatabaseDSN == "" {
		a.log.Info("No database DSN provided, using in-memory storage")
		return memstorage.NewMemStorage(persistPath, a.log)
	}

	dbase, err := db.Open(ctx, a.cfg.DatabaseDSN, a.log)
	if err != nil {
		a.log.Warn("Failed to connect to DB, falling back to in-memory storage", zap.Error(err))
		return memstorage.NewMemStorage(persistPath, a.log)
	}

	migrator := db.NewMigrator(a.cfg.DatabaseDSN, a.cfg.MigrationsPath, a.log)
	if err := migrator.Up(); err != nil {
		a.log.Error("migration failed", zap.Error(err))
	}

	return dbstorage.NewDBStorage(dbase.Pool, delays, a.log)
}

// sourceInitializer выбирает источник правил: удаленный эндпоинт, иначе файл.
func (a *Server) sourceInitializer(delays []time.Duration) rules.Source {
	switch {
	case a.cfg.RulesURL != "":
		a.log.Info("dynamic rules source: remote", zap.String("url", a.cfg.RulesURL))
		return rules.NewRemoteSource(a.cfg.RulesURL, a.cfg.RulesAPIKey, a.cfg.MaxRetries, delays, a.log)
	case a.cfg.RulesFile != "":
		a.log.Info("dynamic rules source: file", zap.String("path", a.cfg.RulesFile))
		return rules.NewFileSource(a.cfg.RulesFile)
	default:
		a.log.Warn("no dynamic rules source configured, relying on storage only")
		return nil
	}
}

func (a *Server) auditInitializer() (*observers.AsyncPublisher, error) {
	publisher := observers.NewEventPublisher()
	publisher.Register(observers.NewLoggerObserver(a.log))

	if a.cfg.AuditFile != "" {
		fileObserver, err := observers.NewFileObserver(a.cfg.AuditFile, a.log)
		if err != nil {
			return nil, fmt.Errorf("audit file observer: %w", err)
		}
		publisher.Register(fileObserver)
		a.resources.Register("audit file", fileObserver)
	}

	if a.cfg.AuditURL != "" {
		publisher.Register(observers.NewHTTPObserver(a.cfg.AuditURL, a.log))
	}

	return publisher, nil
}
