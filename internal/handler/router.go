package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler/middlewares"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler/middlewares/signer"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler/ping"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler/rules"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/handler/sign"
	"github.com/kazakovdmitriy/go-dynrules-signer/internal/service"
)

// Dependencies - все, что нужно роутеру сервиса подписи.
type Dependencies struct {
	SignService  sign.SignService
	RulesService rules.RulesService
	Storage      service.RulesStorage
	Metrics      http.Handler
	Tracker      *middlewares.RequestTracker
	// BodySigner подписывает ответы и проверяет HashSHA256 запросов. nil отключает проверку.
	BodySigner signer.Signer
	RateLimit  int
}

func SetupHandler(deps Dependencies, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	setupMiddlewares(r, deps, log)

	pingHandler := ping.NewPingHandler(log, deps.Storage)
	r.Get("/ping", pingHandler.GetPing)

	signHandler := sign.NewSignHandler(deps.SignService, log)
	r.Post("/sign", signHandler.PostSign)

	rulesHandler := rules.NewRulesHandler(deps.RulesService, log)
	r.Route("/rules", func(r chi.Router) {
		r.Get("/", rulesHandler.GetStatus)
		r.Post("/refresh", rulesHandler.PostRefresh)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	return r
}

func setupMiddlewares(r chi.Router, deps Dependencies, log *zap.Logger) {
	r.Use(middleware.RequestID)
	r.Use(middlewares.RequestLogger(log))
	if deps.Tracker != nil {
		r.Use(deps.Tracker.Middleware)
	}
	r.Use(middlewares.RateLimiter(deps.RateLimit, log))
	r.Use(middlewares.DecompressRequest(log))
	r.Use(middleware.Compress(5, "application/json", "text/plain"))

	if deps.BodySigner != nil {
		r.Use(signer.HashValidationMiddleware(deps.BodySigner))
		r.Use(signer.HashResponseMiddleware(deps.BodySigner))
	}
}
