// Package httptransport is the thin HTTP layer over the privacy gateway
// services. Handlers delegate to domain services without embedding business
// logic so transport concerns remain isolated.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"privacygate/internal/platform/health"
	"privacygate/internal/transport/http/json"
	"privacygate/pkg/platform/middleware/admin"
	"privacygate/pkg/platform/middleware/auth"
	"privacygate/pkg/platform/middleware/metadata"
	"privacygate/pkg/platform/middleware/request"
	"privacygate/pkg/platform/middleware/requesttime"
)

const requestTimeout = 30 * time.Second

// RouterConfig carries everything NewRouter needs to assemble the surface.
type RouterConfig struct {
	Consent    ConsentService
	Vault      VaultService
	Proclog    ProcessingLogService
	Gate       GateService
	Admin      AdminService
	Validator  *auth.PortalTokenValidator
	AdminToken string
	Logger     *slog.Logger

	// Health serves the liveness/readiness probes; nil gets a handler with
	// no dependency checks.
	Health *health.Handler

	// Metadata controls client IP extraction; nil uses the default
	// (no trusted proxies).
	Metadata *metadata.Config
}

// NewRouter wires all endpoints with the middleware stack. Everything under
// /privacy requires a portal token; /admin requires the operator token;
// /healthz and /metrics are open.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.Timeout(requestTimeout))
	r.Use(requesttime.Middleware)

	probes := cfg.Health
	if probes == nil {
		probes = health.New("")
	}
	probes.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	metadataCfg := cfg.Metadata
	if metadataCfg == nil {
		metadataCfg = metadata.DefaultConfig()
	}
	clientMetadata := metadata.NewMiddleware(metadataCfg)
	latency := request.NewMetrics()

	r.Route("/privacy", func(r chi.Router) {
		r.Use(request.BodyLimit(json.MaxBodyBytes))
		r.Use(request.ContentTypeJSON)
		r.Use(request.LatencyMiddleware(latency))
		r.Use(clientMetadata.Handler)
		r.Use(auth.RequirePortalToken(cfg.Validator, cfg.Logger))

		NewConsentHandler(cfg.Consent, cfg.Logger).Register(r)
		NewVaultHandler(cfg.Vault, cfg.Logger).Register(r)
		NewProcessingLogHandler(cfg.Proclog, cfg.Logger).Register(r)
		NewGateHandler(cfg.Gate, cfg.Logger).Register(r)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(request.BodyLimit(json.MaxBodyBytes))
		r.Use(admin.RequireAdminToken(cfg.AdminToken, cfg.Logger))

		NewAdminHandler(cfg.Admin, cfg.Logger).Register(r)
	})

	return r
}
