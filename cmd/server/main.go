package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	consentcache "privacygate/internal/consent/cache"
	consentmetrics "privacygate/internal/consent/metrics"
	consentservice "privacygate/internal/consent/service"
	consentstore "privacygate/internal/consent/store"
	"privacygate/internal/crypto"
	"privacygate/internal/events"
	"privacygate/internal/gate"
	gatemetrics "privacygate/internal/gate/metrics"
	"privacygate/internal/platform/config"
	"privacygate/internal/platform/database"
	"privacygate/internal/platform/health"
	"privacygate/internal/platform/httpserver"
	"privacygate/internal/platform/kafka"
	"privacygate/internal/platform/kafka/producer"
	"privacygate/internal/platform/logger"
	"privacygate/internal/platform/redis"
	proclogmetrics "privacygate/internal/proclog/metrics"
	proclogservice "privacygate/internal/proclog/service"
	proclogstore "privacygate/internal/proclog/store"
	httptransport "privacygate/internal/transport/http"
	vaultmetrics "privacygate/internal/vault/metrics"
	vaultservice "privacygate/internal/vault/service"
	vaultstore "privacygate/internal/vault/store"
	"privacygate/pkg/platform/middleware/auth"
)

// adminService joins the operator-facing slices of the gate and the
// processing log behind the transport's AdminService interface. The aliases
// give the embedded fields distinct names so both can be embedded.
type (
	gateService    = gate.Service
	proclogService = proclogservice.Service
)

type adminService struct {
	*gateService
	*proclogService
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing privacy gateway",
		"addr", cfg.Addr,
		"region", cfg.DefaultRegion,
		"block_external", cfg.BlockExternal,
	)

	masterKey, err := crypto.LoadMasterKey(cfg.MasterKeyHex)
	if err != nil {
		log.Error("master key configuration error", "error", err)
		os.Exit(1)
	}
	engine := crypto.NewEngine(masterKey)

	probes := health.New(os.Getenv("ENVIRONMENT"))

	// Persistence. Without DATABASE_URL everything runs on in-memory
	// stores, which is enough for local development.
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	var (
		consentSt consentservice.Store
		vaultSt   vaultstore.Store
		proclogSt proclogservice.Store
	)
	if pool != nil {
		defer pool.Close()
		consentSt = consentstore.NewPostgres(pool.DB())
		vaultSt = vaultstore.NewPostgres(pool.DB())
		proclogSt = proclogstore.NewPostgres(pool.DB())
		probes.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
		log.Info("using postgres stores")
	} else {
		consentSt = consentstore.NewMemory()
		vaultSt = vaultstore.NewMemory()
		proclogSt = proclogstore.NewMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Consent status cache. Redis when configured, per-process otherwise.
	var consentCache consentcache.Cache = consentcache.NewMemory()
	if cfg.RedisURL != "" {
		rdb, err := redis.New(cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		consentCache = consentcache.NewRedis(rdb.Client)
		probes.RegisterCheck("redis", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return rdb.Health(ctx)
		})
		log.Info("using redis consent cache")
	}

	// Lifecycle events go to Kafka when brokers are configured; otherwise
	// publishing is disabled (a nil publisher is a no-op).
	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		prod, err := producer.New(producer.Config{
			Brokers:         cfg.KafkaBrokers,
			Acks:            "all",
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer prod.Close()

		publisher = events.NewPublisher(
			events.NewKafkaSink(prod, cfg.EventsTopic),
			events.WithAsyncBuffer(256),
			events.WithLogger(log),
		)
		defer publisher.Close()

		checker := kafka.NewHealthChecker(cfg.KafkaBrokers)
		probes.RegisterCheck(checker.Name(), func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return checker.Check(ctx)
		})
		log.Info("publishing events to kafka", "brokers", cfg.KafkaBrokers)
	}

	consentSvc := consentservice.NewService(consentSt, log, cfg.PolicyVersion, cfg.DefaultRegion,
		consentservice.WithMetrics(consentmetrics.New()),
		consentservice.WithCache(consentCache),
		consentservice.WithEvents(publisher),
	)
	vaultSvc := vaultservice.NewService(vaultSt, engine, log,
		vaultservice.WithMetrics(vaultmetrics.New()),
	)
	proclogSvc := proclogservice.NewService(proclogSt, log,
		proclogservice.WithMetrics(proclogmetrics.New()),
	)
	gateSvc := gate.NewService(consentSvc, proclogSvc, vaultSvc, gate.PolicyFromConfig(cfg), log,
		gate.WithMetrics(gatemetrics.New()),
		gate.WithEvents(publisher),
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Consent:    consentSvc,
		Vault:      vaultSvc,
		Proclog:    proclogSvc,
		Gate:       gateSvc,
		Admin:      adminService{gateSvc, proclogSvc},
		Validator:  auth.NewPortalTokenValidator(cfg.PortalTokenKey),
		AdminToken: cfg.AdminToken,
		Logger:     log,
		Health:     probes,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
