// Command gatewayd is the multi-cloud command gateway's HTTP programmatic
// API server: it wires the policy engine, per-provider gateways, the
// playbook executor, and their ambient collaborators (config, logging,
// metrics, audit) behind a go-chi router, mirroring the teacher's
// cmd/gateway-service pattern of a thin net/http binary over the real
// business logic.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kishhcodes/cloudgate/internal/config"
	"github.com/kishhcodes/cloudgate/pkg/audit"
	"github.com/kishhcodes/cloudgate/pkg/audit/migrations"
	"github.com/kishhcodes/cloudgate/pkg/audit/postgres"
	"github.com/kishhcodes/cloudgate/pkg/executor"
	"github.com/kishhcodes/cloudgate/pkg/gateway"
	"github.com/kishhcodes/cloudgate/pkg/handler"
	"github.com/kishhcodes/cloudgate/pkg/metrics"
	"github.com/kishhcodes/cloudgate/pkg/notification"
	"github.com/kishhcodes/cloudgate/pkg/notification/delivery"
	"github.com/kishhcodes/cloudgate/pkg/playbook"
	"github.com/kishhcodes/cloudgate/pkg/policy"
	"github.com/kishhcodes/cloudgate/pkg/provider"
	"github.com/kishhcodes/cloudgate/pkg/ratelimit"
	redislimit "github.com/kishhcodes/cloudgate/pkg/ratelimit/redis"
	"github.com/kishhcodes/cloudgate/pkg/remediation"
	"github.com/kishhcodes/cloudgate/pkg/shared/circuitbreaker"
	"github.com/kishhcodes/cloudgate/pkg/shared/logging"
)

// server bundles the dependencies the HTTP handlers in routes.go need.
type server struct {
	gateways  map[provider.Kind]*gateway.Gateway
	playbooks map[string]playbook.Playbook
	engine    *remediation.Engine
	log       logr.Logger
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CLOUDGATE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zapLog, err := logging.NewZapLogger(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	log := logging.NewLogr(zapLog).WithValues("instanceId", uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policyEngine, err := newPolicyEngine(ctx, cfg.Security.PolicyFile)
	if err != nil {
		return fmt.Errorf("build policy engine: %w", err)
	}
	if cfg.Security.PolicyFile != "" {
		go func() {
			err := policyEngine.Watch(ctx, cfg.Security.PolicyFile, logging.Fields{}, func(msg string, f logging.Fields) {
				logging.Log(log, msg, f)
			})
			if err != nil {
				logging.LogError(log, err, "policy watcher exited", logging.Fields{})
			}
		}()
	}

	mode := policy.ParseMode(cfg.Security.Mode)

	childLimiter, err := buildLimiter(cfg, "children:running", cfg.Limiter.MaxConcurrentChildren)
	if err != nil {
		return fmt.Errorf("build child limiter: %w", err)
	}
	playbookLimiter, err := buildLimiter(cfg, "playbooks:running", cfg.Limiter.MaxConcurrentPlaybooks)
	if err != nil {
		return fmt.Errorf("build playbook limiter: %w", err)
	}

	gateways := map[provider.Kind]*gateway.Gateway{}
	for kind, enabled := range map[provider.Kind]bool{
		provider.AWS:   cfg.Providers.AWS,
		provider.GCP:   cfg.Providers.GCP,
		provider.Azure: cfg.Providers.Azure,
	} {
		if !enabled {
			continue
		}
		spec, _ := provider.Specs(kind)
		gw, startErr := startGateway(spec, policyEngine, mode, childLimiter, cfg)
		if startErr != nil {
			logging.LogError(log, startErr, "provider gateway failed to start, continuing without it", logging.Fields{"provider": string(kind)})
			continue
		}
		gateways[kind] = gw
	}

	notifier := buildNotifier(cfg)

	registry := handler.NewRegistry()
	handler.RegisterBuiltins(registry, handler.Gateways(gateways), notifier)

	sink, closeSink, err := buildAuditSink(cfg)
	if err != nil {
		return fmt.Errorf("build audit sink: %w", err)
	}
	if closeSink != nil {
		defer closeSink()
	}

	engine := remediation.New(remediation.Config{
		Registry: registry,
		Limiter:  playbookLimiter,
		Sink:     sink,
		Logger:   log,
	})

	catalog, err := playbook.Catalog()
	if err != nil {
		return fmt.Errorf("build playbook catalog: %w", err)
	}
	playbooks := map[string]playbook.Playbook{}
	for _, pb := range catalog {
		if validateErr := engine.Validate(pb); validateErr != nil {
			return fmt.Errorf("playbook %s fails validation: %w", pb.ID, validateErr)
		}
		playbooks[pb.ID] = pb
	}

	srv := &server{gateways: gateways, playbooks: playbooks, engine: engine, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	srv.routes(r)
	r.Handle("/metrics", metrics.Handler())

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Log(log, "gatewayd listening", logging.Fields{"addr": httpServer.Addr})
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
	case serveErr := <-errCh:
		return fmt.Errorf("http server: %w", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newPolicyEngine(ctx context.Context, policyFile string) (*policy.Engine, error) {
	if policyFile == "" {
		return policy.NewEngine(ctx)
	}
	return policy.NewEngineFromFile(ctx, policyFile)
}

func buildLimiter(cfg *config.Config, key string, capacity int) (ratelimit.Limiter, error) {
	if cfg.Limiter.RedisAddr == "" {
		return ratelimit.NewInProcess(capacity), nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Limiter.RedisAddr})
	return redislimit.New(client, key, int64(capacity), 2*time.Minute), nil
}

func startGateway(spec provider.Spec, policyEngine *policy.Engine, mode policy.Mode, limiter ratelimit.Limiter, cfg *config.Config) (*gateway.Gateway, error) {
	breaker := circuitbreaker.New(circuitbreaker.DefaultConfig(string(spec.Kind)))
	exec := executor.New(limiter, breaker)
	gw := gateway.New(gateway.Config{
		Spec:   spec,
		Policy: policyEngine,
		Exec:   exec,
		Mode:   mode,
		Options: executor.Options{
			MaxOutputBytes: cfg.Executor.MaxOutputBytes,
			MaxWallClock:   cfg.MaxWallClock(),
		},
	})
	if err := gw.Start(provider.ContextInfo{Provider: spec.Kind}); err != nil {
		return nil, err
	}
	return gw, nil
}

func buildNotifier(cfg *config.Config) notification.Sender {
	if cfg.Notification.SlackToken != "" {
		return delivery.NewSlackSender(cfg.Notification.SlackToken)
	}
	dir := cfg.Notification.FileDir
	if dir == "" {
		dir = "./notifications"
	}
	return delivery.NewFileSender(dir)
}

// buildAuditSink returns an in-memory sink by default, or a Postgres sink
// (schema migrated via goose) when Audit.PostgresDSN is configured. The
// returned close func is nil for the in-memory sink.
func buildAuditSink(cfg *config.Config) (audit.AuditSink, func(), error) {
	if cfg.Audit.PostgresDSN == "" {
		return audit.NewInMemorySink(), nil, nil
	}

	sink, err := postgres.Open(cfg.Audit.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open("pgx", cfg.Audit.PostgresDSN)
	if err != nil {
		_ = sink.Close()
		return nil, nil, err
	}
	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		_ = sink.Close()
		return nil, nil, fmt.Errorf("run audit migrations: %w", err)
	}
	_ = db.Close()

	return sink, func() { _ = sink.Close() }, nil
}
