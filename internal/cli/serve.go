package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"credex/internal/events"
	"credex/internal/issuance"
	"credex/internal/pipeline"
	"credex/internal/platform/config"
	"credex/internal/platform/database"
	"credex/internal/platform/health"
	"credex/internal/platform/kafka/producer"
	redisclient "credex/internal/platform/redis"
	"credex/internal/platform/tracer"
	presentationhandler "credex/internal/presentation/handler"
	presentationmetrics "credex/internal/presentation/metrics"
	presentationservice "credex/internal/presentation/service"
	presentationstore "credex/internal/presentation/store"
	prhandler "credex/internal/presentationrequest/handler"
	prmetrics "credex/internal/presentationrequest/metrics"
	prservice "credex/internal/presentationrequest/service"
	prstore "credex/internal/presentationrequest/store"
	"credex/internal/seeder"
	"credex/internal/server"
	verifiermetrics "credex/internal/verifier/metrics"
	verifierservice "credex/internal/verifier/service"
	verifierstore "credex/internal/verifier/store"
	id "credex/pkg/domain"
)

const redisPoolStatsInterval = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var serveMigrate bool

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
}

type verifierStore interface {
	verifierservice.Store
	verifierservice.Creator
}

// infra holds the connections opened for one serve run.
type infra struct {
	pool     *database.Pool
	redis    *redisclient.Client
	producer *producer.Producer
}

func (i *infra) close(log *slog.Logger, timeout time.Duration) {
	if i.producer != nil {
		if err := i.producer.Close(timeout); err != nil {
			log.Warn("failed to flush kafka producer", "error", err)
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("failed to close redis", "error", err)
		}
	}
	if err := i.pool.Close(); err != nil {
		log.Warn("failed to close database", "error", err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel, cfg.Environment)
	log.Info("configuration loaded",
		"environment", cfg.Environment,
		"address", cfg.Addr(),
		"issuance_base_url", cfg.Issuance.BaseURL,
		"verifier_did", cfg.VerifierDID,
		"database", cfg.Database.URL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", cfg.Kafka.Brokers != "",
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	in := &infra{}
	defer in.close(log, cfg.ServerShutdownTimeout)

	srv, err := buildServer(ctx, cfg, log, reg, in)
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		log.Error("server error", "error", err)
		return err
	}
	log.Info("server shutdown complete")
	return nil
}

// buildServer opens the configured backends and wires every service onto the router.
// Connections are recorded on in so the caller can release them.
func buildServer(ctx context.Context, cfg *config.Server, log *slog.Logger, reg *prometheus.Registry, in *infra) (*server.Server, error) {
	probes := health.New(cfg.Environment, log)
	var opts []server.Option

	pool, err := database.New(ctx, cfg.Database.PoolConfig())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	in.pool = pool

	var (
		verifiers     verifierStore
		requests      prstore.Store
		presentations presentationstore.Store
	)
	if pool != nil {
		if serveMigrate {
			if err := database.Migrate(ctx, pool.DB()); err != nil {
				return nil, err
			}
		}
		probes.RegisterCheck("database", pool.Health)
		verifiers = verifierstore.NewPostgres(pool.DB())
		requests = prstore.NewPostgres(pool.DB())
		presentations = presentationstore.NewPostgres(pool.DB())
		log.Info("using postgres stores")
	} else {
		if cfg.RequiresDatabase() {
			return nil, errors.New("DATABASE_URL is required")
		}
		mem := verifierstore.NewInMemoryStore()
		err := seeder.New(mem, log).SeedPrimaryVerifier(ctx, seeder.PrimaryVerifier{
			DID:            id.DID(cfg.VerifierDID),
			AuthToken:      cfg.Seed.VerifierAuthToken,
			SigningKeyFile: cfg.Seed.VerifierSigningKeyFile,
		})
		if err != nil {
			return nil, err
		}
		verifiers = mem
		requests = prstore.NewInMemoryStore()
		presentations = presentationstore.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	requestMetrics := prmetrics.New(reg)
	rc, err := redisclient.New(ctx, cfg.Redis, reg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if rc != nil {
		in.redis = rc
		probes.RegisterCheck("redis", rc.Health)
		requests = prstore.NewRedisCache(requests, rc.Client, cfg.Redis.CacheTTL, requestMetrics, log)
		opts = append(opts, server.WithTask(func(ctx context.Context) error {
			return rc.RunPoolStats(ctx, redisPoolStatsInterval)
		}))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Brokers != "" {
		p, err := producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Acks:            cfg.Kafka.Acks,
			Retries:         cfg.Kafka.Retries,
			DeliveryTimeout: cfg.Kafka.DeliveryTimeout,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("create kafka producer: %w", err)
		}
		in.producer = p
		probes.RegisterCheck("kafka", p.Ping)
		publisher = events.NewKafkaPublisher(p, cfg.Kafka.EventsTopic, log)
	}

	tr := tracer.NewOTel()
	pipelineOpts := []pipeline.Option{pipeline.WithTracer(tr), pipeline.WithMetrics(pipeline.NewMetrics(reg))}

	rotator := verifierservice.NewRotator(verifiers, id.DID(cfg.VerifierDID), log,
		verifierservice.WithMetrics(verifiermetrics.New(reg)),
		verifierservice.WithTracer(tr),
		verifierservice.WithPublisher(publisher),
	)
	client := issuance.NewClient(cfg.Issuance.BaseURL, cfg.Issuance.Timeout, issuance.WithTracer(tr))

	requestService := prservice.NewService(requests, rotator, client, cfg.HolderAppUUID, log,
		prservice.WithMetrics(requestMetrics),
		prservice.WithPublisher(publisher),
		prservice.WithPipelineOptions(pipelineOpts...),
	)
	presentationService := presentationservice.NewService(presentations, log,
		presentationservice.WithMetrics(presentationmetrics.New(reg)),
		presentationservice.WithPublisher(publisher),
		presentationservice.WithPipelineOptions(pipelineOpts...),
	)
	log.Info("pipelines configured",
		"before_create", requestService.Steps(),
		"before_submit", presentationService.Steps(),
	)

	return server.New(cfg, log, reg, probes, []server.Routes{
		prhandler.New(requestService, log),
		presentationhandler.New(presentationService, log),
	}, opts...)
}
