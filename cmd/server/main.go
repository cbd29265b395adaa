package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sss/internal/audit"
	compliancehandler "sss/internal/compliance/handler"
	compliancemetrics "sss/internal/compliance/metrics"
	complianceservice "sss/internal/compliance/service"
	compliancestore "sss/internal/compliance/store"
	governancehandler "sss/internal/governance/handler"
	governancemetrics "sss/internal/governance/metrics"
	governanceservice "sss/internal/governance/service"
	governancestore "sss/internal/governance/store"
	httprouter "sss/internal/http"
	issuancehandler "sss/internal/issuance/handler"
	issuancemetrics "sss/internal/issuance/metrics"
	issuanceservice "sss/internal/issuance/service"
	"sss/internal/platform/config"
	"sss/internal/platform/httpserver"
	"sss/internal/platform/logger"
	"sss/internal/platform/postgres"
	redisclient "sss/internal/platform/redis"
	roleshandler "sss/internal/roles/handler"
	rolesmetrics "sss/internal/roles/metrics"
	rolesservice "sss/internal/roles/service"
	rolesstore "sss/internal/roles/store"
	stablecoinhandler "sss/internal/stablecoin/handler"
	stablecoinmetrics "sss/internal/stablecoin/metrics"
	stablecoinservice "sss/internal/stablecoin/service"
	stablecoinstore "sss/internal/stablecoin/store"
	"sss/internal/token"
	"sss/pkg/platform/middleware/caller"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	var (
		scStore    stablecoinstore.Store
		roleStore  rolesstore.Store
		compStore  compliancestore.Store
		govStore   governancestore.Store
		windows    compliancestore.WindowStore
	)
	if pool != nil {
		if scStore, err = stablecoinstore.NewPostgres(ctx, pool); err != nil {
			return err
		}
		if roleStore, err = rolesstore.NewPostgres(ctx, pool); err != nil {
			return err
		}
		if compStore, err = compliancestore.NewPostgres(ctx, pool); err != nil {
			return err
		}
		if govStore, err = governancestore.NewPostgres(ctx, pool); err != nil {
			return err
		}
		log.Info("using postgres stores")
	} else {
		scStore = stablecoinstore.NewInMemory()
		roleStore = rolesstore.NewInMemory()
		compStore = compliancestore.NewInMemory()
		govStore = governancestore.NewInMemory()
		log.Info("using in-memory stores")
	}

	rds, err := redisclient.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if rds != nil {
		defer rds.Close()
		windows = compliancestore.NewRedisWindow(rds.Client)
		log.Info("using redis transfer windows")
	} else {
		windows = compliancestore.NewInMemoryWindow()
	}

	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		defer kafka.Close()
		publisher = kafka
		log.Info("audit events publishing to kafka", "topic", cfg.KafkaTopic)
	}

	ledger := token.NewInMemoryLedger()

	rolesSvc := rolesservice.New(roleStore, scStore,
		rolesservice.WithLogger(log),
		rolesservice.WithAuditPublisher(publisher),
		rolesservice.WithMetrics(rolesmetrics.New()),
	)
	scSvc := stablecoinservice.New(scStore, ledger, rolesSvc,
		stablecoinservice.WithLogger(log),
		stablecoinservice.WithAuditPublisher(publisher),
		stablecoinservice.WithMetrics(stablecoinmetrics.New()),
	)
	issuanceSvc := issuanceservice.New(scStore, ledger, rolesSvc,
		issuanceservice.WithLogger(log),
		issuanceservice.WithAuditPublisher(publisher),
		issuanceservice.WithMetrics(issuancemetrics.New()),
	)
	complianceSvc := complianceservice.New(compStore, windows, scStore, ledger, rolesSvc,
		complianceservice.WithLogger(log),
		complianceservice.WithAuditPublisher(publisher),
		complianceservice.WithMetrics(compliancemetrics.New()),
	)
	governanceSvc := governanceservice.New(govStore, scStore,
		governanceservice.WithLogger(log),
		governanceservice.WithAuditPublisher(publisher),
		governanceservice.WithMetrics(governancemetrics.New()),
	)

	router := httprouter.NewRouter(log, caller.NewHMACValidator(cfg.JWTSigningKey),
		stablecoinhandler.New(scSvc, log),
		roleshandler.New(rolesSvc, log),
		issuancehandler.New(issuanceSvc, log),
		compliancehandler.New(complianceSvc, log),
		governancehandler.New(governanceSvc, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
