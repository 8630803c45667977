package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/school-finance/internal/config"
	"github.com/nimasrn/school-finance/internal/handlers"
	"github.com/nimasrn/school-finance/internal/idempotency"
	"github.com/nimasrn/school-finance/internal/repository"
	"github.com/nimasrn/school-finance/internal/services"
	"github.com/nimasrn/school-finance/internal/view"
	xhttp "github.com/nimasrn/school-finance/pkg/http"
	"github.com/nimasrn/school-finance/pkg/logger"
	"github.com/nimasrn/school-finance/pkg/pg"
	"github.com/nimasrn/school-finance/pkg/prom"
	"github.com/nimasrn/school-finance/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer logger.Sync()

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	logger.Info("starting school finance", "version", version, "commit", commit, "date", date, "env", cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.CreateReadWrite(cfg.PostgresRead(), cfg.PostgresWrite(), cfg.IsDev())
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	defer db.Close()

	var guard services.SubmissionGuard
	if cfg.RedisAddr != "" {
		redisAdap, err := redis.NewRedisAdapter(ctx, "default", cfg.RedisUniversalKeyPrefix, &redis.Options{
			Addrs:      []string{cfg.RedisAddr},
			ClientName: cfg.AppName,
			DB:         cfg.RedisDatabase,
			Username:   cfg.RedisUsername,
			Password:   cfg.RedisPassword,
		})
		if err != nil {
			logger.Error("failed connecting to redis", "error", err)
			return
		}
		defer redisAdap.Close()

		guardConf := idempotency.DefaultConfig()
		guardConf.LockTTL = cfg.SubmissionLockTTL
		guardConf.DoneTTL = cfg.SubmissionDoneTTL
		guard = idempotency.NewGuard(redisAdap, guardConf)
	} else {
		logger.Warn("REDIS_ADDR is empty, duplicate form submissions are not detected")
	}

	if cfg.AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed creating metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	templates, err := view.New()
	if err != nil {
		logger.Error("failed parsing templates", "error", err)
		return
	}

	studentRepo := repository.NewStudentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	itemRepo := repository.NewInvoiceItemRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)

	// services
	invoiceService := services.NewInvoiceService(db, studentRepo, invoiceRepo, itemRepo, receiptRepo, guard)
	receiptService := services.NewReceiptService(studentRepo, invoiceRepo, receiptRepo, guard)

	// handlers
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, templates)
	receiptHandler := handlers.NewReceiptHandler(receiptService, templates)
	healthHandler := handlers.NewHealthHandler(db)

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	g := s.Router.Group("/finance")
	handlers.RegisterInvoiceRoutes(g, invoiceHandler)
	handlers.RegisterReceiptRoutes(g, receiptHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("http server listening", "addr", cfg.HttpListenAddr)
		if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	logger.Info("shutting down")
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			path := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed env file", "path", path, "error", err)
				return ""
			}
			return path
		}
	}
	return ""
}
