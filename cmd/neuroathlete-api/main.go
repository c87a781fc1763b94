package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/neuroathlete-api/api/swagger"
	"github.com/noah-isme/neuroathlete-api/internal/engine"
	"github.com/noah-isme/neuroathlete-api/internal/handler"
	"github.com/noah-isme/neuroathlete-api/internal/repository"
	"github.com/noah-isme/neuroathlete-api/internal/service"
	"github.com/noah-isme/neuroathlete-api/pkg/cache"
	"github.com/noah-isme/neuroathlete-api/pkg/config"
	"github.com/noah-isme/neuroathlete-api/pkg/database"
	"github.com/noah-isme/neuroathlete-api/pkg/jobs"
	"github.com/noah-isme/neuroathlete-api/pkg/logger"
	"github.com/noah-isme/neuroathlete-api/pkg/storage"
)

// @title NeuroAthlete API
// @version 0.1.0
// @description Session analytics and progression engine for cognitive training
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, read-model cache disabled", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close() //nolint:errcheck
		}
	}

	location, err := cfg.Engine.Location()
	if err != nil {
		logr.Sugar().Fatalw("invalid engine timezone", "timezone", cfg.Engine.Timezone, "error", err)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "neuroathlete:", logr)
	}
	var cacheStore service.CacheRepository
	if cacheRepo != nil {
		cacheStore = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheStore, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && cacheRepo != nil)

	catalog := engine.DefaultCatalog()
	eng := engine.New(catalog, engine.Options{Location: location})

	sessionRepo := repository.NewSessionRepository(db)
	stateRepo := repository.NewStateRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)

	athleteSvc := service.NewAthleteService(eng, sessionRepo, stateRepo, assessmentRepo, cacheSvc, metrics, validate, logr)
	if err := athleteSvc.Restore(ctx); err != nil {
		logr.Sugar().Fatalw("failed to restore athlete state", "error", err)
	}

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AthleteID:         cfg.Athlete.ID,
		PINHash:           cfg.Athlete.PINHash,
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
	})

	var (
		reportHandler *handler.ReportHandler
		reportQueue   *jobs.Queue
	)
	if cfg.Reports.Enabled {
		reportHandler, reportQueue = setupReports(ctx, cfg, db, catalog, sessionRepo, metrics, validate, logr, location)
	}

	checks := map[string]handler.ReadinessCheck{
		"postgres": func(ctx context.Context) error { return db.PingContext(ctx) },
	}
	if cacheRepo != nil {
		checks["redis"] = cacheRepo.Ping
	}

	router := newRouter(cfg, logr, metrics, routes{
		auth:    handler.NewAuthHandler(authSvc),
		athlete: handler.NewAthleteHandler(athleteSvc),
		reports: reportHandler,
		metrics: handler.NewMetricsHandler(metrics, queueStatsOrNil(reportQueue), checks),
		tokens:  authSvc,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "sessions", eng.SessionCount())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
}

func setupReports(ctx context.Context, cfg *config.Config, db *sqlx.DB, catalog engine.Catalog, sessions *repository.SessionRepository, metrics *service.MetricsService, validate *validator.Validate, logr *zap.Logger, location *time.Location) (*handler.ReportHandler, *jobs.Queue) {
	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "dir", cfg.Reports.StorageDir, "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportSvc := service.NewExportService(sessions, catalog, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
		Location:  location,
	}, logr, nil, nil)

	reportRepo := repository.NewReportRepository(db)
	worker := service.NewReportWorker(reportRepo, exportSvc, metrics, logr)
	queue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
		Workers:     cfg.Reports.WorkerConcurrency,
		MaxRetries:  cfg.Reports.WorkerRetries,
		RetryDelay:  2 * time.Second,
		OnExhausted: worker.Exhausted,
		Logger:      logr,
	})
	queue.Start(ctx)

	reportSvc := service.NewReportService(reportRepo, queue, exportSvc, catalog, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: time.Hour,
	})
	reportSvc.RecoverPendingJobs(ctx)
	reportSvc.StartCleanup(ctx)

	return handler.NewReportHandler(reportSvc), queue
}

func queueStatsOrNil(q *jobs.Queue) handler.QueueStats {
	if q == nil {
		return nil
	}
	return q
}
