package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/neuroathlete-api/internal/handler"
	"github.com/noah-isme/neuroathlete-api/internal/middleware"
	"github.com/noah-isme/neuroathlete-api/internal/service"
	"github.com/noah-isme/neuroathlete-api/pkg/config"
	appErrors "github.com/noah-isme/neuroathlete-api/pkg/errors"
	"github.com/noah-isme/neuroathlete-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/neuroathlete-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/neuroathlete-api/pkg/middleware/requestid"
	"github.com/noah-isme/neuroathlete-api/pkg/response"
)

type routes struct {
	auth    *handler.AuthHandler
	athlete *handler.AthleteHandler
	reports *handler.ReportHandler
	metrics *handler.MetricsHandler
	tokens  middleware.TokenValidator
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h routes) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	requireAuth := middleware.JWT(h.tokens)

	api.POST("/auth/token", h.auth.Token)
	api.GET("/auth/me", requireAuth, h.auth.Me)
	api.GET("/metrics/system", h.metrics.System)

	api.GET("/tests", h.athlete.Tests)
	api.GET("/tests/:id/parameters", h.athlete.TestParameters)
	api.POST("/difficulty/next", h.athlete.NextDifficulty)

	api.POST("/sessions", requireAuth, h.athlete.RecordSession)
	api.GET("/sessions", h.athlete.ListSessions)

	api.GET("/profile", h.athlete.Profile)
	api.GET("/achievements", h.athlete.Achievements)

	api.GET("/programs", h.athlete.Programs)
	api.POST("/programs/:id/activate", requireAuth, h.athlete.ActivateProgram)
	api.POST("/programs/:id/deactivate", requireAuth, h.athlete.DeactivateProgram)

	api.POST("/fatigue/assessments", requireAuth, h.athlete.AssessFatigue)
	api.GET("/fatigue/assessments", h.athlete.Assessments)

	if h.reports != nil {
		api.POST("/reports", requireAuth, h.reports.GenerateReport)
		api.GET("/reports/download", h.reports.Download)
		api.GET("/reports/:id", h.reports.ReportStatus)
	} else {
		disabled := func(c *gin.Context) {
			response.Error(c, appErrors.Clone(appErrors.ErrFeatureDisabled, "session exports are disabled"))
		}
		api.POST("/reports", disabled)
		api.GET("/reports/*any", disabled)
	}

	return r
}
