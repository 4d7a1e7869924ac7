package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/oumizumi/kairo-api/api/swagger"
	"github.com/oumizumi/kairo-api/internal/catalog"
	"github.com/oumizumi/kairo-api/internal/handler"
	"github.com/oumizumi/kairo-api/internal/middleware"
	"github.com/oumizumi/kairo-api/internal/repository"
	"github.com/oumizumi/kairo-api/internal/schedule"
	"github.com/oumizumi/kairo-api/internal/service"
	"github.com/oumizumi/kairo-api/pkg/cache"
	"github.com/oumizumi/kairo-api/pkg/config"
	"github.com/oumizumi/kairo-api/pkg/database"
	"github.com/oumizumi/kairo-api/pkg/logger"
	corsmiddleware "github.com/oumizumi/kairo-api/pkg/middleware/cors"
	reqidmiddleware "github.com/oumizumi/kairo-api/pkg/middleware/requestid"
)

const tokenTTL = 24 * time.Hour

// @title Kairo API
// @version 1.0.0
// @description Course schedule generation over scraped uOttawa timetable data
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Scheduling still works without a shared cache, just slower.
		logr.Sugar().Warnw("redis unavailable, catalog cache is local only", "error", err)
		redisClient = nil
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	calendarRepo := repository.NewCalendarRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(cfg.Catalog.DataDirs, logr)

	loader := catalog.NewLoader(cfg.Catalog.DataDirs, logr)
	catalogs := catalog.NewCache(loader, cacheRepo, cfg.Catalog.CacheTTL, logr)
	if metricsSvc != nil {
		catalogs.OnLoad(metricsSvc.ObserveCatalogLoad)
	}

	prewarmer := catalog.NewPrewarmer(catalogs, catalog.PrewarmConfig{Workers: 2, Logger: logr})
	prewarmer.Start(context.Background())
	defer prewarmer.Stop()
	prewarmer.WarmAll()

	seed := cfg.Scheduler.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	selector := schedule.NewSelector(rand.New(rand.NewSource(seed)), logr)

	validate := validator.New()

	authSvc := service.NewAuthService(cfg.JWT.Secret, tokenTTL, logr)
	calendarSvc := service.NewCalendarService(calendarRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(curriculumRepo, catalogs, calendarSvc, selector, cfg.Scheduler.GroupedMode, cfg.Terms.AcademicYear, logr)
	intentSvc := service.NewIntentService(logr)

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, intentSvc, metricsSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	programHandler := handler.NewProgramHandler(curriculumRepo)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.GET("/programs", programHandler.List)
	api.GET("/programs/:program/courses", programHandler.Requirements)

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	secured.POST("/schedule/generate", scheduleHandler.Generate)
	secured.DELETE("/schedule", scheduleHandler.Clear)
	secured.POST("/assistant/message", scheduleHandler.Assist)
	secured.POST("/catalog/refresh", scheduleHandler.RefreshCatalog)

	secured.GET("/calendar/events", calendarHandler.List)
	secured.POST("/calendar/events", calendarHandler.Create)
	secured.PUT("/calendar/events/:id", calendarHandler.Update)
	secured.DELETE("/calendar/events/:id", calendarHandler.Delete)
	secured.GET("/calendar/export", calendarHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
