package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "itams/docs"
	"itams/pkg/assets"
	"itams/pkg/assignments"
	"itams/pkg/audits"
	"itams/pkg/brands"
	"itams/pkg/categories"
	"itams/pkg/config"
	"itams/pkg/dashboard"
	"itams/pkg/db"
	"itams/pkg/feed"
	"itams/pkg/locations"
	"itams/pkg/logger"
	"itams/pkg/maintenance"
	"itams/pkg/metrics"
	"itams/pkg/middleware"
	"itams/pkg/response"
	"itams/pkg/sendemail"
	"itams/pkg/server"
	"itams/pkg/statuses"
	"itams/pkg/suppliers"
	"itams/pkg/users"
)

// @title           IT Asset Management API
// @version         1.0
// @description     Asset inventory, depreciation and physical audit reconciliation

// @BasePath  /

// @schemes   http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{ServiceName: "itams-api"})
		bootLog.Fatal().Err(err).Msg("config.invalid")
	}

	log := logger.New(logger.Options{
		ServiceName: "itams-api",
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db.connect_failed")
	}
	defer pool.Close()

	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := newRouter(cfg, pool, registry, log)

	if err := server.Run(ctx, cfg, router, log); err != nil {
		log.Fatal().Err(err).Msg("server.failed")
	}
}

func newRouter(cfg *config.Config, pool *pgxpool.Pool, registry *prometheus.Registry, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(log), middleware.Recoverer())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Actor-ID", "X-Request-Id"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	usersService := users.NewUserService(users.NewPostgresUserRepository(pool))
	users.NewUserHandler(usersService).RegisterRoutes(router)

	locationsService := locations.NewLocationService(locations.NewPostgresLocationRepository(pool))
	locations.NewLocationHandler(locationsService).RegisterRoutes(router)

	categoriesService := categories.NewCategoryService(categories.NewPostgresCategoryRepository(pool))
	categories.NewCategoryHandler(categoriesService).RegisterRoutes(router)

	statusesService := statuses.NewStatusService(statuses.NewPostgresStatusRepository(pool))
	statuses.NewStatusHandler(statusesService).RegisterRoutes(router)

	brandsService := brands.NewBrandService(brands.NewPostgresBrandRepository(pool))
	brands.NewBrandHandler(brandsService).RegisterRoutes(router)

	suppliersService := suppliers.NewSupplierService(suppliers.NewPostgresSupplierRepository(pool))
	suppliers.NewSupplierHandler(suppliersService).RegisterRoutes(router)

	summaryService := dashboard.NewSummaryService(dashboard.NewPostgresSummaryRepository(pool))
	dashboard.NewSummaryHandler(summaryService).RegisterRoutes(router)

	assetsService := assets.NewAssetService(assets.NewPostgresAssetRepository(pool))
	assets.NewAssetHandler(assetsService).RegisterRoutes(router)

	assignmentsService := assignments.NewAssignmentService(assignments.NewPostgresAssignmentRepository(pool))
	assignments.NewAssignmentHandler(assignmentsService).RegisterRoutes(router)

	logsService := maintenance.NewLogService(maintenance.NewPostgresLogRepository(pool))
	maintenance.NewLogHandler(logsService).RegisterRoutes(router)

	hub := feed.NewHub(log)
	var notifier audits.CloseNotifier
	if cfg.Sendgrid.Enabled() {
		notifier = audits.NewEmailNotifier(sendemail.NewEmailService(cfg.Sendgrid), cfg.Sendgrid.AuditRecipients)
	} else {
		log.Info().Msg("audit close notifications disabled")
	}
	auditService := audits.NewAuditService(
		audits.NewPostgresAuditRepository(pool),
		hub,
		notifier,
		metrics.NewAuditMetrics(registry),
	)
	audits.NewAuditHandler(auditService, hub).RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			response.SendAPIResponse(c, http.StatusServiceUnavailable, false, "database unavailable", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusOK, true, "ok", nil)
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
