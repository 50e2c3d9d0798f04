package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"logvault/config"
	_ "logvault/docs"
	"logvault/internal/aggregator"
	"logvault/internal/controller"
	"logvault/internal/manifest"
	"logvault/internal/parser"
	"logvault/internal/query"
	"logvault/internal/scheduler"
	"logvault/internal/service"
	"logvault/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the aggregation and query HTTP server",
	Long: `Serve starts an HTTP server that triggers recurring aggregation runs on
the configured schedule and answers time-window queries against the
archive's per-second index. The API is documented under
/swagger/index.html and Prometheus metrics are exposed under /metrics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	app := fx.New(
		// Core Dependencies
		fx.Provide(
			provideConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			newGinEngine,
			newExtractor,
			newAggregator,
			newQueryEngine,
			newManifestManager,
			newRunHistory,
			service.NewAggregationService,
			service.NewQueryService,
			controller.NewArchiveController,
		),
		fx.Invoke(
			registerAPIRoutes,
			registerScheduler,
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}
	return nil
}

// --- Factory Functions ---

func provideConfig() *config.Config {
	return cfg
}

func newGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger and Prometheus endpoints
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func newExtractor() parser.Extractor {
	return parser.NewMarkerExtractor()
}

func newAggregator(cfg *config.Config, extractor parser.Extractor) *aggregator.Aggregator {
	return aggregator.New(extractor, aggregator.Config{
		DateStamp:       cfg.Aggregator.DateStamp,
		ReadConcurrency: cfg.Aggregator.ReadConcurrency,
	})
}

func newQueryEngine(cfg *config.Config) (*query.Engine, error) {
	return query.NewEngine(cfg.Query.ShardCacheSize)
}

func newManifestManager(cfg *config.Config) manifest.Manager {
	return manifest.NewManager(cfg.Manifest.FilePath)
}

func newRunHistory(cfg *config.Config) store.RunHistory {
	return store.NewInMemoryRunHistory(cfg.Aggregator.HistorySize)
}

// --- Invoker Functions ---

func registerAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	archiveController *controller.ArchiveController,
) {
	controller.RegisterArchiveRoutes(router, archiveController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

func registerScheduler(lc fx.Lifecycle, cfg *config.Config, aggregationSvc service.AggregationService) {
	scheduler.NewScheduler(lc, cfg, aggregationSvc)
}
