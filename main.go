package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/SaniatAzam/invoice-generator/internal/api"
	"github.com/SaniatAzam/invoice-generator/internal/cache"
	"github.com/SaniatAzam/invoice-generator/internal/config"
	"github.com/SaniatAzam/invoice-generator/internal/db"
	"github.com/SaniatAzam/invoice-generator/internal/logger"
	"github.com/SaniatAzam/invoice-generator/internal/render"
	"github.com/SaniatAzam/invoice-generator/internal/services"
	"github.com/SaniatAzam/invoice-generator/internal/storage"
	"github.com/SaniatAzam/invoice-generator/internal/tasks"
)

var runMode = flag.String("m", "all", "Run mode: 'api', 'bg' (archive worker), 'all' (default)")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*runMode)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.New(logger.Config{Env: cfg.AppEnv, Level: cfg.LogLevel})
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Database
	mongoClient, mongoDb, err := db.ConnectDB(cfg.MongoURI, cfg.MongoDbName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := db.DisconnectDB(mongoClient); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(indexCtx, mongoDb); err != nil {
		cancelIndex()
		log.Fatal().Err(err).Msg("Failed to ensure indexes")
	}
	cancelIndex()

	// Initialize Cache (Redis)
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer func() {
		if err := cache.DisconnectRedis(redisClient); err != nil {
			log.Error().Err(err).Msg("Error disconnecting from Redis")
		}
	}()

	// Archive is optional: without a bucket nothing is enqueued and no worker runs.
	var archiveQueue services.IArchiveQueue = services.NopArchiveQueue{}
	var archive storage.IInvoiceArchive
	var taskClient *asynq.Client
	if cfg.ArchiveEnabled() {
		archive, err = storage.NewS3Archive(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 archive")
		}
		taskClient = tasks.NewClient(redisClient)
		defer taskClient.Close()
		archiveQueue = tasks.NewArchiveQueue(taskClient)
	} else {
		log.Info().Msg("AWS_S3_BUCKET not set, invoice archiving disabled")
	}

	// WaitGroup for managing goroutines
	var wg sync.WaitGroup

	// Channel to signal shutdown from Service API
	shutdownChan := make(chan struct{}, 1)

	// Start Service API (always runs)
	serviceSrv := &http.Server{
		Addr:    ":" + cfg.ServiceApiPort,
		Handler: api.SetupServiceRouter(cfg, mongoDb, redisClient, shutdownChan),
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("port", cfg.ServiceApiPort).Msg("Service API listening")
		if err := serviceSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Service API ListenAndServe error")
		}
		log.Info().Msg("Service API server stopped")
	}()

	// --- Mode-specific servers ---
	var mainApiSrv *http.Server
	var archiveTaskSrv *asynq.Server

	log.Info().Str("mode", cfg.RunMode).Msg("Starting application")

	apiMode := func() {
		mainApiSrv = &http.Server{
			Addr:              ":" + cfg.ApiPort,
			Handler:           api.SetupRouter(cfg, mongoDb, redisClient, archiveQueue, archive),
			ReadHeaderTimeout: 10 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("port", cfg.ApiPort).Msg("Main API listening")
			if err := mainApiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("Main API ListenAndServe error")
			}
			log.Info().Msg("Main API server stopped")
		}()
	}

	bgMode := func() {
		if !cfg.ArchiveEnabled() {
			log.Info().Msg("Archive worker not started")
			return
		}
		invoiceService := services.NewInvoiceService(mongoDb, cfg, nil)
		renderer := render.NewPDFRenderer(render.Shop{Name: cfg.ShopName, Address: cfg.ShopAddress})
		processor := tasks.NewTaskProcessor(invoiceService, renderer, archive)

		var mux *asynq.ServeMux
		archiveTaskSrv, mux = tasks.SetupServer(redisClient, processor)
		if err := archiveTaskSrv.Start(mux); err != nil {
			log.Fatal().Err(err).Msg("Archive task server error")
		}
		log.Info().Msg("Archive task server started")
	}

	switch cfg.RunMode {
	case "api":
		apiMode()
	case "bg":
		bgMode()
	case "all":
		apiMode()
		bgMode()
	default:
		log.Fatal().Str("mode", cfg.RunMode).Msg("Invalid run mode")
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")
	case <-shutdownChan:
		log.Info().Msg("Shutdown requested via Service API")
	}

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := serviceSrv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("Service API server shutdown error")
	}

	if mainApiSrv != nil {
		if err := mainApiSrv.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Main API server shutdown error")
		}
	}

	if archiveTaskSrv != nil {
		archiveTaskSrv.Shutdown()
	}

	wg.Wait()
	log.Info().Msg("Server gracefully stopped")
}
