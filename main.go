package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rxscan/prescription-ocr/client"
	"github.com/rxscan/prescription-ocr/config"
	"github.com/rxscan/prescription-ocr/handler"
	"github.com/rxscan/prescription-ocr/middleware"
	"github.com/rxscan/prescription-ocr/repository"
	"github.com/rxscan/prescription-ocr/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// gosseract resolves its models through this env var.
	os.Setenv("TESSDATA_PREFIX", cfg.TessdataPrefix)

	ctx := context.Background()
	pool, err := repository.Open(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply database schema")
	}

	tesseractClient := client.NewTesseractClient(cfg.TessdataPrefix, cfg.OCRLanguage)
	pdfProcessor := service.NewPDFProcessor()
	prescriptionRepo := repository.NewPrescriptionRepository(pool)

	prescriptionService := service.NewPrescriptionService(
		tesseractClient,
		pdfProcessor,
		prescriptionRepo,
		cfg.MaxUploadBytes,
		logger,
	)

	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionService, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Prescription OCR",
		})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.APIKeyAuth(cfg.APIKey, logger))
	{
		api.POST("/prescriptions", prescriptionHandler.Upload)
		api.GET("/prescriptions/:patient_id", prescriptionHandler.GetPatient)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("starting prescription OCR service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}
