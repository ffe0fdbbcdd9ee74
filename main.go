// File: slotwise/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotwise/config"
	"slotwise/cron"
	"slotwise/database"
	availabilityRepo "slotwise/database/repository/availability"
	slotRepo "slotwise/database/repository/slot"
	summaryRepo "slotwise/database/repository/summary"
	"slotwise/handlers"
	"slotwise/middleware"
	"slotwise/routes"
	"slotwise/services/availability"
	"slotwise/services/generation"
	"slotwise/services/reconciler"
	slotService "slotwise/services/slot"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	slots := slotRepo.NewMongoSlotRepo()
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	summaries := summaryRepo.NewMongoSummaryRepo()

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Repo: availRepo,
		// Recurrence evaluation is supplied by the pattern engine; until
		// it is wired, patterns never block.
		Recurrence: nil,
	}
	slotSvc := &slotService.DefaultSlotService{
		Repo:  slots,
		Cache: slotService.NewRedisSlotCache(utils.GetCacheClient()),
	}
	generationService := &generation.DefaultGenerationService{
		Availability: availRepo,
		Slots:        slots,
		Summaries:    summaries,
	}
	rec := &reconciler.Reconciler{
		Slots:     slots,
		Summaries: summaries,
		BatchSize: config.AppConfig.ReconcileBatchSize,
	}

	// handlers and routes.
	routes.RegisterAvailabilityRoutes(router, handlers.NewAvailabilityHandler(availabilityService))
	routes.RegisterSlotRoutes(router, handlers.NewSlotHandler(slotSvc))
	routes.RegisterGenerationRoutes(router, handlers.NewGenerationHandler(cron.GetQueueClient()))

	// background workers.
	cron.InitGenerationWorker(generationService)
	reconcilerCron := cron.StartReconcilerCron(rec)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	reconcilerCron.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
