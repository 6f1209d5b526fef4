package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
)

// initLogger khởi tạo logger cho toàn bộ ứng dụng, cấu hình đọc từ biến môi trường LOG_*
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// main_thread chạy Fiber server tới khi nhận tín hiệu dừng
func main_thread(ctx context.Context, app *fiber.App) {
	log := logger.GetAppLogger()
	address := ":" + global.MongoDB_ServerConfig.Address

	go func() {
		<-ctx.Done()
		log.Info("Shutting down Fiber server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error during server shutdown")
		}
	}()

	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting server with HTTP")

	if err := app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	initLogger()
	defer logger.Close()

	InitGlobal()
	defer func() {
		_ = database.CloseInstance(global.MongoDB_Session)
	}()

	InitRegistry()

	log := logger.GetAppLogger()
	services, err := catalogsvc.NewServicesFromRegistry()
	if err != nil {
		log.Fatalf("Failed to create catalog services: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enrichmentWorker, err := InitPosterEnrichment(ctx)
	if err != nil {
		log.WithError(err).Error("🖼️ [POSTER_ENRICHMENT] Failed to create worker, continuing without enrichment")
	}

	var app *fiber.App
	if enrichmentWorker != nil {
		app = InitFiberApp(services, enrichmentWorker)
	} else {
		app = InitFiberApp(services, nil)
	}

	main_thread(ctx, app)
}
