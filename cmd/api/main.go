package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"clipshare/interfaces/api/handlers"
	"clipshare/interfaces/api/middleware"
	"clipshare/interfaces/api/routes"
	"clipshare/pkg/di"
	"clipshare/pkg/logger"
)

func main() {
	container := di.NewContainer()

	if err := container.Initialize(); err != nil {
		// logger อาจยังไม่ init - ใช้ panic ตรงๆ
		panic("Failed to initialize container: " + err.Error())
	}

	setupGracefulShutdown(container)

	cfg := container.GetConfig()

	app := fiber.New(fiber.Config{
		ErrorHandler:      middleware.ErrorHandler(),
		AppName:           cfg.App.Name,
		BodyLimit:         int(cfg.Storage.MaxUploadSize),
		StreamRequestBody: true, // ไม่ buffer ไฟล์ใหญ่ใน memory ทั้งก้อน
	})

	// ลำดับ middleware สำคัญ: request ID ต้องมาก่อน logger
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(container.Metrics))
	app.Use(middleware.CorsMiddleware(&cfg.CORS))

	services := container.GetHandlerServices()
	h := handlers.NewHandlers(services)

	routes.SetupRoutes(app, h, cfg.Storage.Mode)

	port := cfg.App.Port
	logger.Info("Server starting",
		"port", port,
		"env", cfg.App.Env,
		"storage_mode", cfg.Storage.Mode,
		"insights_enabled", cfg.InsightsEnabled(),
	)

	if err := app.Listen(":" + port); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Gracefully shutting down...")

		if err := container.Cleanup(); err != nil {
			logger.Error("Error during cleanup", "error", err)
		}

		logger.Info("Shutdown complete")
		os.Exit(0)
	}()
}
