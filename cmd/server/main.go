package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sqldrill/internal/api"
	"sqldrill/internal/app/runner"
	"sqldrill/internal/app/service"
	"sqldrill/internal/common/security"
	"sqldrill/internal/domain/catalog"
	"sqldrill/internal/domain/repository"
	"sqldrill/internal/platform/config"
	"sqldrill/internal/platform/database"
	"sqldrill/internal/platform/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Configuration
	config.Load()
	if config.AppConfig.LogJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.Info("Configuration loaded")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize dataset engine and load the practice dataset
	database.Connect()
	defer database.Close()

	// 4. Initialize Redis (custom problem sets, user accounts)
	storage.ConnectRedis()
	defer storage.CloseRedis()

	// 5. Build the catalog and precompute every solution's expected result.
	//    A failing solution is a broken catalog, so this aborts startup.
	sqlRunner := runner.New(database.DB)
	cat, err := catalog.New()
	if err != nil {
		logrus.Fatalf("Could not build problem catalog: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := cat.Materialize(ctx, sqlRunner); err != nil {
		cancel()
		logrus.Fatalf("Could not materialize problem catalog: %v", err)
	}
	cancel()
	logrus.WithField("problems", len(cat.Problems())).Info("Problem catalog ready")

	// 6. Initialize Repositories
	userRepo := repository.NewRedisUserRepository(storage.RDB)
	setRepo := repository.NewRedisProblemSetRepository(storage.RDB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo)
	setService := service.NewProblemSetService(setRepo, cat)
	playService := service.NewPlayService(setService, cat, sqlRunner, config.AppConfig.DisplayRowCap)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, setService, playService, cat, config.AppConfig.ShareBaseURL)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logrus.Infof("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	logrus.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server shutdown failed: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
