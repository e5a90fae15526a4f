package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/app/service"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/repository"
	"taskboard/internal/platform/cache"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/database"
)

func main() {
	config.Load()
	log.Println("Configuration loaded.")

	security.InitJWT()
	log.Println("JWT initialized.")

	database.Connect()
	defer database.Close()

	cache.ConnectRedis()
	defer cache.CloseRedis()

	userRepo := repository.NewPgUserRepository(database.DB)
	taskRepo := repository.NewPgTaskRepository(database.DB)

	loginLimiter := cache.NewLoginLimiter(
		cache.RDB,
		config.AppConfig.LoginThrottleMaxAttempts,
		config.AppConfig.LoginThrottleWindow,
	)

	authService := service.NewAuthService(userRepo, loginLimiter)
	taskService := service.NewTaskService(taskRepo)

	router := api.NewRouter(authService, taskService, userRepo)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
