package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goals-service/internal/adapters/kafka"
	"goals-service/internal/config"
	"goals-service/internal/database"
	"goals-service/internal/realtime"
	"goals-service/internal/repository"
	"goals-service/internal/router"
	"goals-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	slog.Info("Starting goals server")

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	redisClient, err := database.NewRedisConnection(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	presenceRepo := repository.NewPresenceRepository(redisClient)
	store := repository.NewStore(db)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expire)
	friendService := service.NewFriendService(friendRepo)

	registry := realtime.NewRegistry()
	dispatcher := realtime.NewDispatcher(registry, store)

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
		if err != nil {
			slog.Error("Failed to connect to Kafka", "brokers", cfg.Kafka.Brokers, "error", err)
			os.Exit(1)
		}
		sink := kafka.NewEventSink(producer, cfg.Kafka.Topic)
		defer sink.Close()
		dispatcher.SetSink(sink)
		slog.Info("Activity event stream enabled", "topic", cfg.Kafka.Topic)
	}

	hub := realtime.NewHub(registry, dispatcher, authService, store, presenceRepo)

	r := router.New(hub, authService, friendService, presenceRepo, db)
	r.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
