package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dhuman2317-tech/fitness-microservice/internal/api"
	"github.com/dhuman2317-tech/fitness-microservice/internal/config"
	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
	"github.com/dhuman2317-tech/fitness-microservice/internal/messaging"
	persistence "github.com/dhuman2317-tech/fitness-microservice/internal/persistence/postgres"
	httptransport "github.com/dhuman2317-tech/fitness-microservice/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open rabbitmq channel: %v", err)
	}
	defer channel.Close()

	if err := messaging.DeclareTopology(channel, cfg.ActivityExchange, cfg.ActivityQueue, cfg.ActivityRoutingKey); err != nil {
		log.Fatalf("failed to declare queue topology: %v", err)
	}

	repo := persistence.NewRepository(pool)
	publisher := messaging.NewActivityPublisher(channel, cfg.ActivityExchange, cfg.ActivityRoutingKey)

	userService := domain.NewUserService(repo, cfg.BcryptCost)
	activityService := domain.NewActivityService(repo, repo, userService, publisher)

	handler := api.NewHandler(activityService, userService)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, logger(mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("fitness api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
