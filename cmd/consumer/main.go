package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dhuman2317-tech/fitness-microservice/internal/config"
	"github.com/dhuman2317-tech/fitness-microservice/internal/consumer"
	"github.com/dhuman2317-tech/fitness-microservice/internal/inference"
	"github.com/dhuman2317-tech/fitness-microservice/internal/messaging"
	persistence "github.com/dhuman2317-tech/fitness-microservice/internal/persistence/postgres"
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

	if err := channel.Qos(cfg.ConsumerPrefetch, 0, false); err != nil {
		log.Fatalf("failed to set channel qos: %v", err)
	}
	if err := messaging.DeclareTopology(channel, cfg.ActivityExchange, cfg.ActivityQueue, cfg.ActivityRoutingKey); err != nil {
		log.Fatalf("failed to declare queue topology: %v", err)
	}

	deliveries, err := channel.Consume(cfg.ActivityQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	repo := persistence.NewRepository(pool)
	client := inference.NewClient(cfg.InferenceURL, cfg.InferenceAPIKey, cfg.InferenceModel)
	handler := consumer.NewRecommendationHandler(client, repo, cfg.InferenceTimeout)
	processor := consumer.NewProcessor(handler, cfg.RequeueOnFailure)

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler()}
	go func() {
		log.Printf("consumer metrics listening on %s", cfg.MetricsAddress)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	done := make(chan error, 1)
	go func() {
		log.Printf("consumer started (queue=%s, requeue_on_failure=%t)", cfg.ActivityQueue, cfg.RequeueOnFailure)
		done <- processor.Run(ctx, deliveries)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("consumer shutdown requested")
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("consumer stopped with error: %v", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
}
