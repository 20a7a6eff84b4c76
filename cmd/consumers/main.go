package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"railbook/cmd/consumers/jobs"
	"railbook/internal/config"
	"railbook/internal/consumers"
	"railbook/internal/logger"
	"railbook/internal/search"
	"railbook/internal/service"
)

func main() {
	log.Println("Starting consumers service...")

	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Override NATS client ID for consumers
	cfg.NATS.ClientID = "railbook-consumers"

	// Create and start consumers
	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	// Start consuming messages
	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	// Expiry writes go through the lifecycle service so expired bookings
	// are reindexed like every other mutation; Elasticsearch stays optional
	var indexer service.BookingIndexer
	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		log.Printf("Elasticsearch unavailable, expired bookings will not be reindexed: %v", err)
	} else {
		indexer = esClient
	}
	bookingService := service.NewBookingService(
		consumerService.Repositories().Bookings,
		consumerService.NATS(),
		indexer,
	)

	// Start the booking expiration job
	jobCtx, cancelJob := context.WithCancel(context.Background())
	expirationJob := jobs.NewBookingExpirationJob(
		consumerService.Repositories().Bookings,
		bookingService,
		consumerService.NATS(),
		cfg.BookingExpiration,
	)
	expirationJob.Start(jobCtx)

	log.Println("Consumers service started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	expirationJob.Stop()
	cancelJob()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
