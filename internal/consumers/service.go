package consumers

import (
	"context"
	"log/slog"

	"github.com/nats-io/stan.go"

	"railbook/internal/config"
	"railbook/internal/database"
	"railbook/internal/external"
	"railbook/internal/messaging"
	"railbook/internal/models"
	"railbook/internal/repository"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	// Create repositories
	repos := repository.NewRepositories(db)

	// Create external clients
	notificationClient := external.NewNotificationClient(cfg.Notification)
	carrierClient := external.NewCarrierClient(cfg.Carrier)

	// Create handlers
	handlers := NewHandlers(repos, notificationClient, carrierClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	subjects := map[string]stan.MsgHandler{
		models.EventBookingCreated:       cs.handlers.HandleBookingCreated,
		models.EventBookingStatusChanged: cs.handlers.HandleBookingStatusChanged,
		models.EventBookingTicketed:      cs.handlers.HandleBookingTicketed,
		models.EventBookingRefunded:      cs.handlers.HandleBookingRefunded,
		models.EventBookingExpired:       cs.handlers.HandleBookingExpired,
	}

	for subject, handler := range subjects {
		if _, err := cs.nats.SubscribeQueue(subject, "consumers", handler); err != nil {
			return err
		}
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
