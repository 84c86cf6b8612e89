package consumers

import (
	"context"
	"log/slog"

	"quinta/internal/config"
	"quinta/internal/database"
	"quinta/internal/mail"
	"quinta/internal/messaging"
	"quinta/internal/metrics"
	"quinta/internal/models"
	"quinta/internal/repository"
)

const queueGroup = "consumers"

// ConsumerService runs the asynchronous side of the booking flow: it
// delivers queued notifications over SMTP and keeps an audit log of
// booking and payment events.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	mailer := mail.NewSMTPSender(cfg.Mail)

	handlers := NewHandlers(repos, mailer)

	metrics.Register()

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	subjects := map[string]func() error{
		models.EventNotificationRequested: func() error {
			_, err := cs.nats.SubscribeQueue(models.EventNotificationRequested, queueGroup, cs.handlers.HandleNotificationRequested)
			return err
		},
		models.EventBookingCreated: func() error {
			_, err := cs.nats.SubscribeQueue(models.EventBookingCreated, queueGroup, cs.handlers.HandleBookingCreated)
			return err
		},
		models.EventPaymentCompleted: func() error {
			_, err := cs.nats.SubscribeQueue(models.EventPaymentCompleted, queueGroup, cs.handlers.HandlePaymentCompleted)
			return err
		},
		models.EventPaymentFailed: func() error {
			_, err := cs.nats.SubscribeQueue(models.EventPaymentFailed, queueGroup, cs.handlers.HandlePaymentFailed)
			return err
		},
	}

	for subject, subscribe := range subjects {
		if err := subscribe(); err != nil {
			slog.Error("Failed to subscribe", "subject", subject, "error", err)
			return err
		}
	}

	slog.Info("All consumers started")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumers...")

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
