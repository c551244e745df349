// Package sender собирает фоновый сервис отправки писем с одноразовыми кодами.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sanitation-identity/internal/config"
	"github.com/magabrotheeeer/sanitation-identity/internal/lib/smtp"
	"github.com/magabrotheeeer/sanitation-identity/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/sanitation-identity/internal/services/sender"
)

// App — собранное приложение отправки писем.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New инициализирует брокер и SMTP-транспорт и собирает приложение.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetCodeQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(logger, transport,
		cfg.SecretCodes.VerificationTTL, cfg.SecretCodes.ResetTTL)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run подписывается на очереди кодов и работает до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	queues := rabbitmq.GetCodeQueues()

	err := rabbitmq.ConsumerMessage(ctx, a.ch, queues[0].QueueName, a.senderService.SendVerificationCode)
	if err != nil {
		a.logger.Error("failed to start verification queue consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, queues[1].QueueName, a.senderService.SendResetCode)
	if err != nil {
		a.logger.Error("failed to start reset queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
