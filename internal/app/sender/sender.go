// Package sender собирает приложение отправки писем: очередь событий
// записи на уроки и SMTP-транспорт.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/avdeevakate/online-school/internal/config"
	"github.com/avdeevakate/online-school/internal/lib/smtp"
	"github.com/avdeevakate/online-school/internal/rabbitmq"
	senderservice "github.com/avdeevakate/online-school/internal/services/sender"
)

// App — собранное приложение отправки уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New инициализирует зависимости приложения отправки уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetEnrollmentQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(logger, newTransport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди событий и работает до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	for _, queue := range rabbitmq.GetEnrollmentQueues() {
		if err := rabbitmq.ConsumerMessage(ctx, a.ch, queue.QueueName, a.senderService.SendEnrollmentNotification); err != nil {
			a.logger.Error("failed to start consumer",
				slog.String("queue", queue.QueueName), slog.Any("err", err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("Sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	return nil
}
