package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// maxInFlight ограничивает число одновременно обрабатываемых событий записи.
const maxInFlight = 10

// ConsumerMessage подписывается на очередь событий записи на уроки и передаёт
// тело каждого сообщения обработчику. Сообщение подтверждается только после
// успешной обработки, при ошибке возвращается в очередь.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(d.Body); err != nil {
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Printf("failed to nack enrollment event: %v", nackErr)
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Printf("failed to ack enrollment event: %v", ackErr)
					}
				}(d)
			}
		}
	}()
	return nil
}
