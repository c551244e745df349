package rabbitmq

import (
	"context"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// maxInFlight ограничивает число писем, обрабатываемых одновременно.
const maxInFlight = 10

// ConsumerMessage подписывается на очередь заданий на отправку писем и передаёт
// тело каждого сообщения в handler. Успешно обработанное задание подтверждается,
// неудачное возвращается в очередь для повторной доставки.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"
	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(msg amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(msg.Body); err != nil {
						if nackErr := msg.Nack(false, true); nackErr != nil {
							log.Printf("failed to nack message: %v", nackErr)
						}
						return
					}
					if ackErr := msg.Ack(false); ackErr != nil {
						log.Printf("failed to ack message: %v", ackErr)
					}
				}(msg)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
