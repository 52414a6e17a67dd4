package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SendFunc はメール1通を送る処理。失敗を返すとメッセージはrejectされる。
type SendFunc func(to string, subject string, body string) error

// StartEmailConsumer はemail.requestedキューを購読し続ける。
// 接続が切れたら指数バックオフで繋ぎ直す。
func StartEmailConsumer(url string, send SendFunc) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("email-consumer: dial failed: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn, send); err != nil {
			log.Printf("email-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, send SendFunc) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(EmailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(EmailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var ev EmailRequestedEvent
		if err := json.Unmarshal(d.Body, &ev); err != nil {
			log.Printf("email-consumer: bad payload: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		if err := send(ev.To, ev.Subject, ev.Body); err != nil {
			log.Printf("email-consumer: send to %s failed: %v", ev.To, err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}
