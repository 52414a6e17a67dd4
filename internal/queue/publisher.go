package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherはRabbitMQへイベントを発行する。usecase.EmailPublisherを満たす。
// 失敗はログに残して返すだけ。呼び出し側は無視してよい。
type Publisher struct {
	url string
}

// DI
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) PublishEmail(ctx context.Context, to string, subject string, body string) error {
	return p.publish(ctx, EmailQueueName, EmailRequestedEvent{
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

func (p *Publisher) publish(ctx context.Context, queueName string, event interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// durableで宣言しておく（冪等）
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
