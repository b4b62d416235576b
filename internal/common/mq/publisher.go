package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/uma-arai/sbcntr-reservation-bot/internal/common/utils"
)

// Publisher はトピックエクスチェンジへJSONメッセージを発行します
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewPublisher は接続を確立し、エクスチェンジを宣言します
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// PublishJSON は v をJSONに変換して key で発行します
func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	ctx, closeSeg := utils.BeginSubsegment(ctx, "Publisher.PublishJSON")

	body, err := Encode(v)
	if err != nil {
		closeSeg(err)
		return err
	}
	utils.AddMetadata(ctx, "routing_key", key)

	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	closeSeg(err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	return nil
}

// Encode は発行するメッセージ本文を作成します
func Encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return b, nil
}

// Close はチャネルと接続を閉じます
func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
