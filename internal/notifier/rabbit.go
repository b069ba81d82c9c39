package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdg-garage/maitri-passes/internal/pass"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the part of *amqp.Channel the notifier uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitNotifier publishes to a topic exchange with the variant as routing key.
type RabbitNotifier struct {
	channel  Channel
	exchange string
}

func NewRabbitNotifier(ch Channel, exchange string) *RabbitNotifier {
	return &RabbitNotifier{channel: ch, exchange: exchange}
}

// RabbitConn owns the connection and channel opened by DialRabbit.
type RabbitConn struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
}

// DialRabbit connects and declares a durable topic exchange.
func DialRabbit(url, exchange string) (*RabbitConn, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &RabbitConn{conn: conn, Channel: ch}, nil
}

func (r *RabbitConn) Close() {
	if r.Channel != nil {
		_ = r.Channel.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}

func (n *RabbitNotifier) NotifyRegistration(ctx context.Context, c pass.Credential) error {
	ev := NewEvent(c)
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		string(ev.Kind),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.IssuedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
