package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
)

var _ stock.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de movimiento en un exchange topic.
// Routing keys: stock.movement.in / stock.movement.out.
type Publisher struct {
	mu       sync.Mutex // amqp091.Channel no es seguro para uso concurrente
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

// NewPublisher abre la conexión y declara el exchange (durable).
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// RoutingKey clave de ruteo del evento según su dirección.
func RoutingKey(ev stock.MovementEvent) string {
	return "stock.movement." + strings.ToLower(ev.Direction)
}

// BuildPublishing mensaje AMQP persistente con el evento en JSON.
func BuildPublishing(ev stock.MovementEvent) (amqp091.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp091.Publishing{}, err
	}
	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    ev.MovementID,
		Timestamp:    ev.OccurredAt,
		Type:         "stock.movement.recorded",
		Body:         body,
		Headers: amqp091.Table{
			"item_class": ev.ItemClass,
			"item_id":    ev.ItemID,
		},
	}, nil
}

// PublishMovement publica el evento.
func (p *Publisher) PublishMovement(ctx context.Context, ev stock.MovementEvent) error {
	msg, err := BuildPublishing(ev)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(ctx,
		p.exchange,     // exchange
		RoutingKey(ev), // routing key
		false,          // mandatory
		false,          // immediate
		msg,
	)
}

// Close cierra canal y conexión.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
