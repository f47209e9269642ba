package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	gpubsub "cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
)

var _ stock.EventPublisher = (*Publisher)(nil)

// Publisher publica eventos de movimiento en un topic de Pub/Sub. La ordering key es el
// ítem, así los suscriptores reciben los movimientos de un ítem en orden de secuencia.
type Publisher struct {
	client *gpubsub.Client
	topic  *gpubsub.Topic
}

// NewPublisher crea el cliente y verifica que el topic exista.
func NewPublisher(ctx context.Context, projectID, topicID, credentialsFile string) (*Publisher, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := gpubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("crear cliente pubsub: %w", err)
	}
	topic := client.Topic(topicID)
	ok, err := topic.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("verificar topic %s: %w", topicID, err)
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("topic %s no existe", topicID)
	}
	topic.EnableMessageOrdering = true
	return &Publisher{client: client, topic: topic}, nil
}

// BuildMessage mensaje con el evento en JSON y atributos para filtrar suscripciones.
func BuildMessage(ev stock.MovementEvent) (*gpubsub.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &gpubsub.Message{
		Data:        data,
		OrderingKey: ev.ItemClass + ":" + ev.ItemID,
		Attributes: map[string]string{
			"type":       "stock.movement.recorded",
			"direction":  ev.Direction,
			"item_class": ev.ItemClass,
		},
	}, nil
}

// PublishMovement publica y espera la confirmación del servidor.
func (p *Publisher) PublishMovement(ctx context.Context, ev stock.MovementEvent) error {
	msg, err := BuildMessage(ev)
	if err != nil {
		return err
	}
	res := p.topic.Publish(ctx, msg)
	if _, err := res.Get(ctx); err != nil {
		// Con ordering habilitado un fallo pausa la key hasta reanudarla.
		p.topic.ResumePublish(msg.OrderingKey)
		return fmt.Errorf("publicar evento %s: %w", ev.MovementID, err)
	}
	return nil
}

// Close envía lo pendiente y cierra el cliente.
func (p *Publisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}
