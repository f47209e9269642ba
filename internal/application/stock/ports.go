package stock

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Los bloqueos tomados dentro de fn
// se mantienen hasta el fin de la transacción.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reqRepo repository.StockRequestRepository,
		movRepo repository.StockMovementRepository,
		sumRepo repository.StockSummaryRepository,
	) error) error
}

// FileStore guarda imágenes de recepción y documentos de soporte; devuelve una referencia opaca.
type FileStore interface {
	Store(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// MovementEvent notificación emitida después de confirmar un movimiento.
type MovementEvent struct {
	MovementID string          `json:"movement_id"`
	RequestID  string          `json:"request_id,omitempty"`
	ItemClass  string          `json:"item_class"`
	ItemID     string          `json:"item_id"`
	Seq        int64           `json:"seq"`
	Direction  string          `json:"direction"`
	Quantity   decimal.Decimal `json:"quantity"`
	Zone       string          `json:"zone"`
	Total      decimal.Decimal `json:"total"`
	ZoneA      decimal.Decimal `json:"zone_a"`
	ZoneB      decimal.Decimal `json:"zone_b"`
	ClerkID    string          `json:"clerk_id"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventPublisher publica eventos de stock (el notificador externo los consume).
type EventPublisher interface {
	PublishMovement(ctx context.Context, ev MovementEvent) error
}

// SummaryCache caché de lectura de resúmenes. Nunca es fuente de verdad.
// Get devuelve (nil, nil) si no hay entrada. Set no debe reemplazar una entrada
// con LastSeq mayor que la del resumen recibido.
type SummaryCache interface {
	Get(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error)
	Set(ctx context.Context, summary *entity.StockSummary) error
	Invalidate(ctx context.Context, item entity.ItemRef) error
}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

func (NopPublisher) PublishMovement(context.Context, MovementEvent) error { return nil }

// NopCache caché deshabilitada.
type NopCache struct{}

func (NopCache) Get(context.Context, entity.ItemRef) (*entity.StockSummary, error) { return nil, nil }
func (NopCache) Set(context.Context, *entity.StockSummary) error                   { return nil }
func (NopCache) Invalidate(context.Context, entity.ItemRef) error                  { return nil }
