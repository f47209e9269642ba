package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// afterCommit efectos posteriores a confirmar un movimiento: escribir el resumen confirmado
// en la caché y publicar el evento. Sus fallos no revierten nada; solo se registran.
type afterCommit struct {
	cache  SummaryCache
	events EventPublisher
	log    *logger.Logger
}

func newAfterCommit(cache SummaryCache, events EventPublisher, log *logger.Logger) afterCommit {
	if cache == nil {
		cache = NopCache{}
	}
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return afterCommit{cache: cache, events: events, log: log}
}

func (h afterCommit) movementCommitted(ctx context.Context, mov *entity.StockMovement, summary *entity.StockSummary) {
	// Set y no Invalidate: una lectura previa al commit no puede reponer su resumen viejo.
	if err := h.cache.Set(ctx, summary); err != nil {
		h.log.Warn().Err(err).Str("item", mov.Item.String()).Msg("no se pudo actualizar la caché de resumen")
		if err := h.cache.Invalidate(ctx, mov.Item); err != nil {
			h.log.Warn().Err(err).Str("item", mov.Item.String()).Msg("no se pudo invalidar la caché de resumen")
		}
	}
	ev := MovementEvent{
		MovementID: mov.ID,
		RequestID:  mov.SourceRequestID,
		ItemClass:  string(mov.Item.Class),
		ItemID:     mov.Item.ID,
		Seq:        mov.Seq,
		Direction:  string(mov.Direction),
		Quantity:   mov.Quantity,
		Zone:       string(mov.Zone),
		Total:      summary.Balances.Total,
		ZoneA:      summary.Balances.ZoneA,
		ZoneB:      summary.Balances.ZoneB,
		ClerkID:    mov.CreatedBy,
		OccurredAt: mov.CreatedAt,
	}
	if err := h.events.PublishMovement(ctx, ev); err != nil {
		h.log.Warn().Err(err).Str("movement_id", mov.ID).Msg("no se pudo publicar el evento de movimiento")
	}
	h.log.Info().
		Str("request_id", mov.SourceRequestID).
		Str("item", mov.Item.String()).
		Str("movement_id", mov.ID).
		Int64("seq", mov.Seq).
		Str("direction", string(mov.Direction)).
		Str("total", summary.Balances.Total.String()).
		Msg("movimiento registrado")
}

// rejected registra conflictos a nivel warn; el resto de errores a error.
func (h afterCommit) rejected(op string, err error) {
	switch KindName(err) {
	case "conflict", "insufficient_stock":
		h.log.Warn().Err(err).Str("op", op).Msg("operación rechazada por conflicto")
	case "validation", "not_found":
		h.log.Debug().Err(err).Str("op", op).Msg("operación rechazada")
	default:
		h.log.Error().Err(err).Str("op", op).Msg("operación fallida")
	}
}
