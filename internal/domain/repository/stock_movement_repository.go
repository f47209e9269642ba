package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto del ledger de movimientos (append-only).
type StockMovementRepository interface {
	Append(ctx context.Context, movement *entity.StockMovement) error
	// ListByItem lista movimientos de un ítem en orden de Seq ascendente.
	// limit <= 0 devuelve todos los movimientos.
	ListByItem(ctx context.Context, item entity.ItemRef, limit, offset int) ([]*entity.StockMovement, error)
	ListBySourceRequest(ctx context.Context, requestID string) ([]*entity.StockMovement, error)
}
