package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockRequestRepository define el puerto de persistencia para solicitudes de stock (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si la solicitud no existe.
type StockRequestRepository interface {
	Create(ctx context.Context, req *entity.StockRequest) error
	GetByID(ctx context.Context, id string) (*entity.StockRequest, error)
	// GetForUpdate bloquea la fila de la solicitud hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StockRequest, error)
	// MarkFulfilled pasa la solicitud a fulfilled solo si sigue en requested.
	// Devuelve false si no se actualizó ninguna fila.
	MarkFulfilled(ctx context.Context, id string, f entity.Fulfillment) (bool, error)
	// ListPending lista solicitudes en requested de la clase indicada, más recientes primero.
	ListPending(ctx context.Context, class entity.ItemClass, limit, offset int) ([]*entity.StockRequest, error)
}
