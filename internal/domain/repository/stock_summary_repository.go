package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LowStockItem ítem cuyo total está por debajo del umbral del catálogo.
type LowStockItem struct {
	Item        entity.ItemRef
	Name        string
	Total       decimal.Decimal
	MinQuantity decimal.Decimal
}

// StockSummaryRepository define el puerto de la caché de resumen por ítem.
// Solo el flujo de movimientos escribe aquí, y siempre con el bloqueo del ítem tomado.
type StockSummaryRepository interface {
	// Get lectura sin bloqueo; (nil, nil) si el ítem no tiene movimientos.
	Get(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error)
	// GetForUpdate asegura que la fila exista (en cero) y la bloquea hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error)
	Upsert(ctx context.Context, summary *entity.StockSummary) error
	// ListBelowThreshold ítems de la clase con total menor a su cantidad mínima, mayor déficit primero.
	ListBelowThreshold(ctx context.Context, class entity.ItemClass) ([]LowStockItem, error)
}
