package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary fila desnormalizada con el estado actual de un ítem.
// Es caché del ledger: al terminar cada operación confirmada coincide con los
// saldos del último StockMovement del ítem.
type StockSummary struct {
	Item          ItemRef
	LastQuantity  decimal.Decimal // delta del último movimiento
	LastDirection Direction
	LastSeq       int64
	Balances      Balances
	UpdatedAt     time.Time
}

// NewStockSummary resumen vacío (todo en cero) para un ítem sin movimientos.
func NewStockSummary(item ItemRef) *StockSummary {
	return &StockSummary{
		Item:         item,
		LastQuantity: decimal.Zero,
		Balances:     ZeroBalances(),
	}
}
