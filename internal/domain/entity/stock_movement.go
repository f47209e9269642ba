package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction sentido de un movimiento de stock.
type Direction string

const (
	DirectionIn  Direction = "IN"  // entrada
	DirectionOut Direction = "OUT" // salida
)

// Valid indica si la dirección es IN u OUT.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Balances saldos acumulados de un ítem: total y por zona.
type Balances struct {
	Total decimal.Decimal
	ZoneA decimal.Decimal
	ZoneB decimal.Decimal
}

// Zone devuelve el saldo de la zona z.
func (b Balances) Zone(z Zone) decimal.Decimal {
	if z == ZoneB {
		return b.ZoneB
	}
	return b.ZoneA
}

// Equal compara los tres saldos.
func (b Balances) Equal(o Balances) bool {
	return b.Total.Equal(o.Total) && b.ZoneA.Equal(o.ZoneA) && b.ZoneB.Equal(o.ZoneB)
}

// ZeroBalances saldos iniciales de un ítem sin movimientos.
func ZeroBalances() Balances {
	return Balances{Total: decimal.Zero, ZoneA: decimal.Zero, ZoneB: decimal.Zero}
}

// StockMovement entrada del ledger (append-only). Quantity siempre es positiva;
// el signo lo da Direction. Balances son los saldos inmediatamente después de aplicarla.
type StockMovement struct {
	ID              string
	Item            ItemRef
	Seq             int64 // 1..n por ítem, en orden de commit
	Direction       Direction
	Quantity        decimal.Decimal
	Zone            Zone
	Note            string
	SourceRequestID string // vacío en salidas
	Reference       string // documento externo (orden de venta / producción)
	Balances        Balances
	CreatedAt       time.Time
	CreatedBy       string
}

// Signed devuelve la cantidad con signo según la dirección.
func (m *StockMovement) Signed() decimal.Decimal {
	if m.Direction == DirectionOut {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
