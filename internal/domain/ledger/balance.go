package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Apply calcula los saldos resultantes de aplicar un movimiento sobre prior (servicio de dominio).
// NuevoTotal = Total ± Cantidad; la zona del movimiento cambia en la misma cantidad y la otra zona se arrastra.
// Una salida que deja la zona en negativo devuelve ErrInsufficientStock.
func Apply(prior entity.Balances, dir entity.Direction, qty decimal.Decimal, zone entity.Zone) (entity.Balances, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return prior, domain.Validation("ledger.Apply", "la cantidad debe ser mayor que cero")
	}
	if !zone.Valid() {
		return prior, domain.Validation("ledger.Apply", fmt.Sprintf("zona inválida: %q", zone))
	}
	var delta decimal.Decimal
	switch dir {
	case entity.DirectionIn:
		delta = qty
	case entity.DirectionOut:
		if prior.Zone(zone).LessThan(qty) {
			return prior, &domain.Error{
				Kind:   domain.ErrInsufficientStock,
				Op:     "ledger.Apply",
				Detail: fmt.Sprintf("disponible %s en %s, solicitado %s", prior.Zone(zone), zone, qty),
			}
		}
		delta = qty.Neg()
	default:
		return prior, domain.Validation("ledger.Apply", fmt.Sprintf("dirección inválida: %q", dir))
	}

	next := prior
	next.Total = prior.Total.Add(delta)
	if zone == entity.ZoneA {
		next.ZoneA = prior.ZoneA.Add(delta)
	} else {
		next.ZoneB = prior.ZoneB.Add(delta)
	}
	return next, nil
}
