package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// movementInput datos de un movimiento a registrar en el ledger.
type movementInput struct {
	Item            entity.ItemRef
	Direction       entity.Direction
	Quantity        decimal.Decimal
	Zone            entity.Zone
	Note            string
	SourceRequestID string
	Reference       string
	ClerkID         string
	At              time.Time
}

// appendMovement es el único escritor del ledger y del resumen.
// Debe llamarse dentro de TxRunner.Run: bloquea la fila de resumen del ítem (GetForUpdate)
// antes de leer los saldos previos, agrega el movimiento y actualiza el resumen en la misma tx.
func appendMovement(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	sumRepo repository.StockSummaryRepository,
	in movementInput,
) (*entity.StockMovement, *entity.StockSummary, error) {
	summary, err := sumRepo.GetForUpdate(ctx, in.Item)
	if err != nil {
		return nil, nil, err
	}
	if summary == nil {
		summary = entity.NewStockSummary(in.Item)
	}

	balances, err := ledger.Apply(summary.Balances, in.Direction, in.Quantity, in.Zone)
	if err != nil {
		return nil, nil, err
	}
	if !balances.Total.LessThan(maxQuantity) {
		return nil, nil, &domain.Error{Kind: domain.ErrValidationFailed, Detail: "el saldo resultante excede el máximo permitido"}
	}

	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		Item:            in.Item,
		Seq:             summary.LastSeq + 1,
		Direction:       in.Direction,
		Quantity:        in.Quantity,
		Zone:            in.Zone,
		Note:            in.Note,
		SourceRequestID: in.SourceRequestID,
		Reference:       in.Reference,
		Balances:        balances,
		CreatedAt:       in.At,
		CreatedBy:       in.ClerkID,
	}
	if err := movRepo.Append(ctx, mov); err != nil {
		return nil, nil, err
	}

	next := &entity.StockSummary{
		Item:          in.Item,
		LastQuantity:  in.Quantity,
		LastDirection: in.Direction,
		LastSeq:       mov.Seq,
		Balances:      balances,
		UpdatedAt:     in.At,
	}
	if err := sumRepo.Upsert(ctx, next); err != nil {
		return nil, nil, err
	}
	return mov, next, nil
}

// Límites de las columnas NUMERIC(18,4) del ledger.
const maxQuantityScale = 4

var maxQuantity = decimal.New(1, 14)

// checkQuantity valida cantidad > 0, como mucho 4 decimales y por debajo de 1e14.
func checkQuantity(op, field string, q decimal.Decimal) *domain.Error {
	switch {
	case !q.GreaterThan(decimal.Zero):
		return domain.Validation(op, field+" debe ser mayor que cero")
	case !q.Equal(q.Round(maxQuantityScale)):
		return domain.Validation(op, field+" admite como máximo 4 decimales")
	case !q.LessThan(maxQuantity):
		return domain.Validation(op, field+" excede el máximo permitido")
	}
	return nil
}

// requirePositive checkQuantity como error (sin nil tipado).
func requirePositive(op, field string, q decimal.Decimal) error {
	if err := checkQuantity(op, field, q); err != nil {
		return err
	}
	return nil
}

// requireItem valida la referencia y la resuelve en el catálogo.
func requireItem(ctx context.Context, catalog repository.ItemCatalog, op string, item entity.ItemRef) (*entity.CatalogItem, error) {
	if !item.Valid() {
		return nil, domain.Validation(op, "referencia de ítem inválida o ausente")
	}
	ci, err := catalog.Resolve(ctx, item)
	if err != nil {
		return nil, domain.Wrap(err, op, "", item.String())
	}
	if ci == nil {
		return nil, &domain.Error{Kind: domain.ErrNotFound, Op: op, Item: item.String(), Detail: "ítem no existe en el catálogo"}
	}
	return ci, nil
}
