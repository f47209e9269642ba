package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// DirectInInput recepción sin solicitud previa.
type DirectInInput struct {
	Item      entity.ItemRef
	Source    entity.SourceInfo
	Transport entity.Transport
	ReceiptInput
}

// ConsumeInput salida de stock contra una orden de venta o producción.
type ConsumeInput struct {
	Item      entity.ItemRef
	Quantity  decimal.Decimal
	Zone      entity.Zone
	Reference string // orden de venta / producción
	Remarks   string
	ClerkID   string
}

// DirectEntryUseCase entradas directas y consumos: movimientos que no esperan una solicitud pendiente.
type DirectEntryUseCase struct {
	txRunner TxRunner
	catalog  repository.ItemCatalog
	hooks    afterCommit
	now      func() time.Time
}

// NewDirectEntryUseCase construye el caso de uso. cache y events pueden ser nil.
func NewDirectEntryUseCase(txRunner TxRunner, catalog repository.ItemCatalog, cache SummaryCache, events EventPublisher, log *logger.Logger) *DirectEntryUseCase {
	return &DirectEntryUseCase{
		txRunner: txRunner,
		catalog:  catalog,
		hooks:    newAfterCommit(cache, events, log),
		now:      utcNow,
	}
}

// DirectIn sintetiza una solicitud (origen direct_entry) y la recibe en la misma transacción,
// de modo que toda unidad ingresada queda ligada a exactamente un registro de solicitud.
// La solicitud sintetizada nunca es visible en requested.
func (uc *DirectEntryUseCase) DirectIn(ctx context.Context, in DirectInInput) (*MovementResult, error) {
	const op = "stock.DirectIn"
	if verr := validateReceipt(op, in.ReceiptInput); verr != nil {
		verr.Item = itemString(in.Item)
		return nil, verr
	}
	if _, err := requireItem(ctx, uc.catalog, op, in.Item); err != nil {
		return nil, err
	}
	transport := in.Transport
	if transport == nil {
		transport = entity.NoTransport{}
	}
	if err := transport.Validate(); err != nil {
		return nil, domain.Validation(op, err.Error())
	}

	now := uc.now()
	req := &entity.StockRequest{
		ID:        uuid.New().String(),
		Item:      in.Item,
		Quantity:  in.ReceivedQuantity,
		Source:    in.Source,
		Transport: transport,
		Status:    entity.RequestStatusRequested,
		Origin:    entity.OriginDirectEntry,
		CreatedBy: in.ClerkID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		movRepo repository.StockMovementRepository,
		sumRepo repository.StockSummaryRepository,
	) error {
		if err := reqRepo.Create(ctx, req); err != nil {
			return err
		}
		var err error
		res, err = receiveInTx(ctx, reqRepo, movRepo, sumRepo, req, in.ReceiptInput, now)
		return err
	})
	if err != nil {
		err = domain.Wrap(err, op, req.ID, in.Item.String())
		uc.hooks.rejected(op, err)
		return nil, err
	}
	uc.hooks.movementCommitted(ctx, res.Movement, res.Summary)
	return res, nil
}

// Consume registra una salida. Si la zona no tiene saldo suficiente devuelve
// ErrInsufficientStock (un ErrConflict) y no escribe nada.
func (uc *DirectEntryUseCase) Consume(ctx context.Context, in ConsumeInput) (*MovementResult, error) {
	const op = "stock.Consume"
	if err := requirePositive(op, "quantity", in.Quantity); err != nil {
		return nil, err
	}
	if !in.Zone.Valid() {
		return nil, domain.Validation(op, "zona inválida")
	}
	if in.Reference == "" {
		return nil, domain.Validation(op, "referencia de orden requerida")
	}
	if _, err := requireItem(ctx, uc.catalog, op, in.Item); err != nil {
		return nil, err
	}

	now := uc.now()
	note := in.Remarks
	if note == "" {
		note = "consumo " + in.Reference
	}
	var res *MovementResult
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockRequestRepository,
		movRepo repository.StockMovementRepository,
		sumRepo repository.StockSummaryRepository,
	) error {
		mov, summary, err := appendMovement(ctx, movRepo, sumRepo, movementInput{
			Item:      in.Item,
			Direction: entity.DirectionOut,
			Quantity:  in.Quantity,
			Zone:      in.Zone,
			Note:      note,
			Reference: in.Reference,
			ClerkID:   in.ClerkID,
			At:        now,
		})
		if err != nil {
			return err
		}
		res = &MovementResult{Movement: mov, Summary: summary}
		return nil
	})
	if err != nil {
		err = domain.Wrap(err, op, "", in.Item.String())
		uc.hooks.rejected(op, err)
		return nil, err
	}
	uc.hooks.movementCommitted(ctx, res.Movement, res.Summary)
	return res, nil
}
