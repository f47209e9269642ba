package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// MovementResult resultado de una operación que agregó un movimiento al ledger.
// Request es nil en los consumos.
type MovementResult struct {
	Request  *entity.StockRequest
	Movement *entity.StockMovement
	Summary  *entity.StockSummary
}

// ReceiptInput confirmación física de una recepción por parte del bodeguero.
type ReceiptInput struct {
	ReceivedQuantity decimal.Decimal
	Zone             entity.Zone
	ReceiptImageRef  string // evidencia obligatoria
	SupportingDocRef string
	Remarks          string
	ClerkID          string
	ReceivedAt       *time.Time // por defecto, el momento de la operación
}

// FulfillInput entrada de Fulfill.
type FulfillInput struct {
	RequestID string
	ReceiptInput
}

// FulfillmentUseCase convierte una solicitud pendiente en un ingreso de stock durable.
type FulfillmentUseCase struct {
	txRunner TxRunner
	hooks    afterCommit
	now      func() time.Time
}

// NewFulfillmentUseCase construye el caso de uso. cache y events pueden ser nil.
func NewFulfillmentUseCase(txRunner TxRunner, cache SummaryCache, events EventPublisher, log *logger.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{
		txRunner: txRunner,
		hooks:    newAfterCommit(cache, events, log),
		now:      utcNow,
	}
}

// Fulfill en una sola transacción: bloquea la solicitud, verifica que siga en requested,
// agrega el movimiento IN bajo el bloqueo del ítem y marca la solicitud como fulfilled.
// Si la solicitud ya fue recibida devuelve ErrConflict sin escribir nada.
func (uc *FulfillmentUseCase) Fulfill(ctx context.Context, in FulfillInput) (*MovementResult, error) {
	const op = "stock.Fulfill"
	if in.RequestID == "" {
		return nil, domain.Validation(op, "id de solicitud requerido")
	}
	if err := validateReceipt(op, in.ReceiptInput); err != nil {
		err.RequestID = in.RequestID
		return nil, err
	}

	now := uc.now()
	var res *MovementResult
	var item entity.ItemRef
	err := uc.txRunner.Run(ctx, func(
		reqRepo repository.StockRequestRepository,
		movRepo repository.StockMovementRepository,
		sumRepo repository.StockSummaryRepository,
	) error {
		req, err := reqRepo.GetForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return &domain.Error{Kind: domain.ErrNotFound, Detail: "solicitud no existe"}
		}
		item = req.Item
		if !req.IsPending() {
			return &domain.Error{Kind: domain.ErrConflict, Detail: "la solicitud ya fue recibida"}
		}
		res, err = receiveInTx(ctx, reqRepo, movRepo, sumRepo, req, in.ReceiptInput, now)
		return err
	})
	if err != nil {
		err = domain.Wrap(err, op, in.RequestID, itemString(item))
		uc.hooks.rejected(op, err)
		return nil, err
	}
	uc.hooks.movementCommitted(ctx, res.Movement, res.Summary)
	return res, nil
}

// receiveInTx efectos de una recepción sobre una solicitud ya bloqueada y en requested.
// Compartido por Fulfill y DirectIn para que ambos pasen por la misma transición.
func receiveInTx(
	ctx context.Context,
	reqRepo repository.StockRequestRepository,
	movRepo repository.StockMovementRepository,
	sumRepo repository.StockSummaryRepository,
	req *entity.StockRequest,
	in ReceiptInput,
	now time.Time,
) (*MovementResult, error) {
	note := in.Remarks
	if note == "" {
		note = "recepción de solicitud " + req.ID
	}
	mov, summary, err := appendMovement(ctx, movRepo, sumRepo, movementInput{
		Item:            req.Item,
		Direction:       entity.DirectionIn,
		Quantity:        in.ReceivedQuantity,
		Zone:            in.Zone,
		Note:            note,
		SourceRequestID: req.ID,
		ClerkID:         in.ClerkID,
		At:              now,
	})
	if err != nil {
		return nil, err
	}

	receivedAt := now
	if in.ReceivedAt != nil {
		receivedAt = in.ReceivedAt.UTC()
	}
	f := entity.Fulfillment{
		ReceivedQuantity: in.ReceivedQuantity,
		ReceivedAt:       receivedAt,
		Zone:             in.Zone,
		ClerkID:          in.ClerkID,
		ReceiptImageRef:  in.ReceiptImageRef,
		SupportingDocRef: in.SupportingDocRef,
		Remarks:          in.Remarks,
		MovementID:       mov.ID,
	}
	ok, err := reqRepo.MarkFulfilled(ctx, req.ID, f)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.Error{Kind: domain.ErrConflict, Detail: "la solicitud ya fue recibida"}
	}

	done := *req
	done.Status = entity.RequestStatusFulfilled
	done.Fulfillment = &f
	done.UpdatedAt = now
	return &MovementResult{Request: &done, Movement: mov, Summary: summary}, nil
}

// validateReceipt precondiciones comunes de Fulfill y DirectIn; se evalúan antes de abrir la tx.
func validateReceipt(op string, in ReceiptInput) *domain.Error {
	if err := checkQuantity(op, "received_quantity", in.ReceivedQuantity); err != nil {
		return err
	}
	if !in.Zone.Valid() {
		return domain.Validation(op, "zona de recepción inválida")
	}
	if in.ReceiptImageRef == "" {
		return domain.Validation(op, "la imagen de recepción es obligatoria")
	}
	return nil
}

func itemString(item entity.ItemRef) string {
	if item.ID == "" {
		return ""
	}
	return item.String()
}
