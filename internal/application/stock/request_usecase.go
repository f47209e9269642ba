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

// RequestUseCase registro de solicitudes de stock (alta, consulta y pendientes).
type RequestUseCase struct {
	reqRepo repository.StockRequestRepository
	catalog repository.ItemCatalog
	log     *logger.Logger
	now     func() time.Time
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(reqRepo repository.StockRequestRepository, catalog repository.ItemCatalog, log *logger.Logger) *RequestUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RequestUseCase{reqRepo: reqRepo, catalog: catalog, log: log, now: utcNow}
}

// CreateRequestInput entrada para crear una solicitud.
type CreateRequestInput struct {
	Item      entity.ItemRef
	Quantity  decimal.Decimal
	Source    entity.SourceInfo
	Transport entity.Transport
	ClerkID   string
}

// Create registra una solicitud en estado requested.
func (uc *RequestUseCase) Create(ctx context.Context, in CreateRequestInput) (*entity.StockRequest, error) {
	const op = "stock.CreateRequest"
	if err := requirePositive(op, "quantity", in.Quantity); err != nil {
		return nil, err
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
		Quantity:  in.Quantity,
		Source:    in.Source,
		Transport: transport,
		Status:    entity.RequestStatusRequested,
		Origin:    entity.OriginProcurement,
		CreatedBy: in.ClerkID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.reqRepo.Create(ctx, req); err != nil {
		return nil, domain.Wrap(err, op, req.ID, in.Item.String())
	}
	uc.log.Info().Str("request_id", req.ID).Str("item", in.Item.String()).Str("quantity", in.Quantity.String()).Msg("solicitud de stock creada")
	return req, nil
}

// Get devuelve la solicitud o ErrNotFound.
func (uc *RequestUseCase) Get(ctx context.Context, id string) (*entity.StockRequest, error) {
	const op = "stock.GetRequest"
	if id == "" {
		return nil, domain.Validation(op, "id de solicitud requerido")
	}
	req, err := uc.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Wrap(err, op, id, "")
	}
	if req == nil {
		return nil, &domain.Error{Kind: domain.ErrNotFound, Op: op, RequestID: id}
	}
	return req, nil
}

// ListPending solicitudes en requested de la clase, más recientes primero. Sin efectos secundarios.
func (uc *RequestUseCase) ListPending(ctx context.Context, class entity.ItemClass, limit, offset int) ([]*entity.StockRequest, error) {
	const op = "stock.ListPending"
	if !class.Valid() {
		return nil, domain.Validation(op, "clase de ítem inválida")
	}
	items, err := uc.reqRepo.ListPending(ctx, class, limit, offset)
	if err != nil {
		return nil, domain.Wrap(err, op, "", "")
	}
	return items, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
