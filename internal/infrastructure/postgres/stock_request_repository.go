package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRequestRepository = (*StockRequestRepo)(nil)

// StockRequestRepo implementación de StockRequestRepository sobre PostgreSQL (usable con pool o tx).
type StockRequestRepo struct {
	q Querier
}

// NewStockRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRequestRepository(q Querier) *StockRequestRepo {
	return &StockRequestRepo{q: q}
}

const stockRequestColumns = `
	id, item_class, item_id, quantity, source, transport_mode, transport_details, status, origin,
	received_quantity, received_at, receiving_zone, clerk_id, receipt_image_ref, supporting_doc_ref,
	remarks, movement_id, created_by, created_at, updated_at`

// Create inserta la solicitud.
func (r *StockRequestRepo) Create(ctx context.Context, req *entity.StockRequest) error {
	source, err := json.Marshal(req.Source)
	if err != nil {
		return fmt.Errorf("%w: marshal source: %w", domain.ErrValidationFailed, err)
	}
	mode, details, err := entity.EncodeTransport(req.Transport)
	if err != nil {
		return fmt.Errorf("%w: marshal transport: %w", domain.ErrValidationFailed, err)
	}
	query := `
		INSERT INTO stock_requests (id, item_class, item_id, quantity, source, transport_mode, transport_details,
			status, origin, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = r.q.Exec(ctx, query,
		req.ID, string(req.Item.Class), req.Item.ID, req.Quantity, source, string(mode), details,
		string(req.Status), string(req.Origin), req.CreatedBy, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return classify("create stock request: solicitud duplicada", err)
		}
		return classify("create stock request", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID; (nil, nil) si no existe.
func (r *StockRequestRepo) GetByID(ctx context.Context, id string) (*entity.StockRequest, error) {
	row := r.q.QueryRow(ctx, `SELECT `+stockRequestColumns+` FROM stock_requests WHERE id = $1`, id)
	req, err := scanStockRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get stock request", err)
	}
	return req, nil
}

// GetForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockRequest, error) {
	row := r.q.QueryRow(ctx, `SELECT `+stockRequestColumns+` FROM stock_requests WHERE id = $1 FOR UPDATE`, id)
	req, err := scanStockRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get stock request for update", err)
	}
	return req, nil
}

// MarkFulfilled actualiza solo si la solicitud sigue en requested; el conteo de filas
// afectadas es la segunda barrera contra una doble recepción.
func (r *StockRequestRepo) MarkFulfilled(ctx context.Context, id string, f entity.Fulfillment) (bool, error) {
	query := `
		UPDATE stock_requests SET
			status = 'fulfilled',
			received_quantity = $2, received_at = $3, receiving_zone = $4, clerk_id = $5,
			receipt_image_ref = $6, supporting_doc_ref = $7, remarks = $8, movement_id = $9,
			updated_at = now()
		WHERE id = $1 AND status = 'requested'`
	tag, err := r.q.Exec(ctx, query, id,
		f.ReceivedQuantity, f.ReceivedAt, string(f.Zone), f.ClerkID,
		f.ReceiptImageRef, nullIfEmpty(f.SupportingDocRef), nullIfEmpty(f.Remarks), f.MovementID,
	)
	if err != nil {
		return false, classify("mark stock request fulfilled", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPending lista solicitudes en requested de la clase, más recientes primero.
func (r *StockRequestRepo) ListPending(ctx context.Context, class entity.ItemClass, limit, offset int) ([]*entity.StockRequest, error) {
	query := `SELECT ` + stockRequestColumns + `
		FROM stock_requests
		WHERE status = 'requested' AND item_class = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(class), limitArg(limit), offset)
	if err != nil {
		return nil, classify("list pending stock requests", err)
	}
	defer rows.Close()
	var list []*entity.StockRequest
	for rows.Next() {
		req, err := scanStockRequest(rows)
		if err != nil {
			return nil, classify("scan stock request", err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list pending stock requests", err)
	}
	return list, nil
}

func scanStockRequest(row pgx.Row) (*entity.StockRequest, error) {
	var (
		req                                   entity.StockRequest
		class, mode, status, origin           string
		source, details                       []byte
		receivedQty                           decimal.NullDecimal
		receivedAt                            *time.Time
		zone, clerkID, receiptRef, supportRef *string
		remarks, movementID                   *string
	)
	err := row.Scan(
		&req.ID, &class, &req.Item.ID, &req.Quantity, &source, &mode, &details, &status, &origin,
		&receivedQty, &receivedAt, &zone, &clerkID, &receiptRef, &supportRef,
		&remarks, &movementID, &req.CreatedBy, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Item.Class = entity.ItemClass(class)
	req.Status = entity.RequestStatus(status)
	req.Origin = entity.RequestOrigin(origin)
	if len(source) > 0 {
		if err := json.Unmarshal(source, &req.Source); err != nil {
			return nil, fmt.Errorf("unmarshal source: %w", err)
		}
	}
	if req.Transport, err = entity.DecodeTransport(entity.TransportMode(mode), details); err != nil {
		return nil, err
	}
	if req.Status == entity.RequestStatusFulfilled {
		f := &entity.Fulfillment{
			ReceivedQuantity: receivedQty.Decimal,
			Zone:             entity.Zone(deref(zone)),
			ClerkID:          deref(clerkID),
			ReceiptImageRef:  deref(receiptRef),
			SupportingDocRef: deref(supportRef),
			Remarks:          deref(remarks),
			MovementID:       deref(movementID),
		}
		if receivedAt != nil {
			f.ReceivedAt = *receivedAt
		}
		req.Fulfillment = f
	}
	return &req, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
