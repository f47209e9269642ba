package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger append-only sobre PostgreSQL. No hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const stockMovementColumns = `
	id, item_class, item_id, seq, direction, quantity, zone, note, source_request_id, reference,
	balance_total, balance_zone_a, balance_zone_b, created_at, created_by`

// Append inserta el movimiento. (item_class, item_id, seq) y source_request_id son únicos:
// una violación indica que otra transacción ganó la carrera y se reporta como conflicto.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + stockMovementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, string(m.Item.Class), m.Item.ID, m.Seq, string(m.Direction), m.Quantity, string(m.Zone),
		m.Note, nullIfEmpty(m.SourceRequestID), nullIfEmpty(m.Reference),
		m.Balances.Total, m.Balances.ZoneA, m.Balances.ZoneB, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return classify("append stock movement", err)
	}
	return nil
}

// ListByItem movimientos del ítem en orden de Seq.
func (r *StockMovementRepo) ListByItem(ctx context.Context, item entity.ItemRef, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + `
		FROM stock_movements
		WHERE item_class = $1 AND item_id = $2
		ORDER BY seq
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(item.Class), item.ID, limitArg(limit), offset)
	if err != nil {
		return nil, classify("list stock movements", err)
	}
	return collectMovements(rows)
}

// ListBySourceRequest movimientos originados por una solicitud (0 o 1).
func (r *StockMovementRepo) ListBySourceRequest(ctx context.Context, requestID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + stockMovementColumns + ` FROM stock_movements WHERE source_request_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, requestID)
	if err != nil {
		return nil, classify("list stock movements by request", err)
	}
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var (
			m                   entity.StockMovement
			class, dir, zone    string
			sourceID, reference *string
		)
		if err := rows.Scan(
			&m.ID, &class, &m.Item.ID, &m.Seq, &dir, &m.Quantity, &zone, &m.Note, &sourceID, &reference,
			&m.Balances.Total, &m.Balances.ZoneA, &m.Balances.ZoneB, &m.CreatedAt, &m.CreatedBy,
		); err != nil {
			return nil, classify("scan stock movement", err)
		}
		m.Item.Class = entity.ItemClass(class)
		m.Direction = entity.Direction(dir)
		m.Zone = entity.Zone(zone)
		m.SourceRequestID = deref(sourceID)
		m.Reference = deref(reference)
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list stock movements", err)
	}
	return list, nil
}
