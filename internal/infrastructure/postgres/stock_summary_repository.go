package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockSummaryRepository = (*StockSummaryRepo)(nil)

// StockSummaryRepo resumen por ítem sobre PostgreSQL (usable con pool o tx).
type StockSummaryRepo struct {
	q Querier
}

// NewStockSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockSummaryRepository(q Querier) *StockSummaryRepo {
	return &StockSummaryRepo{q: q}
}

const stockSummaryColumns = `item_class, item_id, last_quantity, last_direction, last_seq, total, zone_a, zone_b, updated_at`

// Get lectura sin bloqueo; (nil, nil) si el ítem no tiene fila.
func (r *StockSummaryRepo) Get(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error) {
	query := `SELECT ` + stockSummaryColumns + ` FROM stock_summaries WHERE item_class = $1 AND item_id = $2`
	s, err := scanSummary(r.q.QueryRow(ctx, query, string(item.Class), item.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get stock summary", err)
	}
	return s, nil
}

// GetForUpdate inserta la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
// Para el primer movimiento de un ítem, dos escritores concurrentes chocan en la clave
// primaria del INSERT: el segundo espera al primero y luego lee su fila confirmada.
func (r *StockSummaryRepo) GetForUpdate(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error) {
	ensure := `
		INSERT INTO stock_summaries (item_class, item_id, last_quantity, last_direction, last_seq, total, zone_a, zone_b, updated_at)
		VALUES ($1, $2, 0, NULL, 0, 0, 0, 0, now())
		ON CONFLICT (item_class, item_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, ensure, string(item.Class), item.ID); err != nil {
		return nil, classify("ensure stock summary", err)
	}
	query := `SELECT ` + stockSummaryColumns + ` FROM stock_summaries WHERE item_class = $1 AND item_id = $2 FOR UPDATE`
	s, err := scanSummary(r.q.QueryRow(ctx, query, string(item.Class), item.ID))
	if err != nil {
		return nil, classify("get stock summary for update", err)
	}
	return s, nil
}

// Upsert escribe el resumen (la fila ya está bloqueada por GetForUpdate).
func (r *StockSummaryRepo) Upsert(ctx context.Context, s *entity.StockSummary) error {
	query := `
		INSERT INTO stock_summaries (item_class, item_id, last_quantity, last_direction, last_seq, total, zone_a, zone_b, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (item_class, item_id)
		DO UPDATE SET last_quantity = EXCLUDED.last_quantity, last_direction = EXCLUDED.last_direction,
			last_seq = EXCLUDED.last_seq, total = EXCLUDED.total, zone_a = EXCLUDED.zone_a,
			zone_b = EXCLUDED.zone_b, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		string(s.Item.Class), s.Item.ID, s.LastQuantity, nullIfEmpty(string(s.LastDirection)), s.LastSeq,
		s.Balances.Total, s.Balances.ZoneA, s.Balances.ZoneB, s.UpdatedAt,
	)
	if err != nil {
		return classify("upsert stock summary", err)
	}
	return nil
}

// ListBelowThreshold ítems del catálogo de la clase con total menor a su mínimo (incluye
// los que nunca tuvieron movimientos), mayor déficit primero.
func (r *StockSummaryRepo) ListBelowThreshold(ctx context.Context, class entity.ItemClass) ([]repository.LowStockItem, error) {
	table, err := catalogTable(class)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT c.id, c.name, COALESCE(s.total, 0) AS total, c.min_quantity
		FROM %s c
		LEFT JOIN stock_summaries s ON s.item_class = $1 AND s.item_id = c.id
		WHERE c.min_quantity > 0 AND COALESCE(s.total, 0) < c.min_quantity
		ORDER BY c.min_quantity - COALESCE(s.total, 0) DESC, c.id`, table)
	rows, err := r.q.Query(ctx, query, string(class))
	if err != nil {
		return nil, classify("list low stock", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		it := repository.LowStockItem{Item: entity.ItemRef{Class: class}}
		if err := rows.Scan(&it.Item.ID, &it.Name, &it.Total, &it.MinQuantity); err != nil {
			return nil, classify("scan low stock", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list low stock", err)
	}
	return list, nil
}

func scanSummary(row pgx.Row) (*entity.StockSummary, error) {
	var (
		s     entity.StockSummary
		class string
		dir   *string
	)
	if err := row.Scan(&class, &s.Item.ID, &s.LastQuantity, &dir, &s.LastSeq,
		&s.Balances.Total, &s.Balances.ZoneA, &s.Balances.ZoneB, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Item.Class = entity.ItemClass(class)
	s.LastDirection = entity.Direction(deref(dir))
	return &s, nil
}
