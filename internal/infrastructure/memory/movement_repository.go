package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type movementRepo struct {
	s  *Store
	tx *tx
}

func (r *movementRepo) Append(_ context.Context, m *entity.StockMovement) error {
	if r.tx == nil {
		return fmt.Errorf("%w: Append requiere una transacción", domain.ErrStorageFailure)
	}
	if !r.tx.holding[itemKey(m.Item)] {
		return fmt.Errorf("%w: Append sin el bloqueo del ítem %s", domain.ErrStorageFailure, m.Item)
	}
	r.tx.movements = append(r.tx.movements, cloneMovement(m))
	return nil
}

func (r *movementRepo) ListByItem(_ context.Context, item entity.ItemRef, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	src := r.s.movements[item]
	out := make([]*entity.StockMovement, 0, len(src))
	for _, m := range src {
		out = append(out, cloneMovement(m))
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for _, m := range r.tx.movements {
			if m.Item == item {
				out = append(out, cloneMovement(m))
			}
		}
	}
	return page(out, limit, offset), nil
}

func (r *movementRepo) ListBySourceRequest(_ context.Context, requestID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	r.s.mu.RLock()
	for _, movs := range r.s.movements {
		for _, m := range movs {
			if m.SourceRequestID == requestID {
				out = append(out, cloneMovement(m))
			}
		}
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for _, m := range r.tx.movements {
			if m.SourceRequestID == requestID {
				out = append(out, cloneMovement(m))
			}
		}
	}
	return out, nil
}
