package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

type summaryRepo struct {
	s  *Store
	tx *tx
}

func itemKey(item entity.ItemRef) string { return "item:" + item.String() }

func (r *summaryRepo) Get(_ context.Context, item entity.ItemRef) (*entity.StockSummary, error) {
	if r.tx != nil {
		if sum, ok := r.tx.summaries[item]; ok {
			return cloneSummary(sum), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneSummary(r.s.summaries[item]), nil
}

// GetForUpdate bloquea el ítem; si aún no tiene resumen devuelve uno en cero.
func (r *summaryRepo) GetForUpdate(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error) {
	if r.tx == nil {
		return nil, fmt.Errorf("%w: GetForUpdate requiere una transacción", domain.ErrStorageFailure)
	}
	if err := r.tx.lock(ctx, itemKey(item)); err != nil {
		return nil, err
	}
	sum, err := r.Get(ctx, item)
	if err != nil {
		return nil, err
	}
	if sum == nil {
		sum = entity.NewStockSummary(item)
	}
	return sum, nil
}

func (r *summaryRepo) Upsert(_ context.Context, sum *entity.StockSummary) error {
	if r.tx == nil {
		return fmt.Errorf("%w: Upsert requiere una transacción", domain.ErrStorageFailure)
	}
	if !r.tx.holding[itemKey(sum.Item)] {
		return fmt.Errorf("%w: Upsert sin el bloqueo del ítem %s", domain.ErrStorageFailure, sum.Item)
	}
	r.tx.summaries[sum.Item] = cloneSummary(sum)
	return nil
}

func (r *summaryRepo) ListBelowThreshold(_ context.Context, class entity.ItemClass) ([]repository.LowStockItem, error) {
	r.s.mu.RLock()
	var out []repository.LowStockItem
	for ref, ci := range r.s.catalog {
		if ref.Class != class || !ci.MinQuantity.GreaterThan(decimal.Zero) {
			continue
		}
		total := decimal.Zero
		if sum, ok := r.s.summaries[ref]; ok {
			total = sum.Balances.Total
		}
		if total.LessThan(ci.MinQuantity) {
			out = append(out, repository.LowStockItem{Item: ref, Name: ci.Name, Total: total, MinQuantity: ci.MinQuantity})
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		di := out[i].MinQuantity.Sub(out[i].Total)
		dj := out[j].MinQuantity.Sub(out[j].Total)
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return out[i].Item.ID < out[j].Item.ID
	})
	return out, nil
}
