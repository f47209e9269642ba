package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type requestRepo struct {
	s  *Store
	tx *tx // nil = autocommit
}

func requestKey(id string) string { return "request:" + id }

func (r *requestRepo) Create(ctx context.Context, req *entity.StockRequest) error {
	if r.tx != nil {
		if _, ok := r.tx.requests[req.ID]; ok {
			return fmt.Errorf("%w: solicitud %s duplicada", domain.ErrConflict, req.ID)
		}
		r.tx.requests[req.ID] = cloneRequest(req)
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[req.ID]; ok {
		return fmt.Errorf("%w: solicitud %s duplicada", domain.ErrConflict, req.ID)
	}
	r.s.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *requestRepo) GetByID(_ context.Context, id string) (*entity.StockRequest, error) {
	if r.tx != nil {
		if req, ok := r.tx.requests[id]; ok {
			return cloneRequest(req), nil
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneRequest(r.s.requests[id]), nil
}

func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockRequest, error) {
	if r.tx == nil {
		return nil, fmt.Errorf("%w: GetForUpdate requiere una transacción", domain.ErrStorageFailure)
	}
	if err := r.tx.lock(ctx, requestKey(id)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *requestRepo) MarkFulfilled(ctx context.Context, id string, f entity.Fulfillment) (bool, error) {
	if r.tx == nil {
		return false, fmt.Errorf("%w: MarkFulfilled requiere una transacción", domain.ErrStorageFailure)
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if cur == nil || cur.Status != entity.RequestStatusRequested {
		return false, nil
	}
	fc := f
	cur.Status = entity.RequestStatusFulfilled
	cur.Fulfillment = &fc
	cur.UpdatedAt = time.Now().UTC()
	r.tx.requests[id] = cur
	return true, nil
}

func (r *requestRepo) ListPending(_ context.Context, class entity.ItemClass, limit, offset int) ([]*entity.StockRequest, error) {
	r.s.mu.RLock()
	var out []*entity.StockRequest
	for _, req := range r.s.requests {
		if req.Status == entity.RequestStatusRequested && req.Item.Class == class {
			out = append(out, cloneRequest(req))
		}
	}
	r.s.mu.RUnlock()
	sortPending(out)
	return page(out, limit, offset), nil
}
