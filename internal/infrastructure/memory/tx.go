package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// tx escrituras pendientes y bloqueos tomados por una transacción.
type tx struct {
	s         *Store
	held      []string
	holding   map[string]bool
	requests  map[string]*entity.StockRequest
	movements []*entity.StockMovement
	summaries map[entity.ItemRef]*entity.StockSummary
}

func (s *Store) begin() *tx {
	return &tx{
		s:         s,
		holding:   make(map[string]bool),
		requests:  make(map[string]*entity.StockRequest),
		summaries: make(map[entity.ItemRef]*entity.StockSummary),
	}
}

// lock toma el bloqueo de key si la tx aún no lo tiene.
func (t *tx) lock(ctx context.Context, key string) error {
	if t.holding[key] {
		return nil
	}
	if err := t.s.locks.acquire(ctx, key, t.s.lockTimeout); err != nil {
		return err
	}
	t.holding[key] = true
	t.held = append(t.held, key)
	return nil
}

func (t *tx) releaseAll() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.s.locks.release(t.held[i])
	}
	t.held = nil
	t.holding = map[string]bool{}
}

// commit valida las restricciones únicas y aplica las escrituras de una vez.
func (t *tx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failCommit; err != nil {
		s.failCommit = nil
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}

	// (item, seq) único y contiguo; source_request_id único.
	next := make(map[entity.ItemRef]int64)
	for _, m := range t.movements {
		want, ok := next[m.Item]
		if !ok {
			want = int64(len(s.movements[m.Item])) + 1
		}
		if m.Seq != want {
			return fmt.Errorf("%w: secuencia %d duplicada para %s", domain.ErrConflict, m.Seq, m.Item)
		}
		next[m.Item] = want + 1
		if m.SourceRequestID != "" && s.hasMovementForRequest(m.SourceRequestID) {
			return fmt.Errorf("%w: la solicitud %s ya tiene movimiento", domain.ErrConflict, m.SourceRequestID)
		}
	}
	// fulfilled es terminal.
	for id := range t.requests {
		if cur, ok := s.requests[id]; ok && cur.Status == entity.RequestStatusFulfilled {
			return fmt.Errorf("%w: la solicitud %s ya fue recibida", domain.ErrConflict, id)
		}
	}

	for id, r := range t.requests {
		s.requests[id] = r
	}
	for _, m := range t.movements {
		s.movements[m.Item] = append(s.movements[m.Item], m)
	}
	for item, sum := range t.summaries {
		s.summaries[item] = sum
	}
	return nil
}

func (s *Store) hasMovementForRequest(id string) bool {
	for _, movs := range s.movements {
		for _, m := range movs {
			if m.SourceRequestID == id {
				return true
			}
		}
	}
	return false
}

// Run implementa stock.TxRunner: fn ve sus propias escrituras; el resto las ve solo tras el commit.
// Los bloqueos se liberan después de aplicar (o descartar) las escrituras.
func (s *Store) Run(ctx context.Context, fn func(
	reqRepo repository.StockRequestRepository,
	movRepo repository.StockMovementRepository,
	sumRepo repository.StockSummaryRepository,
) error) error {
	t := s.begin()
	defer t.releaseAll()

	if err := fn(&requestRepo{s: s, tx: t}, &movementRepo{s: s, tx: t}, &summaryRepo{s: s, tx: t}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
	return t.commit()
}
