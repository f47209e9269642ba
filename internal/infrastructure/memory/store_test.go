package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

var itemX = entity.ItemRef{Class: entity.ItemClassProduct, ID: "X"}

type repos struct {
	req repository.StockRequestRepository
	mov repository.StockMovementRepository
	sum repository.StockSummaryRepository
}

func run(t *testing.T, s *memory.Store, fn func(r repos) error) error {
	t.Helper()
	return s.Run(context.Background(), func(
		reqRepo repository.StockRequestRepository,
		movRepo repository.StockMovementRepository,
		sumRepo repository.StockSummaryRepository,
	) error {
		return fn(repos{req: reqRepo, mov: movRepo, sum: sumRepo})
	})
}

func TestRun_EscriturasInvisiblesHastaElCommit(t *testing.T) {
	s := memory.NewStore(time.Second)
	req := &entity.StockRequest{ID: "r1", Item: itemX, Status: entity.RequestStatusRequested}

	err := run(t, s, func(r repos) error {
		require.NoError(t, r.req.Create(context.Background(), req))
		inTx, err := r.req.GetByID(context.Background(), "r1")
		require.NoError(t, err)
		assert.NotNil(t, inTx, "la tx ve sus propias escrituras")

		outside, err := s.Requests().GetByID(context.Background(), "r1")
		require.NoError(t, err)
		assert.Nil(t, outside, "fuera de la tx no debe verse antes del commit")
		return nil
	})
	require.NoError(t, err)

	got, err := s.Requests().GetByID(context.Background(), "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestRun_ErrorDescartaTodo(t *testing.T) {
	s := memory.NewStore(time.Second)
	boom := errors.New("boom")
	err := run(t, s, func(r repos) error {
		ctx := context.Background()
		require.NoError(t, r.req.Create(ctx, &entity.StockRequest{ID: "r1", Item: itemX, Status: entity.RequestStatusRequested}))
		sum, err := r.sum.GetForUpdate(ctx, itemX)
		require.NoError(t, err)
		sum.LastSeq = 1
		require.NoError(t, r.sum.Upsert(ctx, sum))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := s.Requests().GetByID(context.Background(), "r1")
	assert.Nil(t, got)
	sum, _ := s.Summaries().Get(context.Background(), itemX)
	assert.Nil(t, sum)
}

func TestRun_FailNextCommit(t *testing.T) {
	s := memory.NewStore(time.Second)
	s.FailNextCommit(errors.New("disco lleno"))
	err := run(t, s, func(r repos) error {
		return r.req.Create(context.Background(), &entity.StockRequest{ID: "r1", Item: itemX, Status: entity.RequestStatusRequested})
	})
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	got, _ := s.Requests().GetByID(context.Background(), "r1")
	assert.Nil(t, got)

	// Solo falla una vez.
	err = run(t, s, func(r repos) error {
		return r.req.Create(context.Background(), &entity.StockRequest{ID: "r2", Item: itemX, Status: entity.RequestStatusRequested})
	})
	assert.NoError(t, err)
}

func TestGetForUpdate_TimeoutEsConflicto(t *testing.T) {
	s := memory.NewStore(50 * time.Millisecond)
	locked := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = run(t, s, func(r repos) error {
			_, err := r.sum.GetForUpdate(context.Background(), itemX)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	err := run(t, s, func(r repos) error {
		_, err := r.sum.GetForUpdate(context.Background(), itemX)
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetForUpdate_ContextoVencidoEsConflicto(t *testing.T) {
	s := memory.NewStore(5 * time.Second)
	locked := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = run(t, s, func(r repos) error {
			_, err := r.sum.GetForUpdate(context.Background(), itemX)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := run(t, s, func(r repos) error {
		_, err := r.sum.GetForUpdate(ctx, itemX)
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrConflict, "esperar el bloqueo no es un fallo de almacenamiento")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, domain.ErrStorageFailure)
}

func TestGetForUpdate_ItemsDistintosNoSeBloquean(t *testing.T) {
	s := memory.NewStore(time.Second)
	other := entity.ItemRef{Class: entity.ItemClassSpare, ID: "X"}
	locked := make(chan struct{})
	done := make(chan struct{})

	go func() {
		_ = run(t, s, func(r repos) error {
			_, err := r.sum.GetForUpdate(context.Background(), itemX)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked
	defer close(done)

	start := time.Now()
	err := run(t, s, func(r repos) error {
		_, err := r.sum.GetForUpdate(context.Background(), other)
		return err
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "la misma ID en otra clase es otro ítem")
}

func TestGetForUpdate_ReentranteEnLaMismaTx(t *testing.T) {
	s := memory.NewStore(50 * time.Millisecond)
	err := run(t, s, func(r repos) error {
		if _, err := r.sum.GetForUpdate(context.Background(), itemX); err != nil {
			return err
		}
		_, err := r.sum.GetForUpdate(context.Background(), itemX)
		return err
	})
	assert.NoError(t, err)
}

func TestMarkFulfilled_SoloUnaVez(t *testing.T) {
	s := memory.NewStore(time.Second)
	ctx := context.Background()
	require.NoError(t, s.Requests().Create(ctx, &entity.StockRequest{ID: "r1", Item: itemX, Status: entity.RequestStatusRequested}))

	var results []bool
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = run(t, s, func(r repos) error {
				if _, err := r.req.GetForUpdate(ctx, "r1"); err != nil {
					return err
				}
				ok, err := r.req.MarkFulfilled(ctx, "r1", entity.Fulfillment{ReceivedQuantity: decimal.NewFromInt(1), Zone: entity.ZoneA})
				mu.Lock()
				results = append(results, ok)
				mu.Unlock()
				return err
			})
		}()
	}
	wg.Wait()

	var ok int
	for _, r := range results {
		if r {
			ok++
		}
	}
	assert.Equal(t, 1, ok)
	got, _ := s.Requests().GetByID(ctx, "r1")
	assert.Equal(t, entity.RequestStatusFulfilled, got.Status)
}

func TestAppend_RequiereBloqueoDelItem(t *testing.T) {
	s := memory.NewStore(time.Second)
	err := run(t, s, func(r repos) error {
		return r.mov.Append(context.Background(), &entity.StockMovement{ID: "m1", Item: itemX, Seq: 1})
	})
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}

func TestListPending_FiltraYOrdena(t *testing.T) {
	s := memory.NewStore(time.Second)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	spare := entity.ItemRef{Class: entity.ItemClassSpare, ID: "S1"}
	reqs := []*entity.StockRequest{
		{ID: "a", Item: itemX, Status: entity.RequestStatusRequested, CreatedAt: base},
		{ID: "b", Item: itemX, Status: entity.RequestStatusRequested, CreatedAt: base.Add(time.Hour)},
		{ID: "c", Item: itemX, Status: entity.RequestStatusFulfilled, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "d", Item: spare, Status: entity.RequestStatusRequested, CreatedAt: base},
	}
	for _, r := range reqs {
		require.NoError(t, s.Requests().Create(ctx, r))
	}

	got, err := s.Requests().ListPending(ctx, entity.ItemClassProduct, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	got, err = s.Requests().ListPending(ctx, entity.ItemClassProduct, 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestListBelowThreshold_IncluyeItemsSinMovimientos(t *testing.T) {
	s := memory.NewStore(time.Second)
	s.AddItem(entity.CatalogItem{Ref: itemX, Name: "Tornillo", MinQuantity: decimal.NewFromInt(5)})
	s.AddItem(entity.CatalogItem{Ref: entity.ItemRef{Class: entity.ItemClassProduct, ID: "Y"}, Name: "Sin mínimo"})

	got, err := s.Summaries().ListBelowThreshold(context.Background(), entity.ItemClassProduct)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, itemX, got[0].Item)
	assert.True(t, got[0].Total.IsZero())
}
