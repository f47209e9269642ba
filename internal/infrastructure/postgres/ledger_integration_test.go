package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Requiere una base de datos descartable: TEST_DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
func newPostgresLedger(t *testing.T) (*pgxpool.Pool, entity.ItemRef) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	ddl, err := os.ReadFile("../../../migrations/001_stock_ledger.sql")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(ddl))
	require.NoError(t, err)

	item := entity.ItemRef{Class: entity.ItemClassProduct, ID: "it-" + uuid.NewString()}
	_, err = pool.Exec(ctx, `INSERT INTO products (id, name) VALUES ($1, $2)`, item.ID, "Bomba de prueba")
	require.NoError(t, err)
	return pool, item
}

func pgReceipt(n int64) stock.ReceiptInput {
	return stock.ReceiptInput{
		ReceivedQuantity: decimal.NewFromInt(n),
		Zone:             entity.ZoneA,
		ReceiptImageRef:  "local://receipts/foto.jpg",
		ClerkID:          "clerk",
	}
}

func TestPostgres_EntradasConcurrentesSinActualizacionesPerdidas(t *testing.T) {
	pool, item := newPostgresLedger(t)
	ctx := context.Background()
	tx := postgres.NewTxRunner(pool, 5*time.Second)
	direct := stock.NewDirectEntryUseCase(tx, postgres.NewItemCatalogRepository(pool), nil, nil, logger.Nop())

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := direct.DirectIn(ctx, stock.DirectInInput{Item: item, ReceiptInput: pgReceipt(1)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	summary, err := postgres.NewStockSummaryRepository(pool).Get(ctx, item)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.True(t, summary.Balances.Total.Equal(decimal.NewFromInt(n)), "total %s", summary.Balances.Total)
	assert.Equal(t, int64(n), summary.LastSeq)

	movs, err := postgres.NewStockMovementRepository(pool).ListByItem(ctx, item, 0, 0)
	require.NoError(t, err)
	require.Len(t, movs, n)
	for i, m := range movs {
		assert.Equal(t, int64(i+1), m.Seq, "secuencia contigua")
	}
}

func TestPostgres_RecepcionConcurrenteUnSoloGanador(t *testing.T) {
	pool, item := newPostgresLedger(t)
	ctx := context.Background()
	catalog := postgres.NewItemCatalogRepository(pool)
	requests := stock.NewRequestUseCase(postgres.NewStockRequestRepository(pool), catalog, logger.Nop())
	fulfill := stock.NewFulfillmentUseCase(postgres.NewTxRunner(pool, 5*time.Second), nil, nil, logger.Nop())

	req, err := requests.Create(ctx, stock.CreateRequestInput{Item: item, Quantity: decimal.NewFromInt(10), ClerkID: "c"})
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	won, conflicts := 0, 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fulfill.Fulfill(ctx, stock.FulfillInput{RequestID: req.ID, ReceiptInput: pgReceipt(10)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				won++
			case domain.KindOf(err) == domain.ErrConflict:
				conflicts++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, won)
	assert.Equal(t, n-1, conflicts)

	movs, err := postgres.NewStockMovementRepository(pool).ListByItem(ctx, item, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}
