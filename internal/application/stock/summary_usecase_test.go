package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestGetSummary_ItemSinMovimientosEnCero(t *testing.T) {
	f := newFixture(t)
	got, err := f.summaries.GetSummary(context.Background(), spare)
	require.NoError(t, err)
	requireBalances(t, got, 0, 0, 0)
	assert.Zero(t, got.LastSeq)
}

func TestGetSummary_ItemDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.summaries.GetSummary(context.Background(), entity.ItemRef{Class: entity.ItemClassProduct, ID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.summaries.GetSummary(context.Background(), entity.ItemRef{})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestGetSummary_UsaCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cached := entity.NewStockSummary(itemX)
	cached.Balances.Total = qty(99)
	require.NoError(t, f.cache.Set(ctx, cached))

	got, err := f.summaries.GetSummary(ctx, itemX)
	require.NoError(t, err)
	assert.True(t, got.Balances.Total.Equal(qty(99)))
}

// Una lectura que obtuvo el resumen antes de un commit y escribe la caché después
// no debe reponer el saldo viejo.
func TestGetSummary_LecturaAtrasadaNoReponeSaldoViejo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.direct.DirectIn(ctx, stock.DirectInInput{Item: itemX, ReceiptInput: receipt(5, entity.ZoneA, "c")})
	require.NoError(t, err)
	before := f.summary(t, itemX)

	_, err = f.direct.DirectIn(ctx, stock.DirectInInput{Item: itemX, ReceiptInput: receipt(2, entity.ZoneB, "c")})
	require.NoError(t, err)

	// El Set de la lectura atrasada llega tarde.
	require.NoError(t, f.cache.Set(ctx, before))

	got, err := f.summaries.GetSummary(ctx, itemX)
	require.NoError(t, err)
	requireBalances(t, got, 7, 5, 2)
	assert.Equal(t, int64(2), got.LastSeq)
}

func TestListMovements_OrdenDeSecuencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		_, err := f.direct.DirectIn(ctx, stock.DirectInInput{Item: itemX, ReceiptInput: receipt(i, entity.ZoneA, "c")})
		require.NoError(t, err)
	}
	got, err := f.summaries.ListMovements(ctx, itemX, 2, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Seq)
	assert.Equal(t, int64(3), got[1].Seq)
}

func TestVerifyItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.summaries.VerifyItem(ctx, spare)
	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.Zero(t, report.Movements)

	r := f.createRequest(t, spare, 4)
	_, err = f.fulfill.Fulfill(ctx, stock.FulfillInput{RequestID: r.ID, ReceiptInput: receipt(4, entity.ZoneB, "c")})
	require.NoError(t, err)
	_, err = f.direct.Consume(ctx, stock.ConsumeInput{Item: spare, Quantity: qty(1), Zone: entity.ZoneB, Reference: "OP-1"})
	require.NoError(t, err)

	report, err = f.summaries.VerifyItem(ctx, spare)
	require.NoError(t, err)
	assert.True(t, report.Consistent(), "%+v", report.Discrepancies)
	assert.Equal(t, 2, report.Movements)
}

func TestListLowStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.direct.DirectIn(ctx, stock.DirectInInput{Item: itemX, ReceiptInput: receipt(25, entity.ZoneA, "c")})
	require.NoError(t, err)
	_, err = f.direct.DirectIn(ctx, stock.DirectInInput{Item: spare, ReceiptInput: receipt(1, entity.ZoneA, "c")})
	require.NoError(t, err)

	products, err := f.summaries.ListLowStock(ctx, entity.ItemClassProduct)
	require.NoError(t, err)
	assert.Empty(t, products, "X supera su mínimo e Y no tiene mínimo")

	spares, err := f.summaries.ListLowStock(ctx, entity.ItemClassSpare)
	require.NoError(t, err)
	require.Len(t, spares, 1)
	assert.Equal(t, spare, spares[0].Item)
	assert.True(t, spares[0].Total.Equal(qty(1)))
}

func TestKindName(t *testing.T) {
	assert.Equal(t, "", stock.KindName(nil))
	assert.Equal(t, "validation", stock.KindName(domain.Validation("op", "x")))
	assert.Equal(t, "not_found", stock.KindName(domain.ErrNotFound))
	assert.Equal(t, "conflict", stock.KindName(domain.ErrConflict))
	assert.Equal(t, "insufficient_stock", stock.KindName(&domain.Error{Kind: domain.ErrInsufficientStock}))
	assert.Equal(t, "storage_failure", stock.KindName(assert.AnError))
}
