package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Las cantidades deben caber en NUMERIC(18,4): hasta 4 decimales y menos de 1e14.
var quantityCases = []struct {
	name string
	q    string
	ok   bool
}{
	{"cuatro decimales", "0.0001", true},
	{"ceros a la derecha", "1.50000", true},
	{"máximo representable", "99999999999999.9999", true},
	{"cinco decimales", "0.00001", false},
	{"quinto decimal no nulo", "1.00005", false},
	{"1e14", "100000000000000", false},
}

func TestCantidad_PrecisionDelLedger(t *testing.T) {
	ctx := context.Background()
	for _, tt := range quantityCases {
		t.Run(tt.name, func(t *testing.T) {
			q := decimal.RequireFromString(tt.q)
			f := newFixture(t)

			_, errCreate := f.requests.Create(ctx, stock.CreateRequestInput{Item: itemX, Quantity: q, ClerkID: "c"})

			in := receipt(0, entity.ZoneA, "c")
			in.ReceivedQuantity = q
			_, errDirect := f.direct.DirectIn(ctx, stock.DirectInInput{Item: itemY, ReceiptInput: in})

			r := f.createRequest(t, spare, 1)
			_, errFulfill := f.fulfill.Fulfill(ctx, stock.FulfillInput{RequestID: r.ID, ReceiptInput: in})

			_, errConsume := f.direct.Consume(ctx, stock.ConsumeInput{Item: itemX, Quantity: q, Zone: entity.ZoneA, Reference: "OV-1"})

			if tt.ok {
				assert.NoError(t, errCreate)
				assert.NoError(t, errDirect)
				assert.NoError(t, errFulfill)
				// Sin saldo en itemX la salida es un conflicto, no una validación.
				assert.ErrorIs(t, errConsume, domain.ErrInsufficientStock)
				return
			}
			for _, err := range []error{errCreate, errDirect, errFulfill, errConsume} {
				assert.ErrorIs(t, err, domain.ErrValidationFailed)
			}
			assert.Empty(t, f.movements(t, itemY))
			assert.Empty(t, f.movements(t, spare))
			got, err := f.requests.Get(ctx, r.ID)
			require.NoError(t, err)
			assert.True(t, got.IsPending())
		})
	}
}

func TestDirectIn_SaldoFueraDeRangoNoEscribe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := receipt(0, entity.ZoneA, "c")
	in.ReceivedQuantity = decimal.RequireFromString("99999999999999.9999")
	_, err := f.direct.DirectIn(ctx, stock.DirectInInput{Item: itemX, ReceiptInput: in})
	require.NoError(t, err)

	_, err = f.direct.DirectIn(ctx, stock.DirectInInput{Item: itemX, ReceiptInput: receipt(1, entity.ZoneB, "c")})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Len(t, f.movements(t, itemX), 1)
	assert.Equal(t, int64(1), f.summary(t, itemX).LastSeq)
}
