package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestCreateRequest_Validaciones(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		in   stock.CreateRequestInput
		kind error
	}{
		{"cantidad cero", stock.CreateRequestInput{Item: itemX, Quantity: qty(0)}, domain.ErrValidationFailed},
		{"sin ítem", stock.CreateRequestInput{Quantity: qty(1)}, domain.ErrValidationFailed},
		{"clase inválida", stock.CreateRequestInput{Item: entity.ItemRef{Class: "tool", ID: "X"}, Quantity: qty(1)}, domain.ErrValidationFailed},
		{"ítem inexistente", stock.CreateRequestInput{Item: entity.ItemRef{Class: entity.ItemClassSpare, ID: "X"}, Quantity: qty(1)}, domain.ErrNotFound},
		{"transporte incompleto", stock.CreateRequestInput{Item: itemX, Quantity: qty(1), Transport: entity.TransporterTransport{TransporterName: "TCC"}}, domain.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.requests.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestCreateRequest_SinTransporteUsaNone(t *testing.T) {
	f := newFixture(t)
	req, err := f.requests.Create(context.Background(), stock.CreateRequestInput{Item: spare, Quantity: qty(2), ClerkID: "c"})
	require.NoError(t, err)
	assert.Equal(t, entity.TransportNone, req.Transport.Mode())
	assert.Equal(t, entity.OriginProcurement, req.Origin)
	assert.Nil(t, req.Fulfillment)
}

func TestCreateFromRequest_DecodificaTransporte(t *testing.T) {
	f := newFixture(t)
	req, err := f.requests.CreateFromRequest(context.Background(), "clerk-1", dto.CreateStockRequestRequest{
		ItemClass: "product",
		ItemID:    "X",
		Quantity:  qty(3),
		Transport: dto.TransportDTO{Mode: "own_vehicle", Details: []byte(`{"vehicle_number":"ABC-123","driver_name":"Ana"}`)},
	})
	require.NoError(t, err)
	v, ok := req.Transport.(entity.OwnVehicleTransport)
	require.True(t, ok)
	assert.Equal(t, "ABC-123", v.VehicleNumber)
	assert.Equal(t, "clerk-1", req.CreatedBy)

	_, err = f.requests.CreateFromRequest(context.Background(), "clerk-1", dto.CreateStockRequestRequest{
		ItemClass: "product", ItemID: "X", Quantity: qty(3),
		Transport: dto.TransportDTO{Mode: "drone"},
	})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)

	_, err = f.requests.CreateFromRequest(context.Background(), "clerk-1", dto.CreateStockRequestRequest{
		ItemClass: "product", ItemID: "X", Quantity: qty(3),
		Transport: dto.TransportDTO{Mode: "hand_delivery", Details: []byte(`{"person_name":"Luis","phone":"123"}`)},
	})
	assert.ErrorIs(t, err, domain.ErrValidationFailed, "teléfono inválido")
}

func TestGetRequest_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.requests.Get(context.Background(), "r-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPending_SoloRequestedDeLaClase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.createRequest(t, itemX, 1)
	b := f.createRequest(t, itemX, 2)
	f.createRequest(t, spare, 3)
	_, err := f.fulfill.Fulfill(ctx, stock.FulfillInput{RequestID: a.ID, ReceiptInput: receipt(1, entity.ZoneA, "c")})
	require.NoError(t, err)

	got, err := f.requests.ListPending(ctx, entity.ItemClassProduct, 20, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	_, err = f.requests.ListPending(ctx, entity.ItemClass(""), 20, 0)
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}
