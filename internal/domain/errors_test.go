package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestError_IsPorTipoYCausa(t *testing.T) {
	cause := errors.New("timeout de red")
	err := &domain.Error{Kind: domain.ErrStorageFailure, Op: "stock.Fulfill", RequestID: "r1", Err: cause}

	assert.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "request=r1")
	assert.Contains(t, err.Error(), "stock.Fulfill")
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"validación", domain.Validation("op", "x"), domain.ErrValidationFailed},
		{"no encontrado envuelto", fmt.Errorf("get: %w", domain.ErrNotFound), domain.ErrNotFound},
		{"stock insuficiente es conflicto", domain.ErrInsufficientStock, domain.ErrConflict},
		{"desconocido es fallo de almacenamiento", errors.New("boom"), domain.ErrStorageFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.KindOf(tc.err))
		})
	}
}

func TestWrap_CompletaContextoSinCambiarTipo(t *testing.T) {
	base := &domain.Error{Kind: domain.ErrConflict, Detail: "ya procesada"}
	err := domain.Wrap(base, "stock.Fulfill", "r9", "product:P1")

	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrConflict, de.Kind)
	assert.Equal(t, "r9", de.RequestID)
	assert.Equal(t, "product:P1", de.Item)

	plain := domain.Wrap(errors.New("conexión cerrada"), "stock.DirectIn", "", "spare:S1")
	assert.ErrorIs(t, plain, domain.ErrStorageFailure)
}

func TestSentinelas_DistintasYJerarquia(t *testing.T) {
	kinds := []error{domain.ErrValidationFailed, domain.ErrNotFound, domain.ErrConflict, domain.ErrStorageFailure, domain.ErrUnauthorized}
	for i, a := range kinds {
		for j, b := range kinds {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
	assert.ErrorIs(t, domain.ErrInsufficientStock, domain.ErrConflict)
	assert.Equal(t, domain.ErrConflict, domain.KindOf(domain.ErrInsufficientStock))
}
