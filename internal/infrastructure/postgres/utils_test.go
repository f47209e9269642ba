package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"solicitud duplicada", &pgconn.PgError{Code: codeUniqueViolation}, domain.ErrConflict},
		{"serialización", &pgconn.PgError{Code: codeSerializationFailure}, domain.ErrConflict},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, domain.ErrConflict},
		{"lock_timeout", &pgconn.PgError{Code: codeLockNotAvailable}, domain.ErrConflict},
		{"plazo del contexto vencido", fmt.Errorf("query: %w", context.DeadlineExceeded), domain.ErrConflict},
		{"check violado", &pgconn.PgError{Code: "23514"}, domain.ErrStorageFailure},
		{"tabla inexistente", &pgconn.PgError{Code: "42P01"}, domain.ErrStorageFailure},
		{"conexión perdida", errors.New("unexpected EOF"), domain.ErrStorageFailure},
		{"contexto cancelado", context.Canceled, domain.ErrStorageFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.err, "la causa se conserva")
			assert.Equal(t, tt.kind, domain.KindOf(err))
		})
	}
	assert.NoError(t, classify("op", nil))
}

func TestIsConcurrencyError(t *testing.T) {
	assert.True(t, isConcurrencyError(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: codeLockNotAvailable})))
	assert.False(t, isConcurrencyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isConcurrencyError(errors.New("x")))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: codeDeadlockDetected}))
}

func TestRedact_OcultaPassword(t *testing.T) {
	got := redact("postgres://ledger:secreto@db:5432/stock?sslmode=disable")
	assert.NotContains(t, got, "secreto")
	assert.Contains(t, got, "ledger")
	assert.Equal(t, "host=db user=x", redact("host=db user=x"))
}
