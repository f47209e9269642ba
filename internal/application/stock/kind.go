package stock

import (
	"errors"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// KindName nombre estable del tipo de error para logs y respuestas.
func KindName(err error) string {
	switch domain.KindOf(err) {
	case nil:
		return ""
	case domain.ErrValidationFailed:
		return "validation"
	case domain.ErrNotFound:
		return "not_found"
	case domain.ErrConflict:
		if errors.Is(err, domain.ErrInsufficientStock) {
			return "insufficient_stock"
		}
		return "conflict"
	case domain.ErrUnauthorized:
		return "unauthorized"
	default:
		return "storage_failure"
	}
}
