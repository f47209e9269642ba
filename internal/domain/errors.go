package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Tipos de error del ledger de inventario (sin dependencias externas).
// Se comparan con errors.Is; *Error los envuelve con contexto.
var (
	ErrValidationFailed = errors.New("validación fallida")
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrStorageFailure   = errors.New("fallo de almacenamiento")
	ErrUnauthorized     = errors.New("no autorizado")

	// ErrInsufficientStock es un caso de ErrConflict.
	ErrInsufficientStock = fmt.Errorf("stock insuficiente: %w", ErrConflict)
)

// Error describe un fallo de una operación del ledger con el contexto suficiente
// para que la capa de presentación muestre un mensaje específico.
type Error struct {
	Kind      error  // uno de los Err* de este paquete
	Op        string // operación, ej. "stock.Fulfill"
	RequestID string
	Item      string // ItemRef.String()
	Detail    string
	Err       error // causa subyacente (opcional)
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.RequestID != "" {
		b.WriteString(" request=")
		b.WriteString(e.RequestID)
	}
	if e.Item != "" {
		b.WriteString(" item=")
		b.WriteString(e.Item)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap expone tanto el tipo como la causa para errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Validation construye un error ErrValidationFailed.
func Validation(op, detail string) *Error {
	return &Error{Kind: ErrValidationFailed, Op: op, Detail: detail}
}

// KindOf devuelve el tipo de error de la taxonomía; cualquier error desconocido es ErrStorageFailure.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidationFailed):
		return ErrValidationFailed
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrConflict):
		return ErrConflict
	case errors.Is(err, ErrUnauthorized):
		return ErrUnauthorized
	default:
		return ErrStorageFailure
	}
}

// Wrap agrega op/request/item a err. Si err ya es *Error conserva su tipo y completa
// el contexto faltante; si no, lo clasifica con KindOf.
func Wrap(err error, op, requestID, item string) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		if de.Op == "" {
			de.Op = op
		}
		if de.RequestID == "" {
			de.RequestID = requestID
		}
		if de.Item == "" {
			de.Item = item
		}
		return de
	}
	return &Error{Kind: KindOf(err), Op: op, RequestID: requestID, Item: item, Err: err}
}
