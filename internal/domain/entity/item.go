package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemClass distingue las dos familias de ítems que comparten el mismo ledger.
type ItemClass string

const (
	ItemClassProduct ItemClass = "product"
	ItemClassSpare   ItemClass = "spare"
)

// Valid indica si la clase es una de las soportadas.
func (c ItemClass) Valid() bool {
	return c == ItemClassProduct || c == ItemClassSpare
}

// ItemRef identifica un ítem del catálogo (producto o repuesto).
// Los IDs son únicos dentro de su clase, no entre clases.
type ItemRef struct {
	Class ItemClass
	ID    string
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.Class, r.ID)
}

// Valid indica si la referencia tiene clase conocida e ID no vacío.
func (r ItemRef) Valid() bool {
	return r.Class.Valid() && r.ID != ""
}

// CatalogItem es lo que el ledger necesita del catálogo externo.
type CatalogItem struct {
	Ref         ItemRef
	Name        string
	ImageRef    string
	MinQuantity decimal.Decimal // umbral de stock mínimo
}
