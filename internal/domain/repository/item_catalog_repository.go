package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ItemCatalog puerto de solo lectura sobre el catálogo de productos y repuestos.
// Resolve devuelve (nil, nil) si el ítem no existe.
type ItemCatalog interface {
	Resolve(ctx context.Context, item entity.ItemRef) (*entity.CatalogItem, error)
}
