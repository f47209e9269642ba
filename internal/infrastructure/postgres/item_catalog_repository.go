package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ItemCatalog = (*ItemCatalogRepo)(nil)

// ItemCatalogRepo lectura del catálogo: productos y repuestos viven en tablas separadas
// con la misma forma.
type ItemCatalogRepo struct {
	q Querier
}

// NewItemCatalogRepository construye el adaptador.
func NewItemCatalogRepository(q Querier) *ItemCatalogRepo {
	return &ItemCatalogRepo{q: q}
}

func catalogTable(class entity.ItemClass) (string, error) {
	switch class {
	case entity.ItemClassProduct:
		return "products", nil
	case entity.ItemClassSpare:
		return "spares", nil
	}
	return "", &domain.Error{Kind: domain.ErrValidationFailed, Op: "catalog", Detail: fmt.Sprintf("clase de ítem desconocida: %q", class)}
}

// Resolve devuelve el ítem o (nil, nil) si no existe.
func (r *ItemCatalogRepo) Resolve(ctx context.Context, item entity.ItemRef) (*entity.CatalogItem, error) {
	table, err := catalogTable(item.Class)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, COALESCE(image_ref, ''), min_quantity FROM %s WHERE id = $1`, table)
	ci := entity.CatalogItem{Ref: entity.ItemRef{Class: item.Class}}
	err = r.q.QueryRow(ctx, query, item.ID).Scan(&ci.Ref.ID, &ci.Name, &ci.ImageRef, &ci.MinQuantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("resolve catalog item", err)
	}
	return &ci, nil
}
