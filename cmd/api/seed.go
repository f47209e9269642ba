package main

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// seedDemoCatalog catálogo mínimo para el driver en memoria.
func seedDemoCatalog(s *memory.Store) {
	items := []entity.CatalogItem{
		{Ref: entity.ItemRef{Class: entity.ItemClassProduct, ID: "P-100"}, Name: "Bomba centrífuga 1HP", MinQuantity: decimal.NewFromInt(10)},
		{Ref: entity.ItemRef{Class: entity.ItemClassProduct, ID: "P-200"}, Name: "Motor trifásico 2HP", MinQuantity: decimal.NewFromInt(5)},
		{Ref: entity.ItemRef{Class: entity.ItemClassSpare, ID: "R-010"}, Name: "Sello mecánico 3/4", MinQuantity: decimal.NewFromInt(20)},
		{Ref: entity.ItemRef{Class: entity.ItemClassSpare, ID: "R-020"}, Name: "Rodamiento 6203"},
	}
	for _, it := range items {
		s.AddItem(it)
	}
}
