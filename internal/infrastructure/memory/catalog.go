package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type catalog struct {
	s *Store
}

func (c catalog) Resolve(_ context.Context, item entity.ItemRef) (*entity.CatalogItem, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	ci, ok := c.s.catalog[item]
	if !ok {
		return nil, nil
	}
	out := *ci
	return &out, nil
}
