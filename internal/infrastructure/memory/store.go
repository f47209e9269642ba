// Package memory implementa todos los puertos del ledger en memoria de proceso.
// Reproduce la disciplina de la implementación PostgreSQL: bloqueos por clave tomados
// dentro de la transacción y mantenidos hasta el commit, y escrituras visibles solo al confirmar.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Store datos confirmados del ledger.
type Store struct {
	mu          sync.RWMutex
	requests    map[string]*entity.StockRequest
	movements   map[entity.ItemRef][]*entity.StockMovement
	summaries   map[entity.ItemRef]*entity.StockSummary
	catalog     map[entity.ItemRef]*entity.CatalogItem
	failCommit  error
	locks       *keyedLocks
	lockTimeout time.Duration
}

// NewStore crea un store vacío. lockTimeout 0 espera sin límite.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		requests:    make(map[string]*entity.StockRequest),
		movements:   make(map[entity.ItemRef][]*entity.StockMovement),
		summaries:   make(map[entity.ItemRef]*entity.StockSummary),
		catalog:     make(map[entity.ItemRef]*entity.CatalogItem),
		locks:       newKeyedLocks(),
		lockTimeout: lockTimeout,
	}
}

// AddItem registra un ítem en el catálogo.
func (s *Store) AddItem(item entity.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := item
	s.catalog[item.Ref] = &c
}

// FailNextCommit hace que el próximo commit falle con err (simula un fallo de almacenamiento).
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// Requests repositorio de solicitudes fuera de transacción.
func (s *Store) Requests() repository.StockRequestRepository {
	return &requestRepo{s: s}
}

// Movements repositorio de movimientos fuera de transacción (solo lectura).
func (s *Store) Movements() repository.StockMovementRepository {
	return &movementRepo{s: s}
}

// Summaries repositorio de resúmenes fuera de transacción (solo lectura).
func (s *Store) Summaries() repository.StockSummaryRepository {
	return &summaryRepo{s: s}
}

// Catalog catálogo de ítems.
func (s *Store) Catalog() repository.ItemCatalog {
	return catalog{s: s}
}

func cloneRequest(r *entity.StockRequest) *entity.StockRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.Fulfillment != nil {
		f := *r.Fulfillment
		c.Fulfillment = &f
	}
	return &c
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	return &c
}

func cloneSummary(s *entity.StockSummary) *entity.StockSummary {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// sortPending más recientes primero; a igual fecha, por ID.
func sortPending(items []*entity.StockRequest) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return strings.Compare(items[i].ID, items[j].ID) < 0
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
