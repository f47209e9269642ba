package stock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var (
	itemX = entity.ItemRef{Class: entity.ItemClassProduct, ID: "X"}
	itemY = entity.ItemRef{Class: entity.ItemClassProduct, ID: "Y"}
	spare = entity.ItemRef{Class: entity.ItemClassSpare, ID: "S1"}
)

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// recordingCache SummaryCache en memoria que registra invalidaciones.
// Igual que Redis, Set no pisa una entrada con LastSeq mayor; failSet simula Redis caído.
type recordingCache struct {
	mu          sync.Mutex
	entries     map[entity.ItemRef]*entity.StockSummary
	invalidated []entity.ItemRef
	failSet     error
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[entity.ItemRef]*entity.StockSummary{}}
}

func (c *recordingCache) Get(_ context.Context, item entity.ItemRef) (*entity.StockSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[item], nil
}

func (c *recordingCache) Set(_ context.Context, s *entity.StockSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSet != nil {
		return c.failSet
	}
	if cur, ok := c.entries[s.Item]; ok && cur.LastSeq > s.LastSeq {
		return nil
	}
	c.entries[s.Item] = s
	return nil
}

func (c *recordingCache) entry(item entity.ItemRef) *entity.StockSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[item]
}

func (c *recordingCache) Invalidate(_ context.Context, item entity.ItemRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, item)
	c.invalidated = append(c.invalidated, item)
	return nil
}

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []stock.MovementEvent
}

func (p *recordingPublisher) PublishMovement(_ context.Context, ev stock.MovementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fixture struct {
	store     *memory.Store
	cache     *recordingCache
	events    *recordingPublisher
	requests  *stock.RequestUseCase
	fulfill   *stock.FulfillmentUseCase
	direct    *stock.DirectEntryUseCase
	summaries *stock.SummaryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore(5 * time.Second)
	s.AddItem(entity.CatalogItem{Ref: itemX, Name: "Bomba centrífuga", MinQuantity: qty(20)})
	s.AddItem(entity.CatalogItem{Ref: itemY, Name: "Motor 2HP"})
	s.AddItem(entity.CatalogItem{Ref: spare, Name: "Sello mecánico", MinQuantity: qty(2)})

	cache := newRecordingCache()
	events := &recordingPublisher{}
	log := logger.Nop()
	return &fixture{
		store:     s,
		cache:     cache,
		events:    events,
		requests:  stock.NewRequestUseCase(s.Requests(), s.Catalog(), log),
		fulfill:   stock.NewFulfillmentUseCase(s, cache, events, log),
		direct:    stock.NewDirectEntryUseCase(s, s.Catalog(), cache, events, log),
		summaries: stock.NewSummaryUseCase(s.Summaries(), s.Movements(), s.Catalog(), cache, log),
	}
}

func (f *fixture) createRequest(t *testing.T, item entity.ItemRef, n int64) *entity.StockRequest {
	t.Helper()
	req, err := f.requests.Create(context.Background(), stock.CreateRequestInput{
		Item:      item,
		Quantity:  qty(n),
		Source:    entity.SourceInfo{Company: "Proveedora Andina"},
		Transport: entity.CourierTransport{CourierName: "Servientrega", TrackingNumber: "TRK-1"},
		ClerkID:   "clerk-1",
	})
	require.NoError(t, err)
	return req
}

func receipt(n int64, zone entity.Zone, clerk string) stock.ReceiptInput {
	return stock.ReceiptInput{
		ReceivedQuantity: qty(n),
		Zone:             zone,
		ReceiptImageRef:  "local://receipts/foto.jpg",
		ClerkID:          clerk,
	}
}

func (f *fixture) summary(t *testing.T, item entity.ItemRef) *entity.StockSummary {
	t.Helper()
	s, err := f.store.Summaries().Get(context.Background(), item)
	require.NoError(t, err)
	if s == nil {
		return entity.NewStockSummary(item)
	}
	return s
}

func (f *fixture) movements(t *testing.T, item entity.ItemRef) []*entity.StockMovement {
	t.Helper()
	movs, err := f.store.Movements().ListByItem(context.Background(), item, 0, 0)
	require.NoError(t, err)
	return movs
}

func requireBalances(t *testing.T, s *entity.StockSummary, total, a, b int64) {
	t.Helper()
	require.True(t, s.Balances.Total.Equal(qty(total)), "total %s, esperado %d", s.Balances.Total, total)
	require.True(t, s.Balances.ZoneA.Equal(qty(a)), "zona A %s, esperado %d", s.Balances.ZoneA, a)
	require.True(t, s.Balances.ZoneB.Equal(qty(b)), "zona B %s, esperado %d", s.Balances.ZoneB, b)
}
