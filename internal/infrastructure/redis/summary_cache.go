package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

var _ stock.SummaryCache = (*SummaryCache)(nil)

// NewClient conecta y verifica Redis con la configuración dada.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	c := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("no se pudo conectar a redis en %s: %w", cfg.Addr, err)
	}
	return c, nil
}

// SummaryCache caché de lectura de resúmenes con TTL corto. Cada commit escribe el resumen
// confirmado; Set nunca reemplaza una entrada con LastSeq mayor, así una lectura atrasada
// no repone un saldo viejo. El TTL acota la ventana si una escritura se pierde.
type SummaryCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSummaryCache construye la caché.
func NewSummaryCache(client *goredis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Key clave de Redis para un ítem.
func Key(item entity.ItemRef) string {
	return fmt.Sprintf("stock:summary:%s:%s", item.Class, item.ID)
}

type cachedSummary struct {
	Class         string          `json:"class"`
	ID            string          `json:"id"`
	LastQuantity  decimal.Decimal `json:"last_quantity"`
	LastDirection string          `json:"last_direction,omitempty"`
	LastSeq       int64           `json:"last_seq"`
	Total         decimal.Decimal `json:"total"`
	ZoneA         decimal.Decimal `json:"zone_a"`
	ZoneB         decimal.Decimal `json:"zone_b"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Encode serializa el resumen para guardarlo.
func Encode(s *entity.StockSummary) ([]byte, error) {
	return json.Marshal(cachedSummary{
		Class:         string(s.Item.Class),
		ID:            s.Item.ID,
		LastQuantity:  s.LastQuantity,
		LastDirection: string(s.LastDirection),
		LastSeq:       s.LastSeq,
		Total:         s.Balances.Total,
		ZoneA:         s.Balances.ZoneA,
		ZoneB:         s.Balances.ZoneB,
		UpdatedAt:     s.UpdatedAt,
	})
}

// Decode reconstruye el resumen.
func Decode(b []byte) (*entity.StockSummary, error) {
	var c cachedSummary
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &entity.StockSummary{
		Item:          entity.ItemRef{Class: entity.ItemClass(c.Class), ID: c.ID},
		LastQuantity:  c.LastQuantity,
		LastDirection: entity.Direction(c.LastDirection),
		LastSeq:       c.LastSeq,
		Balances:      entity.Balances{Total: c.Total, ZoneA: c.ZoneA, ZoneB: c.ZoneB},
		UpdatedAt:     c.UpdatedAt,
	}, nil
}

// Get (nil, nil) si no hay entrada.
func (c *SummaryCache) Get(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error) {
	b, err := c.client.Get(ctx, Key(item)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return Decode(b)
}

// Supersedes indica si next debe reemplazar la entrada cur ya codificada.
// Una entrada vacía o ilegible siempre se reemplaza.
func Supersedes(cur []byte, next *entity.StockSummary) bool {
	if len(cur) == 0 {
		return true
	}
	old, err := Decode(cur)
	if err != nil {
		return true
	}
	return next.LastSeq >= old.LastSeq
}

// maxSetAttempts reintentos de Set cuando otra escritura toca la clave durante el WATCH.
const maxSetAttempts = 3

// Set escribe s salvo que la entrada actual sea más reciente (WATCH + MULTI).
func (c *SummaryCache) Set(ctx context.Context, s *entity.StockSummary) error {
	b, err := Encode(s)
	if err != nil {
		return err
	}
	key := Key(s.Item)
	set := func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if !Supersedes(cur, s) {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}
	for i := 0; i < maxSetAttempts; i++ {
		err = c.client.Watch(ctx, set, key)
		if !errors.Is(err, goredis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (c *SummaryCache) Invalidate(ctx context.Context, item entity.ItemRef) error {
	return c.client.Del(ctx, Key(item)).Err()
}
