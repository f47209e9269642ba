package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// keyedLocks un semáforo de capacidad 1 por clave. Claves distintas no se bloquean entre sí.
// La entrada de una clave vive mientras alguien la tiene o la espera.
type keyedLocks struct {
	mu   sync.Mutex
	sems map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int // dueño + esperando
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{sems: make(map[string]*lockEntry)}
}

func (l *keyedLocks) ref(key string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.sems[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		l.sems[key] = e
	}
	e.refs++
	return e
}

func (l *keyedLocks) unref(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.sems, key)
	}
}

// acquire espera el bloqueo de key hasta timeout (0 = sin límite) o hasta que ctx termine.
// Ambos casos se reportan como ErrConflict, igual que lock_timeout en PostgreSQL.
func (l *keyedLocks) acquire(ctx context.Context, key string, timeout time.Duration) error {
	e := l.ref(key)
	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}
	select {
	case e.ch <- struct{}{}:
		return nil
	case <-expired:
		l.unref(key, e)
		return fmt.Errorf("%w: tiempo de espera agotado para el bloqueo %s", domain.ErrConflict, key)
	case <-ctx.Done():
		l.unref(key, e)
		return fmt.Errorf("%w: espera del bloqueo %s interrumpida: %w", domain.ErrConflict, key, ctx.Err())
	}
}

func (l *keyedLocks) release(key string) {
	l.mu.Lock()
	e := l.sems[key]
	l.mu.Unlock()
	if e == nil {
		return
	}
	<-e.ch
	l.unref(key, e)
}

// size número de claves con entrada viva.
func (l *keyedLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sems)
}
