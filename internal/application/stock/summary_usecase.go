package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// SummaryUseCase lecturas del estado de stock: resumen, historial, verificación y bajo stock.
// Ninguna operación escribe en el ledger.
type SummaryUseCase struct {
	sumRepo repository.StockSummaryRepository
	movRepo repository.StockMovementRepository
	catalog repository.ItemCatalog
	cache   SummaryCache
	log     *logger.Logger
}

// NewSummaryUseCase construye el caso de uso. cache puede ser nil.
func NewSummaryUseCase(
	sumRepo repository.StockSummaryRepository,
	movRepo repository.StockMovementRepository,
	catalog repository.ItemCatalog,
	cache SummaryCache,
	log *logger.Logger,
) *SummaryUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SummaryUseCase{sumRepo: sumRepo, movRepo: movRepo, catalog: catalog, cache: cache, log: log}
}

// VerifyReport resultado de reproducir el ledger de un ítem contra su resumen.
type VerifyReport struct {
	Item          entity.ItemRef
	Movements     int
	Discrepancies []ledger.Discrepancy
}

// Consistent indica si no se encontraron desvíos.
func (r *VerifyReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}

// GetSummary lectura sin bloqueo del resumen. Un ítem del catálogo sin movimientos
// devuelve saldos en cero; un ítem desconocido, ErrNotFound.
func (uc *SummaryUseCase) GetSummary(ctx context.Context, item entity.ItemRef) (*entity.StockSummary, error) {
	const op = "stock.GetSummary"
	if !item.Valid() {
		return nil, domain.Validation(op, "referencia de ítem inválida o ausente")
	}
	if cached, err := uc.cache.Get(ctx, item); err != nil {
		uc.log.Warn().Err(err).Str("item", item.String()).Msg("caché de resumen no disponible")
	} else if cached != nil {
		return cached, nil
	}

	summary, err := uc.sumRepo.Get(ctx, item)
	if err != nil {
		return nil, domain.Wrap(err, op, "", item.String())
	}
	if summary == nil {
		if _, err := requireItem(ctx, uc.catalog, op, item); err != nil {
			return nil, err
		}
		summary = entity.NewStockSummary(item)
	}
	if err := uc.cache.Set(ctx, summary); err != nil {
		uc.log.Warn().Err(err).Str("item", item.String()).Msg("no se pudo guardar el resumen en caché")
	}
	return summary, nil
}

// ListMovements historial del ítem en orden de secuencia.
func (uc *SummaryUseCase) ListMovements(ctx context.Context, item entity.ItemRef, limit, offset int) ([]*entity.StockMovement, error) {
	const op = "stock.ListMovements"
	if !item.Valid() {
		return nil, domain.Validation(op, "referencia de ítem inválida o ausente")
	}
	movs, err := uc.movRepo.ListByItem(ctx, item, limit, offset)
	if err != nil {
		return nil, domain.Wrap(err, op, "", item.String())
	}
	return movs, nil
}

// VerifyItem reproduce la cadena completa del ledger y la compara con el resumen persistido.
// El resumen se lee primero y los movimientos se recortan a su LastSeq, así un movimiento
// confirmado entre ambas lecturas no aparece como desvío.
func (uc *SummaryUseCase) VerifyItem(ctx context.Context, item entity.ItemRef) (*VerifyReport, error) {
	const op = "stock.VerifyItem"
	if _, err := requireItem(ctx, uc.catalog, op, item); err != nil {
		return nil, err
	}
	summary, err := uc.sumRepo.Get(ctx, item)
	if err != nil {
		return nil, domain.Wrap(err, op, "", item.String())
	}
	movs, err := uc.movRepo.ListByItem(ctx, item, 0, 0)
	if err != nil {
		return nil, domain.Wrap(err, op, "", item.String())
	}
	if summary != nil {
		cut := len(movs)
		for i, m := range movs {
			if m.Seq > summary.LastSeq {
				cut = i
				break
			}
		}
		movs = movs[:cut]
	}

	report := &VerifyReport{Item: item, Movements: len(movs), Discrepancies: ledger.VerifyChain(movs, summary)}
	if !report.Consistent() {
		uc.log.Warn().Str("item", item.String()).Int("discrepancies", len(report.Discrepancies)).Msg("ledger inconsistente con el resumen")
	}
	return report, nil
}

// ListLowStock ítems de la clase cuyo total está por debajo del mínimo del catálogo.
func (uc *SummaryUseCase) ListLowStock(ctx context.Context, class entity.ItemClass) ([]repository.LowStockItem, error) {
	const op = "stock.ListLowStock"
	if !class.Valid() {
		return nil, domain.Validation(op, "clase de ítem inválida")
	}
	items, err := uc.sumRepo.ListBelowThreshold(ctx, class)
	if err != nil {
		return nil, domain.Wrap(err, op, "", "")
	}
	return items, nil
}
