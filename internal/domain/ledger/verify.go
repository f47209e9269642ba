package ledger

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Discrepancy diferencia encontrada al reproducir la cadena del ledger.
type Discrepancy struct {
	Seq      int64 // 0 = el resumen, no un movimiento
	Expected entity.Balances
	Actual   entity.Balances
	Reason   string
}

// VerifyChain reproduce los movimientos (ordenados por Seq) desde saldos en cero y compara
// cada movimiento y el resumen final contra lo esperado. Solo lectura.
func VerifyChain(movements []*entity.StockMovement, summary *entity.StockSummary) []Discrepancy {
	var out []Discrepancy
	running := entity.ZeroBalances()
	var lastSeq int64
	for _, m := range movements {
		if m.Seq != lastSeq+1 {
			out = append(out, Discrepancy{
				Seq:    m.Seq,
				Reason: fmt.Sprintf("secuencia no contigua: se esperaba %d", lastSeq+1),
			})
		}
		lastSeq = m.Seq

		next, err := Apply(running, m.Direction, m.Quantity, m.Zone)
		if err != nil {
			out = append(out, Discrepancy{Seq: m.Seq, Expected: running, Actual: m.Balances, Reason: err.Error()})
			running = m.Balances
			continue
		}
		if !next.Equal(m.Balances) {
			out = append(out, Discrepancy{Seq: m.Seq, Expected: next, Actual: m.Balances, Reason: "saldos del movimiento no cuadran con el anterior"})
		}
		running = next
	}

	if summary == nil {
		if len(movements) > 0 {
			out = append(out, Discrepancy{Expected: running, Actual: entity.ZeroBalances(), Reason: "falta la fila de resumen"})
		}
		return out
	}
	if !summary.Balances.Equal(running) {
		out = append(out, Discrepancy{Expected: running, Actual: summary.Balances, Reason: "el resumen no coincide con el último movimiento"})
	}
	if summary.LastSeq != lastSeq {
		out = append(out, Discrepancy{Expected: running, Actual: summary.Balances, Reason: fmt.Sprintf("last_seq del resumen %d, ledger %d", summary.LastSeq, lastSeq)})
	}
	return out
}
