package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryResponse estado actual de un ítem (total y por zona).
type SummaryResponse struct {
	ItemClass     string          `json:"item_class"`
	ItemID        string          `json:"item_id"`
	Total         decimal.Decimal `json:"total"`
	ZoneA         decimal.Decimal `json:"zone_a"`
	ZoneB         decimal.Decimal `json:"zone_b"`
	ZoneAName     string          `json:"zone_a_name"`
	ZoneBName     string          `json:"zone_b_name"`
	LastQuantity  decimal.Decimal `json:"last_quantity"`
	LastDirection string          `json:"last_direction,omitempty"`
	LastSeq       int64           `json:"last_seq"`
	LastUpdated   *time.Time      `json:"last_updated,omitempty"`
}

// MovementResponse entrada del ledger.
type MovementResponse struct {
	ID              string          `json:"id"`
	Seq             int64           `json:"seq"`
	Direction       string          `json:"direction"`
	Quantity        decimal.Decimal `json:"quantity"`
	Zone            string          `json:"zone"`
	Note            string          `json:"note,omitempty"`
	SourceRequestID string          `json:"source_request_id,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	BalanceTotal    decimal.Decimal `json:"balance_total"`
	BalanceZoneA    decimal.Decimal `json:"balance_zone_a"`
	BalanceZoneB    decimal.Decimal `json:"balance_zone_b"`
	CreatedAt       time.Time       `json:"created_at"`
	CreatedBy       string          `json:"created_by"`
}

// MovementListResponse lista paginada de movimientos de un ítem (orden de secuencia).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementResultResponse resultado de una recepción, entrada directa o consumo.
type MovementResultResponse struct {
	RequestID  string           `json:"request_id,omitempty"`
	MovementID string           `json:"movement_id"`
	Movement   MovementResponse `json:"movement"`
	Summary    SummaryResponse  `json:"summary"`
}

// DiscrepancyDTO desvío encontrado al verificar el ledger.
type DiscrepancyDTO struct {
	Seq      int64           `json:"seq"`
	Reason   string          `json:"reason"`
	Expected decimal.Decimal `json:"expected_total"`
	Actual   decimal.Decimal `json:"actual_total"`
}

// VerifyResponse resultado de reproducir la cadena del ledger contra el resumen.
type VerifyResponse struct {
	ItemClass     string           `json:"item_class"`
	ItemID        string           `json:"item_id"`
	Consistent    bool             `json:"consistent"`
	Movements     int              `json:"movements"`
	Discrepancies []DiscrepancyDTO `json:"discrepancies"`
}

// LowStockItemDTO ítem por debajo de su cantidad mínima.
type LowStockItemDTO struct {
	ItemClass   string          `json:"item_class"`
	ItemID      string          `json:"item_id"`
	Name        string          `json:"name"`
	Total       decimal.Decimal `json:"total"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Deficit     decimal.Decimal `json:"deficit"`
}

// FileUploadResponse referencia opaca devuelta por el file store.
type FileUploadResponse struct {
	Ref string `json:"ref"`
}
