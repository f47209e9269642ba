package stock

import (
	"encoding/json"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Mapper convierte entidades del ledger en DTOs de respuesta usando los nombres visibles de zona.
type Mapper struct {
	Zones entity.ZoneNames
}

// StockRequest convierte una solicitud.
func (m Mapper) StockRequest(r *entity.StockRequest) dto.StockRequestResponse {
	out := dto.StockRequestResponse{
		ID:        r.ID,
		ItemClass: string(r.Item.Class),
		ItemID:    r.Item.ID,
		Quantity:  r.Quantity,
		Status:    string(r.Status),
		Origin:    string(r.Origin),
		Source: dto.SourceInfoDTO{
			Company:         r.Source.Company,
			Address:         r.Source.Address,
			ContactName:     r.Source.ContactName,
			ContactPhone:    r.Source.ContactPhone,
			QuotationRef:    r.Source.QuotationRef,
			PaymentProofRef: r.Source.PaymentProofRef,
			InvoiceRef:      r.Source.InvoiceRef,
		},
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if mode, details, err := entity.EncodeTransport(r.Transport); err == nil {
		out.Transport = dto.TransportDTO{Mode: string(mode), Details: json.RawMessage(details)}
	}
	if f := r.Fulfillment; f != nil {
		out.Fulfillment = &dto.FulfillmentResponse{
			ReceivedQuantity: f.ReceivedQuantity,
			ReceivedAt:       f.ReceivedAt,
			Zone:             string(f.Zone),
			ZoneName:         m.Zones.Name(f.Zone),
			ClerkID:          f.ClerkID,
			ReceiptImageRef:  f.ReceiptImageRef,
			SupportingDocRef: f.SupportingDocRef,
			Remarks:          f.Remarks,
			MovementID:       f.MovementID,
		}
	}
	return out
}

// StockRequests convierte una página de solicitudes.
func (m Mapper) StockRequests(items []*entity.StockRequest, limit, offset int) dto.StockRequestListResponse {
	out := dto.StockRequestListResponse{
		Items: make([]dto.StockRequestResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, r := range items {
		out.Items = append(out.Items, m.StockRequest(r))
	}
	return out
}

// Summary convierte un resumen.
func (m Mapper) Summary(s *entity.StockSummary) dto.SummaryResponse {
	out := dto.SummaryResponse{
		ItemClass:     string(s.Item.Class),
		ItemID:        s.Item.ID,
		Total:         s.Balances.Total,
		ZoneA:         s.Balances.ZoneA,
		ZoneB:         s.Balances.ZoneB,
		ZoneAName:     m.Zones.A,
		ZoneBName:     m.Zones.B,
		LastQuantity:  s.LastQuantity,
		LastDirection: string(s.LastDirection),
		LastSeq:       s.LastSeq,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		out.LastUpdated = &t
	}
	return out
}

// Movement convierte un movimiento.
func (m Mapper) Movement(mv *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              mv.ID,
		Seq:             mv.Seq,
		Direction:       string(mv.Direction),
		Quantity:        mv.Quantity,
		Zone:            string(mv.Zone),
		Note:            mv.Note,
		SourceRequestID: mv.SourceRequestID,
		Reference:       mv.Reference,
		BalanceTotal:    mv.Balances.Total,
		BalanceZoneA:    mv.Balances.ZoneA,
		BalanceZoneB:    mv.Balances.ZoneB,
		CreatedAt:       mv.CreatedAt,
		CreatedBy:       mv.CreatedBy,
	}
}

// Movements convierte una página de movimientos.
func (m Mapper) Movements(items []*entity.StockMovement, limit, offset int) dto.MovementListResponse {
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, mv := range items {
		out.Items = append(out.Items, m.Movement(mv))
	}
	return out
}

// Result convierte el resultado de Fulfill, DirectIn o Consume.
func (m Mapper) Result(r *MovementResult) dto.MovementResultResponse {
	out := dto.MovementResultResponse{
		MovementID: r.Movement.ID,
		Movement:   m.Movement(r.Movement),
		Summary:    m.Summary(r.Summary),
	}
	if r.Request != nil {
		out.RequestID = r.Request.ID
	}
	return out
}

// Verify convierte un reporte de verificación.
func (m Mapper) Verify(r *VerifyReport) dto.VerifyResponse {
	out := dto.VerifyResponse{
		ItemClass:     string(r.Item.Class),
		ItemID:        r.Item.ID,
		Consistent:    r.Consistent(),
		Movements:     r.Movements,
		Discrepancies: make([]dto.DiscrepancyDTO, 0, len(r.Discrepancies)),
	}
	for _, d := range r.Discrepancies {
		out.Discrepancies = append(out.Discrepancies, dto.DiscrepancyDTO{
			Seq:      d.Seq,
			Reason:   d.Reason,
			Expected: d.Expected.Total,
			Actual:   d.Actual.Total,
		})
	}
	return out
}

// LowStock convierte la lista de bajo stock.
func (m Mapper) LowStock(items []repository.LowStockItem) []dto.LowStockItemDTO {
	out := make([]dto.LowStockItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockItemDTO{
			ItemClass:   string(it.Item.Class),
			ItemID:      it.Item.ID,
			Name:        it.Name,
			Total:       it.Total,
			MinQuantity: it.MinQuantity,
			Deficit:     it.MinQuantity.Sub(it.Total),
		})
	}
	return out
}
