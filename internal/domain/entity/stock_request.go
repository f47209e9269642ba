package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus estado de una solicitud de stock. requested -> fulfilled es la única transición.
type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "requested"
	RequestStatusFulfilled RequestStatus = "fulfilled"
)

// RequestOrigin de dónde salió el registro de solicitud.
type RequestOrigin string

const (
	OriginProcurement RequestOrigin = "procurement"  // solicitud formal previa
	OriginDirectEntry RequestOrigin = "direct_entry" // sintetizada por una entrada directa
)

// SourceInfo proveedor y documentos de soporte (referencias opacas del file store).
type SourceInfo struct {
	Company         string `json:"company"`
	Address         string `json:"address,omitempty"`
	ContactName     string `json:"contact_name,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	QuotationRef    string `json:"quotation_ref,omitempty"`
	PaymentProofRef string `json:"payment_proof_ref,omitempty"`
	InvoiceRef      string `json:"invoice_ref,omitempty"`
}

// Fulfillment datos de recepción; nil mientras la solicitud está en requested.
type Fulfillment struct {
	ReceivedQuantity decimal.Decimal
	ReceivedAt       time.Time
	Zone             Zone
	ClerkID          string
	ReceiptImageRef  string
	SupportingDocRef string
	Remarks          string
	MovementID       string
}

// StockRequest registro de entrada de mercadería y su ciclo de vida.
// Nunca se elimina: es el rastro de auditoría de cada unidad que entra.
type StockRequest struct {
	ID          string
	Item        ItemRef
	Quantity    decimal.Decimal // cantidad solicitada
	Source      SourceInfo
	Transport   Transport
	Status      RequestStatus
	Origin      RequestOrigin
	Fulfillment *Fulfillment
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPending indica si la solicitud aún puede recibirse.
func (r *StockRequest) IsPending() bool {
	return r.Status == RequestStatusRequested
}
