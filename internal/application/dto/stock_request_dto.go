package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SourceInfoDTO proveedor y documentos de soporte.
type SourceInfoDTO struct {
	Company         string `json:"company" validate:"max=200"`
	Address         string `json:"address,omitempty" validate:"max=500"`
	ContactName     string `json:"contact_name,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty" validate:"omitempty,phone"`
	QuotationRef    string `json:"quotation_ref,omitempty"`
	PaymentProofRef string `json:"payment_proof_ref,omitempty"`
	InvoiceRef      string `json:"invoice_ref,omitempty"`
}

// TransportDTO variante de transporte: mode + detalles propios del modo.
type TransportDTO struct {
	Mode    string          `json:"mode" validate:"omitempty,oneof=none courier own_vehicle transporter hand_delivery"`
	Details json.RawMessage `json:"details,omitempty" swaggertype:"object"`
}

// CreateStockRequestRequest body para POST /api/stock/requests.
type CreateStockRequestRequest struct {
	ItemClass string          `json:"item_class" validate:"required,oneof=product spare"`
	ItemID    string          `json:"item_id" validate:"required,max=64"`
	Quantity  decimal.Decimal `json:"quantity" swaggertype:"string"`
	Source    SourceInfoDTO   `json:"source"`
	Transport TransportDTO    `json:"transport"`
}

// FulfillRequest body para POST /api/stock/requests/:id/fulfill.
type FulfillRequest struct {
	ReceivedQuantity decimal.Decimal `json:"received_quantity" swaggertype:"string"`
	Zone             string          `json:"zone" validate:"required,oneof=zone_a zone_b"`
	ReceiptImageRef  string          `json:"receipt_image_ref"`
	SupportingDocRef string          `json:"supporting_doc_ref,omitempty"`
	Remarks          string          `json:"remarks,omitempty" validate:"max=1000"`
	ReceivedAt       *time.Time      `json:"received_at,omitempty"`
}

// DirectEntryRequest body para POST /api/stock/direct-entries.
type DirectEntryRequest struct {
	ItemClass        string          `json:"item_class" validate:"required,oneof=product spare"`
	ItemID           string          `json:"item_id" validate:"required,max=64"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity" swaggertype:"string"`
	Zone             string          `json:"zone" validate:"required,oneof=zone_a zone_b"`
	Source           SourceInfoDTO   `json:"source"`
	Transport        TransportDTO    `json:"transport"`
	ReceiptImageRef  string          `json:"receipt_image_ref"`
	SupportingDocRef string          `json:"supporting_doc_ref,omitempty"`
	Remarks          string          `json:"remarks,omitempty" validate:"max=1000"`
	ReceivedAt       *time.Time      `json:"received_at,omitempty"`
}

// ConsumptionRequest body para POST /api/stock/consumptions (salida contra orden de venta/producción).
type ConsumptionRequest struct {
	ItemClass string          `json:"item_class" validate:"required,oneof=product spare"`
	ItemID    string          `json:"item_id" validate:"required,max=64"`
	Quantity  decimal.Decimal `json:"quantity" swaggertype:"string"`
	Zone      string          `json:"zone" validate:"required,oneof=zone_a zone_b"`
	Reference string          `json:"reference"`
	Remarks   string          `json:"remarks,omitempty" validate:"max=1000"`
}

// FulfillmentResponse datos de recepción de una solicitud.
type FulfillmentResponse struct {
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	ReceivedAt       time.Time       `json:"received_at"`
	Zone             string          `json:"zone"`
	ZoneName         string          `json:"zone_name"`
	ClerkID          string          `json:"clerk_id"`
	ReceiptImageRef  string          `json:"receipt_image_ref"`
	SupportingDocRef string          `json:"supporting_doc_ref,omitempty"`
	Remarks          string          `json:"remarks,omitempty"`
	MovementID       string          `json:"movement_id"`
}

// StockRequestResponse salida de una solicitud de stock.
type StockRequestResponse struct {
	ID          string               `json:"id"`
	ItemClass   string               `json:"item_class"`
	ItemID      string               `json:"item_id"`
	Quantity    decimal.Decimal      `json:"quantity"`
	Status      string               `json:"status"`
	Origin      string               `json:"origin"`
	Source      SourceInfoDTO        `json:"source"`
	Transport   TransportDTO         `json:"transport"`
	Fulfillment *FulfillmentResponse `json:"fulfillment,omitempty"`
	CreatedBy   string               `json:"created_by"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// StockRequestListResponse lista paginada de solicitudes.
type StockRequestListResponse struct {
	Items []StockRequestResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
