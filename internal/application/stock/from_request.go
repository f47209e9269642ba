package stock

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// Adaptadores del request HTTP a las entradas de los casos de uso.
// El userID viene de la sesión (AuthMiddleware) y queda como clerk de auditoría.

// CreateFromRequest adapta dto.CreateStockRequestRequest a Create.
func (uc *RequestUseCase) CreateFromRequest(ctx context.Context, userID string, in dto.CreateStockRequestRequest) (*entity.StockRequest, error) {
	transport, err := transportFromDTO("stock.CreateRequest", in.Transport)
	if err != nil {
		return nil, err
	}
	return uc.Create(ctx, CreateRequestInput{
		Item:      entity.ItemRef{Class: entity.ItemClass(in.ItemClass), ID: in.ItemID},
		Quantity:  in.Quantity,
		Source:    sourceFromDTO(in.Source),
		Transport: transport,
		ClerkID:   userID,
	})
}

// FulfillFromRequest adapta dto.FulfillRequest a Fulfill.
func (uc *FulfillmentUseCase) FulfillFromRequest(ctx context.Context, userID, requestID string, in dto.FulfillRequest) (*MovementResult, error) {
	return uc.Fulfill(ctx, FulfillInput{
		RequestID: requestID,
		ReceiptInput: ReceiptInput{
			ReceivedQuantity: in.ReceivedQuantity,
			Zone:             entity.Zone(in.Zone),
			ReceiptImageRef:  in.ReceiptImageRef,
			SupportingDocRef: in.SupportingDocRef,
			Remarks:          in.Remarks,
			ClerkID:          userID,
			ReceivedAt:       in.ReceivedAt,
		},
	})
}

// DirectInFromRequest adapta dto.DirectEntryRequest a DirectIn.
func (uc *DirectEntryUseCase) DirectInFromRequest(ctx context.Context, userID string, in dto.DirectEntryRequest) (*MovementResult, error) {
	transport, err := transportFromDTO("stock.DirectIn", in.Transport)
	if err != nil {
		return nil, err
	}
	return uc.DirectIn(ctx, DirectInInput{
		Item:      entity.ItemRef{Class: entity.ItemClass(in.ItemClass), ID: in.ItemID},
		Source:    sourceFromDTO(in.Source),
		Transport: transport,
		ReceiptInput: ReceiptInput{
			ReceivedQuantity: in.ReceivedQuantity,
			Zone:             entity.Zone(in.Zone),
			ReceiptImageRef:  in.ReceiptImageRef,
			SupportingDocRef: in.SupportingDocRef,
			Remarks:          in.Remarks,
			ClerkID:          userID,
			ReceivedAt:       in.ReceivedAt,
		},
	})
}

// ConsumeFromRequest adapta dto.ConsumptionRequest a Consume.
func (uc *DirectEntryUseCase) ConsumeFromRequest(ctx context.Context, userID string, in dto.ConsumptionRequest) (*MovementResult, error) {
	return uc.Consume(ctx, ConsumeInput{
		Item:      entity.ItemRef{Class: entity.ItemClass(in.ItemClass), ID: in.ItemID},
		Quantity:  in.Quantity,
		Zone:      entity.Zone(in.Zone),
		Reference: in.Reference,
		Remarks:   in.Remarks,
		ClerkID:   userID,
	})
}

func transportFromDTO(op string, in dto.TransportDTO) (entity.Transport, error) {
	t, err := entity.DecodeTransport(entity.TransportMode(in.Mode), in.Details)
	if err != nil {
		return nil, domain.Validation(op, err.Error())
	}
	var phone string
	switch v := t.(type) {
	case entity.OwnVehicleTransport:
		phone = v.DriverPhone
	case entity.HandDeliveryTransport:
		phone = v.Phone
	}
	if phone != "" && !validator.ValidPhone(phone) {
		return nil, domain.Validation(op, "teléfono de transporte inválido: "+phone)
	}
	return t, nil
}

func sourceFromDTO(in dto.SourceInfoDTO) entity.SourceInfo {
	return entity.SourceInfo{
		Company:         in.Company,
		Address:         in.Address,
		ContactName:     in.ContactName,
		ContactPhone:    in.ContactPhone,
		QuotationRef:    in.QuotationRef,
		PaymentProofRef: in.PaymentProofRef,
		InvoiceRef:      in.InvoiceRef,
	}
}
