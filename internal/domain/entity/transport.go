package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransportMode etiqueta del modo de transporte de una solicitud.
type TransportMode string

const (
	TransportNone         TransportMode = "none"
	TransportCourier      TransportMode = "courier"
	TransportOwnVehicle   TransportMode = "own_vehicle"
	TransportTransporter  TransportMode = "transporter"
	TransportHandDelivery TransportMode = "hand_delivery"
)

// Transport variante etiquetada: cada modo tiene sus propios campos obligatorios.
type Transport interface {
	Mode() TransportMode
	Validate() error
}

// NoTransport mercadería ya en sitio (típico en entradas directas).
type NoTransport struct{}

// CourierTransport envío por courier.
type CourierTransport struct {
	CourierName    string `json:"courier_name"`
	TrackingNumber string `json:"tracking_number"`
}

// OwnVehicleTransport vehículo propio de la empresa o del proveedor.
type OwnVehicleTransport struct {
	VehicleNumber string `json:"vehicle_number"`
	DriverName    string `json:"driver_name"`
	DriverPhone   string `json:"driver_phone,omitempty"`
}

// TransporterTransport transportadora con guía (LR).
type TransporterTransport struct {
	TransporterName string `json:"transporter_name"`
	LRNumber        string `json:"lr_number"`
	VehicleNumber   string `json:"vehicle_number,omitempty"`
}

// HandDeliveryTransport entrega en mano.
type HandDeliveryTransport struct {
	PersonName string `json:"person_name"`
	Phone      string `json:"phone,omitempty"`
}

func (NoTransport) Mode() TransportMode           { return TransportNone }
func (CourierTransport) Mode() TransportMode      { return TransportCourier }
func (OwnVehicleTransport) Mode() TransportMode   { return TransportOwnVehicle }
func (TransporterTransport) Mode() TransportMode  { return TransportTransporter }
func (HandDeliveryTransport) Mode() TransportMode { return TransportHandDelivery }

func (NoTransport) Validate() error { return nil }

func (t CourierTransport) Validate() error {
	return requireFields(TransportCourier, "courier_name", t.CourierName, "tracking_number", t.TrackingNumber)
}

func (t OwnVehicleTransport) Validate() error {
	return requireFields(TransportOwnVehicle, "vehicle_number", t.VehicleNumber, "driver_name", t.DriverName)
}

func (t TransporterTransport) Validate() error {
	return requireFields(TransportTransporter, "transporter_name", t.TransporterName, "lr_number", t.LRNumber)
}

func (t HandDeliveryTransport) Validate() error {
	return requireFields(TransportHandDelivery, "person_name", t.PersonName)
}

// requireFields recibe pares nombre, valor.
func requireFields(mode TransportMode, pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("transporte %s: campos requeridos: %s", mode, strings.Join(missing, ", "))
	}
	return nil
}

// DecodeTransport construye la variante para mode a partir de su JSON de detalles.
// Un mode vacío equivale a TransportNone.
func DecodeTransport(mode TransportMode, details []byte) (Transport, error) {
	var t Transport
	switch mode {
	case "", TransportNone:
		return NoTransport{}, nil
	case TransportCourier:
		t = &CourierTransport{}
	case TransportOwnVehicle:
		t = &OwnVehicleTransport{}
	case TransportTransporter:
		t = &TransporterTransport{}
	case TransportHandDelivery:
		t = &HandDeliveryTransport{}
	default:
		return nil, fmt.Errorf("modo de transporte desconocido: %q", mode)
	}
	if len(details) > 0 && string(details) != "null" {
		if err := json.Unmarshal(details, t); err != nil {
			return nil, fmt.Errorf("detalles de transporte %s: %w", mode, err)
		}
	}
	return deref(t), nil
}

// EncodeTransport serializa los detalles de t (sin la etiqueta).
func EncodeTransport(t Transport) (TransportMode, []byte, error) {
	if t == nil {
		return TransportNone, []byte("{}"), nil
	}
	if _, ok := t.(NoTransport); ok {
		return TransportNone, []byte("{}"), nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", nil, err
	}
	return t.Mode(), b, nil
}

func deref(t Transport) Transport {
	switch v := t.(type) {
	case *CourierTransport:
		return *v
	case *OwnVehicleTransport:
		return *v
	case *TransporterTransport:
		return *v
	case *HandDeliveryTransport:
		return *v
	}
	return t
}
