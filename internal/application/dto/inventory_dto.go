package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterLotRequest registra la llegada de un lote físico.
type RegisterLotRequest struct {
	MaterialID  string          `json:"material_id"`
	LotNumber   string          `json:"lot_number"`
	ArrivalDate time.Time       `json:"arrival_date"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// LotStatusRequest acción manual sobre un lote (recall, restauración) con motivo.
type LotStatusRequest struct {
	Reason string `json:"reason"`
}

// LotResponse representación de un lote para la capa HTTP.
type LotResponse struct {
	ID                string          `json:"id"`
	MaterialID        string          `json:"material_id"`
	LotNumber         string          `json:"lot_number"`
	ArrivalDate       time.Time       `json:"arrival_date"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	QuantityReceived  decimal.Decimal `json:"quantity_received"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	Status            string          `json:"status"`
}

// CreateMaterialRequest alta mínima de material en el catálogo.
type CreateMaterialRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}
