package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWorksheetRequest crea una hoja de trabajo para una orden.
type CreateWorksheetRequest struct {
	OrderID    string `json:"order_id"`
	PatientRef string `json:"patient_ref"`
	Shade      string `json:"shade"`
	Notes      string `json:"notes"`
}

// AssignTeethRequest reemplaza el odontograma completo de la hoja.
type AssignTeethRequest struct {
	ToothCodes []string `json:"tooth_codes"` // notación FDI, ej: ["11","12","21"]
}

// ProductLine línea de producto para AssignProducts.
type ProductLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note"`
}

// AssignProductsRequest reemplaza las líneas de producto completas de la hoja.
type AssignProductsRequest struct {
	Items []ProductLine `json:"items"`
}

// MaterialPlanLine plan de consumo de material para AssignMaterials.
type MaterialPlanLine struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Note       string          `json:"note"`
}

// AssignMaterialsRequest reemplaza los planes de material completos de la hoja.
type AssignMaterialsRequest struct {
	Plans []MaterialPlanLine `json:"plans"`
}

// TransitionRequest solicita una transición de estado.
type TransitionRequest struct {
	Target string `json:"target"`
	Notes  string `json:"notes"`
}

// WorksheetResponse representación de la hoja para la capa HTTP.
type WorksheetResponse struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"order_id"`
	Number        string     `json:"number"`
	Revision      int        `json:"revision"`
	Status        string     `json:"status"`
	PatientRef    string     `json:"patient_ref"`
	Shade         string     `json:"shade,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ManufactureAt *time.Time `json:"manufacture_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TraceabilityRow una fila de la vista de trazabilidad de materiales: material,
// lote consumido (si ya se consumió) y banderas de cumplimiento.
type TraceabilityRow struct {
	MaterialCode string          `json:"material_code"`
	MaterialName string          `json:"material_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	LotNumber    string          `json:"lot_number,omitempty"` // vacío = plan sin consumir
	ArrivalDate  *time.Time      `json:"arrival_date,omitempty"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty"`
	LotStatus    string          `json:"lot_status,omitempty"`
	NotConsumed  bool            `json:"not_consumed"`
	LotExpired   bool            `json:"lot_expired"`
	LotRecalled  bool            `json:"lot_recalled"`
}

// TraceabilityResponse vista completa de trazabilidad de una hoja.
type TraceabilityResponse struct {
	WorksheetID     string            `json:"worksheet_id"`
	WorksheetNumber string            `json:"worksheet_number"`
	Status          string            `json:"status"`
	Rows            []TraceabilityRow `json:"rows"`
}
