package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditables. Cada mutación lógica produce exactamente una entrada
// (las cancelaciones que también tocan la orden producen una segunda entrada
// para la orden).
const (
	AuditWorksheetCreated           = "WORKSHEET_CREATED"
	AuditWorksheetTeethAssigned     = "WORKSHEET_TEETH_ASSIGNED"
	AuditWorksheetProductsAssigned  = "WORKSHEET_PRODUCTS_ASSIGNED"
	AuditWorksheetMaterialsAssigned = "WORKSHEET_MATERIALS_ASSIGNED"
	AuditWorksheetStatusChanged     = "WORKSHEET_STATUS_CHANGED"
	AuditWorksheetDeleted           = "WORKSHEET_DELETED"
	AuditOrderAssigned              = "ORDER_ASSIGNED"
	AuditOrderStatusReset           = "ORDER_STATUS_RESET"
	AuditDocumentRequested          = "DOCUMENT_REQUESTED"
	AuditLotArrived                 = "LOT_ARRIVED"
	AuditLotRecalled                = "LOT_RECALLED"
	AuditLotExpired                 = "LOT_EXPIRED"
	AuditLotRestored                = "LOT_RESTORED"
	AuditLotExpirySweep             = "LOT_EXPIRY_SWEEP"
)

// Tipos de entidad auditada.
const (
	AuditEntityWorksheet = "worksheet"
	AuditEntityOrder     = "order"
	AuditEntityLot       = "material_lot"
)

// AuditLog es un hecho inmutable sobre una mutación: quién, qué, antes/después y
// por qué. La tabla es append-only y la entrada se escribe siempre en la misma
// transacción que la mutación que describe.
type AuditLog struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	OldValue   json.RawMessage // snapshot previo; nil en creaciones
	NewValue   json.RawMessage
	Reason     string
	CreatedAt  time.Time
}
