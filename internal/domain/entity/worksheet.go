package entity

import "time"

// Estados del ciclo de vida de una hoja de trabajo. El grafo de transiciones
// permitidas y los roles autorizados viven en internal/domain/workflow.
const (
	WorksheetStatusEditable      = "EDITABLE"       // estado inicial: admite asignación de dientes/productos/materiales
	WorksheetStatusInProduction  = "IN_PRODUCTION"  // materiales consumidos, fabricación en curso
	WorksheetStatusPendingReview = "PENDING_REVIEW" // fabricación terminada, a la espera de control de calidad
	WorksheetStatusApproved      = "APPROVED"       // calidad aprobó; documento de conformidad solicitado
	WorksheetStatusRejected      = "REJECTED"       // calidad rechazó; puede volver a producción o cancelarse
	WorksheetStatusCompleted     = "COMPLETED"      // terminal: entregada
	WorksheetStatusCancelled     = "CANCELLED"      // terminal: cancelada por el flujo de trabajo
	WorksheetStatusVoided        = "VOIDED"         // terminal: anulación administrativa (corrección)
)

// Worksheet (hoja de trabajo) es el registro del dispositivo fabricado: una hoja por
// orden activa, numerada secuencialmente y conducida por la máquina de estados del
// motor de ciclo de vida. Nunca se borra físicamente: los estados terminales
// CANCELLED y VOIDED se retienen indefinidamente por trazabilidad regulatoria;
// DeletedAt solo puede marcarse mientras la hoja sigue en EDITABLE.
type Worksheet struct {
	ID            string
	OrderID       string
	Number        string // consecutivo legible (ej: "HT-000123"), derivado de la serie worksheet_number
	Revision      int    // reemisión para la misma orden; inicia en 1 y es estrictamente creciente
	Status        string
	PatientRef    string // referencia anónima al paciente (historia clínica del cliente)
	Shade         string // tono/color de la prótesis
	Notes         string // metadatos libres de fabricación
	ManufactureAt *time.Time
	CompletedAt   *time.Time
	DeletedAt     *time.Time
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Active indica si la hoja cuenta para la regla "una hoja activa por orden":
// no borrada, no cancelada y no anulada. Una hoja COMPLETED sigue activa: la
// orden ya se cumplió y no admite reemisión.
func (w *Worksheet) Active() bool {
	return w.DeletedAt == nil &&
		w.Status != WorksheetStatusCancelled &&
		w.Status != WorksheetStatusVoided
}
