package entity

import "time"

// WorksheetTooth registra una pieza dental (notación FDI de dos dígitos) cubierta
// por la hoja de trabajo. El conjunto se reemplaza completo en cada asignación.
type WorksheetTooth struct {
	ID          string
	WorksheetID string
	ToothCode   string // FDI: "11".."48" permanentes, "51".."85" temporales
	CreatedAt   time.Time
}
