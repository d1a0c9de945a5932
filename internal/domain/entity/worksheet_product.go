package entity

import "time"

// WorksheetProduct es una línea de producto (tipo de prótesis o servicio del
// catálogo) asignada a la hoja de trabajo. Reemplazo completo en cada asignación.
type WorksheetProduct struct {
	ID          string
	WorksheetID string
	ProductID   string
	Quantity    int
	Note        string
	CreatedAt   time.Time
}
