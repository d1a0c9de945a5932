package entity

import "time"

// Material representa una materia prima del catálogo (aleación, cerámica, resina).
// El stock físico se administra por lotes en MaterialLot; aquí solo vive la
// referencia que valida planes de consumo y entradas de lote.
type Material struct {
	ID        string
	Code      string // código único (ej: "CR-CO-01")
	Name      string
	Unit      string // unidad de medida: g, ml, unidad
	CreatedAt time.Time
	UpdatedAt time.Time
}
