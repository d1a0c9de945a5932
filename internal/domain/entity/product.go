package entity

import "time"

// Product es un tipo de prótesis o servicio del catálogo (corona, puente, férula).
// El catálogo completo (precios, clientes) es CRUD de referencia fuera del motor;
// aquí solo se necesita la referencia para validar líneas de la hoja.
type Product struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
