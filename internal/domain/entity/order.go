package entity

import "time"

// Estados de la orden relevantes para el motor. La gestión completa de órdenes
// (clientes, precios, entregas) es un colaborador externo; el motor solo lee la
// existencia de la orden y mueve su estado al asignar o cancelar la hoja.
const (
	OrderStatusReceived   = "RECEIVED"    // recibida, sin hoja de trabajo asignada
	OrderStatusInProgress = "IN_PROGRESS" // con hoja de trabajo activa
)

// Order representa la orden del cliente (caso clínico) a la que pertenece la hoja.
type Order struct {
	ID        string
	Number    string // referencia externa del cliente
	ClientRef string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
