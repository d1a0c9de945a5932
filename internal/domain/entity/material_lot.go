package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de material. Las transiciones son unidireccionales salvo la
// restauración RECALLED|EXPIRED -> AVAILABLE, que es una acción correctiva
// explícita (nunca automática) y queda auditada con motivo obligatorio.
const (
	LotStatusAvailable = "AVAILABLE"
	LotStatusDepleted  = "DEPLETED" // QuantityAvailable llegó exactamente a 0 por consumo
	LotStatusExpired   = "EXPIRED"
	LotStatusRecalled  = "RECALLED"
)

// MaterialLot es un lote físico de materia prima con trazabilidad propia.
// Invariantes: 0 <= QuantityAvailable <= QuantityReceived; el orden FIFO se define
// por ArrivalDate ascendente con desempate por ID de lote.
type MaterialLot struct {
	ID                string
	MaterialID        string
	LotNumber         string // número de lote del fabricante
	ArrivalDate       time.Time
	ExpiryDate        *time.Time // nil = no caduca
	QuantityReceived  decimal.Decimal
	QuantityAvailable decimal.Decimal
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Eligible indica si el lote puede ser candidato FIFO hoy: disponible, con
// cantidad positiva y sin caducar.
func (l *MaterialLot) Eligible(today time.Time) bool {
	if l.Status != LotStatusAvailable || !l.QuantityAvailable.GreaterThan(decimal.Zero) {
		return false
	}
	if l.ExpiryDate != nil && l.ExpiryDate.Before(today) {
		return false
	}
	return true
}
