package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorksheetMaterial vincula una hoja de trabajo con un material y, una vez
// consumido, con el lote exacto del que salió.
//
// LotID == nil significa "planificado, aún sin consumir": mientras la hoja está en
// EDITABLE todos los registros son de planificación. Al entrar a IN_PRODUCTION el
// consumo FIFO reemplaza cada registro de planificación por uno de consumo con
// LotID asignado (todo o nada: si un material no alcanza, ningún registro cambia).
type WorksheetMaterial struct {
	ID          string
	WorksheetID string
	MaterialID  string
	LotID       *string
	Quantity    decimal.Decimal
	Note        string
	CreatedAt   time.Time
}

// Consumed indica si el registro ya referencia un lote concreto.
func (m *WorksheetMaterial) Consumed() bool { return m.LotID != nil }
