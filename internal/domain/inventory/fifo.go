// Package inventory contiene la lógica pura de selección FIFO de lotes.
// La parte transaccional (bloqueo de filas, decremento, reemplazo del registro
// de planificación) vive en el motor y en los repositorios Postgres.
package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// SortFIFO ordena los lotes por fecha de llegada ascendente, desempatando por ID
// de lote ascendente (orden determinista). Los repositorios Postgres aplican el
// mismo orden con ORDER BY; esta función lo garantiza para candidatos en memoria.
func SortFIFO(lots []*entity.MaterialLot) {
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].ArrivalDate.Equal(lots[j].ArrivalDate) {
			return lots[i].ID < lots[j].ID
		}
		return lots[i].ArrivalDate.Before(lots[j].ArrivalDate)
	})
}

// SelectLot recorre los candidatos en orden FIFO y devuelve el PRIMER lote cuya
// cantidad disponible cubre por completo la requerida, o nil si ninguno alcanza.
//
// Política deliberada de un-solo-lote-por-requerimiento: un requerimiento no se
// parte entre varios lotes aunque la suma alcanzara, porque el registro de
// consumo referencia exactamente un lote (semántica de trazabilidad). Si ningún
// lote individual alcanza, el consumo falla con stock insuficiente.
func SelectLot(candidates []*entity.MaterialLot, required decimal.Decimal) *entity.MaterialLot {
	for _, lot := range candidates {
		if lot.QuantityAvailable.GreaterThanOrEqual(required) {
			return lot
		}
	}
	return nil
}
