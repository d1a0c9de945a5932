package repository

import "context"

// Series de numeración conocidas.
const SeriesWorksheetNumber = "worksheet_number"

// SequenceRepository genera consecutivos por serie lógica. Next debe ejecutarse
// dentro de la transacción que crea la entidad numerada: así cada valor devuelto
// es único y estrictamente creciente en orden de commit, y solo un rollback deja
// hueco (el contador nunca se confirma de forma independiente).
type SequenceRepository interface {
	Next(ctx context.Context, seriesKey string) (int64, error)
}
