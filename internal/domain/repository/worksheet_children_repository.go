package repository

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// Puertos de los registros hijos de la hoja de trabajo. La semántica de
// asignación es "reemplazo completo": Replace borra el conjunto anterior e
// inserta el nuevo en la misma transacción.

// WorksheetToothRepository persiste las piezas dentales de la hoja.
type WorksheetToothRepository interface {
	Replace(ctx context.Context, worksheetID string, teeth []*entity.WorksheetTooth) error
	ListByWorksheet(ctx context.Context, worksheetID string) ([]*entity.WorksheetTooth, error)
}

// WorksheetProductRepository persiste las líneas de producto de la hoja.
type WorksheetProductRepository interface {
	Replace(ctx context.Context, worksheetID string, items []*entity.WorksheetProduct) error
	ListByWorksheet(ctx context.Context, worksheetID string) ([]*entity.WorksheetProduct, error)
}

// WorksheetMaterialRepository persiste planes y consumos de material. Además del
// reemplazo completo durante la edición, expone el reemplazo individual
// plan -> consumo que ejecuta el algoritmo FIFO (Delete + Create en la misma tx).
type WorksheetMaterialRepository interface {
	Replace(ctx context.Context, worksheetID string, plans []*entity.WorksheetMaterial) error
	ListByWorksheet(ctx context.Context, worksheetID string) ([]*entity.WorksheetMaterial, error)
	// ListPlanned devuelve solo los registros de planificación (lot_id IS NULL).
	ListPlanned(ctx context.Context, worksheetID string) ([]*entity.WorksheetMaterial, error)
	Create(ctx context.Context, rec *entity.WorksheetMaterial) error
	Delete(ctx context.Context, id string) error
}
