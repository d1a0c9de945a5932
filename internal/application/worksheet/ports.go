package worksheet

import (
	"context"

	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción. El motor toca
// varios agregados por operación (hoja, orden, hijos, lotes, auditoría,
// secuencias), así que el bundle evita un callback con diez parámetros.
type TxRepos struct {
	Worksheets repository.WorksheetRepository
	Orders     repository.OrderRepository
	Teeth      repository.WorksheetToothRepository
	Items      repository.WorksheetProductRepository
	Plans      repository.WorksheetMaterialRepository
	Materials  repository.MaterialRepository
	Products   repository.ProductRepository
	Lots       repository.MaterialLotRepository
	Audit      repository.AuditLogRepository
	Sequences  repository.SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a
// esa tx. Si fn devuelve error se hace Rollback y el error se propaga sin tocar;
// si no, Commit. Garantiza la atomicidad del motor: estado + efectos + auditoría
// en una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}

// ConformityDocumentWriter es el colaborador externo de documentos. El motor lo
// invoca fire-and-forget tras el commit de la transición a APPROVED; un fallo se
// registra en el log y nunca afecta la transición ya confirmada.
type ConformityDocumentWriter interface {
	Write(ctx context.Context, ws *entity.Worksheet, rows []dto.TraceabilityRow) error
}
