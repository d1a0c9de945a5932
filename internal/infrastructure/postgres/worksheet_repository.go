package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

var _ repository.WorksheetRepository = (*WorksheetRepo)(nil)

const worksheetColumns = `id, order_id, number, revision, status, patient_ref, shade, notes,
	manufacture_at, completed_at, deleted_at, created_by, created_at, updated_at`

// WorksheetRepo implementación de WorksheetRepository sobre PostgreSQL
// (usable con pool o tx).
type WorksheetRepo struct {
	q Querier
}

// NewWorksheetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorksheetRepository(q Querier) *WorksheetRepo {
	return &WorksheetRepo{q: q}
}

// Create persiste la hoja de trabajo.
func (r *WorksheetRepo) Create(ctx context.Context, ws *entity.Worksheet) error {
	const q = `
		INSERT INTO worksheets
			(id, order_id, number, revision, status, patient_ref, shade, notes,
			 manufacture_at, completed_at, deleted_at, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err := r.q.Exec(ctx, q,
		ws.ID, ws.OrderID, ws.Number, ws.Revision, ws.Status, ws.PatientRef, ws.Shade, ws.Notes,
		ws.ManufactureAt, ws.CompletedAt, ws.DeletedAt, ws.CreatedBy, ws.CreatedAt, ws.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("worksheet number already exists: %w", err)
		}
		return fmt.Errorf("insert worksheet: %w", err)
	}
	return nil
}

// GetByID obtiene la hoja por ID; nil si no existe.
func (r *WorksheetRepo) GetByID(ctx context.Context, id string) (*entity.Worksheet, error) {
	q := `SELECT ` + worksheetColumns + ` FROM worksheets WHERE id = $1`
	ws, err := scanWorksheet(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get worksheet: %w", err)
	}
	return ws, nil
}

// GetByIDForUpdate obtiene la hoja y bloquea la fila (SELECT FOR UPDATE): el
// estado que validará la transición es el estado dentro de esta transacción.
func (r *WorksheetRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Worksheet, error) {
	q := `SELECT ` + worksheetColumns + ` FROM worksheets WHERE id = $1 FOR UPDATE`
	ws, err := scanWorksheet(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get worksheet for update: %w", err)
	}
	return ws, nil
}

// GetActiveByOrder devuelve la hoja activa (no borrada, no cancelada, no
// anulada) de la orden. El predicado debe coincidir con entity.Worksheet.Active.
func (r *WorksheetRepo) GetActiveByOrder(ctx context.Context, orderID string) (*entity.Worksheet, error) {
	q := `SELECT ` + worksheetColumns + `
		FROM worksheets
		WHERE order_id = $1 AND deleted_at IS NULL AND status NOT IN ($2, $3)
		ORDER BY revision DESC
		LIMIT 1`
	ws, err := scanWorksheet(r.q.QueryRow(ctx, q, orderID, entity.WorksheetStatusCancelled, entity.WorksheetStatusVoided))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active worksheet: %w", err)
	}
	return ws, nil
}

// MaxRevisionByOrder devuelve la revisión más alta emitida para la orden (0 si
// ninguna), contando también hojas borradas o anuladas: la revisión nunca se
// reutiliza.
func (r *WorksheetRepo) MaxRevisionByOrder(ctx context.Context, orderID string) (int, error) {
	const q = `SELECT COALESCE(MAX(revision), 0) FROM worksheets WHERE order_id = $1`
	var max int
	if err := r.q.QueryRow(ctx, q, orderID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max revision: %w", err)
	}
	return max, nil
}

// Update persiste estado, sellos de fecha, metadatos y borrado blando.
func (r *WorksheetRepo) Update(ctx context.Context, ws *entity.Worksheet) error {
	const q = `
		UPDATE worksheets
		SET status = $2, patient_ref = $3, shade = $4, notes = $5,
		    manufacture_at = $6, completed_at = $7, deleted_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, q,
		ws.ID, ws.Status, ws.PatientRef, ws.Shade, ws.Notes,
		ws.ManufactureAt, ws.CompletedAt, ws.DeletedAt, ws.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update worksheet: %w", err)
	}
	return nil
}

// List devuelve las hojas, opcionalmente incluyendo las borradas.
func (r *WorksheetRepo) List(ctx context.Context, includeDeleted bool) ([]*entity.Worksheet, error) {
	q := `SELECT ` + worksheetColumns + ` FROM worksheets`
	if !includeDeleted {
		q += ` WHERE deleted_at IS NULL`
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Worksheet
	for rows.Next() {
		ws, err := scanWorksheet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worksheet: %w", err)
		}
		list = append(list, ws)
	}
	return list, rows.Err()
}

func scanWorksheet(row pgxScanner) (*entity.Worksheet, error) {
	var ws entity.Worksheet
	err := row.Scan(
		&ws.ID, &ws.OrderID, &ws.Number, &ws.Revision, &ws.Status, &ws.PatientRef, &ws.Shade, &ws.Notes,
		&ws.ManufactureAt, &ws.CompletedAt, &ws.DeletedAt, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}
