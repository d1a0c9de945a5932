package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

// Adaptadores de los registros hijos de la hoja. Replace borra el conjunto
// anterior e inserta el nuevo: la atomicidad la da la transacción del caller.

var _ repository.WorksheetToothRepository = (*WorksheetToothRepo)(nil)
var _ repository.WorksheetProductRepository = (*WorksheetProductRepo)(nil)
var _ repository.WorksheetMaterialRepository = (*WorksheetMaterialRepo)(nil)

// ── dientes ───────────────────────────────────────────────────────────────────

// WorksheetToothRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorksheetToothRepo struct {
	q Querier
}

// NewWorksheetToothRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorksheetToothRepository(q Querier) *WorksheetToothRepo {
	return &WorksheetToothRepo{q: q}
}

// Replace reemplaza el odontograma completo de la hoja.
func (r *WorksheetToothRepo) Replace(ctx context.Context, worksheetID string, teeth []*entity.WorksheetTooth) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM worksheet_teeth WHERE worksheet_id = $1`, worksheetID); err != nil {
		return fmt.Errorf("delete worksheet_teeth: %w", err)
	}
	const q = `INSERT INTO worksheet_teeth (id, worksheet_id, tooth_code, created_at) VALUES ($1,$2,$3,$4)`
	for _, t := range teeth {
		if _, err := r.q.Exec(ctx, q, t.ID, t.WorksheetID, t.ToothCode, t.CreatedAt); err != nil {
			return fmt.Errorf("insert worksheet_tooth: %w", err)
		}
	}
	return nil
}

// ListByWorksheet devuelve las piezas de la hoja.
func (r *WorksheetToothRepo) ListByWorksheet(ctx context.Context, worksheetID string) ([]*entity.WorksheetTooth, error) {
	const q = `SELECT id, worksheet_id, tooth_code, created_at FROM worksheet_teeth WHERE worksheet_id = $1 ORDER BY tooth_code`
	rows, err := r.q.Query(ctx, q, worksheetID)
	if err != nil {
		return nil, fmt.Errorf("list worksheet_teeth: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorksheetTooth
	for rows.Next() {
		var t entity.WorksheetTooth
		if err := rows.Scan(&t.ID, &t.WorksheetID, &t.ToothCode, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan worksheet_tooth: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ── productos ─────────────────────────────────────────────────────────────────

// WorksheetProductRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorksheetProductRepo struct {
	q Querier
}

// NewWorksheetProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorksheetProductRepository(q Querier) *WorksheetProductRepo {
	return &WorksheetProductRepo{q: q}
}

// Replace reemplaza las líneas de producto completas de la hoja.
func (r *WorksheetProductRepo) Replace(ctx context.Context, worksheetID string, items []*entity.WorksheetProduct) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM worksheet_products WHERE worksheet_id = $1`, worksheetID); err != nil {
		return fmt.Errorf("delete worksheet_products: %w", err)
	}
	const q = `INSERT INTO worksheet_products (id, worksheet_id, product_id, quantity, note, created_at) VALUES ($1,$2,$3,$4,$5,$6)`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, q, it.ID, it.WorksheetID, it.ProductID, it.Quantity, it.Note, it.CreatedAt); err != nil {
			return fmt.Errorf("insert worksheet_product: %w", err)
		}
	}
	return nil
}

// ListByWorksheet devuelve las líneas de producto de la hoja.
func (r *WorksheetProductRepo) ListByWorksheet(ctx context.Context, worksheetID string) ([]*entity.WorksheetProduct, error) {
	const q = `SELECT id, worksheet_id, product_id, quantity, note, created_at FROM worksheet_products WHERE worksheet_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, q, worksheetID)
	if err != nil {
		return nil, fmt.Errorf("list worksheet_products: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorksheetProduct
	for rows.Next() {
		var it entity.WorksheetProduct
		if err := rows.Scan(&it.ID, &it.WorksheetID, &it.ProductID, &it.Quantity, &it.Note, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan worksheet_product: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ── materiales (planes y consumos) ────────────────────────────────────────────

const worksheetMaterialColumns = `id, worksheet_id, material_id, lot_id, quantity, note, created_at`

// WorksheetMaterialRepo implementación sobre PostgreSQL (usable con pool o tx).
type WorksheetMaterialRepo struct {
	q Querier
}

// NewWorksheetMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorksheetMaterialRepository(q Querier) *WorksheetMaterialRepo {
	return &WorksheetMaterialRepo{q: q}
}

// Replace reemplaza los planes completos de la hoja (solo durante edición, donde
// lot_id es siempre NULL).
func (r *WorksheetMaterialRepo) Replace(ctx context.Context, worksheetID string, plans []*entity.WorksheetMaterial) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM worksheet_materials WHERE worksheet_id = $1`, worksheetID); err != nil {
		return fmt.Errorf("delete worksheet_materials: %w", err)
	}
	for _, p := range plans {
		if err := r.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Create inserta un registro (plan o consumo).
func (r *WorksheetMaterialRepo) Create(ctx context.Context, rec *entity.WorksheetMaterial) error {
	const q = `
		INSERT INTO worksheet_materials (id, worksheet_id, material_id, lot_id, quantity, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.q.Exec(ctx, q, rec.ID, rec.WorksheetID, rec.MaterialID, rec.LotID, rec.Quantity, rec.Note, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert worksheet_material: %w", err)
	}
	return nil
}

// Delete elimina un registro individual (reemplazo plan -> consumo).
func (r *WorksheetMaterialRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM worksheet_materials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete worksheet_material: %w", err)
	}
	return nil
}

// ListByWorksheet devuelve todos los registros de material de la hoja.
func (r *WorksheetMaterialRepo) ListByWorksheet(ctx context.Context, worksheetID string) ([]*entity.WorksheetMaterial, error) {
	q := `SELECT ` + worksheetMaterialColumns + ` FROM worksheet_materials WHERE worksheet_id = $1 ORDER BY created_at`
	return r.list(ctx, q, worksheetID)
}

// ListPlanned devuelve solo los registros de planificación (lot_id IS NULL).
func (r *WorksheetMaterialRepo) ListPlanned(ctx context.Context, worksheetID string) ([]*entity.WorksheetMaterial, error) {
	q := `SELECT ` + worksheetMaterialColumns + ` FROM worksheet_materials WHERE worksheet_id = $1 AND lot_id IS NULL ORDER BY created_at`
	return r.list(ctx, q, worksheetID)
}

func (r *WorksheetMaterialRepo) list(ctx context.Context, q string, args ...any) ([]*entity.WorksheetMaterial, error) {
	rows, err := r.q.Query(ctx, q, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("list worksheet_materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorksheetMaterial
	for rows.Next() {
		var m entity.WorksheetMaterial
		if err := rows.Scan(&m.ID, &m.WorksheetID, &m.MaterialID, &m.LotID, &m.Quantity, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan worksheet_material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
