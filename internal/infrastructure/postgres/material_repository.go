package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, code, name, unit, created_at, updated_at`

// MaterialRepo implementación del catálogo de materias primas sobre PostgreSQL.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

func scanMaterial(row pgxScanner) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan material: %w", err)
	}
	return &m, nil
}

// Create inserta un material del catálogo. Código duplicado -> ErrConflict.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	const q = `
		INSERT INTO materials (id, code, name, unit, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.q.Exec(ctx, q, m.ID, m.Code, m.Name, m.Unit, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de material %s ya existe", domain.ErrConflict, m.Code)
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID busca un material por id.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	q := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return scanMaterial(r.q.QueryRow(ctx, q, id))
}

// GetByCode busca un material por código único.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	q := `SELECT ` + materialColumns + ` FROM materials WHERE code = $1`
	return scanMaterial(r.q.QueryRow(ctx, q, code))
}

// List devuelve el catálogo completo ordenado por código.
func (r *MaterialRepo) List(ctx context.Context) ([]*entity.Material, error) {
	q := `SELECT ` + materialColumns + ` FROM materials ORDER BY code`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
