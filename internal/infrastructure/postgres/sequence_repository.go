package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo genera consecutivos por serie sobre una tabla de contadores.
// El upsert incrementa y devuelve en una sola sentencia: el bloqueo de fila de
// PostgreSQL serializa a los llamadores concurrentes de la misma serie, y como
// Next corre dentro de la transacción del llamador el contador solo se confirma
// junto con la entidad numerada (sin huecos salvo rollback).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar siempre la tx del caller.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente valor de la serie (el primero es 1).
func (r *SequenceRepo) Next(ctx context.Context, seriesKey string) (int64, error) {
	const q = `
		INSERT INTO sequences (series_key, current_value)
		VALUES ($1, 1)
		ON CONFLICT (series_key) DO UPDATE
		SET current_value = sequences.current_value + 1
		RETURNING current_value`
	var next int64
	if err := r.q.QueryRow(ctx, q, seriesKey).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", seriesKey, err)
	}
	return next, nil
}
