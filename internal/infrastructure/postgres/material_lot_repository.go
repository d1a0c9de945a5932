package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

var _ repository.MaterialLotRepository = (*MaterialLotRepo)(nil)

const lotColumns = `id, material_id, lot_number, arrival_date, expiry_date,
	quantity_received, quantity_available, status, created_at, updated_at`

// MaterialLotRepo implementación del ledger de lotes sobre PostgreSQL
// (usable con pool o tx).
type MaterialLotRepo struct {
	q Querier
}

// NewMaterialLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialLotRepository(q Querier) *MaterialLotRepo {
	return &MaterialLotRepo{q: q}
}

// Create persiste el lote.
func (r *MaterialLotRepo) Create(ctx context.Context, lot *entity.MaterialLot) error {
	const q = `
		INSERT INTO material_lots
			(id, material_id, lot_number, arrival_date, expiry_date,
			 quantity_received, quantity_available, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.q.Exec(ctx, q,
		lot.ID, lot.MaterialID, lot.LotNumber, lot.ArrivalDate, lot.ExpiryDate,
		lot.QuantityReceived, lot.QuantityAvailable, lot.Status, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lot number already exists for material: %w", err)
		}
		return fmt.Errorf("insert material_lot: %w", err)
	}
	return nil
}

// GetByID obtiene el lote; nil si no existe.
func (r *MaterialLotRepo) GetByID(ctx context.Context, id string) (*entity.MaterialLot, error) {
	q := `SELECT ` + lotColumns + ` FROM material_lots WHERE id = $1`
	lot, err := scanLot(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material_lot: %w", err)
	}
	return lot, nil
}

// GetByIDForUpdate obtiene el lote con la fila bloqueada (SELECT FOR UPDATE).
func (r *MaterialLotRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.MaterialLot, error) {
	q := `SELECT ` + lotColumns + ` FROM material_lots WHERE id = $1 FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material_lot for update: %w", err)
	}
	return lot, nil
}

// ListEligibleForUpdate devuelve los candidatos FIFO del material con las filas
// bloqueadas (SELECT FOR UPDATE), en el orden determinista del algoritmo:
// fecha de llegada ascendente, desempate por ID. Dos consumidores concurrentes
// del mismo material se serializan aquí: el segundo ve el stock ya descontado.
func (r *MaterialLotRepo) ListEligibleForUpdate(ctx context.Context, materialID string, today time.Time) ([]*entity.MaterialLot, error) {
	q := `SELECT ` + lotColumns + `
		FROM material_lots
		WHERE material_id = $1
		  AND status = $2
		  AND quantity_available > 0
		  AND (expiry_date IS NULL OR expiry_date >= $3)
		ORDER BY arrival_date ASC, id ASC
		FOR UPDATE`
	rows, err := r.q.Query(ctx, q, materialID, entity.LotStatusAvailable, today)
	if err != nil {
		return nil, fmt.Errorf("list eligible lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.MaterialLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material_lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// Update persiste cantidad disponible y estado. El decremento y el paso a
// DEPLETED viajan en el mismo UPDATE.
func (r *MaterialLotRepo) Update(ctx context.Context, lot *entity.MaterialLot) error {
	const q = `
		UPDATE material_lots
		SET quantity_available = $2, status = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, q, lot.ID, lot.QuantityAvailable, lot.Status, lot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update material_lot: %w", err)
	}
	return nil
}

// ListByMaterial devuelve los lotes del material en orden FIFO.
func (r *MaterialLotRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.MaterialLot, error) {
	q := `SELECT ` + lotColumns + ` FROM material_lots WHERE material_id = $1 ORDER BY arrival_date ASC, id ASC`
	rows, err := r.q.Query(ctx, q, materialID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.MaterialLot
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material_lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// ExpireAvailableBefore marca EXPIRED los lotes AVAILABLE con caducidad vencida;
// devuelve cuántas filas cambió.
func (r *MaterialLotRepo) ExpireAvailableBefore(ctx context.Context, today time.Time) (int64, error) {
	const q = `
		UPDATE material_lots
		SET status = $1, updated_at = now()
		WHERE status = $2 AND expiry_date IS NOT NULL AND expiry_date < $3`
	tag, err := r.q.Exec(ctx, q, entity.LotStatusExpired, entity.LotStatusAvailable, today)
	if err != nil {
		return 0, fmt.Errorf("expire lots: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanLot(row pgxScanner) (*entity.MaterialLot, error) {
	var lot entity.MaterialLot
	err := row.Scan(
		&lot.ID, &lot.MaterialID, &lot.LotNumber, &lot.ArrivalDate, &lot.ExpiryDate,
		&lot.QuantityReceived, &lot.QuantityAvailable, &lot.Status, &lot.CreatedAt, &lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lot, nil
}
