package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	const q = `
		INSERT INTO orders (id, number, client_ref, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.q.Exec(ctx, q, o.ID, o.Number, o.ClientRef, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene la orden; nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	const q = `SELECT id, number, client_ref, status, created_at, updated_at FROM orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByIDForUpdate obtiene la orden con la fila bloqueada (SELECT FOR UPDATE):
// serializa la regla de "una hoja activa por orden" entre creadores concurrentes.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	const q = `SELECT id, number, client_ref, status, created_at, updated_at FROM orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// UpdateStatus mueve el estado de la orden.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const q = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// List devuelve las órdenes.
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	const q = `SELECT id, number, client_ref, status, created_at, updated_at FROM orders ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.Number, &o.ClientRef, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}
