package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	appinventory "github.com/tu-usuario/dental-lab-api/internal/application/inventory"
	"github.com/tu-usuario/dental-lab-api/internal/application/worksheet"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
)

// Ensure TxRunner implements worksheet.TxRunner and inventory.TxRunner.
var _ worksheet.TxRunner = (*TxRunner)(nil)
var _ appinventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del motor de hojas atados
// a la tx y hace Commit o Rollback. El error de fn sube sin envolver: el caller
// conserva los sentinelas de dominio intactos.
func (r *TxRunner) Run(ctx context.Context, fn func(repos worksheet.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := worksheet.TxRepos{
		Worksheets: NewWorksheetRepository(tx),
		Orders:     NewOrderRepository(tx),
		Teeth:      NewWorksheetToothRepository(tx),
		Items:      NewWorksheetProductRepository(tx),
		Plans:      NewWorksheetMaterialRepository(tx),
		Materials:  NewMaterialRepository(tx),
		Products:   NewProductRepository(tx),
		Lots:       NewMaterialLotRepository(tx),
		Audit:      NewAuditLogRepository(tx),
		Sequences:  NewSequenceRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInventory inicia una transacción con los repos del ledger de lotes (para
// llegadas, recalls, restauraciones y el barrido de caducidad).
func (r *TxRunner) RunInventory(ctx context.Context, fn func(
	lotRepo repository.MaterialLotRepository,
	materialRepo repository.MaterialRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewMaterialLotRepository(tx), NewMaterialRepository(tx), NewAuditLogRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
