package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/application/inventory"
	"github.com/tu-usuario/dental-lab-api/internal/domain"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	domaininv "github.com/tu-usuario/dental-lab-api/internal/domain/inventory"
	"github.com/tu-usuario/dental-lab-api/internal/domain/repository"
	"github.com/tu-usuario/dental-lab-api/pkg/logger"
)

// Fakes mínimos del ledger. El runner ejecuta el callback directo sobre los
// mismos fakes: aquí ningún test necesita observar un rollback parcial, los
// errores ocurren antes de la primera escritura.

type ledgerStore struct {
	lots      map[string]*entity.MaterialLot
	materials map[string]*entity.Material
	audit     []*entity.AuditLog
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{
		lots:      map[string]*entity.MaterialLot{},
		materials: map[string]*entity.Material{},
	}
}

func (s *ledgerStore) auditByAction(action string) []*entity.AuditLog {
	var out []*entity.AuditLog
	for _, e := range s.audit {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type ledgerRunner struct{ s *ledgerStore }

func (r *ledgerRunner) RunInventory(_ context.Context, fn func(
	repository.MaterialLotRepository,
	repository.MaterialRepository,
	repository.AuditLogRepository,
) error) error {
	return fn(&ledgerLotRepo{r.s}, &ledgerMaterialRepo{r.s}, &ledgerAuditRepo{r.s})
}

type ledgerLotRepo struct{ s *ledgerStore }

func (r *ledgerLotRepo) Create(_ context.Context, lot *entity.MaterialLot) error {
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *ledgerLotRepo) GetByID(_ context.Context, id string) (*entity.MaterialLot, error) {
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *lot
	return &cp, nil
}

func (r *ledgerLotRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.MaterialLot, error) {
	return r.GetByID(ctx, id)
}

func (r *ledgerLotRepo) ListEligibleForUpdate(_ context.Context, materialID string, today time.Time) ([]*entity.MaterialLot, error) {
	var out []*entity.MaterialLot
	for _, lot := range r.s.lots {
		if lot.MaterialID == materialID && lot.Eligible(today) {
			cp := *lot
			out = append(out, &cp)
		}
	}
	domaininv.SortFIFO(out)
	return out, nil
}

func (r *ledgerLotRepo) Update(_ context.Context, lot *entity.MaterialLot) error {
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *ledgerLotRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.MaterialLot, error) {
	var out []*entity.MaterialLot
	for _, lot := range r.s.lots {
		if lot.MaterialID == materialID {
			cp := *lot
			out = append(out, &cp)
		}
	}
	domaininv.SortFIFO(out)
	return out, nil
}

func (r *ledgerLotRepo) ExpireAvailableBefore(_ context.Context, today time.Time) (int64, error) {
	var n int64
	for _, lot := range r.s.lots {
		if lot.Status == entity.LotStatusAvailable && lot.ExpiryDate != nil && lot.ExpiryDate.Before(today) {
			lot.Status = entity.LotStatusExpired
			n++
		}
	}
	return n, nil
}

type ledgerMaterialRepo struct{ s *ledgerStore }

func (r *ledgerMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	cp := *m
	r.s.materials[m.ID] = &cp
	return nil
}

func (r *ledgerMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *ledgerMaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	for _, m := range r.s.materials {
		if m.Code == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ledgerMaterialRepo) List(_ context.Context) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.s.materials {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type ledgerAuditRepo struct{ s *ledgerStore }

func (r *ledgerAuditRepo) Append(_ context.Context, e *entity.AuditLog) error {
	cp := *e
	r.s.audit = append(r.s.audit, &cp)
	return nil
}

func (r *ledgerAuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for _, e := range r.s.audit {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newLedger(store *ledgerStore) *inventory.LotUseCase {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return inventory.NewLotUseCase(&ledgerRunner{store}, &ledgerLotRepo{store}, &ledgerMaterialRepo{store}, log)
}

func seedCatalog(store *ledgerStore, id, code string) {
	store.materials[id] = &entity.Material{ID: id, Code: code, Name: "Material " + code, Unit: "g"}
}

func seedLedgerLot(store *ledgerStore, id, materialID, status string, expiry *time.Time) *entity.MaterialLot {
	lot := &entity.MaterialLot{
		ID:                id,
		MaterialID:        materialID,
		LotNumber:         "L-" + id,
		ArrivalDate:       time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		ExpiryDate:        expiry,
		QuantityReceived:  decimal.NewFromInt(10),
		QuantityAvailable: decimal.NewFromInt(10),
		Status:            status,
	}
	store.lots[id] = lot
	return lot
}

// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterArrival_AltaDisponible(t *testing.T) {
	store := newLedgerStore()
	seedCatalog(store, "mat-1", "ZR-01")
	uc := newLedger(store)

	expiry := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	out, err := uc.RegisterArrival(context.Background(), dto.RegisterLotRequest{
		MaterialID:  "mat-1",
		LotNumber:   "ZRX-4411",
		ArrivalDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:  &expiry,
		Quantity:    decimal.NewFromInt(250),
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.LotStatusAvailable, out.Status)
	assert.True(t, out.QuantityAvailable.Equal(out.QuantityReceived), "disponible arranca igual a lo recibido")

	entries := store.auditByAction(entity.AuditLotArrived)
	require.Len(t, entries, 1)
	assert.Contains(t, string(entries[0].NewValue), "ZR-01")
}

func TestRegisterArrival_Validaciones(t *testing.T) {
	store := newLedgerStore()
	seedCatalog(store, "mat-1", "ZR-01")
	uc := newLedger(store)
	ctx := context.Background()
	arrival := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	beforeArrival := arrival.AddDate(0, -1, 0)

	cases := []struct {
		name    string
		in      dto.RegisterLotRequest
		wantErr error
	}{
		{
			"sin material",
			dto.RegisterLotRequest{LotNumber: "L1", Quantity: decimal.NewFromInt(1)},
			domain.ErrInvalidInput,
		},
		{
			"cantidad cero",
			dto.RegisterLotRequest{MaterialID: "mat-1", LotNumber: "L1", Quantity: decimal.Zero},
			domain.ErrInvalidInput,
		},
		{
			"caducidad anterior a la llegada",
			dto.RegisterLotRequest{MaterialID: "mat-1", LotNumber: "L1", ArrivalDate: arrival, ExpiryDate: &beforeArrival, Quantity: decimal.NewFromInt(1)},
			domain.ErrInvalidInput,
		},
		{
			"material inexistente",
			dto.RegisterLotRequest{MaterialID: "mat-fantasma", LotNumber: "L1", Quantity: decimal.NewFromInt(1)},
			domain.ErrInvalidReference,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterArrival(ctx, tc.in, "user-1")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
	assert.Empty(t, store.lots, "ningún alta parcial")
}

func TestRecall_SacaDeCirculacion(t *testing.T) {
	store := newLedgerStore()
	seedCatalog(store, "mat-1", "ZR-01")
	seedLedgerLot(store, "lot-1", "mat-1", entity.LotStatusAvailable, nil)
	uc := newLedger(store)
	ctx := context.Background()

	require.NoError(t, uc.Recall(ctx, "lot-1", "defecto del fabricante", "user-q"))
	assert.Equal(t, entity.LotStatusRecalled, store.lots["lot-1"].Status)

	entries := store.auditByAction(entity.AuditLotRecalled)
	require.Len(t, entries, 1)
	assert.Equal(t, "defecto del fabricante", entries[0].Reason)

	// Ya no es candidato FIFO.
	eligible, err := (&ledgerLotRepo{store}).ListEligibleForUpdate(ctx, "mat-1", time.Now())
	require.NoError(t, err)
	assert.Empty(t, eligible)
}

func TestRecall_ExigeMotivo(t *testing.T) {
	store := newLedgerStore()
	seedLedgerLot(store, "lot-1", "mat-1", entity.LotStatusAvailable, nil)
	uc := newLedger(store)

	err := uc.Recall(context.Background(), "lot-1", "", "user-q")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.LotStatusAvailable, store.lots["lot-1"].Status)
}

func TestRecall_LoteYaRetirado(t *testing.T) {
	store := newLedgerStore()
	seedLedgerLot(store, "lot-1", "mat-1", entity.LotStatusRecalled, nil)
	uc := newLedger(store)

	err := uc.Recall(context.Background(), "lot-1", "otra vez", "user-q")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRestore_AccionCorrectiva(t *testing.T) {
	store := newLedgerStore()
	seedLedgerLot(store, "lot-rec", "mat-1", entity.LotStatusRecalled, nil)
	seedLedgerLot(store, "lot-exp", "mat-1", entity.LotStatusExpired, nil)
	uc := newLedger(store)
	ctx := context.Background()

	require.NoError(t, uc.Restore(ctx, "lot-rec", "retiro emitido por error", "user-adm"))
	require.NoError(t, uc.Restore(ctx, "lot-exp", "caducidad mal capturada", "user-adm"))

	assert.Equal(t, entity.LotStatusAvailable, store.lots["lot-rec"].Status)
	assert.Equal(t, entity.LotStatusAvailable, store.lots["lot-exp"].Status)
	assert.Len(t, store.auditByAction(entity.AuditLotRestored), 2)
}

func TestRestore_SoloDesdeRecalledOExpired(t *testing.T) {
	store := newLedgerStore()
	seedLedgerLot(store, "lot-1", "mat-1", entity.LotStatusDepleted, nil)
	uc := newLedger(store)

	err := uc.Restore(context.Background(), "lot-1", "motivo", "user-adm")
	assert.ErrorIs(t, err, domain.ErrLotNotRestorable)
	assert.Equal(t, entity.LotStatusDepleted, store.lots["lot-1"].Status)
}

func TestRestore_LoteInexistente(t *testing.T) {
	store := newLedgerStore()
	uc := newLedger(store)

	err := uc.Restore(context.Background(), "no-existe", "motivo", "user-adm")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSweepExpired_MarcaYAudita(t *testing.T) {
	store := newLedgerStore()
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Now().AddDate(1, 0, 0)
	seedLedgerLot(store, "lot-vencido", "mat-1", entity.LotStatusAvailable, &past)
	seedLedgerLot(store, "lot-vigente", "mat-1", entity.LotStatusAvailable, &future)
	seedLedgerLot(store, "lot-sin-caducidad", "mat-1", entity.LotStatusAvailable, nil)
	uc := newLedger(store)

	n, err := uc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, entity.LotStatusExpired, store.lots["lot-vencido"].Status)
	assert.Equal(t, entity.LotStatusAvailable, store.lots["lot-vigente"].Status)
	assert.Equal(t, entity.LotStatusAvailable, store.lots["lot-sin-caducidad"].Status)
	assert.Len(t, store.auditByAction(entity.AuditLotExpirySweep), 1)
}

func TestSweepExpired_SinCambiosNoAudita(t *testing.T) {
	store := newLedgerStore()
	seedLedgerLot(store, "lot-1", "mat-1", entity.LotStatusAvailable, nil)
	uc := newLedger(store)

	n, err := uc.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.audit)
}

func TestCreateMaterial_CodigoDuplicado(t *testing.T) {
	store := newLedgerStore()
	seedCatalog(store, "mat-1", "ZR-01")
	uc := newLedger(store)

	_, err := uc.CreateMaterial(context.Background(), dto.CreateMaterialRequest{Code: "ZR-01", Name: "Zirconio"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
