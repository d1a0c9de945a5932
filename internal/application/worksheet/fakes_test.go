package worksheet_test

import (
	"context"
	"sort"
	"time"

	"github.com/tu-usuario/dental-lab-api/internal/application/dto"
	"github.com/tu-usuario/dental-lab-api/internal/application/worksheet"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
	domaininv "github.com/tu-usuario/dental-lab-api/internal/domain/inventory"
	"github.com/tu-usuario/dental-lab-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de repositorio.
//
// El fakeTxRunner imita la semántica transaccional real: clona el estado antes
// de ejecutar el callback y lo restaura completo si este devuelve error. Así los
// tests pueden afirmar "ningún escrito parcial sobrevive a un fallo" igual que
// con un ROLLBACK de verdad.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	worksheets map[string]*entity.Worksheet
	orders     map[string]*entity.Order
	teeth      map[string][]*entity.WorksheetTooth
	items      map[string][]*entity.WorksheetProduct
	plans      map[string]*entity.WorksheetMaterial // por ID de registro
	materials  map[string]*entity.Material
	products   map[string]*entity.Product
	lots       map[string]*entity.MaterialLot
	audit      []*entity.AuditLog
	sequences  map[string]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		worksheets: map[string]*entity.Worksheet{},
		orders:     map[string]*entity.Order{},
		teeth:      map[string][]*entity.WorksheetTooth{},
		items:      map[string][]*entity.WorksheetProduct{},
		plans:      map[string]*entity.WorksheetMaterial{},
		materials:  map[string]*entity.Material{},
		products:   map[string]*entity.Product{},
		lots:       map[string]*entity.MaterialLot{},
		sequences:  map[string]int64{},
	}
}

// clone copia el estado completo. Los getters devuelven copias de structs, así
// que basta con clonar los mapas y las entradas.
func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.worksheets {
		cp := *v
		c.worksheets[k] = &cp
	}
	for k, v := range s.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for k, v := range s.teeth {
		c.teeth[k] = append([]*entity.WorksheetTooth(nil), v...)
	}
	for k, v := range s.items {
		c.items[k] = append([]*entity.WorksheetProduct(nil), v...)
	}
	for k, v := range s.plans {
		cp := *v
		c.plans[k] = &cp
	}
	for k, v := range s.materials {
		cp := *v
		c.materials[k] = &cp
	}
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.lots {
		cp := *v
		c.lots[k] = &cp
	}
	c.audit = append([]*entity.AuditLog(nil), s.audit...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

func (s *fakeStore) restore(from *fakeStore) { *s = *from }

func (s *fakeStore) repos() worksheet.TxRepos {
	return worksheet.TxRepos{
		Worksheets: &fakeWorksheetRepo{s},
		Orders:     &fakeOrderRepo{s},
		Teeth:      &fakeToothRepo{s},
		Items:      &fakeItemRepo{s},
		Plans:      &fakePlanRepo{s},
		Materials:  &fakeMaterialRepo{s},
		Products:   &fakeProductRepo{s},
		Lots:       &fakeLotRepo{s},
		Audit:      &fakeAuditRepo{s},
		Sequences:  &fakeSequenceRepo{s},
	}
}

// auditByAction filtra las entradas por acción (para contar entradas exactas).
func (s *fakeStore) auditByAction(action string) []*entity.AuditLog {
	var out []*entity.AuditLog
	for _, e := range s.audit {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(worksheet.TxRepos) error) error {
	backup := r.store.clone()
	if err := fn(r.store.repos()); err != nil {
		r.store.restore(backup)
		return err
	}
	return nil
}

// ── worksheets ────────────────────────────────────────────────────────────────

type fakeWorksheetRepo struct{ s *fakeStore }

func (r *fakeWorksheetRepo) Create(_ context.Context, ws *entity.Worksheet) error {
	cp := *ws
	r.s.worksheets[ws.ID] = &cp
	return nil
}

func (r *fakeWorksheetRepo) GetByID(_ context.Context, id string) (*entity.Worksheet, error) {
	ws, ok := r.s.worksheets[id]
	if !ok {
		return nil, nil
	}
	cp := *ws
	return &cp, nil
}

func (r *fakeWorksheetRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Worksheet, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeWorksheetRepo) GetActiveByOrder(_ context.Context, orderID string) (*entity.Worksheet, error) {
	for _, ws := range r.s.worksheets {
		if ws.OrderID == orderID && ws.Active() {
			cp := *ws
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeWorksheetRepo) MaxRevisionByOrder(_ context.Context, orderID string) (int, error) {
	maxRev := 0
	for _, ws := range r.s.worksheets {
		if ws.OrderID == orderID && ws.Revision > maxRev {
			maxRev = ws.Revision
		}
	}
	return maxRev, nil
}

func (r *fakeWorksheetRepo) Update(_ context.Context, ws *entity.Worksheet) error {
	cp := *ws
	r.s.worksheets[ws.ID] = &cp
	return nil
}

func (r *fakeWorksheetRepo) List(_ context.Context, includeDeleted bool) ([]*entity.Worksheet, error) {
	var out []*entity.Worksheet
	for _, ws := range r.s.worksheets {
		if !includeDeleted && ws.DeletedAt != nil {
			continue
		}
		cp := *ws
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

// ── orders ────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.Order) error {
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
		o.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeOrderRepo) List(_ context.Context) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

// ── hijos de la hoja ──────────────────────────────────────────────────────────

type fakeToothRepo struct{ s *fakeStore }

func (r *fakeToothRepo) Replace(_ context.Context, worksheetID string, teeth []*entity.WorksheetTooth) error {
	r.s.teeth[worksheetID] = append([]*entity.WorksheetTooth(nil), teeth...)
	return nil
}

func (r *fakeToothRepo) ListByWorksheet(_ context.Context, worksheetID string) ([]*entity.WorksheetTooth, error) {
	return r.s.teeth[worksheetID], nil
}

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) Replace(_ context.Context, worksheetID string, items []*entity.WorksheetProduct) error {
	r.s.items[worksheetID] = append([]*entity.WorksheetProduct(nil), items...)
	return nil
}

func (r *fakeItemRepo) ListByWorksheet(_ context.Context, worksheetID string) ([]*entity.WorksheetProduct, error) {
	return r.s.items[worksheetID], nil
}

type fakePlanRepo struct{ s *fakeStore }

func (r *fakePlanRepo) Replace(_ context.Context, worksheetID string, plans []*entity.WorksheetMaterial) error {
	for id, p := range r.s.plans {
		if p.WorksheetID == worksheetID {
			delete(r.s.plans, id)
		}
	}
	for _, p := range plans {
		cp := *p
		r.s.plans[p.ID] = &cp
	}
	return nil
}

func (r *fakePlanRepo) ListByWorksheet(_ context.Context, worksheetID string) ([]*entity.WorksheetMaterial, error) {
	var out []*entity.WorksheetMaterial
	for _, p := range r.s.plans {
		if p.WorksheetID == worksheetID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlanRepo) ListPlanned(ctx context.Context, worksheetID string) ([]*entity.WorksheetMaterial, error) {
	all, _ := r.ListByWorksheet(ctx, worksheetID)
	var out []*entity.WorksheetMaterial
	for _, p := range all {
		if p.LotID == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Create(_ context.Context, rec *entity.WorksheetMaterial) error {
	cp := *rec
	r.s.plans[rec.ID] = &cp
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id string) error {
	delete(r.s.plans, id)
	return nil
}

// ── catálogos ─────────────────────────────────────────────────────────────────

type fakeMaterialRepo struct{ s *fakeStore }

func (r *fakeMaterialRepo) Create(_ context.Context, m *entity.Material) error {
	cp := *m
	r.s.materials[m.ID] = &cp
	return nil
}

func (r *fakeMaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	m, ok := r.s.materials[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	for _, m := range r.s.materials {
		if m.Code == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMaterialRepo) List(_ context.Context) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.s.materials {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ── lotes ─────────────────────────────────────────────────────────────────────

type fakeLotRepo struct{ s *fakeStore }

func (r *fakeLotRepo) Create(_ context.Context, lot *entity.MaterialLot) error {
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *fakeLotRepo) GetByID(_ context.Context, id string) (*entity.MaterialLot, error) {
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *lot
	return &cp, nil
}

func (r *fakeLotRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.MaterialLot, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeLotRepo) ListEligibleForUpdate(_ context.Context, materialID string, today time.Time) ([]*entity.MaterialLot, error) {
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

func (r *fakeLotRepo) Update(_ context.Context, lot *entity.MaterialLot) error {
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *fakeLotRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.MaterialLot, error) {
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

func (r *fakeLotRepo) ExpireAvailableBefore(_ context.Context, today time.Time) (int64, error) {
	var n int64
	for _, lot := range r.s.lots {
		if lot.Status == entity.LotStatusAvailable && lot.ExpiryDate != nil && lot.ExpiryDate.Before(today) {
			lot.Status = entity.LotStatusExpired
			n++
		}
	}
	return n, nil
}

// ── auditoría y secuencias ────────────────────────────────────────────────────

type fakeAuditRepo struct{ s *fakeStore }

func (r *fakeAuditRepo) Append(_ context.Context, e *entity.AuditLog) error {
	cp := *e
	r.s.audit = append(r.s.audit, &cp)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for _, e := range r.s.audit {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSequenceRepo struct{ s *fakeStore }

func (r *fakeSequenceRepo) Next(_ context.Context, seriesKey string) (int64, error) {
	r.s.sequences[seriesKey]++
	return r.s.sequences[seriesKey], nil
}

// ── colaborador de documentos ─────────────────────────────────────────────────

type fakeDocumentWriter struct {
	called chan string // número de la hoja entregada
}

func newFakeDocumentWriter() *fakeDocumentWriter {
	return &fakeDocumentWriter{called: make(chan string, 1)}
}

func (w *fakeDocumentWriter) Write(_ context.Context, ws *entity.Worksheet, _ []dto.TraceabilityRow) error {
	w.called <- ws.Number
	return nil
}

// testLogger logger silencioso para los tests.
func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}
