package ingest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/clock"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu sync.Mutex

	items      map[string]*entity.Item
	nextItemID int64

	entries     []*entity.LedgerEntry
	nextEntryID int64

	warehouses  map[int64]*entity.Warehouse
	nextWhID    int64
	byDepositID map[int64]int64

	events      map[int64]*entity.LoadEvent
	nextEventID int64

	// progressLog registra cada UpdateProgress para verificar durabilidad
	// por bloque.
	progressLog []int

	// appendErrAt fuerza un error al insertar el asiento n-ésimo (1-based).
	appendErrAt int
	appended    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:       make(map[string]*entity.Item),
		warehouses:  make(map[int64]*entity.Warehouse),
		byDepositID: make(map[int64]int64),
		events:      make(map[int64]*entity.LoadEvent),
	}
}

// --- ItemRepository ---

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	copied := *item
	r.s.items[item.SKU] = &copied
	return nil
}

func (r *fakeItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item, ok := r.s.items[sku]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, id int64) (*entity.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.items {
		if item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

// --- LedgerRepository (solo los métodos que usa la ingesta) ---

type fakeLedgerRepo struct{ s *fakeStore }

func (r *fakeLedgerRepo) Append(_ context.Context, entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.appended++
	if r.s.appendErrAt > 0 && r.s.appended >= r.s.appendErrAt {
		return fmt.Errorf("insert ledger entry: conexión perdida")
	}
	r.s.nextEntryID++
	entry.ID = r.s.nextEntryID
	entry.LoadedAt = time.Now()
	copied := *entry
	r.s.entries = append(r.s.entries, &copied)
	return nil
}

func (r *fakeLedgerRepo) Latest(_ context.Context, itemID, warehouseID int64) (*entity.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *entity.LedgerEntry
	for _, e := range r.s.entries {
		if e.ItemID != itemID || e.WarehouseID != warehouseID {
			continue
		}
		if latest == nil || e.StockDate.After(latest.StockDate) ||
			(e.StockDate.Equal(latest.StockDate) && e.ID > latest.ID) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeLedgerRepo) ExistsForDate(_ context.Context, itemID, warehouseID int64, stockDate time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.entries {
		if e.ItemID == itemID && e.WarehouseID == warehouseID && e.StockDate.Equal(stockDate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLedgerRepo) BaselineTotals(context.Context, entity.HierarchyCut, time.Time) ([]repository.BaselineRow, error) {
	return nil, nil
}
func (r *fakeLedgerRepo) DailyDeltas(context.Context, entity.HierarchyCut, time.Time, time.Time) ([]repository.DeltaRow, error) {
	return nil, nil
}
func (r *fakeLedgerRepo) Stockouts(context.Context, time.Time, *int64) ([]repository.StockoutRow, error) {
	return nil, nil
}
func (r *fakeLedgerRepo) ArrivalsForItems(context.Context, []int64, *int64) ([]repository.ArrivalRow, error) {
	return nil, nil
}
func (r *fakeLedgerRepo) ConsumptionByFamily(context.Context, time.Time, time.Time, *int64) ([]repository.ConsumptionRow, error) {
	return nil, nil
}
func (r *fakeLedgerRepo) LatestSnapshot(context.Context, *int64) ([]repository.SnapshotRow, error) {
	return nil, nil
}

// --- WarehouseRepository ---

type fakeWarehouseRepo struct{ s *fakeStore }

func (r *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextWhID++
	w.ID = r.s.nextWhID
	copied := *w
	r.s.warehouses[w.ID] = &copied
	if w.DepositID != nil {
		r.s.byDepositID[*w.DepositID] = w.ID
	}
	return nil
}

func (r *fakeWarehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) GetByDepositID(_ context.Context, depositID int64) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if id, ok := r.s.byDepositID[depositID]; ok {
		copied := *r.s.warehouses[id]
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) List(context.Context, bool) ([]*entity.Warehouse, error) { return nil, nil }
func (r *fakeWarehouseRepo) SetExpectedUploadDay(context.Context, int64, *string) error {
	return nil
}
func (r *fakeWarehouseRepo) SetDisabled(context.Context, int64, bool) error { return nil }

// --- LoadEventRepository ---

type fakeLoadRepo struct{ s *fakeStore }

func (r *fakeLoadRepo) Create(_ context.Context, e *entity.LoadEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextEventID++
	e.ID = r.s.nextEventID
	e.CreatedAt = time.Now()
	copied := *e
	r.s.events[e.ID] = &copied
	return nil
}

func (r *fakeLoadRepo) GetByID(_ context.Context, id int64) (*entity.LoadEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeLoadRepo) UpdateProgress(_ context.Context, id int64, processed, percent int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := r.s.events[id]
	e.Processed = processed
	e.Percent = percent
	r.s.progressLog = append(r.s.progressLog, percent)
	return nil
}

func (r *fakeLoadRepo) MarkCompleted(_ context.Context, id int64, first, last *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := r.s.events[id]
	e.State = entity.LoadCompleted
	e.Percent = 100
	e.Processed = e.TotalRows
	e.FirstLedgerID = first
	e.LastLedgerID = last
	return nil
}

func (r *fakeLoadRepo) MarkFailed(_ context.Context, id int64, obs string, first, last *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := r.s.events[id]
	e.State = entity.LoadFailed
	e.Observations = obs
	e.FirstLedgerID = first
	e.LastLedgerID = last
	return nil
}

func (r *fakeLoadRepo) ExistsByFileName(_ context.Context, fileName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		if e.FileName == fileName {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLoadRepo) ExistsInProgress(_ context.Context) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.events {
		if e.State == entity.LoadInProgress {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLoadRepo) UploadCounts(context.Context, time.Time, time.Time, *int64) ([]repository.UploadCountRow, error) {
	return nil, nil
}
func (r *fakeLoadRepo) KPIs(context.Context, time.Time, time.Time, *int64) (repository.LoadKPIs, error) {
	return repository.LoadKPIs{}, nil
}
func (r *fakeLoadRepo) Recent(context.Context, time.Time, time.Time, *int64, int) ([]repository.LoadEventView, error) {
	return nil, nil
}

// --- TxRunner ---

// fakeTxRunner imita la semántica transaccional: si fn falla, los artículos
// y asientos escritos durante la llamada se descartan.
type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.ItemRepository, repository.LedgerRepository) error) error {
	t.s.mu.Lock()
	savedItems := make(map[string]*entity.Item, len(t.s.items))
	for sku, item := range t.s.items {
		savedItems[sku] = item
	}
	savedNextItemID := t.s.nextItemID
	savedEntries := len(t.s.entries)
	savedNextEntryID := t.s.nextEntryID
	t.s.mu.Unlock()

	err := fn(&fakeItemRepo{s: t.s}, &fakeLedgerRepo{s: t.s})
	if err != nil {
		t.s.mu.Lock()
		t.s.items = savedItems
		t.s.nextItemID = savedNextItemID
		t.s.entries = t.s.entries[:savedEntries]
		t.s.nextEntryID = savedNextEntryID
		t.s.mu.Unlock()
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var testToday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func newTestUseCase(s *fakeStore, chunkSize int) *UseCase {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return NewUseCase(
		&fakeTxRunner{s: s},
		&fakeWarehouseRepo{s: s},
		&fakeLoadRepo{s: s},
		clock.Fixed{T: testToday},
		log,
		chunkSize,
	)
}

func snapshotRow(depositID int64, sku string, qty int64) dto.SnapshotRow {
	name := "Centro"
	env := "Living"
	fam := "Sofás"
	return dto.SnapshotRow{
		DepositName: &name,
		DepositID:   &depositID,
		SKU:         &sku,
		Environment: &env,
		Family:      &fam,
		Quantity:    &qty,
	}
}

// waitTerminal espera a que el evento llegue a un estado final.
func waitTerminal(t *testing.T, s *fakeStore, eventID int64) *entity.LoadEvent {
	t.Helper()
	repo := &fakeLoadRepo{s: s}
	require.Eventually(t, func() bool {
		e, err := repo.GetByID(context.Background(), eventID)
		return err == nil && e != nil && e.Terminal()
	}, 2*time.Second, 5*time.Millisecond, "la carga debe terminar")
	e, err := repo.GetByID(context.Background(), eventID)
	require.NoError(t, err)
	return e
}

func startLoad(t *testing.T, uc *UseCase, fileName string, date time.Time, rows []dto.SnapshotRow) *entity.LoadEvent {
	t.Helper()
	event, err := uc.StartLoad(context.Background(), fileName, date, "auditor@test", rows)
	require.NoError(t, err)
	return event
}

// ──────────────────────────────────────────────────────────────────────────────
// Admisión
// ──────────────────────────────────────────────────────────────────────────────

func TestStartLoad_ArchivoVacio(t *testing.T) {
	uc := newTestUseCase(newFakeStore(), 0)
	_, err := uc.StartLoad(context.Background(), "stock.xlsx", testToday, "u", nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestStartLoad_FechaFutura(t *testing.T) {
	uc := newTestUseCase(newFakeStore(), 0)
	rows := []dto.SnapshotRow{snapshotRow(7, "SKU-1", 5)}
	_, err := uc.StartLoad(context.Background(), "stock.xlsx", testToday.AddDate(0, 0, 1), "u", rows)
	assert.ErrorIs(t, err, domain.ErrFutureDate)
}

func TestStartLoad_ArchivoDuplicado(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)
	rows := []dto.SnapshotRow{snapshotRow(7, "SKU-1", 5)}

	event := startLoad(t, uc, "stock_20240610_Centro.xlsx", testToday, rows)
	waitTerminal(t, s, event.ID)

	_, err := uc.StartLoad(context.Background(), "stock_20240610_Centro.xlsx", testToday, "u", rows)
	assert.ErrorIs(t, err, domain.ErrDuplicateFile)
}

func TestStartLoad_CargaEnCurso(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)

	// Evento EN_PROCESO preexistente (p.ej. de otra instancia).
	repo := &fakeLoadRepo{s: s}
	require.NoError(t, repo.Create(context.Background(), &entity.LoadEvent{
		FileName: "otro.xlsx", State: entity.LoadInProgress, Module: entity.ModuleStock,
	}))

	rows := []dto.SnapshotRow{snapshotRow(7, "SKU-1", 5)}
	_, err := uc.StartLoad(context.Background(), "stock.xlsx", testToday, "u", rows)
	assert.ErrorIs(t, err, domain.ErrLoadInProgress)
}

// ──────────────────────────────────────────────────────────────────────────────
// Detección de cambios
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_PrimeraCarga(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)
	rows := []dto.SnapshotRow{
		snapshotRow(7, "SKU-1", 10),
		snapshotRow(7, "SKU-2", 0),
	}

	event := startLoad(t, uc, "dia1.xlsx", testToday, rows)
	done := waitTerminal(t, s, event.ID)

	assert.Equal(t, entity.LoadCompleted, done.State)
	assert.Equal(t, 100, done.Percent)
	require.Len(t, s.entries, 2)
	for _, e := range s.entries {
		assert.True(t, e.IsInitial, "la primera observación de un par es inicial")
		assert.Nil(t, e.PreviousQuantity)
		assert.True(t, e.IsNewArrival, "sin observación previa cuenta como ingreso")
	}
	require.NotNil(t, done.FirstLedgerID)
	require.NotNil(t, done.LastLedgerID)
	assert.Equal(t, int64(1), *done.FirstLedgerID)
	assert.Equal(t, int64(2), *done.LastLedgerID)
}

func TestProcess_SinCambiosNoAgregaAsientos(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)
	rows := []dto.SnapshotRow{snapshotRow(7, "SKU-1", 10)}

	event := startLoad(t, uc, "dia1.xlsx", testToday.AddDate(0, 0, -1), rows)
	waitTerminal(t, s, event.ID)
	require.Len(t, s.entries, 1)

	// Mismo snapshot al día siguiente: cantidades iguales, cero asientos.
	event2 := startLoad(t, uc, "dia2.xlsx", testToday, rows)
	done := waitTerminal(t, s, event2.ID)

	assert.Equal(t, entity.LoadCompleted, done.State)
	assert.Len(t, s.entries, 1, "cantidad sin cambio no genera asiento")
	assert.Nil(t, done.FirstLedgerID, "corrida sin escrituras no tiene rango")
	assert.Nil(t, done.LastLedgerID)
}

func TestProcess_IngresoYConsumo(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)
	day1 := testToday.AddDate(0, 0, -2)
	day2 := testToday.AddDate(0, 0, -1)
	day3 := testToday

	startAndWait := func(name string, date time.Time, rows []dto.SnapshotRow) {
		e := startLoad(t, uc, name, date, rows)
		waitTerminal(t, s, e.ID)
	}

	startAndWait("d1.xlsx", day1, []dto.SnapshotRow{snapshotRow(7, "SKU-1", 10)})
	// Sube a 15: ingreso.
	startAndWait("d2.xlsx", day2, []dto.SnapshotRow{snapshotRow(7, "SKU-1", 15)})
	// Baja a 9: consumo.
	startAndWait("d3.xlsx", day3, []dto.SnapshotRow{snapshotRow(7, "SKU-1", 9)})

	require.Len(t, s.entries, 3)

	up := s.entries[1]
	require.NotNil(t, up.PreviousQuantity)
	assert.Equal(t, int64(10), *up.PreviousQuantity)
	assert.True(t, up.IsNewArrival)
	assert.False(t, up.IsInitial)
	assert.Equal(t, int64(5), up.Delta())

	down := s.entries[2]
	require.NotNil(t, down.PreviousQuantity)
	assert.Equal(t, int64(15), *down.PreviousQuantity)
	assert.False(t, down.IsNewArrival)
	assert.Equal(t, int64(-6), down.Delta())
}

func TestProcess_FilasInvalidasSeSaltean(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)
	blank := "   "
	rows := []dto.SnapshotRow{
		{SKU: &blank},             // SKU en blanco
		snapshotRow(7, "SKU-1", 3),
		{SKU: rows0sku()},         // sin cantidad
	}

	event := startLoad(t, uc, "dia1.xlsx", testToday, rows)
	done := waitTerminal(t, s, event.ID)

	assert.Equal(t, entity.LoadCompleted, done.State)
	assert.Len(t, s.entries, 1)
	assert.Equal(t, 3, done.Processed, "las filas salteadas cuentan como procesadas")
}

func rows0sku() *string {
	s := "SKU-SIN-CANTIDAD"
	return &s
}

// ──────────────────────────────────────────────────────────────────────────────
// Progreso por bloque y fallas
// ──────────────────────────────────────────────────────────────────────────────

func TestProcess_ProgresoPorBloque(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 2)
	var rows []dto.SnapshotRow
	for i := 0; i < 5; i++ {
		rows = append(rows, snapshotRow(7, fmt.Sprintf("SKU-%d", i), int64(i+1)))
	}

	event := startLoad(t, uc, "dia1.xlsx", testToday, rows)
	waitTerminal(t, s, event.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, []int{40, 80, 100}, s.progressLog, "un avance persistido por bloque")
}

func TestProcess_FallaDejaRangoParcial(t *testing.T) {
	s := newFakeStore()
	s.appendErrAt = 3 // el tercer insert revienta
	uc := newTestUseCase(s, 1)
	var rows []dto.SnapshotRow
	for i := 0; i < 4; i++ {
		rows = append(rows, snapshotRow(7, fmt.Sprintf("SKU-%d", i), int64(i+1)))
	}

	event := startLoad(t, uc, "dia1.xlsx", testToday, rows)
	done := waitTerminal(t, s, event.ID)

	assert.Equal(t, entity.LoadFailed, done.State)
	assert.Contains(t, done.Observations, "conexión perdida")
	require.NotNil(t, done.FirstLedgerID)
	require.NotNil(t, done.LastLedgerID)
	assert.Equal(t, int64(1), *done.FirstLedgerID)
	assert.Equal(t, int64(2), *done.LastLedgerID)
}

func TestProcess_FallaEnMedioDelBloqueNoRegistraIdsRevertidos(t *testing.T) {
	s := newFakeStore()
	s.appendErrAt = 2 // el primer insert entra, el segundo revienta dentro del mismo bloque
	uc := newTestUseCase(s, 2)
	rows := []dto.SnapshotRow{
		snapshotRow(7, "SKU-0", 1),
		snapshotRow(7, "SKU-1", 2),
	}

	event := startLoad(t, uc, "dia1.xlsx", testToday, rows)
	done := waitTerminal(t, s, event.ID)

	assert.Equal(t, entity.LoadFailed, done.State)

	// El rollback del bloque borró el único asiento insertado: el evento no
	// puede señalar un rango que apunte a filas inexistentes.
	assert.Nil(t, done.FirstLedgerID)
	assert.Nil(t, done.LastLedgerID)
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Empty(t, s.entries, "no queda ningún asiento confirmado")
}

func TestProcess_LuegoDeTerminarAdmiteOtraCarga(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)
	rows := []dto.SnapshotRow{snapshotRow(7, "SKU-1", 5)}

	event := startLoad(t, uc, "dia1.xlsx", testToday.AddDate(0, 0, -1), rows)
	waitTerminal(t, s, event.ID)

	rows2 := []dto.SnapshotRow{snapshotRow(7, "SKU-1", 8)}
	event2 := startLoad(t, uc, "dia2.xlsx", testToday, rows2)
	done := waitTerminal(t, s, event2.ID)
	assert.Equal(t, entity.LoadCompleted, done.State)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de sucursal
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveWarehouse_CreaYReutiliza(t *testing.T) {
	s := newFakeStore()
	uc := newTestUseCase(s, 0)
	rows := []dto.SnapshotRow{snapshotRow(7, "SKU-1", 5)}

	event := startLoad(t, uc, "stock_20240609_Centro.xlsx", testToday.AddDate(0, 0, -1), rows)
	waitTerminal(t, s, event.ID)
	require.Len(t, s.warehouses, 1)

	event2 := startLoad(t, uc, "stock_20240610_Centro.xlsx", testToday, rows)
	waitTerminal(t, s, event2.ID)
	assert.Len(t, s.warehouses, 1, "mismo id de depósito reutiliza la sucursal")
	assert.Equal(t, event.WarehouseID, event2.WarehouseID)
}

func TestWarehouseNameFromFile(t *testing.T) {
	assert.Equal(t, "Centro", warehouseNameFromFile("stock_20240610_Centro.xlsx"))
	assert.Equal(t, "plano", warehouseNameFromFile("plano.xlsx"))
}
