package sync_test

import (
	"context"
	stdsync "sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/Rentabilidad-api/internal/application/sync"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
	"github.com/jhoicas/Rentabilidad-api/pkg/progress"
)

// ── Dobles de prueba ──────────────────────────────────────────────────────

type memStore[T any] struct {
	mu    stdsync.Mutex
	items []T
	saves int
}

func (s *memStore[T]) GetAll(context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *memStore[T]) ReplaceAll(_ context.Context, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]T, len(items))
	copy(s.items, items)
	s.saves++
	return nil
}

func (s *memStore[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *memStore[T]) all() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

type memMarkers struct {
	mu      stdsync.Mutex
	markers map[string]entity.SyncMarker
}

func newMemMarkers() *memMarkers {
	return &memMarkers{markers: make(map[string]entity.SyncMarker)}
}

func (m *memMarkers) Get(_ context.Context, en string) (entity.SyncMarker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers[en], nil
}

func (m *memMarkers) Put(_ context.Context, marker entity.SyncMarker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[marker.Entity] = marker
	return nil
}

func (m *memMarkers) has(en string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.markers[en]
	return ok
}

// fakeRemote simula el API de la tienda: pedidos fijos por ventana, contadores
// de llamadas y un bloqueo opcional para probar concurrencia.
type fakeRemote struct {
	mu           stdsync.Mutex
	readyErr     error
	orders       []entity.Order
	failedPages  []appsync.PageFailure
	productCalls int
	orderCalls   int
	block        chan struct{}
}

func (f *fakeRemote) Ready() error { return f.readyErr }

func (f *fakeRemote) FetchProducts(_ context.Context, onProgress progress.Reporter) ([]entity.Product, []appsync.PageFailure, error) {
	f.mu.Lock()
	f.productCalls++
	f.mu.Unlock()
	onProgress.Notify(100)
	return []entity.Product{
		{ID: 1, Name: "Camisa", SKU: "CAM-1", Type: entity.ProductTypeSimple, Stock: 5},
		{ID: 2, Name: "Zapato", SKU: "ZAP-1", Type: entity.ProductTypeVariable},
	}, nil, nil
}

func (f *fakeRemote) FetchVariations(_ context.Context, productIDs []int64, onProgress progress.Reporter) ([]entity.ProductVariation, []appsync.PageFailure, error) {
	onProgress.Notify(100)
	return []entity.ProductVariation{
		{ID: 21, ProductID: 2, SKU: "ZAP-1-38", Stock: 3},
	}, nil, nil
}

func (f *fakeRemote) FetchOrders(_ context.Context, r entity.DateRange, _ appsync.Strategy, onProgress progress.Reporter) (appsync.OrdersResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.orderCalls++
	failed := f.failedPages
	f.mu.Unlock()

	onProgress.Notify(50)
	onProgress.Notify(100)

	var inWindow []entity.Order
	for _, o := range f.orders {
		if r.Contains(o.CreatedAt) {
			inWindow = append(inWindow, o)
		}
	}
	return appsync.OrdersResult{Orders: inWindow, FailedPages: failed}, nil
}

func (f *fakeRemote) calls() (products, orders int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productCalls, f.orderCalls
}

// ── Armado ────────────────────────────────────────────────────────────────

type fixture struct {
	orch       *appsync.Orchestrator
	remote     *fakeRemote
	orders     *memStore[entity.Order]
	products   *memStore[entity.Product]
	variations *memStore[entity.ProductVariation]
	inventory  *memStore[entity.InventoryRecord]
	markers    *memMarkers
}

func newFixture(remote *fakeRemote) *fixture {
	f := &fixture{
		remote:     remote,
		orders:     &memStore[entity.Order]{},
		products:   &memStore[entity.Product]{},
		variations: &memStore[entity.ProductVariation]{},
		inventory:  &memStore[entity.InventoryRecord]{},
		markers:    newMemMarkers(),
	}
	f.orch = appsync.NewOrchestrator(remote, f.products, f.variations, f.orders,
		f.inventory, f.markers, nil, logger.Nop())
	return f
}

func waitDone(t *testing.T, orch *appsync.Orchestrator) appsync.Status {
	t.Helper()
	require.Eventually(t, func() bool {
		s := orch.Status()
		return s.State == appsync.StateDone || s.State == appsync.StateFailed
	}, 5*time.Second, 5*time.Millisecond)
	return orch.Status()
}

func sampleOrders() []entity.Order {
	return []entity.Order{
		{ID: 100, Number: "100", CreatedAt: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(50)},
		{ID: 101, Number: "101", CreatedAt: time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(80)},
	}
}

func march() (string, string) { return "2026-03-01", "2026-03-31" }

// ── Tests ─────────────────────────────────────────────────────────────────

func TestOrchestrator_SincronizacionCompleta(t *testing.T) {
	fx := newFixture(&fakeRemote{orders: sampleOrders()})
	start, end := march()
	req, err := appsync.ParseRequest(start, end, "", false, time.UTC)
	require.NoError(t, err)

	sessionID, err := fx.orch.Start(req)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	status := waitDone(t, fx.orch)
	assert.Equal(t, appsync.StateDone, status.State)
	assert.Equal(t, 100, status.Progress)
	assert.Equal(t, sessionID, status.SessionID)

	assert.Equal(t, 2, fx.orders.len())
	assert.Equal(t, 2, fx.products.len())
	assert.Equal(t, 1, fx.variations.len())
	// Inventario: 1 producto simple + 1 variación (el variable no genera registro propio)
	assert.Equal(t, 2, fx.inventory.len())
	assert.True(t, fx.markers.has(entity.EntityProducts))
	assert.True(t, fx.markers.has(entity.EntityLastSync))
}

func TestOrchestrator_MergeIdempotente(t *testing.T) {
	fx := newFixture(&fakeRemote{orders: sampleOrders()})
	start, end := march()

	for i := 0; i < 2; i++ {
		req, err := appsync.ParseRequest(start, end, "", true, time.UTC) // force para repetir la descarga
		require.NoError(t, err)
		_, err = fx.orch.Start(req)
		require.NoError(t, err)
		status := waitDone(t, fx.orch)
		require.Equal(t, appsync.StateDone, status.State)
	}

	assert.Equal(t, 2, fx.orders.len(),
		"volver a sincronizar el mismo rango no debe duplicar pedidos")
}

func TestOrchestrator_MergeSoloAgrega(t *testing.T) {
	fx := newFixture(&fakeRemote{orders: sampleOrders()})
	// Un pedido viejo que el remoto ya no devuelve: debe sobrevivir al merge
	viejo := entity.Order{ID: 7, Number: "7", CreatedAt: time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, fx.orders.ReplaceAll(context.Background(), []entity.Order{viejo}))

	start, end := march()
	req, err := appsync.ParseRequest(start, end, "", false, time.UTC)
	require.NoError(t, err)
	_, err = fx.orch.Start(req)
	require.NoError(t, err)
	waitDone(t, fx.orch)

	assert.Equal(t, 3, fx.orders.len(), "el merge nunca borra pedidos ya espejados")
}

func TestOrchestrator_MergeNoReescribePedidosEspejados(t *testing.T) {
	// El remoto reenvía el pedido 100 con un total distinto al ya espejado
	remote := &fakeRemote{orders: []entity.Order{
		{ID: 100, Number: "100", CreatedAt: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(999)},
	}}
	fx := newFixture(remote)
	espejado := entity.Order{ID: 100, Number: "100", CreatedAt: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), Total: decimal.NewFromInt(50)}
	require.NoError(t, fx.orders.ReplaceAll(context.Background(), []entity.Order{espejado}))

	start, end := march()
	req, err := appsync.ParseRequest(start, end, "", true, time.UTC)
	require.NoError(t, err)
	_, err = fx.orch.Start(req)
	require.NoError(t, err)
	status := waitDone(t, fx.orch)
	require.Equal(t, appsync.StateDone, status.State)

	stored := fx.orders.all()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Total.Equal(decimal.NewFromInt(50)),
		"un pedido ya espejado es inmutable aunque el remoto lo reenvíe con otro total")
}

func TestOrchestrator_RechazaConcurrencia(t *testing.T) {
	remote := &fakeRemote{orders: sampleOrders(), block: make(chan struct{})}
	fx := newFixture(remote)
	start, end := march()
	req, err := appsync.ParseRequest(start, end, "", false, time.UTC)
	require.NoError(t, err)

	_, err = fx.orch.Start(req)
	require.NoError(t, err)

	_, err = fx.orch.Start(req)
	assert.ErrorIs(t, err, domain.ErrSyncInProgress)

	close(remote.block)
	waitDone(t, fx.orch)

	// Terminada la primera, se puede volver a arrancar
	remote.block = nil
	_, err = fx.orch.Start(req)
	assert.NoError(t, err)
	waitDone(t, fx.orch)
}

func TestOrchestrator_CredencialesFaltantesEsFatal(t *testing.T) {
	fx := newFixture(&fakeRemote{readyErr: domain.ErrCredentialsMissing})
	start, end := march()
	req, err := appsync.ParseRequest(start, end, "", false, time.UTC)
	require.NoError(t, err)

	_, err = fx.orch.Start(req)
	assert.ErrorIs(t, err, domain.ErrCredentialsMissing)

	status := fx.orch.Status()
	assert.Equal(t, appsync.StateFailed, status.State)
	assert.NotEmpty(t, status.Err)
}

func TestOrchestrator_CatalogoFrescoSeOmite(t *testing.T) {
	remote := &fakeRemote{orders: sampleOrders()}
	fx := newFixture(remote)
	start, end := march()

	req, err := appsync.ParseRequest(start, end, "", false, time.UTC)
	require.NoError(t, err)
	_, err = fx.orch.Start(req)
	require.NoError(t, err)
	waitDone(t, fx.orch)

	// Segunda corrida sin force: el catálogo tiene menos de 24h
	req2, err := appsync.ParseRequest(start, end, "", false, time.UTC)
	require.NoError(t, err)
	_, err = fx.orch.Start(req2)
	require.NoError(t, err)
	waitDone(t, fx.orch)

	products, _ := remote.calls()
	assert.Equal(t, 1, products, "el catálogo fresco no se vuelve a descargar")
}

func TestOrchestrator_MesEspejadoSeOmite(t *testing.T) {
	remote := &fakeRemote{orders: []entity.Order{
		{ID: 1, CreatedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
	}}
	fx := newFixture(remote)

	// Primera corrida sobre un mes ya cerrado: queda marcado completo
	req, err := appsync.ParseRequest("2025-01-01", "2025-01-31", "", false, time.UTC)
	require.NoError(t, err)
	_, err = fx.orch.Start(req)
	require.NoError(t, err)
	waitDone(t, fx.orch)

	_, after := remote.calls()
	require.Equal(t, 1, after)

	// Segunda corrida sin force: el mes se salta sin tocar el remoto
	req2, err := appsync.ParseRequest("2025-01-01", "2025-01-31", "", false, time.UTC)
	require.NoError(t, err)
	_, err = fx.orch.Start(req2)
	require.NoError(t, err)
	status := waitDone(t, fx.orch)

	_, calls := remote.calls()
	assert.Equal(t, 1, calls, "un mes completamente espejado no se vuelve a pedir")
	assert.Equal(t, appsync.StateDone, status.State)
	assert.Equal(t, 100, status.Progress)
}

func TestOrchestrator_FallasParcialesDegradanSinAbortar(t *testing.T) {
	remote := &fakeRemote{
		orders:      sampleOrders(),
		failedPages: []appsync.PageFailure{{Page: 3, Err: "timeout"}},
	}
	fx := newFixture(remote)
	start, end := march()
	req, err := appsync.ParseRequest(start, end, "", false, time.UTC)
	require.NoError(t, err)

	_, err = fx.orch.Start(req)
	require.NoError(t, err)
	status := waitDone(t, fx.orch)

	assert.Equal(t, appsync.StateDone, status.State, "las fallas parciales no abortan")
	assert.Equal(t, 1, status.FailedPages)
	assert.Contains(t, status.Message, "1 página(s)")
	assert.Equal(t, 2, fx.orders.len())

	// El mes degradado no queda marcado: la próxima corrida lo reintenta
	assert.False(t, fx.markers.has("orders:2026-03"))
}

func TestOrchestrator_EstrategiaDirectaUsaElRangoEntero(t *testing.T) {
	remote := &fakeRemote{orders: sampleOrders()}
	fx := newFixture(remote)

	// Rango de 3 meses en direct: una sola llamada al remoto
	req, err := appsync.ParseRequest("2026-01-01", "2026-03-31", "direct", false, time.UTC)
	require.NoError(t, err)
	_, err = fx.orch.Start(req)
	require.NoError(t, err)
	waitDone(t, fx.orch)

	_, calls := remote.calls()
	assert.Equal(t, 1, calls)
}

func TestParseRequest_Validaciones(t *testing.T) {
	_, err := appsync.ParseRequest("2026-13-99", "2026-03-31", "", false, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = appsync.ParseRequest("2026-03-31", "2026-03-01", "", false, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = appsync.ParseRequest("2026-03-01", "2026-03-31", "turbo", false, time.UTC)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req, err := appsync.ParseRequest("2026-03-01", "2026-03-31", "", false, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, appsync.StrategyRegular, req.Strategy, "sin estrategia explícita se usa regular")
}

func TestParseRequest_LimitesEnZonaDeReporte(t *testing.T) {
	bogota := entity.ReportingZone(-5)
	req, err := appsync.ParseRequest("2026-01-01", "2026-01-31", "", false, bogota)
	require.NoError(t, err)

	// La noche local del último día (02:00 UTC del 1 de febrero) pertenece al rango
	noche := time.Date(2026, 1, 31, 21, 0, 0, 0, bogota)
	assert.True(t, req.Range.Contains(noche))

	// El primer instante local de febrero ya queda fuera
	febrero := time.Date(2026, 2, 1, 0, 0, 30, 0, bogota)
	assert.False(t, req.Range.Contains(febrero))
}
