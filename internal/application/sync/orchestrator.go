// Package sync implementa el motor de sincronización: espeja productos,
// variaciones y pedidos del API remoto hacia el almacén local, respetando
// frescura por entidad y reportando progreso monótono de 0 a 100.
package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Rentabilidad-api/internal/application/pnl"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
	"github.com/jhoicas/Rentabilidad-api/pkg/progress"
)

// ── Estados ───────────────────────────────────────────────────────────────

const (
	StateIdle     = "idle"
	StateFetching = "fetching"
	StateMerging  = "merging"
	StateDone     = "done"
	StateFailed   = "failed"
)

// catalogMaxAge es la frescura del catálogo: productos, variaciones e
// inventario no se vuelven a descargar si se sincronizaron hace menos de 24h,
// salvo que el caller fuerce.
const catalogMaxAge = 24 * time.Hour

const dateLayout = "2006-01-02"

// Status es el snapshot observable de la sincronización.
type Status struct {
	SessionID   string
	State       string
	Progress    int
	Message     string
	Err         string
	StartedAt   time.Time
	FinishedAt  time.Time
	FailedPages int
}

// Request son los parámetros ya validados de una sincronización.
type Request struct {
	Range    entity.DateRange
	Strategy Strategy
	Force    bool
}

// ── Orquestador ───────────────────────────────────────────────────────────

// Orchestrator coordina una sincronización completa. Solo admite una a la
// vez: Start devuelve ErrSyncInProgress si ya hay una corriendo.
type Orchestrator struct {
	remote     RemoteCatalog
	products   repository.ProductRepository
	variations repository.VariationRepository
	orders     repository.OrderRepository
	inventory  repository.InventoryRepository
	markers    repository.SyncMarkerRepository
	cache      pnl.ReportCache
	log        *logger.Logger
	now        func() time.Time

	mu      stdsync.Mutex
	running bool
	status  Status
}

// NewOrchestrator construye el orquestador de sincronización.
func NewOrchestrator(
	remote RemoteCatalog,
	products repository.ProductRepository,
	variations repository.VariationRepository,
	orders repository.OrderRepository,
	inventory repository.InventoryRepository,
	markers repository.SyncMarkerRepository,
	cache pnl.ReportCache,
	log *logger.Logger,
) *Orchestrator {
	if cache == nil {
		cache = pnl.NoopReportCache{}
	}
	return &Orchestrator{
		remote:     remote,
		products:   products,
		variations: variations,
		orders:     orders,
		inventory:  inventory,
		markers:    markers,
		cache:      cache,
		log:        log,
		now:        time.Now,
		status:     Status{State: StateIdle},
	}
}

// ParseRequest valida y convierte los parámetros crudos del caller. Las
// fechas se interpretan en loc, la zona de reporte: un pedido de las 21:00
// locales del último día del rango debe caer dentro, no en el día siguiente
// UTC. loc nil equivale a UTC.
func ParseRequest(start, end, strategy string, force bool, loc *time.Location) (Request, error) {
	if loc == nil {
		loc = time.UTC
	}
	s, err := time.ParseInLocation(dateLayout, start, loc)
	if err != nil {
		return Request{}, fmt.Errorf("%w: fecha inicial inválida %q", domain.ErrInvalidInput, start)
	}
	e, err := time.ParseInLocation(dateLayout, end, loc)
	if err != nil {
		return Request{}, fmt.Errorf("%w: fecha final inválida %q", domain.ErrInvalidInput, end)
	}
	if e.Before(s) {
		return Request{}, fmt.Errorf("%w: el fin del rango es anterior al inicio", domain.ErrInvalidInput)
	}
	st := Strategy(strategy)
	if st == "" {
		st = StrategyRegular
	}
	if !ValidStrategy(st) {
		return Request{}, fmt.Errorf("%w: estrategia desconocida %q", domain.ErrInvalidInput, strategy)
	}
	return Request{
		Range:    entity.DateRange{Start: s, End: e.AddDate(0, 0, 1).Add(-time.Second)},
		Strategy: st,
		Force:    force,
	}, nil
}

// Start arranca la sincronización en background y devuelve el id de sesión.
// Falla rápido con ErrCredentialsMissing si el remoto no está configurado
// (dejando el estado en failed) y con ErrSyncInProgress si ya hay una
// corriendo.
func (o *Orchestrator) Start(req Request) (string, error) {
	if err := o.remote.Ready(); err != nil {
		o.mu.Lock()
		if !o.running {
			now := o.now()
			o.status = Status{State: StateFailed, Err: err.Error(), StartedAt: now, FinishedAt: now}
		}
		o.mu.Unlock()
		return "", err
	}

	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return "", domain.ErrSyncInProgress
	}
	sessionID := uuid.New().String()
	o.running = true
	o.status = Status{
		SessionID: sessionID,
		State:     StateFetching,
		StartedAt: o.now(),
	}
	o.mu.Unlock()

	go o.run(context.Background(), req)
	return sessionID, nil
}

// Status devuelve el snapshot actual.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// ── Ejecución ─────────────────────────────────────────────────────────────

func (o *Orchestrator) run(ctx context.Context, req Request) {
	report := progress.Reporter(func(pct int) {
		o.mu.Lock()
		o.status.Progress = pct
		o.mu.Unlock()
	}).Monotonic()

	result, err := o.execute(ctx, req, report)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.running = false
	o.status.FinishedAt = o.now()
	if err != nil {
		o.status.State = StateFailed
		o.status.Err = err.Error()
		o.log.Error().Err(err).Str("session", o.status.SessionID).Msg("sincronización fallida")
		return
	}
	o.status.State = StateDone
	o.status.Progress = 100
	o.status.FailedPages = len(result.FailedPages) + len(result.FailedWindows)
	if result.Degraded() {
		o.status.Message = fmt.Sprintf("completada con %d página(s) y %d ventana(s) fallidas",
			len(result.FailedPages), len(result.FailedWindows))
	} else {
		o.status.Message = "completada"
	}
	o.log.Info().
		Str("session", o.status.SessionID).
		Int("failed_pages", len(result.FailedPages)).
		Int("failed_windows", len(result.FailedWindows)).
		Msg("sincronización terminada")
}

// execute corre las tres fases. El progreso se reparte 10–40 catálogo,
// 40–70 pedidos, 70–100 merge y persistencia.
func (o *Orchestrator) execute(ctx context.Context, req Request, report progress.Reporter) (OrdersResult, error) {
	report.Notify(10)

	if err := o.syncCatalog(ctx, req.Force, report.Scoped(10, 40)); err != nil {
		return OrdersResult{}, err
	}
	report.Notify(40)

	result, err := o.fetchOrders(ctx, req, report.Scoped(40, 70))
	if err != nil {
		return OrdersResult{}, err
	}
	report.Notify(70)

	o.setState(StateMerging)
	if err := o.mergeOrders(ctx, req, result, report.Scoped(70, 100)); err != nil {
		return OrdersResult{}, err
	}

	if err := o.cache.InvalidateAll(ctx); err != nil {
		o.log.Warn().Err(err).Msg("no se pudo invalidar el cache de reportes")
	}
	report.Notify(100)
	return result, nil
}

func (o *Orchestrator) setState(state string) {
	o.mu.Lock()
	o.status.State = state
	o.mu.Unlock()
}

// ── Fase 1: catálogo e inventario ─────────────────────────────────────────

// syncCatalog refresca productos, variaciones e inventario si están viejos.
// El inventario se reconstruye a partir del catálogo nuevo preservando los
// costos ya capturados: la sincronización nunca pisa un costo editado a mano.
func (o *Orchestrator) syncCatalog(ctx context.Context, force bool, report progress.Reporter) error {
	marker, err := o.markers.Get(ctx, entity.EntityProducts)
	if err != nil {
		return fmt.Errorf("leyendo marcador de productos: %w", err)
	}
	if !force && !marker.Stale(o.now(), catalogMaxAge) {
		o.log.Debug().Time("last_sync", marker.LastSync).Msg("catálogo fresco, se omite")
		report.Notify(100)
		return nil
	}

	products, failed, err := o.remote.FetchProducts(ctx, report.Scoped(0, 50))
	if err != nil {
		return fmt.Errorf("descargando productos: %w", err)
	}
	for _, f := range failed {
		o.log.Warn().Int("page", f.Page).Str("error", f.Err).Msg("página de productos descartada")
	}

	var variableIDs []int64
	for _, p := range products {
		if p.Type == entity.ProductTypeVariable {
			variableIDs = append(variableIDs, p.ID)
		}
	}
	var variations []entity.ProductVariation
	if len(variableIDs) > 0 {
		variations, failed, err = o.remote.FetchVariations(ctx, variableIDs, report.Scoped(50, 90))
		if err != nil {
			return fmt.Errorf("descargando variaciones: %w", err)
		}
		for _, f := range failed {
			o.log.Warn().Int("page", f.Page).Str("error", f.Err).Msg("página de variaciones descartada")
		}
	}

	if err := o.products.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("guardando productos: %w", err)
	}
	if err := o.variations.ReplaceAll(ctx, variations); err != nil {
		return fmt.Errorf("guardando variaciones: %w", err)
	}
	if err := o.rebuildInventory(ctx, products, variations); err != nil {
		return err
	}

	now := o.now()
	for _, en := range []string{entity.EntityProducts, entity.EntityVariations, entity.EntityInventory} {
		if err := o.markers.Put(ctx, entity.SyncMarker{Entity: en, LastSync: now}); err != nil {
			return fmt.Errorf("guardando marcador %s: %w", en, err)
		}
	}
	report.Notify(100)
	return nil
}

// rebuildInventory genera un registro por producto simple y por variación,
// trayendo CostPrice y SupplierPrice del registro previo con el mismo SKU o,
// en su defecto, el mismo par (producto, variación).
func (o *Orchestrator) rebuildInventory(ctx context.Context, products []entity.Product, variations []entity.ProductVariation) error {
	existing, err := o.inventory.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("cargando inventario previo: %w", err)
	}

	type key struct{ productID, variationID int64 }
	bySKU := make(map[string]entity.InventoryRecord, len(existing))
	byID := make(map[key]entity.InventoryRecord, len(existing))
	for _, rec := range existing {
		if rec.SKU != "" {
			bySKU[rec.SKU] = rec
		}
		byID[key{rec.ProductID, rec.VariationID}] = rec
	}

	carryCosts := func(rec *entity.InventoryRecord) {
		if prev, ok := bySKU[rec.SKU]; ok && rec.SKU != "" {
			rec.CostPrice, rec.SupplierPrice = prev.CostPrice, prev.SupplierPrice
			return
		}
		if prev, ok := byID[key{rec.ProductID, rec.VariationID}]; ok {
			rec.CostPrice, rec.SupplierPrice = prev.CostPrice, prev.SupplierPrice
		}
	}

	records := make([]entity.InventoryRecord, 0, len(products)+len(variations))
	for _, p := range products {
		if p.Type == entity.ProductTypeVariable {
			continue // sus costos viven en las variaciones
		}
		rec := entity.InventoryRecord{ProductID: p.ID, SKU: p.SKU, Stock: p.Stock}
		carryCosts(&rec)
		records = append(records, rec)
	}
	for _, v := range variations {
		rec := entity.InventoryRecord{ProductID: v.ProductID, VariationID: v.ID, SKU: v.SKU, Stock: v.Stock}
		carryCosts(&rec)
		records = append(records, rec)
	}

	if err := o.inventory.ReplaceAll(ctx, records); err != nil {
		return fmt.Errorf("guardando inventario: %w", err)
	}
	return nil
}

// ── Fase 2: pedidos ───────────────────────────────────────────────────────

// fetchOrders descarga los pedidos del rango. En estrategia regular el rango
// se recorre mes a mes, saltando los meses que ya quedaron completamente
// espejados; direct y chunked delegan el rango entero al cliente remoto.
func (o *Orchestrator) fetchOrders(ctx context.Context, req Request, report progress.Reporter) (OrdersResult, error) {
	if req.Strategy != StrategyRegular {
		return o.remote.FetchOrders(ctx, req.Range, req.Strategy, report)
	}

	months := monthWindows(req.Range)
	pending := make([]entity.DateRange, 0, len(months))
	for _, m := range months {
		fresh, err := o.monthIsFresh(ctx, m)
		if err != nil {
			return OrdersResult{}, err
		}
		if req.Force || !fresh {
			pending = append(pending, m)
		} else {
			o.log.Debug().Str("month", monthKey(m.Start)).Msg("mes ya espejado, se omite")
		}
	}
	if len(pending) == 0 {
		report.Notify(100)
		return OrdersResult{}, nil
	}

	var combined OrdersResult
	span := 100 / len(pending)
	for i, window := range pending {
		lo, hi := i*span, (i+1)*span
		if i == len(pending)-1 {
			hi = 100
		}
		res, err := o.remote.FetchOrders(ctx, window, StrategyDirect, report.Scoped(lo, hi))
		if err != nil {
			return OrdersResult{}, fmt.Errorf("descargando pedidos de %s: %w", monthKey(window.Start), err)
		}
		combined.Orders = append(combined.Orders, res.Orders...)
		combined.FailedPages = append(combined.FailedPages, res.FailedPages...)
		combined.FailedWindows = append(combined.FailedWindows, res.FailedWindows...)
	}
	report.Notify(100)
	return combined, nil
}

// monthIsFresh reporta si el mes quedó completamente espejado: su marcador
// existe y es posterior al fin del mes. El mes en curso nunca está completo.
func (o *Orchestrator) monthIsFresh(ctx context.Context, m entity.DateRange) (bool, error) {
	marker, err := o.markers.Get(ctx, monthKey(m.Start))
	if err != nil {
		return false, fmt.Errorf("leyendo marcador de %s: %w", monthKey(m.Start), err)
	}
	if marker.LastSync.IsZero() {
		return false, nil
	}
	// Se compara contra el fin real del mes calendario, no contra la ventana
	// recortada al rango: un sync parcial no debe dar el mes por completo.
	monthEnd := time.Date(m.Start.Year(), m.Start.Month(), 1, 0, 0, 0, 0, m.Start.Location()).AddDate(0, 1, 0)
	return marker.LastSync.After(monthEnd), nil
}

// ── Fase 3: merge y persistencia ──────────────────────────────────────────

// mergeOrders integra lo descargado al espejo local. El merge es solo-agregar
// por id de pedido: un pedido ya espejado es inmutable, aunque el remoto lo
// reenvíe con datos distintos, y nunca se borra.
func (o *Orchestrator) mergeOrders(ctx context.Context, req Request, result OrdersResult, report progress.Reporter) error {
	existing, err := o.orders.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("cargando pedidos locales: %w", err)
	}
	report.Notify(30)

	index := make(map[int64]int, len(existing))
	for i, ord := range existing {
		index[ord.ID] = i
	}
	merged := existing
	for _, ord := range result.Orders {
		if _, ok := index[ord.ID]; ok {
			continue // inmutable una vez visto
		}
		index[ord.ID] = len(merged)
		merged = append(merged, ord)
	}

	if err := o.orders.ReplaceAll(ctx, merged); err != nil {
		return fmt.Errorf("guardando pedidos: %w", err)
	}
	report.Notify(80)

	// Un mes con fallas parciales no se marca: se reintentará completo.
	now := o.now()
	if !result.Degraded() {
		for _, m := range monthWindows(req.Range) {
			if err := o.markers.Put(ctx, entity.SyncMarker{Entity: monthKey(m.Start), LastSync: now}); err != nil {
				return fmt.Errorf("guardando marcador %s: %w", monthKey(m.Start), err)
			}
		}
	}
	if err := o.markers.Put(ctx, entity.SyncMarker{Entity: entity.EntityLastSync, LastSync: now}); err != nil {
		return fmt.Errorf("guardando marcador global: %w", err)
	}
	report.Notify(100)
	return nil
}

// ── Ventanas de meses ─────────────────────────────────────────────────────

// monthWindows parte el rango en meses calendario, recortados al rango.
func monthWindows(r entity.DateRange) []entity.DateRange {
	var out []entity.DateRange
	cursor := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, r.Start.Location())
	for !cursor.After(r.End) {
		next := cursor.AddDate(0, 1, 0)
		w := entity.DateRange{Start: cursor, End: next.Add(-time.Second)}
		if w.Start.Before(r.Start) {
			w.Start = r.Start
		}
		if w.End.After(r.End) {
			w.End = r.End
		}
		out = append(out, w)
		cursor = next
	}
	return out
}

// monthKey es la llave de marcador de un mes de pedidos, p. ej. "orders:2026-03".
func monthKey(t time.Time) string {
	return "orders:" + t.Format("2006-01")
}
