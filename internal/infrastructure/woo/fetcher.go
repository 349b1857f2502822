package woo

import (
	"context"
	"fmt"
	"time"

	appsync "github.com/jhoicas/Rentabilidad-api/internal/application/sync"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/pkg/batch"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
	"github.com/jhoicas/Rentabilidad-api/pkg/progress"
)

// Verificar en tiempo de compilación que Fetcher implementa RemoteCatalog.
var _ appsync.RemoteCatalog = (*Fetcher)(nil)

const (
	// pageBatchSize y pageBatchDelay espacian la paginación para no saturar
	// el WordPress remoto, que suele correr en hosting compartido.
	pageBatchSize  = 5
	pageBatchDelay = 500 * time.Millisecond

	// variationBatchSize agrupa productos variables por tanda de descarga.
	variationBatchSize = 10
)

// Fetcher descarga catálogo y pedidos del API de WooCommerce con las tres
// estrategias del motor de sincronización. Las páginas que fallan se
// descartan con registro: el resultado queda degradado pero completo en lo
// que sí llegó.
type Fetcher struct {
	client    *Client
	session   *Session
	loc       *time.Location
	pad       time.Duration
	chunkDays int
	log       *logger.Logger
}

// NewFetcher construye el fetcher. tzOffsetHours es el desfase de la zona de
// reporte (p. ej. -5 para Colombia); chunkDays el ancho de ventana en modo
// chunked.
func NewFetcher(session *Session, tzOffsetHours, chunkDays int, log *logger.Logger) *Fetcher {
	pad := time.Duration(tzOffsetHours) * time.Hour
	if pad < 0 {
		pad = -pad
	}
	if pad < time.Hour {
		pad = time.Hour
	}
	if chunkDays < 1 {
		chunkDays = 5
	}
	return &Fetcher{
		client:    NewClient(session),
		session:   session,
		loc:       entity.ReportingZone(tzOffsetHours),
		pad:       pad,
		chunkDays: chunkDays,
		log:       log,
	}
}

// Ready implementa RemoteCatalog.
func (f *Fetcher) Ready() error { return f.session.Ready() }

// ── Pedidos ───────────────────────────────────────────────────────────────

// FetchOrders implementa RemoteCatalog. La estrategia regular equivale a
// direct aquí: el recorrido mes a mes lo decide el orquestador.
func (f *Fetcher) FetchOrders(ctx context.Context, r entity.DateRange, strategy appsync.Strategy, onProgress progress.Reporter) (appsync.OrdersResult, error) {
	if strategy == appsync.StrategyChunked {
		return f.fetchChunked(ctx, r, onProgress)
	}
	return f.fetchWindow(ctx, r, onProgress)
}

// fetchWindow pagina una ventana completa: la primera página fija el total y
// el resto baja por tandas. Una página que falla se descarta y se reporta;
// solo la primera página es fatal porque sin ella no hay total.
func (f *Fetcher) fetchWindow(ctx context.Context, r entity.DateRange, onProgress progress.Reporter) (appsync.OrdersResult, error) {
	after, before := f.queryBounds(r)

	firstPage, totalPages, err := f.client.OrdersPage(ctx, after, before, 1)
	if err != nil {
		return appsync.OrdersResult{}, fmt.Errorf("primera página de pedidos: %w", err)
	}

	var result appsync.OrdersResult
	for _, w := range firstPage {
		result.Orders = append(result.Orders, toOrder(w, f.loc, f.log))
	}
	firstShare := 100 / totalPages
	onProgress.Notify(firstShare)
	if totalPages == 1 {
		onProgress.Notify(100)
		return result, nil
	}

	pages := make([]int, 0, totalPages-1)
	for p := 2; p <= totalPages; p++ {
		pages = append(pages, p)
	}

	rest, err := batch.Run(ctx, pages, pageBatchSize, pageBatchDelay,
		func(ctx context.Context, group []int) ([]entity.Order, error) {
			var out []entity.Order
			for _, page := range group {
				wire, _, perr := f.client.OrdersPage(ctx, after, before, page)
				if perr != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					f.log.Warn().Int("page", page).Err(perr).Msg("página de pedidos descartada")
					result.FailedPages = append(result.FailedPages, appsync.PageFailure{Page: page, Err: perr.Error()})
					continue
				}
				for _, w := range wire {
					out = append(out, toOrder(w, f.loc, f.log))
				}
			}
			return out, nil
		},
		onProgress.Scoped(firstShare, 100))
	if err != nil {
		return appsync.OrdersResult{}, err
	}
	result.Orders = append(result.Orders, rest...)
	return result, nil
}

// fetchChunked parte el rango en ventanas de pocos días y las baja en
// secuencia. Una ventana que falla entera se reporta y se sigue con la
// siguiente.
func (f *Fetcher) fetchChunked(ctx context.Context, r entity.DateRange, onProgress progress.Reporter) (appsync.OrdersResult, error) {
	windows := r.SplitDays(f.chunkDays)
	if len(windows) == 0 {
		onProgress.Notify(100)
		return appsync.OrdersResult{}, nil
	}

	var combined appsync.OrdersResult
	span := 100 / len(windows)
	for i, w := range windows {
		if ctx.Err() != nil {
			return appsync.OrdersResult{}, ctx.Err()
		}
		lo, hi := i*span, (i+1)*span
		if i == len(windows)-1 {
			hi = 100
		}
		res, err := f.fetchWindow(ctx, w, onProgress.Scoped(lo, hi))
		if err != nil {
			f.log.Warn().
				Str("start", w.Start.Format("2006-01-02")).
				Str("end", w.End.Format("2006-01-02")).
				Err(err).
				Msg("ventana de pedidos descartada")
			combined.FailedWindows = append(combined.FailedWindows, appsync.WindowFailure{
				Start: w.Start.Format("2006-01-02"),
				End:   w.End.Format("2006-01-02"),
				Err:   err.Error(),
			})
			continue
		}
		combined.Orders = append(combined.Orders, res.Orders...)
		combined.FailedPages = append(combined.FailedPages, res.FailedPages...)
	}
	onProgress.Notify(100)
	return combined, nil
}

// queryBounds amplía el rango con el desfase horario de la zona de reporte
// para no perder pedidos en el borde del día: el servidor filtra en su
// propia zona y la medianoche local no coincide con la remota.
func (f *Fetcher) queryBounds(r entity.DateRange) (after, before time.Time) {
	return r.Start.Add(-f.pad), r.End.Add(f.pad)
}

// ── Catálogo ──────────────────────────────────────────────────────────────

// FetchProducts implementa RemoteCatalog.
func (f *Fetcher) FetchProducts(ctx context.Context, onProgress progress.Reporter) ([]entity.Product, []appsync.PageFailure, error) {
	firstPage, totalPages, err := f.client.ProductsPage(ctx, 1)
	if err != nil {
		return nil, nil, fmt.Errorf("primera página de productos: %w", err)
	}

	products := make([]entity.Product, 0, len(firstPage)*totalPages)
	for _, w := range firstPage {
		products = append(products, toProduct(w, f.log))
	}
	var failed []appsync.PageFailure

	firstShare := 100 / totalPages
	onProgress.Notify(firstShare)

	pages := make([]int, 0, totalPages-1)
	for p := 2; p <= totalPages; p++ {
		pages = append(pages, p)
	}
	rest, err := batch.Run(ctx, pages, pageBatchSize, pageBatchDelay,
		func(ctx context.Context, group []int) ([]entity.Product, error) {
			var out []entity.Product
			for _, page := range group {
				wire, _, perr := f.client.ProductsPage(ctx, page)
				if perr != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					f.log.Warn().Int("page", page).Err(perr).Msg("página de productos descartada")
					failed = append(failed, appsync.PageFailure{Page: page, Err: perr.Error()})
					continue
				}
				for _, w := range wire {
					out = append(out, toProduct(w, f.log))
				}
			}
			return out, nil
		},
		onProgress.Scoped(firstShare, 100))
	if err != nil {
		return nil, nil, err
	}
	return append(products, rest...), failed, nil
}

// FetchVariations implementa RemoteCatalog: baja las variaciones de cada
// producto variable por tandas. Un producto que falla se descarta completo.
func (f *Fetcher) FetchVariations(ctx context.Context, productIDs []int64, onProgress progress.Reporter) ([]entity.ProductVariation, []appsync.PageFailure, error) {
	var failed []appsync.PageFailure

	variations, err := batch.Run(ctx, productIDs, variationBatchSize, pageBatchDelay,
		func(ctx context.Context, group []int64) ([]entity.ProductVariation, error) {
			var out []entity.ProductVariation
			for _, productID := range group {
				vars, verr := f.variationsOf(ctx, productID)
				if verr != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					f.log.Warn().Int64("product", productID).Err(verr).Msg("variaciones descartadas")
					failed = append(failed, appsync.PageFailure{Page: int(productID), Err: verr.Error()})
					continue
				}
				out = append(out, vars...)
			}
			return out, nil
		},
		onProgress)
	if err != nil {
		return nil, nil, err
	}
	return variations, failed, nil
}

// variationsOf pagina todas las variaciones de un producto.
func (f *Fetcher) variationsOf(ctx context.Context, productID int64) ([]entity.ProductVariation, error) {
	var out []entity.ProductVariation
	page := 1
	for {
		wire, totalPages, err := f.client.VariationsPage(ctx, productID, page)
		if err != nil {
			return nil, err
		}
		for _, w := range wire {
			out = append(out, toVariation(w, productID, f.log))
		}
		if page >= totalPages {
			return out, nil
		}
		page++
	}
}
