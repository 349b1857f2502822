package sync

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/pkg/progress"
)

// Strategy es la estrategia de descarga de pedidos.
type Strategy string

const (
	// StrategyRegular recorre el rango mes a mes saltando meses ya espejados.
	StrategyRegular Strategy = "regular"
	// StrategyDirect pagina el rango completo de una sola pasada.
	StrategyDirect Strategy = "direct"
	// StrategyChunked parte el rango en ventanas de pocos días y las descarga
	// en secuencia. Útil en tiendas donde el rango completo agota al servidor.
	StrategyChunked Strategy = "chunked"
)

// ValidStrategy reporta si s es una estrategia conocida.
func ValidStrategy(s Strategy) bool {
	switch s {
	case StrategyRegular, StrategyDirect, StrategyChunked:
		return true
	}
	return false
}

// PageFailure es una página que no se pudo descargar. La sincronización sigue
// sin ella: el resultado queda degradado pero utilizable, y el detalle viaja
// en el resultado para que el caller lo reporte.
type PageFailure struct {
	Page int    `json:"page"`
	Err  string `json:"error"`
}

// WindowFailure es una ventana de fechas completa que falló en modo chunked.
type WindowFailure struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Err   string `json:"error"`
}

// OrdersResult es el resultado de descargar pedidos, con las fallas parciales
// que hubo en el camino.
type OrdersResult struct {
	Orders        []entity.Order
	FailedPages   []PageFailure
	FailedWindows []WindowFailure
}

// Degraded reporta si el resultado viene incompleto.
func (r OrdersResult) Degraded() bool {
	return len(r.FailedPages) > 0 || len(r.FailedWindows) > 0
}

// RemoteCatalog abstrae el API remoto de la tienda. La implementación
// WooCommerce vive en infrastructure/woo; los tests usan un fake.
type RemoteCatalog interface {
	// Ready verifica que las credenciales estén configuradas. Devuelve
	// domain.ErrCredentialsMissing si no: ese error es fatal para la
	// sincronización, no degradante.
	Ready() error

	// FetchOrders descarga los pedidos del rango con la estrategia indicada.
	// Las páginas o ventanas que fallen se reportan en el resultado, no como
	// error: el error de retorno es solo para fallas totales.
	FetchOrders(ctx context.Context, r entity.DateRange, strategy Strategy, onProgress progress.Reporter) (OrdersResult, error)

	// FetchProducts descarga el catálogo completo de productos.
	FetchProducts(ctx context.Context, onProgress progress.Reporter) ([]entity.Product, []PageFailure, error)

	// FetchVariations descarga las variaciones de los productos variables dados.
	FetchVariations(ctx context.Context, productIDs []int64, onProgress progress.Reporter) ([]entity.ProductVariation, []PageFailure, error)
}
