package woo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/jhoicas/Rentabilidad-api/internal/application/sync"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/woo"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

// wireOrder arma el JSON que devuelve el API remoto en los tests.
type wireOrder struct {
	ID             int64      `json:"id"`
	Number         string     `json:"number"`
	Status         string     `json:"status"`
	DateCreatedGMT string     `json:"date_created_gmt"`
	Total          string     `json:"total"`
	LineItems      []wireItem `json:"line_items"`
}

type wireItem struct {
	ProductID int64      `json:"product_id"`
	SKU       string     `json:"sku"`
	Quantity  int        `json:"quantity"`
	Total     string     `json:"total"`
	MetaData  []wireMeta `json:"meta_data"`
}

type wireMeta struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// storeServer simula el API de WooCommerce: filtra pedidos por after/before y
// pagina de a uno por página para forzar paginación con pocos datos.
type storeServer struct {
	orders    []wireOrder
	failPages map[int]bool // páginas de pedidos que responden 500
}

func (s *storeServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.NotEmpty(t, q.Get("consumer_key"), "las credenciales viajan en el query string")
		require.NotEmpty(t, q.Get("consumer_secret"))
		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}

		switch r.URL.Path {
		case "/wp-json/wc/v3/orders":
			if s.failPages[page] {
				http.Error(w, `{"message":"internal error"}`, http.StatusInternalServerError)
				return
			}
			after, _ := time.Parse(time.RFC3339, q.Get("after"))
			before, _ := time.Parse(time.RFC3339, q.Get("before"))
			var inRange []wireOrder
			for _, o := range s.orders {
				created, _ := time.Parse("2006-01-02T15:04:05", o.DateCreatedGMT)
				if !created.Before(after) && !created.After(before) {
					inRange = append(inRange, o)
				}
			}
			writePage(w, inRange, page)
		case "/wp-json/wc/v3/products":
			products := []map[string]any{
				{"id": 1, "name": "Camisa", "sku": "CAM-1", "type": "simple", "price": "35.00", "stock_quantity": 4},
				{"id": 2, "name": "Zapato", "sku": "ZAP-1", "type": "variable", "price": "", "stock_quantity": nil},
			}
			writePage(w, products, page)
		case "/wp-json/wc/v3/products/2/variations":
			variations := []map[string]any{
				{"id": 21, "sku": "ZAP-1-38", "price": "80.00", "stock_quantity": 2},
				{"id": 22, "sku": "ZAP-1-40", "price": "80.00", "stock_quantity": 1},
			}
			writePage(w, variations, page)
		default:
			http.NotFound(w, r)
		}
	}
}

// writePage entrega el elemento `page` de la lista, uno por página, con los
// headers de paginación de WordPress.
func writePage[T any](w http.ResponseWriter, items []T, page int) {
	total := len(items)
	if total == 0 {
		total = 1
	}
	w.Header().Set("X-WP-Total", strconv.Itoa(len(items)))
	w.Header().Set("X-WP-TotalPages", strconv.Itoa(total))
	w.Header().Set("Content-Type", "application/json")

	var pageItems []T
	if page <= len(items) {
		pageItems = items[page-1 : page]
	}
	if pageItems == nil {
		pageItems = []T{}
	}
	json.NewEncoder(w).Encode(pageItems)
}

func newFetcher(t *testing.T, srv *storeServer) (*woo.Fetcher, *httptest.Server) {
	ts := httptest.NewServer(srv.handler(t))
	t.Cleanup(ts.Close)
	session := woo.NewSession(ts.URL, "ck_test", "cs_test", time.Hour)
	return woo.NewFetcher(session, -5, 5, logger.Nop()), ts
}

func sampleWireOrders() []wireOrder {
	// Timestamps a mediodía, lejos de los bordes de ventana
	return []wireOrder{
		{ID: 1, Number: "1", Status: "completed", DateCreatedGMT: "2026-03-01T12:00:00", Total: "100.00",
			LineItems: []wireItem{{ProductID: 1, SKU: "CAM-1", Quantity: 2, Total: "100.00",
				MetaData: []wireMeta{{Key: "cost_price", Value: "20"}}}}},
		{ID: 2, Number: "2", Status: "processing", DateCreatedGMT: "2026-03-04T12:00:00", Total: "80.00"},
		{ID: 3, Number: "3", Status: "completed", DateCreatedGMT: "2026-03-09T12:00:00", Total: "no-es-numero"},
	}
}

func marchWindow() entity.DateRange {
	return entity.DateRange{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC),
	}
}

func orderIDs(orders []entity.Order) []int64 {
	seen := map[int64]bool{}
	var ids []int64
	for _, o := range orders {
		if !seen[o.ID] {
			seen[o.ID] = true
			ids = append(ids, o.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ── Tests ─────────────────────────────────────────────────────────────────

func TestFetchOrders_DirectoPaginaCompleto(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{orders: sampleWireOrders()})

	var trace []int
	res, err := fetcher.FetchOrders(context.Background(), marchWindow(), appsync.StrategyDirect,
		func(pct int) { trace = append(trace, pct) })
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, orderIDs(res.Orders))
	assert.False(t, res.Degraded())

	require.NotEmpty(t, trace)
	assert.Equal(t, 100, trace[len(trace)-1], "el progreso termina exactamente en 100")
	for i := 1; i < len(trace); i++ {
		assert.GreaterOrEqual(t, trace[i], trace[i-1], "el progreso nunca retrocede")
	}
}

func TestFetchOrders_NormalizaMontosYCostos(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{orders: sampleWireOrders()})

	res, err := fetcher.FetchOrders(context.Background(), marchWindow(), appsync.StrategyDirect, nil)
	require.NoError(t, err)
	require.Len(t, res.Orders, 3)

	byID := map[int64]entity.Order{}
	for _, o := range res.Orders {
		byID[o.ID] = o
	}

	assert.Equal(t, "100", byID[1].Total.String())
	require.Len(t, byID[1].LineItems, 1)
	assert.Equal(t, "20", byID[1].LineItems[0].CostPrice.String(),
		"el cost_price embebido en meta_data se extrae")

	assert.True(t, byID[3].Total.IsZero(), "un monto ilegible se degrada a 0, no a error")
}

func TestFetchOrders_NormalizaFechasALaZonaDeReporte(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{orders: sampleWireOrders()})

	res, err := fetcher.FetchOrders(context.Background(), marchWindow(), appsync.StrategyDirect, nil)
	require.NoError(t, err)

	for _, o := range res.Orders {
		_, offset := o.CreatedAt.Zone()
		assert.Equal(t, -5*3600, offset, "las fechas quedan en la zona de reporte")
	}
}

func TestFetchOrders_PaginaFallidaSeDescartaYReporta(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{
		orders:    sampleWireOrders(),
		failPages: map[int]bool{2: true},
	})

	res, err := fetcher.FetchOrders(context.Background(), marchWindow(), appsync.StrategyDirect, nil)
	require.NoError(t, err, "una página fallida degrada, no aborta")

	assert.Equal(t, []int64{1, 3}, orderIDs(res.Orders))
	require.Len(t, res.FailedPages, 1)
	assert.Equal(t, 2, res.FailedPages[0].Page)
	assert.True(t, res.Degraded())
}

func TestFetchOrders_PrimeraPaginaFallidaEsFatal(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{
		orders:    sampleWireOrders(),
		failPages: map[int]bool{1: true},
	})

	_, err := fetcher.FetchOrders(context.Background(), marchWindow(), appsync.StrategyDirect, nil)
	require.Error(t, err, "sin primera página no hay total de páginas: falla total")

	var apiErr *woo.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestFetchOrders_ChunkedEquivaleADirecto(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{orders: sampleWireOrders()})

	direct, err := fetcher.FetchOrders(context.Background(), marchWindow(), appsync.StrategyDirect, nil)
	require.NoError(t, err)

	var trace []int
	chunked, err := fetcher.FetchOrders(context.Background(), marchWindow(), appsync.StrategyChunked,
		func(pct int) { trace = append(trace, pct) })
	require.NoError(t, err)

	assert.Equal(t, orderIDs(direct.Orders), orderIDs(chunked.Orders),
		"sin fallas, chunked y direct traen los mismos pedidos")
	assert.Equal(t, 100, trace[len(trace)-1])
}

func TestFetchProducts_CatalogoCompleto(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{})

	products, failed, err := fetcher.FetchProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, products, 2)

	assert.Equal(t, "CAM-1", products[0].SKU)
	assert.Equal(t, entity.ProductTypeSimple, products[0].Type)
	assert.Equal(t, 4, products[0].Stock)
	assert.Equal(t, entity.ProductTypeVariable, products[1].Type)
	assert.Equal(t, 0, products[1].Stock, "stock null se toma como 0")
}

func TestFetchVariations_PorProducto(t *testing.T) {
	fetcher, _ := newFetcher(t, &storeServer{})

	variations, failed, err := fetcher.FetchVariations(context.Background(), []int64{2}, nil)
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, variations, 2)
	assert.Equal(t, int64(2), variations[0].ProductID)
	assert.Equal(t, "ZAP-1-38", variations[0].SKU)
}

func TestReady_SinCredenciales(t *testing.T) {
	session := woo.NewSession("", "", "", time.Hour)
	fetcher := woo.NewFetcher(session, -5, 5, logger.Nop())

	assert.ErrorIs(t, fetcher.Ready(), domain.ErrCredentialsMissing)
}

func TestSession_ConfiguradaEnCalienteVence(t *testing.T) {
	session := woo.NewSession("", "", "", 10*time.Millisecond)
	session.Configure("https://tienda.example", "ck", "cs")
	require.NoError(t, session.Ready())

	time.Sleep(20 * time.Millisecond)
	assert.ErrorIs(t, session.Ready(), domain.ErrSessionExpired)
}
