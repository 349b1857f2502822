package woo

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

// costPriceMetaKey es la llave de meta_data donde algunos plugins de costo
// dejan el costo unitario capturado al momento de la venta.
const costPriceMetaKey = "cost_price"

// wireTimeLayout es el formato de date_created_gmt (sin zona, siempre UTC).
const wireTimeLayout = "2006-01-02T15:04:05"

// ── Estructuras del protocolo WooCommerce REST v3 ─────────────────────────

type wooMeta struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type wooLineItem struct {
	ProductID   int64     `json:"product_id"`
	VariationID int64     `json:"variation_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	Total       string    `json:"total"`
	MetaData    []wooMeta `json:"meta_data"`
}

type wooOrder struct {
	ID             int64         `json:"id"`
	Number         string        `json:"number"`
	Status         string        `json:"status"`
	DateCreatedGMT string        `json:"date_created_gmt"`
	Total          string        `json:"total"`
	LineItems      []wooLineItem `json:"line_items"`
}

type wooProduct struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Type          string `json:"type"`
	Price         string `json:"price"`
	StockQuantity *int   `json:"stock_quantity"`
}

type wooVariation struct {
	ID            int64  `json:"id"`
	SKU           string `json:"sku"`
	Price         string `json:"price"`
	StockQuantity *int   `json:"stock_quantity"`
}

// ── Conversión a entidades ────────────────────────────────────────────────

// parseAmount convierte los montos que Woo envía como string. Un monto
// ilegible se degrada a cero con warning: una cifra corrupta no tumba la
// sincronización completa.
func parseAmount(s string, log *logger.Logger) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Warn().Str("amount", s).Msg("monto remoto ilegible, se toma como 0")
		return decimal.Zero
	}
	return d
}

// metaCost extrae el costo unitario embebido en meta_data, si existe. El
// plugin puede mandarlo como string o como número.
func metaCost(meta []wooMeta, log *logger.Logger) decimal.Decimal {
	for _, m := range meta {
		if m.Key != costPriceMetaKey {
			continue
		}
		var asString string
		if err := json.Unmarshal(m.Value, &asString); err == nil {
			return parseAmount(asString, log)
		}
		var asNumber float64
		if err := json.Unmarshal(m.Value, &asNumber); err == nil {
			return decimal.NewFromFloat(asNumber)
		}
		log.Warn().Str("raw", string(m.Value)).Msg("cost_price embebido ilegible")
		return decimal.Zero
	}
	return decimal.Zero
}

// toOrder normaliza un pedido del wire: fechas GMT llevadas a la zona de
// reporte y montos a decimal.
func toOrder(w wooOrder, loc *time.Location, log *logger.Logger) entity.Order {
	created, err := time.ParseInLocation(wireTimeLayout, w.DateCreatedGMT, time.UTC)
	if err != nil {
		log.Warn().Int64("order", w.ID).Str("date", w.DateCreatedGMT).Msg("fecha de pedido ilegible")
	}

	items := make([]entity.LineItem, 0, len(w.LineItems))
	for _, li := range w.LineItems {
		items = append(items, entity.LineItem{
			ProductID:   li.ProductID,
			VariationID: li.VariationID,
			SKU:         li.SKU,
			Name:        li.Name,
			Quantity:    li.Quantity,
			Total:       parseAmount(li.Total, log),
			CostPrice:   metaCost(li.MetaData, log),
		})
	}

	return entity.Order{
		ID:        w.ID,
		Number:    w.Number,
		Status:    w.Status,
		CreatedAt: created.In(loc),
		Total:     parseAmount(w.Total, log),
		LineItems: items,
	}
}

func toProduct(w wooProduct, log *logger.Logger) entity.Product {
	stock := 0
	if w.StockQuantity != nil {
		stock = *w.StockQuantity
	}
	return entity.Product{
		ID:    w.ID,
		Name:  w.Name,
		SKU:   w.SKU,
		Type:  w.Type,
		Price: parseAmount(w.Price, log),
		Stock: stock,
	}
}

func toVariation(w wooVariation, productID int64, log *logger.Logger) entity.ProductVariation {
	stock := 0
	if w.StockQuantity != nil {
		stock = *w.StockQuantity
	}
	return entity.ProductVariation{
		ID:        w.ID,
		ProductID: productID,
		SKU:       w.SKU,
		Price:     parseAmount(w.Price, log),
		Stock:     stock,
	}
}
