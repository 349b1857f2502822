package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem es una línea de un pedido: un producto o variación con su cantidad
// e ingreso propio. No tiene identidad independiente del pedido.
type LineItem struct {
	ProductID   int64           `json:"product_id"`
	VariationID int64           `json:"variation_id"` // 0 si es producto simple
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`      // ingreso de la línea
	CostPrice   decimal.Decimal `json:"cost_price"` // costo embebido al procesar el pedido (snapshot de inventario de ese momento)
}

// Order es un pedido espejado desde la tienda remota. El ID lo asigna el
// remoto y es estable: la fusión local nunca guarda dos pedidos con el mismo ID.
// Las cifras derivadas (costo total, utilidad, margen) viven en copias
// transitorias del motor P&L, nunca se persisten aquí.
type Order struct {
	ID        int64           `json:"id"`
	Number    string          `json:"number"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"` // normalizado a la zona horaria de reportes
	Total     decimal.Decimal `json:"total"`
	LineItems []LineItem      `json:"line_items"`
}

// ItemCount suma las cantidades de todas las líneas del pedido.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.LineItems {
		n += it.Quantity
	}
	return n
}
