package entity

import "github.com/shopspring/decimal"

// Tipos de producto según el API remoto.
const (
	ProductTypeSimple   = "simple"
	ProductTypeVariable = "variable"
)

// Product es un producto del catálogo remoto espejado localmente.
type Product struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	SKU   string          `json:"sku"`
	Type  string          `json:"type"` // simple | variable
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// ProductVariation es una variación de un producto variable; vende como
// unidad propia con su SKU y precio.
type ProductVariation struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}
