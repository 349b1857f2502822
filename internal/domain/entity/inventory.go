package entity

import "github.com/shopspring/decimal"

// InventoryRecord es la unidad vendible del inventario local: un registro por
// producto simple o por variación. CostPrice viene del ciclo de sync de
// inventario; SupplierPrice lo escribe el importador de precios de proveedor
// y, cuando es mayor que cero, prevalece como costo efectivo.
type InventoryRecord struct {
	ProductID     int64           `json:"product_id"`
	VariationID   int64           `json:"variation_id"` // 0 si es producto simple
	SKU           string          `json:"sku"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SupplierPrice decimal.Decimal `json:"supplier_price"`
	Stock         int             `json:"stock"`
}

// EffectiveCost devuelve el costo unitario autoritativo del registro:
// SupplierPrice si es mayor que cero (precio de proveedor más actual),
// si no CostPrice.
func (r InventoryRecord) EffectiveCost() decimal.Decimal {
	if r.SupplierPrice.GreaterThan(decimal.Zero) {
		return r.SupplierPrice
	}
	return r.CostPrice
}
