// Package pnl contiene los servicios de dominio puros del motor de
// rentabilidad: resolución de costo unitario, asignación de costos indirectos
// y prorrateo de gastos. Todas las funciones son deterministas: mismas
// entradas, mismas salidas, sin reloj ni aleatoriedad.
package pnl

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

type invKey struct {
	productID   int64
	variationID int64
}

// InventoryIndex indexa el snapshot de inventario por SKU y por par
// (producto, variación) para resolver costos en O(1) por línea.
type InventoryIndex struct {
	bySKU map[string]entity.InventoryRecord
	byID  map[invKey]entity.InventoryRecord
}

// BuildInventoryIndex construye el índice. Ante SKUs duplicados gana el primer
// registro, para que la resolución sea estable entre ejecuciones.
func BuildInventoryIndex(records []entity.InventoryRecord) *InventoryIndex {
	ix := &InventoryIndex{
		bySKU: make(map[string]entity.InventoryRecord, len(records)),
		byID:  make(map[invKey]entity.InventoryRecord, len(records)),
	}
	for _, r := range records {
		if r.SKU != "" {
			if _, ok := ix.bySKU[r.SKU]; !ok {
				ix.bySKU[r.SKU] = r
			}
		}
		k := invKey{productID: r.ProductID, variationID: r.VariationID}
		if _, ok := ix.byID[k]; !ok {
			ix.byID[k] = r
		}
	}
	return ix
}

// Match busca el registro de inventario de una línea con la prioridad de
// resolución: primero SKU exacto (la llave más estable ante ediciones del
// catálogo), luego el par (producto, variación) o el producto a secas.
func (ix *InventoryIndex) Match(item entity.LineItem) (entity.InventoryRecord, bool) {
	if item.SKU != "" {
		if r, ok := ix.bySKU[item.SKU]; ok {
			return r, true
		}
	}
	if r, ok := ix.byID[invKey{productID: item.ProductID, variationID: item.VariationID}]; ok {
		return r, true
	}
	return entity.InventoryRecord{}, false
}

// ResolveCost resuelve el costo unitario autoritativo de una línea vendida:
//
//  1. SKU exacto en el índice.
//  2. Par (producto, variación), o producto solo si es simple.
//  3. Costo embebido en la línea (fijado al procesar el pedido).
//
// Dentro del registro encontrado, SupplierPrice > 0 prevalece sobre CostPrice.
// Sin match y sin costo embebido, el costo es cero (margen 100%, no es error).
func ResolveCost(item entity.LineItem, ix *InventoryIndex) decimal.Decimal {
	if ix != nil {
		if rec, ok := ix.Match(item); ok {
			return rec.EffectiveCost()
		}
	}
	return item.CostPrice
}
