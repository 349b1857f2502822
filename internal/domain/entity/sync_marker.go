package entity

import "time"

// Tipos de entidad del almacén local. Cada colección se guarda y reemplaza
// completa bajo su tipo (sin updates parciales).
const (
	EntityProducts   = "products"
	EntityVariations = "productVariations"
	EntityOrders     = "orders"
	EntityInventory  = "inventory"
	EntityOverheads  = "overheadCosts"
	EntityExpenses   = "expenses"
	EntityLastSync   = "lastSync"
)

// SyncMarker registra cuándo se sincronizó por última vez un tipo de entidad.
// Uno por tipo; se sobrescribe en cada sync exitoso de ese tipo.
type SyncMarker struct {
	Entity   string    `json:"entity"`
	LastSync time.Time `json:"last_sync"`
}

// Stale indica si el marcador tiene más de maxAge respecto a now.
// Un marcador cero (nunca sincronizado) siempre está vencido.
func (m SyncMarker) Stale(now time.Time, maxAge time.Duration) bool {
	if m.LastSync.IsZero() {
		return true
	}
	return now.Sub(m.LastSync) >= maxAge
}
