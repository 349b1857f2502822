package entity

import "github.com/shopspring/decimal"

// Tipos de costo indirecto (overhead). Configuración estática, autoría externa.
const (
	OverheadFixed      = "fixed"      // monto mensual, repartido entre los pedidos observados del período
	OverheadPerOrder   = "per_order"  // monto plano por pedido
	OverheadPerItem    = "per_item"   // monto por unidad vendida
	OverheadPercentage = "percentage" // porcentaje del total del pedido
)

// OverheadCost es una regla de costo indirecto del negocio, asignada a los
// pedidos por una de las cuatro clases.
type OverheadCost struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// ValidOverheadType indica si el tipo es una de las cuatro clases conocidas.
func ValidOverheadType(t string) bool {
	switch t {
	case OverheadFixed, OverheadPerOrder, OverheadPerItem, OverheadPercentage:
		return true
	}
	return false
}
