package pnl

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// daysPerMonth es el mes comercial asumido para convertir montos fijos
// mensuales en tarifa diaria.
const daysPerMonth = 30

var hundred = decimal.NewFromInt(100)

// OverheadShares contiene las tarifas ya agregadas de las cuatro clases de
// costo indirecto, listas para evaluarse pedido a pedido.
type OverheadShares struct {
	FixedPerOrder  decimal.Decimal // participación del costo fijo mensual por pedido
	PerOrderFlat   decimal.Decimal // monto plano por pedido
	PerItemRate    decimal.Decimal // monto por unidad vendida
	PercentageRate decimal.Decimal // % agregado sobre el total del pedido
}

// ComputeShares suma las reglas por clase y deriva las tarifas por pedido.
//
// La clase fixed se trata como monto mensual: se divide entre 30 para obtener
// tarifa diaria y luego entre (pedidos ÷ días-con-pedidos) del período, de
// modo que el costo fijo se reparte parejo sobre el volumen de pedidos
// realmente observado y no solo sobre días calendario.
// Función pura de (reglas, pedidos); reejecutar con lo mismo da lo mismo.
func ComputeShares(rules []entity.OverheadCost, orders []entity.Order) OverheadShares {
	var s OverheadShares
	var fixedMonthly decimal.Decimal

	for _, r := range rules {
		switch r.Type {
		case entity.OverheadFixed:
			fixedMonthly = fixedMonthly.Add(r.Value)
		case entity.OverheadPerOrder:
			s.PerOrderFlat = s.PerOrderFlat.Add(r.Value)
		case entity.OverheadPerItem:
			s.PerItemRate = s.PerItemRate.Add(r.Value)
		case entity.OverheadPercentage:
			s.PercentageRate = s.PercentageRate.Add(r.Value)
		}
	}

	if fixedMonthly.GreaterThan(decimal.Zero) && len(orders) > 0 {
		daily := fixedMonthly.Div(decimal.NewFromInt(daysPerMonth))
		days := decimal.NewFromInt(int64(distinctOrderDays(orders)))
		count := decimal.NewFromInt(int64(len(orders)))
		// daily / (count/days) == daily * days / count
		s.FixedPerOrder = daily.Mul(days).Div(count)
	}

	return s
}

// ForOrder evalúa el costo indirecto total de un pedido:
// fijo + plano + (por ítem × cantidad) + (porcentaje × total).
func (s OverheadShares) ForOrder(o entity.Order) decimal.Decimal {
	total := s.FixedPerOrder.Add(s.PerOrderFlat)
	if !s.PerItemRate.IsZero() {
		total = total.Add(s.PerItemRate.Mul(decimal.NewFromInt(int64(o.ItemCount()))))
	}
	if !s.PercentageRate.IsZero() {
		total = total.Add(s.PercentageRate.Mul(o.Total).Div(hundred))
	}
	return total
}

// distinctOrderDays cuenta los días calendario distintos con al menos un
// pedido, piso en 1.
func distinctOrderDays(orders []entity.Order) int {
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		seen[o.CreatedAt.Format("2006-01-02")] = struct{}{}
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}
