// Package pnl arma el reporte de rentabilidad de un período: combina el
// espejo local de pedidos con el inventario, las reglas de costos indirectos
// y los gastos operativos.
package pnl

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	domainpnl "github.com/jhoicas/Rentabilidad-api/internal/domain/pnl"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Compute agrega la rentabilidad de los pedidos del período. Es una función
// pura: recibe los pedidos ya filtrados al rango y todos los insumos
// resueltos, y produce el DTO final con montos redondeados a 2 decimales.
func Compute(
	orders []entity.Order,
	ix *domainpnl.InventoryIndex,
	shares domainpnl.OverheadShares,
	expenses domainpnl.ProratedExpenses,
	additionalRevenue decimal.Decimal,
	r entity.DateRange,
) dto.PnLReportDTO {
	var (
		revenue  decimal.Decimal
		cogs     decimal.Decimal
		overhead decimal.Decimal
	)
	orderDTOs := make([]dto.OrderPnLDTO, 0, len(orders))
	itemCount := 0

	for _, o := range orders {
		var orderCost decimal.Decimal
		lineDTOs := make([]dto.LineItemPnLDTO, 0, len(o.LineItems))

		for _, item := range o.LineItems {
			unitCost := domainpnl.ResolveCost(item, ix)
			lineCost := unitCost.Mul(decimal.NewFromInt(int64(item.Quantity)))
			lineProfit := item.Total.Sub(lineCost)
			orderCost = orderCost.Add(lineCost)
			itemCount += item.Quantity

			lineDTOs = append(lineDTOs, dto.LineItemPnLDTO{
				ProductID:   item.ProductID,
				VariationID: item.VariationID,
				SKU:         item.SKU,
				Name:        item.Name,
				Quantity:    item.Quantity,
				Revenue:     money(item.Total),
				UnitCost:    money(unitCost),
				CostTotal:   money(lineCost),
				Profit:      money(lineProfit),
				Margin:      money(marginPct(lineProfit, item.Total)),
			})
		}

		orderOverhead := shares.ForOrder(o)
		orderProfit := o.Total.Sub(orderCost).Sub(orderOverhead)

		revenue = revenue.Add(o.Total)
		cogs = cogs.Add(orderCost)
		overhead = overhead.Add(orderOverhead)

		orderDTOs = append(orderDTOs, dto.OrderPnLDTO{
			OrderID:   o.ID,
			Number:    o.Number,
			Status:    o.Status,
			CreatedAt: o.CreatedAt.Format("2006-01-02 15:04:05"),
			Revenue:   money(o.Total),
			CostTotal: money(orderCost),
			Overhead:  money(orderOverhead),
			Profit:    money(orderProfit),
			Margin:    money(marginPct(orderProfit, o.Total)),
			LineItems: lineDTOs,
		})
	}

	totalRevenue := revenue.Add(additionalRevenue)
	grossProfit := totalRevenue.Sub(cogs).Sub(overhead)
	netProfit := grossProfit.Sub(expenses.Total)

	byCat := make(map[string]string, len(expenses.ByCategory))
	for cat, amount := range expenses.ByCategory {
		byCat[cat] = money(amount)
	}

	return dto.PnLReportDTO{
		Period: dto.PeriodDTO{
			Start: r.Start.Format(dateLayout),
			End:   r.End.Format(dateLayout),
		},
		Summary: dto.PnLSummaryDTO{
			OrderCount:        len(orders),
			ItemCount:         itemCount,
			Revenue:           money(revenue),
			AdditionalRevenue: money(additionalRevenue),
			TotalRevenue:      money(totalRevenue),
			CostOfGoods:       money(cogs),
			Overhead:          money(overhead),
			GrossProfit:       money(grossProfit),
			GrossMargin:       money(marginPct(grossProfit, totalRevenue)),
			Expenses:          money(expenses.Total),
			ExpensesByCat:     byCat,
			NetProfit:         money(netProfit),
			NetMargin:         money(marginPct(netProfit, totalRevenue)),
		},
		Orders: orderDTOs,
	}
}

// marginPct calcula profit/revenue × 100. Con ingreso cero o negativo el
// margen es 0: nunca se divide por cero ni se reporta un porcentaje absurdo.
func marginPct(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return profit.Mul(hundred).Div(revenue)
}

// money redondea a 2 decimales en el borde de salida. Los cálculos internos
// conservan la precisión completa.
func money(d decimal.Decimal) string {
	return d.Round(2).String()
}
