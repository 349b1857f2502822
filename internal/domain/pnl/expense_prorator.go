package pnl

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// ProratedExpenses son los gastos de una ventana de reporte, totales y
// agrupados por categoría.
type ProratedExpenses struct {
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
}

// Prorate escala los gastos al rango de fechas:
//
//   - Puntuales (Period vacío): se incluyen solo si su fecha de ocurrencia cae
//     dentro de [Start, End].
//   - Recurrentes: se incluyen siempre (no se filtran por fecha) y se escalan
//     por ventanas transcurridas con redondeo hacia arriba y piso en 1:
//     daily → monto × días, weekly → × ceil(días/7), monthly → × ceil(días/30),
//     yearly → × ceil(días/365).
//
// Función pura de (gastos, rango).
func Prorate(expenses []entity.Expense, r entity.DateRange) ProratedExpenses {
	days := r.Days()
	factor := map[string]decimal.Decimal{
		entity.PeriodDaily:   decimal.NewFromInt(int64(days)),
		entity.PeriodWeekly:  decimal.NewFromInt(int64(ceilDiv(days, 7))),
		entity.PeriodMonthly: decimal.NewFromInt(int64(ceilDiv(days, 30))),
		entity.PeriodYearly:  decimal.NewFromInt(int64(ceilDiv(days, 365))),
	}

	out := ProratedExpenses{ByCategory: make(map[string]decimal.Decimal)}
	for _, e := range expenses {
		var contribution decimal.Decimal
		if e.Recurring() {
			f, ok := factor[e.Period]
			if !ok {
				continue // periodicidad desconocida: se ignora el registro
			}
			contribution = e.Amount.Mul(f)
		} else {
			if !r.Contains(e.Date) {
				continue
			}
			contribution = e.Amount
		}
		out.Total = out.Total.Add(contribution)
		out.ByCategory[e.Category] = out.ByCategory[e.Category].Add(contribution)
	}
	return out
}

// ceilDiv divide redondeando hacia arriba, con piso en 1.
func ceilDiv(n, d int) int {
	v := (n + d - 1) / d
	if v < 1 {
		return 1
	}
	return v
}
