package pnl_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppnl "github.com/jhoicas/Rentabilidad-api/internal/application/pnl"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	domainpnl "github.com/jhoicas/Rentabilidad-api/internal/domain/pnl"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func marchRange() entity.DateRange {
	return entity.DateRange{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
	}
}

func TestCompute_EscenarioCompleto(t *testing.T) {
	// Pedido de 100 con 2 unidades del SKU "A"; el inventario dice que la
	// unidad cuesta 20. Ganancia 60, margen 60%.
	order := entity.Order{
		ID:        1001,
		Number:    "1001",
		Status:    "completed",
		CreatedAt: time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC),
		Total:     dec("100"),
		LineItems: []entity.LineItem{
			{ProductID: 10, SKU: "A", Name: "Producto A", Quantity: 2, Total: dec("100")},
		},
	}
	ix := domainpnl.BuildInventoryIndex([]entity.InventoryRecord{
		{ProductID: 10, SKU: "A", CostPrice: dec("20")},
	})

	report := apppnl.Compute([]entity.Order{order}, ix,
		domainpnl.OverheadShares{}, domainpnl.ProratedExpenses{}, decimal.Zero, marchRange())

	require.Len(t, report.Orders, 1)
	require.Len(t, report.Orders[0].LineItems, 1)

	line := report.Orders[0].LineItems[0]
	assert.Equal(t, "20", line.UnitCost)
	assert.Equal(t, "40", line.CostTotal)
	assert.Equal(t, "60", line.Profit)
	assert.Equal(t, "60", line.Margin)

	assert.Equal(t, "100", report.Summary.Revenue)
	assert.Equal(t, "40", report.Summary.CostOfGoods)
	assert.Equal(t, "60", report.Summary.GrossProfit)
	assert.Equal(t, "60", report.Summary.GrossMargin)
	assert.Equal(t, "60", report.Summary.NetProfit)
	assert.Equal(t, 1, report.Summary.OrderCount)
	assert.Equal(t, 2, report.Summary.ItemCount)
}

func TestCompute_IngresoAdicionalYGastos(t *testing.T) {
	order := entity.Order{
		ID: 1, CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Total: dec("200"),
		LineItems: []entity.LineItem{
			{ProductID: 1, Quantity: 1, Total: dec("200"), CostPrice: dec("80")},
		},
	}
	expenses := domainpnl.ProratedExpenses{
		Total:      dec("50"),
		ByCategory: map[string]decimal.Decimal{"arriendo": dec("50")},
	}

	report := apppnl.Compute([]entity.Order{order}, domainpnl.BuildInventoryIndex(nil),
		domainpnl.OverheadShares{}, expenses, dec("100"), marchRange())

	// total = 200 + 100 adicional; bruto = 300 − 80; neto = 220 − 50
	assert.Equal(t, "300", report.Summary.TotalRevenue)
	assert.Equal(t, "220", report.Summary.GrossProfit)
	assert.Equal(t, "170", report.Summary.NetProfit)
	assert.Equal(t, "50", report.Summary.ExpensesByCat["arriendo"])
}

func TestCompute_CostosIndirectosPorPedido(t *testing.T) {
	orders := []entity.Order{
		{ID: 1, CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), Total: dec("100"),
			LineItems: []entity.LineItem{{ProductID: 1, Quantity: 2, Total: dec("100")}}},
	}
	rules := []entity.OverheadCost{
		{Type: entity.OverheadPercentage, Value: dec("5")},
		{Type: entity.OverheadPerItem, Value: dec("1")},
	}
	shares := domainpnl.ComputeShares(rules, orders)

	report := apppnl.Compute(orders, domainpnl.BuildInventoryIndex(nil),
		shares, domainpnl.ProratedExpenses{}, decimal.Zero, marchRange())

	// 5% de 100 = 5, más 1 × 2 ítems = 7
	assert.Equal(t, "7", report.Orders[0].Overhead)
	assert.Equal(t, "7", report.Summary.Overhead)
	assert.Equal(t, "93", report.Orders[0].Profit)
}

func TestCompute_MargenCeroConIngresoCero(t *testing.T) {
	order := entity.Order{
		ID: 1, CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Total: decimal.Zero,
		LineItems: []entity.LineItem{
			{ProductID: 1, Quantity: 1, Total: decimal.Zero, CostPrice: dec("10")},
		},
	}

	report := apppnl.Compute([]entity.Order{order}, domainpnl.BuildInventoryIndex(nil),
		domainpnl.OverheadShares{}, domainpnl.ProratedExpenses{}, decimal.Zero, marchRange())

	// Ganancia negativa pero margen 0: nunca se divide por ingreso cero
	assert.Equal(t, "-10", report.Orders[0].Profit)
	assert.Equal(t, "0", report.Orders[0].Margin)
	assert.Equal(t, "0", report.Summary.GrossMargin)
}

func TestCompute_SinPedidos(t *testing.T) {
	report := apppnl.Compute(nil, domainpnl.BuildInventoryIndex(nil),
		domainpnl.OverheadShares{}, domainpnl.ProratedExpenses{}, decimal.Zero, marchRange())

	assert.Equal(t, 0, report.Summary.OrderCount)
	assert.Equal(t, "0", report.Summary.Revenue)
	assert.Equal(t, "0", report.Summary.NetProfit)
	assert.Empty(t, report.Orders)
	assert.Equal(t, "2026-03-01", report.Period.Start)
	assert.Equal(t, "2026-03-31", report.Period.End)
}

func TestCompute_RedondeaA2DecimalesEnSalida(t *testing.T) {
	order := entity.Order{
		ID: 1, CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Total: dec("10"),
		LineItems: []entity.LineItem{
			{ProductID: 1, Quantity: 3, Total: dec("10"), CostPrice: dec("3.333333")},
		},
	}

	report := apppnl.Compute([]entity.Order{order}, domainpnl.BuildInventoryIndex(nil),
		domainpnl.OverheadShares{}, domainpnl.ProratedExpenses{}, decimal.Zero, marchRange())

	// 3 × 3.333333 = 9.999999 → 10.00 en el borde de salida
	assert.Equal(t, "10", report.Orders[0].LineItems[0].CostTotal)
	assert.Equal(t, "3.33", report.Orders[0].LineItems[0].UnitCost)
}
