package pnl_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/pnl"
)

func orderOn(day int, total string, qty int) entity.Order {
	return entity.Order{
		ID:        int64(day*100 + qty),
		CreatedAt: time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
		Total:     dec(total),
		LineItems: []entity.LineItem{{ProductID: 1, Quantity: qty, Total: dec(total)}},
	}
}

func TestComputeShares_Porcentaje(t *testing.T) {
	orders := []entity.Order{orderOn(1, "100", 1)}
	shares := pnl.ComputeShares([]entity.OverheadCost{
		{Type: entity.OverheadPercentage, Value: dec("5")},
	}, orders)

	got := shares.ForOrder(orders[0])
	assert.True(t, got.Equal(dec("5")),
		"pedido de 100 con regla percentage de 5 debe aportar exactamente 5, no %s", got)
}

func TestComputeShares_PorPedidoYPorItem(t *testing.T) {
	o := orderOn(1, "200", 3)
	shares := pnl.ComputeShares([]entity.OverheadCost{
		{Type: entity.OverheadPerOrder, Value: dec("2.50")},
		{Type: entity.OverheadPerOrder, Value: dec("1.50")}, // las reglas del mismo tipo se suman
		{Type: entity.OverheadPerItem, Value: dec("0.30")},
	}, []entity.Order{o})

	// per_order: 2.50+1.50 = 4 ; per_item: 0.30 × 3 = 0.90
	assert.True(t, shares.ForOrder(o).Equal(dec("4.90")))
}

func TestComputeShares_FijoRepartidoSobreVolumenObservado(t *testing.T) {
	// 900 mensual → 30 diario. 6 pedidos en 3 días distintos → 2 pedidos/día.
	// Participación fija por pedido: 30 / 2 = 15.
	rules := []entity.OverheadCost{{Type: entity.OverheadFixed, Value: dec("900")}}
	orders := []entity.Order{
		orderOn(1, "10", 1), orderOn(1, "10", 2),
		orderOn(2, "10", 1), orderOn(2, "10", 2),
		orderOn(3, "10", 1), orderOn(3, "10", 2),
	}

	shares := pnl.ComputeShares(rules, orders)
	assert.True(t, shares.FixedPerOrder.Equal(dec("15")),
		"esperaba 15 por pedido, obtuve %s", shares.FixedPerOrder)
}

func TestComputeShares_FijoSinPedidosEsCero(t *testing.T) {
	rules := []entity.OverheadCost{{Type: entity.OverheadFixed, Value: dec("900")}}
	shares := pnl.ComputeShares(rules, nil)

	assert.True(t, shares.FixedPerOrder.IsZero(),
		"sin pedidos no hay entre qué repartir el fijo")
}

func TestComputeShares_LasCuatroClasesSeCombinan(t *testing.T) {
	o := orderOn(1, "100", 2)
	rules := []entity.OverheadCost{
		{Type: entity.OverheadFixed, Value: dec("30")},      // 1 diario / 1 pedido-día = 1
		{Type: entity.OverheadPerOrder, Value: dec("2")},    // 2
		{Type: entity.OverheadPerItem, Value: dec("0.50")},  // 0.50 × 2 = 1
		{Type: entity.OverheadPercentage, Value: dec("10")}, // 10% × 100 = 10
	}

	shares := pnl.ComputeShares(rules, []entity.Order{o})
	assert.True(t, shares.ForOrder(o).Equal(dec("14")),
		"fijo + plano + por ítem + porcentaje = 1+2+1+10")
}

func TestComputeShares_Determinista(t *testing.T) {
	rules := []entity.OverheadCost{
		{Type: entity.OverheadFixed, Value: dec("450")},
		{Type: entity.OverheadPercentage, Value: dec("3")},
	}
	orders := []entity.Order{orderOn(1, "80", 1), orderOn(5, "120", 4)}

	a := pnl.ComputeShares(rules, orders)
	b := pnl.ComputeShares(rules, orders)

	assert.True(t, a.ForOrder(orders[0]).Equal(b.ForOrder(orders[0])),
		"misma entrada debe producir idéntica salida")
	assert.True(t, a.ForOrder(orders[1]).Equal(b.ForOrder(orders[1])))
}

func TestForOrder_SinReglasEsCero(t *testing.T) {
	var shares pnl.OverheadShares
	assert.True(t, shares.ForOrder(orderOn(1, "500", 9)).IsZero())
}
