package pnl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppnl "github.com/jhoicas/Rentabilidad-api/internal/application/pnl"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

// colFija implementa un repositorio de colección fijo en memoria.
type colFija[T any] struct{ items []T }

func (c colFija[T]) GetAll(context.Context) ([]T, error)   { return c.items, nil }
func (c colFija[T]) ReplaceAll(context.Context, []T) error { return nil }

func newReportUseCase(orders []entity.Order, records []entity.InventoryRecord, loc *time.Location) *apppnl.ReportUseCase {
	return apppnl.NewReportUseCase(
		colFija[entity.Order]{items: orders},
		colFija[entity.InventoryRecord]{items: records},
		colFija[entity.OverheadCost]{},
		colFija[entity.Expense]{},
		nil, loc, logger.Nop(),
	)
}

func TestGetReport_LimitesEnZonaDeReporte(t *testing.T) {
	bogota := entity.ReportingZone(-5)
	// Pedido de la noche local del 31 de enero: en UTC ya es 1 de febrero
	orders := []entity.Order{
		{ID: 1, Number: "1", CreatedAt: time.Date(2026, 1, 31, 21, 0, 0, 0, bogota), Total: dec("80"),
			LineItems: []entity.LineItem{{ProductID: 10, SKU: "A", Quantity: 1, Total: dec("80")}}},
		{ID: 2, Number: "2", CreatedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, bogota), Total: dec("30"),
			LineItems: []entity.LineItem{{ProductID: 10, SKU: "A", Quantity: 1, Total: dec("30")}}},
	}
	uc := newReportUseCase(orders, nil, bogota)

	report, err := uc.GetReport(context.Background(), "2026-01-01", "2026-01-31", "")
	require.NoError(t, err)

	require.Equal(t, 1, report.Summary.OrderCount,
		"la noche local del último día entra; el pedido de febrero no")
	assert.Equal(t, int64(1), report.Orders[0].OrderID)
	assert.Equal(t, "80", report.Summary.Revenue)
}

func TestGetReport_RangoInvalido(t *testing.T) {
	uc := newReportUseCase(nil, nil, time.UTC)

	_, err := uc.GetReport(context.Background(), "31-01-2026", "2026-01-31", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetReport(context.Background(), "2026-01-31", "2026-01-01", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetReport(context.Background(), "2026-01-01", "2026-01-31", "no-numero")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
