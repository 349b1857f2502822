// Package pdf implementa la generación del reporte de rentabilidad en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  REPORTE P&L + Período       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos / Costos / Indirectos / Bruto / Neto     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  GASTOS POR CATEGORÍA                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Pedido | Fecha | Ingreso | Costo | Gan. | Margen    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPnLGenerator genera el reporte de rentabilidad usando Maroto v2.
type MarotoPnLGenerator struct {
	businessName string
}

// NewMarotoPnLGenerator construye el generador.
func NewMarotoPnLGenerator(businessName string) *MarotoPnLGenerator {
	return &MarotoPnLGenerator{businessName: businessName}
}

// GeneratePnLPDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoPnLGenerator) GeneratePnLPDF(_ context.Context, report dto.PnLReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Rentabilidad", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, report.Period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	for _, r := range summaryRows(report.Summary) {
		m.AddRows(r)
	}

	if len(report.Summary.ExpensesByCat) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		for _, r := range expenseRows(report.Summary.ExpensesByCat) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	for _, r := range orderRows(report.Orders) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y título + período (der).
func headerRow(businessName string, period dto.PeriodDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE RENTABILIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s a %s", period.Start, period.End), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRows: bloque de resumen, una línea por métrica.
func summaryRows(s dto.PnLSummaryDTO) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("RESUMEN DEL PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	metric := func(label, value string, bold bool, color *props.Color) core.Row {
		style := fontstyle.Normal
		size := 9.0
		if bold {
			style = fontstyle.Bold
			size = 10
		}
		return row.New(6).Add(
			col.New(2),
			col.New(5).Add(text.New(label, props.Text{
				Style: style, Size: size, Align: align.Right, Right: 2, Color: color,
			})),
			col.New(3).Add(text.New(value, props.Text{
				Style: style, Size: size, Align: align.Right, Right: 1, Color: color,
			})),
			col.New(2),
		)
	}

	rows = append(rows,
		metric(fmt.Sprintf("Ingresos (%d pedidos):", s.OrderCount), "$"+formatMoney(s.Revenue), false, nil),
		metric("Ingresos adicionales:", "$"+formatMoney(s.AdditionalRevenue), false, nil),
		metric("Costo de mercancía:", "$"+formatMoney(s.CostOfGoods), false, nil),
		metric("Costos indirectos:", "$"+formatMoney(s.Overhead), false, nil),
		metric("GANANCIA BRUTA:", fmt.Sprintf("$%s (%s%%)", formatMoney(s.GrossProfit), s.GrossMargin), true, colorPrimary),
		metric("Gastos operativos:", "$"+formatMoney(s.Expenses), false, nil),
		metric("GANANCIA NETA:", fmt.Sprintf("$%s (%s%%)", formatMoney(s.NetProfit), s.NetMargin), true, profitColor(s.NetProfit)),
	)
	return rows
}

// expenseRows: gastos por categoría en orden alfabético para salida estable.
func expenseRows(byCat map[string]string) []core.Row {
	cats := make([]string, 0, len(byCat))
	for cat := range byCat {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("GASTOS POR CATEGORÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, cat := range cats {
		rows = append(rows, row.New(5).Add(
			col.New(2),
			col.New(5).Add(text.New(cat+":", props.Text{
				Size: 8, Align: align.Right, Right: 2, Color: colorGray,
			})),
			col.New(3).Add(text.New("$"+formatMoney(byCat[cat]), props.Text{
				Size: 8, Align: align.Right, Right: 1, Color: colorGray,
			})),
			col.New(2),
		))
	}
	return rows
}

// tableHeaderRow: cabecera de la tabla de pedidos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Pedido", 1, align.Left),
		h("Fecha", 3, align.Left),
		h("Ingreso", 2, align.Right),
		h("Costo", 2, align.Right),
		h("Indirectos", 2, align.Right),
		h("Ganancia", 1, align.Right),
		h("Margen", 1, align.Right),
	)
}

// orderRows: una fila por pedido del período.
func orderRows(orders []dto.OrderPnLDTO) []core.Row {
	result := make([]core.Row, 0, len(orders))
	cell := func(s string, size int, a align.Type, color *props.Color) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color,
		}))
	}
	for _, o := range orders {
		result = append(result, row.New(6).Add(
			cell("#"+o.Number, 1, align.Left, nil),
			cell(o.CreatedAt, 3, align.Left, colorGray),
			cell("$"+formatMoney(o.Revenue), 2, align.Right, nil),
			cell("$"+formatMoney(o.CostTotal), 2, align.Right, nil),
			cell("$"+formatMoney(o.Overhead), 2, align.Right, nil),
			cell("$"+formatMoney(o.Profit), 1, align.Right, profitColor(o.Profit)),
			cell(o.Margin+"%", 1, align.Right, nil),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// profitColor resalta en rojo las ganancias negativas.
func profitColor(amount string) *props.Color {
	if strings.HasPrefix(amount, "-") {
		return colorNegative
	}
	return nil
}

// formatMoney inserta puntos de miles en la parte entera de un monto.
// Ej: "25000" → "25.000", "1000000.50" → "1.000.000.50"
func formatMoney(s string) string {
	intPart, decPart, hasDec := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	n := len(intPart)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i, c := range []byte(intPart) {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, '.')
			}
			buf = append(buf, c)
		}
		intPart = string(buf)
	}
	if neg {
		intPart = "-" + intPart
	}
	if hasDec {
		return intPart + "." + decPart
	}
	return intPart
}
