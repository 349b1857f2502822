package dto

// PeriodDTO rango de fechas del reporte en formato YYYY-MM-DD, inclusivo.
type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LineItemPnLDTO desglose de rentabilidad de una línea de pedido.
type LineItemPnLDTO struct {
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Revenue     string `json:"revenue"`
	UnitCost    string `json:"unit_cost"`
	CostTotal   string `json:"cost_total"`
	Profit      string `json:"profit"`
	Margin      string `json:"margin"` // % sobre ingreso de la línea, 0 si no hay ingreso
}

// OrderPnLDTO rentabilidad de un pedido completo.
type OrderPnLDTO struct {
	OrderID   int64            `json:"order_id"`
	Number    string           `json:"number"`
	Status    string           `json:"status"`
	CreatedAt string           `json:"created_at"`
	Revenue   string           `json:"revenue"`
	CostTotal string           `json:"cost_total"`
	Overhead  string           `json:"overhead"`
	Profit    string           `json:"profit"`
	Margin    string           `json:"margin"`
	LineItems []LineItemPnLDTO `json:"line_items"`
}

// PnLSummaryDTO totales agregados del período.
type PnLSummaryDTO struct {
	OrderCount        int               `json:"order_count"`
	ItemCount         int               `json:"item_count"`
	Revenue           string            `json:"revenue"`
	AdditionalRevenue string            `json:"additional_revenue"`
	TotalRevenue      string            `json:"total_revenue"`
	CostOfGoods       string            `json:"cost_of_goods"`
	Overhead          string            `json:"overhead"`
	GrossProfit       string            `json:"gross_profit"`
	GrossMargin       string            `json:"gross_margin"`
	Expenses          string            `json:"expenses"`
	ExpensesByCat     map[string]string `json:"expenses_by_category"`
	NetProfit         string            `json:"net_profit"`
	NetMargin         string            `json:"net_margin"`
}

// PnLReportDTO reporte de rentabilidad completo de un período.
type PnLReportDTO struct {
	Period  PeriodDTO     `json:"period"`
	Summary PnLSummaryDTO `json:"summary"`
	Orders  []OrderPnLDTO `json:"orders"`
}

// PnLRequest parámetros de consulta del reporte.
type PnLRequest struct {
	Start             string `query:"start" validate:"required,datetime=2006-01-02"`
	End               string `query:"end" validate:"required,datetime=2006-01-02"`
	AdditionalRevenue string `query:"additional_revenue" validate:"omitempty"`
}
