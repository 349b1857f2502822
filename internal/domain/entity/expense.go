package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Periodicidad de un gasto. Vacío = gasto puntual (una sola vez).
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Expense es un gasto del negocio: puntual (Period vacío, filtrado por fecha)
// o recurrente (prorrateado sobre la ventana del reporte).
type Expense struct {
	ID       string          `json:"id"`
	Category string          `json:"category"` // texto libre
	Amount   decimal.Decimal `json:"amount"`
	Period   string          `json:"period,omitempty"` // daily|weekly|monthly|yearly; vacío = puntual
	Date     time.Time       `json:"date"`             // fecha de ocurrencia
}

// Recurring indica si el gasto es recurrente.
func (e Expense) Recurring() bool { return e.Period != "" }

// ValidExpensePeriod valida la periodicidad (vacío es válido: gasto puntual).
func ValidExpensePeriod(p string) bool {
	switch p {
	case "", PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}
