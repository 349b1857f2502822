// Package settings administra la configuración de negocio del motor de
// rentabilidad: reglas de costos indirectos y gastos operativos.
package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// UseCase casos de uso de configuración.
type UseCase struct {
	overheadRepo repository.OverheadCostRepository
	expenseRepo  repository.ExpenseRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(overheadRepo repository.OverheadCostRepository, expenseRepo repository.ExpenseRepository) *UseCase {
	return &UseCase{overheadRepo: overheadRepo, expenseRepo: expenseRepo}
}

// ── Costos indirectos ─────────────────────────────────────────────────────

// ListOverheads devuelve las reglas configuradas.
func (uc *UseCase) ListOverheads(ctx context.Context) ([]dto.OverheadCostDTO, error) {
	rules, err := uc.overheadRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OverheadCostDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, dto.OverheadCostDTO{ID: r.ID, Name: r.Name, Type: r.Type, Value: r.Value.String()})
	}
	return out, nil
}

// ReplaceOverheads valida y reemplaza el conjunto completo de reglas. Las
// reglas sin id reciben uno nuevo.
func (uc *UseCase) ReplaceOverheads(ctx context.Context, in []dto.OverheadCostDTO) ([]dto.OverheadCostDTO, error) {
	rules := make([]entity.OverheadCost, 0, len(in))
	for i, d := range in {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: la regla %d no tiene nombre", domain.ErrInvalidInput, i)
		}
		if !entity.ValidOverheadType(d.Type) {
			return nil, fmt.Errorf("%w: tipo de costo desconocido %q", domain.ErrInvalidInput, d.Type)
		}
		value, err := decimal.NewFromString(d.Value)
		if err != nil || value.IsNegative() {
			return nil, fmt.Errorf("%w: valor inválido %q en %q", domain.ErrInvalidInput, d.Value, d.Name)
		}
		id := d.ID
		if id == "" {
			id = uuid.New().String()
		}
		rules = append(rules, entity.OverheadCost{ID: id, Name: d.Name, Type: d.Type, Value: value})
	}
	if err := uc.overheadRepo.ReplaceAll(ctx, rules); err != nil {
		return nil, err
	}
	return uc.ListOverheads(ctx)
}

// ── Gastos ────────────────────────────────────────────────────────────────

// ListExpenses devuelve los gastos registrados.
func (uc *UseCase) ListExpenses(ctx context.Context) ([]dto.ExpenseDTO, error) {
	expenses, err := uc.expenseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		d := dto.ExpenseDTO{ID: e.ID, Category: e.Category, Amount: e.Amount.String(), Period: e.Period}
		if !e.Date.IsZero() {
			d.Date = e.Date.Format(dateLayout)
		}
		out = append(out, d)
	}
	return out, nil
}

// ReplaceExpenses valida y reemplaza el conjunto completo de gastos. Un gasto
// puntual (sin periodicidad) exige fecha; uno recurrente no la necesita.
func (uc *UseCase) ReplaceExpenses(ctx context.Context, in []dto.ExpenseDTO) ([]dto.ExpenseDTO, error) {
	expenses := make([]entity.Expense, 0, len(in))
	for i, d := range in {
		if d.Category == "" {
			return nil, fmt.Errorf("%w: el gasto %d no tiene categoría", domain.ErrInvalidInput, i)
		}
		if !entity.ValidExpensePeriod(d.Period) {
			return nil, fmt.Errorf("%w: periodicidad desconocida %q", domain.ErrInvalidInput, d.Period)
		}
		amount, err := decimal.NewFromString(d.Amount)
		if err != nil || amount.IsNegative() {
			return nil, fmt.Errorf("%w: monto inválido %q en %q", domain.ErrInvalidInput, d.Amount, d.Category)
		}
		var date time.Time
		if d.Date != "" {
			date, err = time.Parse(dateLayout, d.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: fecha inválida %q en %q", domain.ErrInvalidInput, d.Date, d.Category)
			}
		}
		if d.Period == "" && date.IsZero() {
			return nil, fmt.Errorf("%w: el gasto puntual %q requiere fecha", domain.ErrInvalidInput, d.Category)
		}
		id := d.ID
		if id == "" {
			id = uuid.New().String()
		}
		expenses = append(expenses, entity.Expense{ID: id, Category: d.Category, Amount: amount, Period: d.Period, Date: date})
	}
	if err := uc.expenseRepo.ReplaceAll(ctx, expenses); err != nil {
		return nil, err
	}
	return uc.ListExpenses(ctx)
}
