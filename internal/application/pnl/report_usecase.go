package pnl

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	domainpnl "github.com/jhoicas/Rentabilidad-api/internal/domain/pnl"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

// ReportUseCase construye reportes de rentabilidad a partir del espejo local.
type ReportUseCase struct {
	orderRepo    repository.OrderRepository
	invRepo      repository.InventoryRepository
	overheadRepo repository.OverheadCostRepository
	expenseRepo  repository.ExpenseRepository
	cache        ReportCache
	loc          *time.Location
	log          *logger.Logger
}

// NewReportUseCase construye el caso de uso de reportes. loc es la zona de
// reporte en la que se interpretan los límites del rango; nil equivale a UTC.
func NewReportUseCase(
	orderRepo repository.OrderRepository,
	invRepo repository.InventoryRepository,
	overheadRepo repository.OverheadCostRepository,
	expenseRepo repository.ExpenseRepository,
	cache ReportCache,
	loc *time.Location,
	log *logger.Logger,
) *ReportUseCase {
	if cache == nil {
		cache = NoopReportCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{
		orderRepo:    orderRepo,
		invRepo:      invRepo,
		overheadRepo: overheadRepo,
		expenseRepo:  expenseRepo,
		cache:        cache,
		loc:          loc,
		log:          log,
	}
}

// GetReport calcula (o recupera de cache) el P&L del rango [start, end],
// fechas en formato YYYY-MM-DD inclusivas. additionalRevenue es un ingreso
// extra declarado por el usuario que se suma al total antes de márgenes;
// vacío equivale a cero.
func (uc *ReportUseCase) GetReport(ctx context.Context, start, end, additionalRevenue string) (dto.PnLReportDTO, error) {
	r, err := parseRange(start, end, uc.loc)
	if err != nil {
		return dto.PnLReportDTO{}, err
	}
	addRev := decimal.Zero
	if additionalRevenue != "" {
		addRev, err = decimal.NewFromString(additionalRevenue)
		if err != nil {
			return dto.PnLReportDTO{}, fmt.Errorf("%w: additional_revenue inválido", domain.ErrInvalidInput)
		}
	}

	key := fmt.Sprintf("%s:%s:%s", start, end, addRev.String())
	if cached, ok, cerr := uc.cache.Get(ctx, key); cerr == nil && ok {
		return cached, nil
	}

	report, err := uc.compute(ctx, r, addRev)
	if err != nil {
		return dto.PnLReportDTO{}, err
	}
	if err := uc.cache.Set(ctx, key, report); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo cachear el reporte")
	}
	return report, nil
}

func (uc *ReportUseCase) compute(ctx context.Context, r entity.DateRange, addRev decimal.Decimal) (dto.PnLReportDTO, error) {
	orders, err := uc.orderRepo.GetAll(ctx)
	if err != nil {
		return dto.PnLReportDTO{}, fmt.Errorf("cargando pedidos: %w", err)
	}
	records, err := uc.invRepo.GetAll(ctx)
	if err != nil {
		return dto.PnLReportDTO{}, fmt.Errorf("cargando inventario: %w", err)
	}
	rules, err := uc.overheadRepo.GetAll(ctx)
	if err != nil {
		return dto.PnLReportDTO{}, fmt.Errorf("cargando costos indirectos: %w", err)
	}
	expenses, err := uc.expenseRepo.GetAll(ctx)
	if err != nil {
		return dto.PnLReportDTO{}, fmt.Errorf("cargando gastos: %w", err)
	}

	inRange := make([]entity.Order, 0, len(orders))
	for _, o := range orders {
		if r.Contains(o.CreatedAt) {
			inRange = append(inRange, o)
		}
	}

	ix := domainpnl.BuildInventoryIndex(records)
	shares := domainpnl.ComputeShares(rules, inRange)
	prorated := domainpnl.Prorate(expenses, r)

	return Compute(inRange, ix, shares, prorated, addRev, r), nil
}

// parseRange interpreta fechas YYYY-MM-DD como rango inclusivo en la zona de
// reporte: el fin se extiende al último instante del día local para que los
// pedidos de esa fecha entren, incluidos los de la noche del último día.
func parseRange(start, end string, loc *time.Location) (entity.DateRange, error) {
	s, err := time.ParseInLocation(dateLayout, start, loc)
	if err != nil {
		return entity.DateRange{}, fmt.Errorf("%w: fecha inicial inválida %q", domain.ErrInvalidInput, start)
	}
	e, err := time.ParseInLocation(dateLayout, end, loc)
	if err != nil {
		return entity.DateRange{}, fmt.Errorf("%w: fecha final inválida %q", domain.ErrInvalidInput, end)
	}
	if e.Before(s) {
		return entity.DateRange{}, fmt.Errorf("%w: el fin del rango es anterior al inicio", domain.ErrInvalidInput)
	}
	return entity.DateRange{Start: s, End: e.AddDate(0, 0, 1).Add(-time.Second)}, nil
}
