package pnl

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
)

// ReportCache cachea reportes de rentabilidad ya calculados. La implementación
// Redis vive en infrastructure; Noop sirve cuando no hay Redis configurado.
type ReportCache interface {
	// Get devuelve (reporte, true) si la llave existe, (zero, false) si no.
	// Un error de backend se trata como cache miss por el caller.
	Get(ctx context.Context, key string) (dto.PnLReportDTO, bool, error)
	Set(ctx context.Context, key string, report dto.PnLReportDTO) error
	// InvalidateAll borra todos los reportes cacheados. Se llama tras cada
	// sincronización exitosa, porque cualquier reporte puede haber cambiado.
	InvalidateAll(ctx context.Context) error
}

// NoopReportCache implementación nula: siempre miss, nunca falla.
type NoopReportCache struct{}

var _ ReportCache = NoopReportCache{}

func (NoopReportCache) Get(context.Context, string) (dto.PnLReportDTO, bool, error) {
	return dto.PnLReportDTO{}, false, nil
}
func (NoopReportCache) Set(context.Context, string, dto.PnLReportDTO) error { return nil }
func (NoopReportCache) InvalidateAll(context.Context) error                 { return nil }
