package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/application/pnl"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
)

// PnLPDFGenerator abstrae la generación del PDF del reporte.
type PnLPDFGenerator interface {
	GeneratePnLPDF(ctx context.Context, report dto.PnLReportDTO) ([]byte, error)
}

// PnLHandler maneja los endpoints del reporte de rentabilidad.
type PnLHandler struct {
	uc  *pnl.ReportUseCase
	pdf PnLPDFGenerator
}

// NewPnLHandler construye el handler.
func NewPnLHandler(uc *pnl.ReportUseCase, pdf PnLPDFGenerator) *PnLHandler {
	return &PnLHandler{uc: uc, pdf: pdf}
}

// GetReport godoc
// @Summary      Reporte de rentabilidad del período
// @Description  Calcula ingresos, costos, costos indirectos, gastos y
//               ganancia neta de los pedidos espejados en el rango dado.
// @Tags         pnl
// @Security     Bearer
// @Produce      json
// @Param        start               query  string  true   "Inicio (YYYY-MM-DD)"
// @Param        end                 query  string  true   "Fin (YYYY-MM-DD)"
// @Param        additional_revenue  query  string  false  "Ingreso extra declarado"
// @Success      200  {object}  dto.PnLReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pnl [get]
func (h *PnLHandler) GetReport(c *fiber.Ctx) error {
	var req dto.PnLRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if req.Start == "" || req.End == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start y end son requeridos (YYYY-MM-DD)"})
	}

	report, err := h.uc.GetReport(c.Context(), req.Start, req.End, req.AdditionalRevenue)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// GetReportPDF godoc
// @Summary      Reporte de rentabilidad en PDF
// @Tags         pnl
// @Security     Bearer
// @Produce      application/pdf
// @Param        start               query  string  true   "Inicio (YYYY-MM-DD)"
// @Param        end                 query  string  true   "Fin (YYYY-MM-DD)"
// @Param        additional_revenue  query  string  false  "Ingreso extra declarado"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pnl/pdf [get]
func (h *PnLHandler) GetReportPDF(c *fiber.Ctx) error {
	var req dto.PnLRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
	}
	if req.Start == "" || req.End == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start y end son requeridos (YYYY-MM-DD)"})
	}

	report, err := h.uc.GetReport(c.Context(), req.Start, req.End, req.AdditionalRevenue)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	raw, err := h.pdf.GeneratePnLPDF(c.Context(), report)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}

	filename := fmt.Sprintf("rentabilidad_%s_%s.pdf", report.Period.Start, report.Period.End)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(raw)
}
