package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	appsync "github.com/jhoicas/Rentabilidad-api/internal/application/sync"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
)

// SyncHandler maneja el disparo y consulta de la sincronización. loc es la
// zona de reporte en la que se interpretan las fechas del rango.
type SyncHandler struct {
	orch *appsync.Orchestrator
	loc  *time.Location
}

// NewSyncHandler construye el handler.
func NewSyncHandler(orch *appsync.Orchestrator, loc *time.Location) *SyncHandler {
	return &SyncHandler{orch: orch, loc: loc}
}

// Start godoc
// @Summary      Disparar sincronización con la tienda remota
// @Description  Arranca la sincronización en background y devuelve el id de
//               sesión. El avance se consulta en GET /api/sync/status.
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SyncRequest  true  "rango, estrategia, force"
// @Success      202   {object}  dto.SyncAcceptedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sync [post]
func (h *SyncHandler) Start(c *fiber.Ctx) error {
	var in dto.SyncRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	req, err := appsync.ParseRequest(in.Start, in.End, in.Strategy, in.Force, h.loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	sessionID, err := h.orch.Start(req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SYNC_IN_PROGRESS", Message: "ya hay una sincronización corriendo"})
		case errors.Is(err, domain.ErrCredentialsMissing):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CREDENTIALS_MISSING", Message: "credenciales del API remoto no configuradas"})
		case errors.Is(err, domain.ErrSessionExpired):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "las credenciales configuradas vencieron"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.SyncAcceptedResponse{
		SessionID: sessionID,
		Status:    appsync.StateFetching,
	})
}

// Status godoc
// @Summary      Estado de la sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncStatusResponse
// @Router       /api/sync/status [get]
func (h *SyncHandler) Status(c *fiber.Ctx) error {
	s := h.orch.Status()
	out := dto.SyncStatusResponse{
		SessionID:   s.SessionID,
		State:       s.State,
		Progress:    s.Progress,
		Message:     s.Message,
		Error:       s.Err,
		FailedPages: s.FailedPages,
	}
	if !s.StartedAt.IsZero() {
		out.StartedAt = s.StartedAt.Format("2006-01-02 15:04:05")
	}
	if !s.FinishedAt.IsZero() {
		out.FinishedAt = s.FinishedAt.Format("2006-01-02 15:04:05")
	}
	return c.JSON(out)
}
