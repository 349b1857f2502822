package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/application/settings"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
)

// CredentialsConfigurer recibe credenciales del API remoto en caliente.
type CredentialsConfigurer interface {
	Configure(baseURL, key, secret string)
}

// SettingsHandler maneja la configuración de negocio: costos indirectos,
// gastos y credenciales del API remoto.
type SettingsHandler struct {
	uc      *settings.UseCase
	remotes CredentialsConfigurer
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.UseCase, remotes CredentialsConfigurer) *SettingsHandler {
	return &SettingsHandler{uc: uc, remotes: remotes}
}

// ListOverheads godoc
// @Summary      Listar reglas de costos indirectos
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OverheadCostDTO
// @Router       /api/settings/overheads [get]
func (h *SettingsHandler) ListOverheads(c *fiber.Ctx) error {
	out, err := h.uc.ListOverheads(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ReplaceOverheads godoc
// @Summary      Reemplazar las reglas de costos indirectos
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.OverheadCostDTO  true  "reglas completas"
// @Success      200  {array}  dto.OverheadCostDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settings/overheads [put]
func (h *SettingsHandler) ReplaceOverheads(c *fiber.Ctx) error {
	var in []dto.OverheadCostDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ReplaceOverheads(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ListExpenses godoc
// @Summary      Listar gastos operativos
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ExpenseDTO
// @Router       /api/settings/expenses [get]
func (h *SettingsHandler) ListExpenses(c *fiber.Ctx) error {
	out, err := h.uc.ListExpenses(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// ReplaceExpenses godoc
// @Summary      Reemplazar los gastos operativos
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.ExpenseDTO  true  "gastos completos"
// @Success      200  {array}  dto.ExpenseDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settings/expenses [put]
func (h *SettingsHandler) ReplaceExpenses(c *fiber.Ctx) error {
	var in []dto.ExpenseDTO
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ReplaceExpenses(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// credentialsRequest cuerpo para configurar credenciales en caliente.
type credentialsRequest struct {
	BaseURL        string `json:"base_url"`
	ConsumerKey    string `json:"consumer_key"`
	ConsumerSecret string `json:"consumer_secret"`
}

// SetCredentials godoc
// @Summary      Configurar credenciales del API remoto
// @Description  Fija las credenciales de la tienda en caliente; vencen tras
//               el TTL de sesión. Solo admin.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settings/credentials [put]
func (h *SettingsHandler) SetCredentials(c *fiber.Ctx) error {
	var in credentialsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.BaseURL == "" || in.ConsumerKey == "" || in.ConsumerSecret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "base_url, consumer_key y consumer_secret son requeridos"})
	}
	h.remotes.Configure(in.BaseURL, in.ConsumerKey, in.ConsumerSecret)
	return c.SendStatus(fiber.StatusNoContent)
}
