package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rentabilidad-api/internal/application/auth"
	"github.com/jhoicas/Rentabilidad-api/internal/application/pnl"
	"github.com/jhoicas/Rentabilidad-api/internal/application/settings"
	appsync "github.com/jhoicas/Rentabilidad-api/internal/application/sync"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// RouterDeps dependencias para el router. Location es la zona de reporte en
// la que se interpretan las fechas de sync (nil = UTC).
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ReportUC     *pnl.ReportUseCase
	SettingsUC   *settings.UseCase
	Orchestrator *appsync.Orchestrator
	PDF          PnLPDFGenerator
	Credentials  CredentialsConfigurer
	Location     *time.Location
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Administración de usuarios (solo admin)
	protected.Get("/users", RequireRole(entity.RoleAdmin), authHandler.ListUsers)

	// Sincronización (protegido; dispararla es de admin)
	syncHandler := NewSyncHandler(deps.Orchestrator, deps.Location)
	protected.Post("/sync", RequireRole(entity.RoleAdmin), syncHandler.Start)
	protected.Get("/sync/status", syncHandler.Status)

	// Reportes de rentabilidad (protegido, cualquier rol)
	pnlHandler := NewPnLHandler(deps.ReportUC, deps.PDF)
	protected.Get("/pnl", pnlHandler.GetReport)
	protected.Get("/pnl/pdf", pnlHandler.GetReportPDF)

	// Configuración (lectura para todos, escritura solo admin)
	settingsHandler := NewSettingsHandler(deps.SettingsUC, deps.Credentials)
	settingsGroup := protected.Group("/settings")
	settingsGroup.Get("/overheads", settingsHandler.ListOverheads)
	settingsGroup.Put("/overheads", RequireRole(entity.RoleAdmin), settingsHandler.ReplaceOverheads)
	settingsGroup.Get("/expenses", settingsHandler.ListExpenses)
	settingsGroup.Put("/expenses", RequireRole(entity.RoleAdmin), settingsHandler.ReplaceExpenses)
	settingsGroup.Put("/credentials", RequireRole(entity.RoleAdmin), settingsHandler.SetCredentials)
}
