package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/audit"
	"github.com/jhoicas/stock-ledger-api/internal/application/auth"
	"github.com/jhoicas/stock-ledger-api/internal/application/ingest"
	"github.com/jhoicas/stock-ledger-api/internal/application/report"
	"github.com/jhoicas/stock-ledger-api/internal/application/warehouse"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	IngestUC      *ingest.UseCase
	EvolutionUC   *report.EvolutionUseCase
	SnapshotUC    *report.SnapshotUseCase
	StockoutUC    *report.StockoutUseCase
	ConsumptionUC *report.ConsumptionUseCase
	AuditUC       *audit.UseCase
	WarehouseUC   *warehouse.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock: subida de snapshots y estado de cargas
	stockHandler := NewStockHandler(deps.IngestUC)
	stock := protected.Group("/stock")
	stock.Post("/upload", stockHandler.Upload)
	stock.Get("/cargas/:id", stockHandler.Status)

	// Reportes sobre el libro
	reportHandler := NewReportHandler(deps.EvolutionUC, deps.SnapshotUC, deps.StockoutUC, deps.ConsumptionUC)
	reports := protected.Group("/reportes")
	reports.Get("/evolucion", reportHandler.Evolution)
	reports.Get("/foto", reportHandler.Snapshot)
	reports.Get("/quiebres", reportHandler.Stockouts)
	reports.Get("/quiebres/export", reportHandler.ExportStockouts)
	reports.Get("/consumo", reportHandler.Consumption)

	// Auditoría de cargas
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup := protected.Group("/auditoria")
	auditGroup.Get("/cumplimiento", auditHandler.Compliance)
	auditGroup.Get("/kpis", auditHandler.KPIs)
	auditGroup.Get("/cargas", auditHandler.RecentEvents)

	// Sucursales (mutaciones solo admin)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/sucursales")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Put("/:id/upd-stock", RequireRole(entity.RoleAdmin), warehouseHandler.SetUploadDay)
	warehouses.Put("/:id/inhabilitar", RequireRole(entity.RoleAdmin), warehouseHandler.SetDisabled)
}
