package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/dental-lab-api/internal/application/auth"
	"github.com/tu-usuario/dental-lab-api/internal/application/inventory"
	"github.com/tu-usuario/dental-lab-api/internal/application/order"
	"github.com/tu-usuario/dental-lab-api/internal/application/worksheet"
	"github.com/tu-usuario/dental-lab-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WorksheetUC *worksheet.UseCase
	LotUC       *inventory.LotUseCase
	OrderUC     *order.UseCase
	AuthUC      *auth.UseCase
	JWTSecret   string
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

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)

	// Materials (protegido)
	materials := protected.Group("/materials")
	materialHandler := NewMaterialHandler(deps.LotUC)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)

	// Material lots (protegido)
	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Post("/", lotHandler.RegisterArrival)
	lots.Get("/", lotHandler.ListByMaterial)
	lots.Post("/:id/recall", RequireRole(entity.RoleQuality, entity.RoleAdmin), lotHandler.Recall)
	lots.Post("/:id/restore", RequireRole(entity.RoleAdmin), lotHandler.Restore)

	// Worksheets (protegido): el motor de ciclo de vida
	worksheets := protected.Group("/worksheets")
	worksheetHandler := NewWorksheetHandler(deps.WorksheetUC)
	worksheets.Post("/", worksheetHandler.Create)
	worksheets.Get("/", worksheetHandler.List)
	worksheets.Get("/:id", worksheetHandler.GetByID)
	worksheets.Delete("/:id", worksheetHandler.Delete)
	worksheets.Put("/:id/teeth", worksheetHandler.AssignTeeth)
	worksheets.Put("/:id/products", worksheetHandler.AssignProducts)
	worksheets.Put("/:id/materials", worksheetHandler.AssignMaterials)
	worksheets.Post("/:id/transition", worksheetHandler.Transition)
	worksheets.Get("/:id/history", worksheetHandler.History)
	worksheets.Get("/:id/traceability", worksheetHandler.Traceability)
	worksheets.Get("/:id/traceability.xml", worksheetHandler.TraceabilityXML)
}
