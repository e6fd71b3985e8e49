package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kartoffan/labstock/internal/application/auth"
	"github.com/kartoffan/labstock/internal/application/movement"
	"github.com/kartoffan/labstock/internal/application/stock"
	"github.com/kartoffan/labstock/internal/application/usecase"
	"github.com/kartoffan/labstock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	ItemUC      *usecase.ItemUseCase
	LabUC       *usecase.LabUseCase
	CategoryUC  *usecase.CategoryUseCase
	SupplierUC  *usecase.SupplierUseCase
	UserUC      *usecase.UserUseCase
	MutationUC  *stock.MutationUseCase
	BalanceUC   *stock.BalanceUseCase
	ThresholdUC *stock.ThresholdUseCase
	MovementUC  *movement.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Las escrituras de stock requieren rol
// admin o lab_manager; la corrección del libro y la gestión de usuarios, admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	canMutateStock := RequireRole(entity.RoleAdmin, entity.RoleLabManager)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Labs
	labs := protected.Group("/labs")
	labHandler := NewLabHandler(deps.LabUC)
	labs.Post("/", canMutateStock, labHandler.Create)
	labs.Get("/", labHandler.List)
	labs.Get("/:id", labHandler.GetByID)
	labs.Put("/:id", canMutateStock, labHandler.Update)
	labs.Delete("/:id", adminOnly, labHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", canMutateStock, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", canMutateStock, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Items
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", canMutateStock, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", canMutateStock, itemHandler.Update)
	items.Post("/:id/archive", canMutateStock, itemHandler.Archive)
	items.Post("/:id/unarchive", canMutateStock, itemHandler.Unarchive)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", canMutateStock, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", canMutateStock, supplierHandler.Update)
	suppliers.Post("/:id/archive", canMutateStock, supplierHandler.Archive)
	suppliers.Post("/:id/unarchive", canMutateStock, supplierHandler.Unarchive)

	// Stocks: mutaciones y balances derivados
	stocks := protected.Group("/stocks")
	stockHandler := NewStockHandler(deps.MutationUC, deps.BalanceUC, deps.ThresholdUC)
	stocks.Post("/in", canMutateStock, stockHandler.In)
	stocks.Post("/out", canMutateStock, stockHandler.Out)
	stocks.Post("/adjust", canMutateStock, stockHandler.Adjust)
	stocks.Post("/transfer", canMutateStock, stockHandler.Transfer)
	stocks.Get("/quantities", stockHandler.Quantities)
	stocks.Get("/low-stock", stockHandler.LowStock)
	stocks.Get("/out-of-stock", stockHandler.OutOfStock)
	stocks.Get("/:itemId/quantity", stockHandler.Quantity)

	// Stock movements: consulta del libro y corrección administrativa
	movements := protected.Group("/stock-movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Delete("/:id", adminOnly, movementHandler.Delete)

	// Users (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Post("/:id/deactivate", userHandler.Deactivate)
	users.Post("/:id/activate", userHandler.Activate)
}
