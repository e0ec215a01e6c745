package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	LocationUC *usecase.LocationUseCase
	StockUC    *usecase.StockUseCase
	MutationUC *usecase.MutationUseCase
	ReportUC   *report.UseCase
	JWTSecret  string
	Paging     Paging
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/validate", authHandler.Validate)

	requireAuth := AuthMiddleware(deps.JWTSecret)
	authGroup.Get("/profile", requireAuth, authHandler.Profile)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth)

	stockHandler := NewStockHandler(deps.StockUC, deps.ReportUC, deps.Paging)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Paging)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/:id/products", categoryHandler.Products)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Paging)
	products.Get("/search", productHandler.Search)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id/stock", stockHandler.ByProduct)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Paging)
	locations.Get("/", locationHandler.List)
	locations.Post("/", locationHandler.Create)
	locations.Get("/:id/stock", stockHandler.ByLocation)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.List)
	stock.Post("/", stockHandler.Set)
	stock.Post("/get", stockHandler.GetByPair)
	stock.Get("/:id/verify", stockHandler.Verify)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Put("/:id", stockHandler.Override)
	stock.Delete("/:id", stockHandler.Delete)

	// Las rutas fijas van antes de /:id.
	mutations := protected.Group("/mutations")
	mutationHandler := NewMutationHandler(deps.MutationUC, deps.ReportUC, deps.Paging)
	mutations.Get("/", mutationHandler.List)
	mutations.Post("/", mutationHandler.Create)
	mutations.Get("/user/histories", mutationHandler.UserHistory)
	mutations.Get("/product/:id/histories", mutationHandler.ProductHistory)
	mutations.Get("/balance/:id", mutationHandler.ByBalance)
	mutations.Get("/range", mutationHandler.ByDateRange)
	mutations.Get("/:id", mutationHandler.GetByID)
	mutations.Put("/:id", mutationHandler.Update)
	mutations.Delete("/:id", mutationHandler.Delete)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Get("/stock", reportHandler.Stock)
	reports.Get("/stock/pdf", reportHandler.StockPDF)
	reports.Get("/stock/xml", reportHandler.StockXML)
}
