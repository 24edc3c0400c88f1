package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/profile"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	StockUC     *inventory.StockUseCase
	SalesUC     *sales.UseCase
	ReceiptUC   *sales.ReceiptUseCase
	ProfileUC   *profile.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	// Files solo con STORAGE_DRIVER=gridfs; nil deja sin registrar /storage.
	Files     ports.ObjectReader
	Denylist  ports.TokenDenylist
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Files != nil {
		storageHandler := NewStorageHandler(deps.Files)
		app.Get("/storage/:bucket/*", storageHandler.Download)
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.SignUp)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Denylist))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/newest", customerHandler.Newest)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.List)
	stock.Post("/", stockHandler.Add)
	stock.Put("/:id", stockHandler.Set)
	stock.Delete("/:id", stockHandler.Delete)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, deps.ReceiptUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	profileGroup := protected.Group("/profile")
	profileHandler := NewProfileHandler(deps.ProfileUC)
	profileGroup.Get("/", profileHandler.Get)
	profileGroup.Put("/", profileHandler.Update)
	profileGroup.Post("/avatar", profileHandler.UploadAvatar)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
