package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/Ventas-api/internal/application/analytics"
	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/application/profile"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/session"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/cache"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// repositories conjunto de repositorios según DB_DRIVER.
type repositories struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	stock     repository.StockRepository
	sales     repository.SaleRepository
	runner    sales.Runner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("reconcile_mode", cfg.Sales.ReconcileMode).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Persistencia ──────────────────────────────────────────────────────────
	var repos repositories
	switch cfg.DB.Driver {
	case config.DBDriverMemory:
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		repos = repositories{
			users:     store.Users(),
			profiles:  store.Profiles(),
			products:  store.Products(),
			customers: store.Customers(),
			stock:     store.Stock(),
			sales:     store.Sales(),
			runner:    memory.NewRunner(store),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Strs("applied", applied).Msg("migraciones al día")
		}

		var runner sales.Runner = postgres.NewPoolRunner(pool)
		if cfg.Sales.ReconcileMode == config.ReconcileTransactional {
			runner = postgres.NewTxRunner(pool)
		}
		repos = repositories{
			users:     postgres.NewUserRepository(pool),
			profiles:  postgres.NewProfileRepository(pool),
			products:  postgres.NewProductRepository(pool),
			customers: postgres.NewCustomerRepository(pool),
			stock:     postgres.NewStockRepository(pool),
			sales:     postgres.NewSaleRepository(pool),
			runner:    runner,
		}
	}

	// ── Archivos (avatares) ───────────────────────────────────────────────────
	var objectStorage ports.ObjectStorage
	var files ports.ObjectReader
	switch cfg.Storage.Driver {
	case config.StorageSupabase:
		objectStorage = storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseServiceKey)
	case config.StorageGridFS:
		gfs, err := storage.NewGridFSStorage(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDB, cfg.Storage.PublicBaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a MongoDB (GridFS)")
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = gfs.Close(closeCtx)
		}()
		objectStorage = gfs
		files = gfs
	default:
		log.Warn().Msg("STORAGE_DRIVER=none: la subida de avatares está deshabilitada")
	}

	// ── Tokens revocados ──────────────────────────────────────────────────────
	var denylist ports.TokenDenylist = cache.NewMemoryDenylist()
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		denylist = cache.NewRedisDenylist(rdb)
	}

	// ── Eventos de sesión ─────────────────────────────────────────────────────
	hub := session.NewHub()
	authLog := log.Named("auth")
	unsubscribe := hub.Subscribe(func(e session.Event) {
		authLog.Info().
			Str("event", string(e.Type)).
			Str("user_id", e.UserID).
			Str("email", e.Email).
			Time("at", e.At).
			Msg("evento de sesión")
	})
	defer unsubscribe()

	// ── Casos de uso ──────────────────────────────────────────────────────────
	authUC := auth.NewAuthUseCase(repos.users, repos.profiles, denylist, hub, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, authLog)
	productUC := usecase.NewProductUseCase(repos.products)
	customerUC := usecase.NewCustomerUseCase(repos.customers)
	stockUC := inventory.NewStockUseCase(repos.stock, repos.products)
	salesUC := sales.NewUseCase(repos.runner, repos.sales, repos.products, repos.customers, log.Named("sales"))
	receiptUC := sales.NewReceiptUseCase(repos.sales, repos.customers, repos.profiles, repos.users, infrapdf.NewMarotoReceiptGenerator())
	profileUC := profile.NewUseCase(repos.profiles, repos.users, objectStorage, cfg.Storage.Bucket, log.Named("profile"))
	dashboardUC := appanalytics.NewDashboardUseCase(repos.profiles, repos.users, repos.sales, repos.stock, repos.customers)

	// ── Tareas programadas ────────────────────────────────────────────────────
	sched := scheduler.New(cfg.Scheduler.StockAlertCron, inventory.NewAlertUseCase(repos.stock), log.Named("scheduler"))
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("programar tareas")
	}

	// ── HTTP ──────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    int(profile.MaxAvatarBytes) + 1<<20,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CustomerUC:  customerUC,
		StockUC:     stockUC,
		SalesUC:     salesUC,
		ReceiptUC:   receiptUC,
		ProfileUC:   profileUC,
		DashboardUC: dashboardUC,
		Files:       files,
		Denylist:    denylist,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
