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

	_ "github.com/jhoicas/stock-ledger/docs"
	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	infrapdf "github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xmlreport"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// stores repositorios y runner transaccional del driver elegido.
type stores struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	locations  repository.LocationRepository
	balances   repository.BalanceRepository
	mutations  repository.MutationRepository
	reports    repository.ReportRepository
	tx         ledger.TxRunner
	close      func()
}

func openStores(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:      sqlite.NewUserRepository(db),
			categories: sqlite.NewCategoryRepository(db),
			products:   sqlite.NewProductRepository(db),
			locations:  sqlite.NewLocationRepository(db),
			balances:   sqlite.NewBalanceRepository(db),
			mutations:  sqlite.NewMutationRepository(db),
			reports:    sqlite.NewReportRepository(db),
			tx:         sqlite.NewTxRunner(db),
			close:      func() { _ = db.Close() },
		}, nil
	default:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &stores{
			users:      postgres.NewUserRepository(pool),
			categories: postgres.NewCategoryRepository(pool),
			products:   postgres.NewProductRepository(pool),
			locations:  postgres.NewLocationRepository(pool),
			balances:   postgres.NewBalanceRepository(pool),
			mutations:  postgres.NewMutationRepository(pool),
			reports:    postgres.NewReportRepository(pool),
			tx:         postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base de datos")
	}
	defer st.close()

	engine := ledger.NewEngine(st.tx, log.Zerolog())

	authUC := auth.NewAuthUseCase(st.users, pkgjwt.PairConfig{
		AccessSecret:      cfg.JWT.Secret,
		RefreshSecret:     cfg.JWT.RefreshSecret,
		AccessExpMinutes:  cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	})
	categoryUC := usecase.NewCategoryUseCase(st.categories, st.products)
	productUC := usecase.NewProductUseCase(st.products, st.categories)
	locationUC := usecase.NewLocationUseCase(st.locations)
	stockUC := usecase.NewStockUseCase(engine, st.balances)
	mutationUC := usecase.NewMutationUseCase(engine)
	reportUC := report.NewUseCase(
		st.mutations, st.balances, st.reports,
		infrapdf.NewStockReportPDF(), xmlreport.NewRenderer(),
		cfg.Report.Title,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(httpRouter.RequestContext(cfg.HTTP.RequestTimeout))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		LocationUC: locationUC,
		StockUC:    stockUC,
		MutationUC: mutationUC,
		ReportUC:   reportUC,
		JWTSecret:  cfg.JWT.Secret,
		Paging: httpRouter.Paging{
			DefaultLimit: cfg.Pagination.DefaultLimit,
			MaxLimit:     cfg.Pagination.MaxLimit,
		},
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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
