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

	"github.com/kartoffan/labstock/internal/application/auth"
	"github.com/kartoffan/labstock/internal/application/movement"
	"github.com/kartoffan/labstock/internal/application/stock"
	"github.com/kartoffan/labstock/internal/application/usecase"
	"github.com/kartoffan/labstock/internal/infrastructure/postgres"
	httpRouter "github.com/kartoffan/labstock/internal/interfaces/http"
	"github.com/kartoffan/labstock/pkg/config"
	"github.com/kartoffan/labstock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	movRepo := postgres.NewStockMovementRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	labRepo := postgres.NewLabRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	itemUC := usecase.NewItemUseCase(itemRepo, labRepo, categoryRepo)
	labUC := usecase.NewLabUseCase(labRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	balanceUC := stock.NewBalanceUseCase(movRepo, itemRepo, labRepo)
	thresholdUC := stock.NewThresholdUseCase(balanceUC, itemRepo)
	mutationUC := stock.NewMutationUseCase(txRunner, itemRepo, labRepo, supplierRepo, userRepo)
	movementUC := movement.NewUseCase(movRepo)

	// Superadmin inicial: idempotente; sin ADMIN_PASSWORD solo avisa.
	if err := authUC.EnsureSuperAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Warn().Err(err).Str("email", cfg.Admin.Email).Msg("no se pudo asegurar el superadmin")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Labstock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ItemUC:      itemUC,
		LabUC:       labUC,
		CategoryUC:  categoryUC,
		SupplierUC:  supplierUC,
		UserUC:      userUC,
		MutationUC:  mutationUC,
		BalanceUC:   balanceUC,
		ThresholdUC: thresholdUC,
		MovementUC:  movementUC,
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

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
