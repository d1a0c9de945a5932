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
	"github.com/robfig/cron/v3"

	"github.com/tu-usuario/dental-lab-api/internal/application/auth"
	appinventory "github.com/tu-usuario/dental-lab-api/internal/application/inventory"
	apporder "github.com/tu-usuario/dental-lab-api/internal/application/order"
	appworksheet "github.com/tu-usuario/dental-lab-api/internal/application/worksheet"
	infrapdf "github.com/tu-usuario/dental-lab-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/dental-lab-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/dental-lab-api/internal/interfaces/http"
	"github.com/tu-usuario/dental-lab-api/pkg/config"
	"github.com/tu-usuario/dental-lab-api/pkg/logger"
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

	// Repositorios atados al pool (solo lecturas; las mutaciones van por TxRunner)
	worksheetRepo := postgres.NewWorksheetRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	plansRepo := postgres.NewWorksheetMaterialRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	lotRepo := postgres.NewMaterialLotRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Colaborador de documentos de conformidad
	conformityWriter, err := infrapdf.NewConformityWriter(cfg.App.Name, cfg.Docs.OutputDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar escritor de documentos")
	}

	worksheetUC := appworksheet.NewUseCase(
		txRunner, worksheetRepo, plansRepo, materialRepo, lotRepo, auditRepo,
		conformityWriter, log,
	)
	lotUC := appinventory.NewLotUseCase(txRunner, lotRepo, materialRepo, log)
	orderUC := apporder.NewUseCase(orderRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barrido diario de caducidad de lotes (02:00 hora local)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 2 * * *", func() {
		n, err := lotUC.SweepExpired(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("barrido de caducidad de lotes")
			return
		}
		if n > 0 {
			log.Info().Int64("lotes", n).Msg("lotes marcados EXPIRED por el barrido")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("programar barrido de caducidad")
	}
	scheduler.Start()
	defer scheduler.Stop()

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
		Title:    "Dental Lab API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WorksheetUC: worksheetUC,
		LotUC:       lotUC,
		OrderUC:     orderUC,
		AuthUC:      authUC,
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
