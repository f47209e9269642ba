// @title                       Stock Ledger API
// @version                     1.0
// @description                 Ledger de inventario por ítem y zona: solicitudes, recepciones, salidas y verificación.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-ledger/internal/application/stock"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pubsub"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/rabbitmq"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/redis"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

const swaggerFile = "./docs/swagger.json"

// ledgerStore repositorios y TxRunner de un driver (postgres o memory).
type ledgerStore struct {
	tx        stock.TxRunner
	requests  repository.StockRequestRepository
	movements repository.StockMovementRepository
	summaries repository.StockSummaryRepository
	catalog   repository.ItemCatalog
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	validator.SetPhoneRegion(cfg.Ledger.PhoneRegion)

	ctx := context.Background()
	var closers []io.Closer

	var ls ledgerStore
	switch cfg.DB.Driver {
	case "memory":
		mem := memory.NewStore(cfg.Ledger.LockTimeout)
		seedDemoCatalog(mem)
		ls = ledgerStore{tx: mem, requests: mem.Requests(), movements: mem.Movements(), summaries: mem.Summaries(), catalog: mem.Catalog()}
		log.Warn().Msg("ledger en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		ls = ledgerStore{
			tx:        postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout),
			requests:  postgres.NewStockRequestRepository(pool),
			movements: postgres.NewStockMovementRepository(pool),
			summaries: postgres.NewStockSummaryRepository(pool),
			catalog:   postgres.NewItemCatalogRepository(pool),
		}
	}

	var files stock.FileStore
	switch cfg.Storage.Driver {
	case "gcs":
		gcsStore, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Cloud Storage")
		}
		closers = append(closers, gcsStore)
		files = gcsStore
	default:
		localStore, err := storage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			log.Fatal().Err(err).Msg("directorio de archivos")
		}
		files = localStore
	}

	var events stock.EventPublisher = stock.NopPublisher{}
	switch cfg.Events.Driver {
	case "rabbitmq":
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		closers = append(closers, pub)
		events = pub
	case "pubsub":
		pub, err := pubsub.NewPublisher(ctx, cfg.PubSub.ProjectID, cfg.PubSub.Topic, cfg.PubSub.CredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Pub/Sub")
		}
		closers = append(closers, pub)
		events = pub
	}

	var cache stock.SummaryCache = stock.NopCache{}
	if cfg.Redis.Addr != "" {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			// El caché es opcional: sin Redis se lee directo del almacenamiento.
			log.Warn().Err(err).Msg("redis no disponible, caché de resúmenes deshabilitado")
		} else {
			closers = append(closers, client)
			cache = redis.NewSummaryCache(client, cfg.Redis.SummaryTTL)
		}
	}

	requestUC := stock.NewRequestUseCase(ls.requests, ls.catalog, log.Component("requests"))
	fulfillUC := stock.NewFulfillmentUseCase(ls.tx, cache, events, log.Component("fulfillment"))
	directUC := stock.NewDirectEntryUseCase(ls.tx, ls.catalog, cache, events, log.Component("direct_entry"))
	summaryUC := stock.NewSummaryUseCase(ls.summaries, ls.movements, ls.catalog, cache, log.Component("summary"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    storage.MaxFileSize + 1<<20,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (generar con swag init -g cmd/api/main.go)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Requests:    requestUC,
		Fulfillment: fulfillUC,
		DirectEntry: directUC,
		Summary:     summaryUC,
		Files:       files,
		Mapper:      stock.Mapper{Zones: entity.ZoneNames{A: cfg.Ledger.ZoneAName, B: cfg.Ledger.ZoneBName}},
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
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("cierre de cliente externo")
		}
	}

	log.Info().Msg("aplicación detenida")
}
