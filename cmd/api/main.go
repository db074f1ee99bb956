package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "go-telecrm/internal/common/api"
	"go-telecrm/internal/config"
	"go-telecrm/internal/database"
	"go-telecrm/internal/features/archive"
	cron_feature "go-telecrm/internal/features/cron"
	import_feature "go-telecrm/internal/features/import"
	"go-telecrm/internal/features/lead"
	"go-telecrm/internal/features/store"
	sync_feature "go-telecrm/internal/features/sync"
	"go-telecrm/internal/features/user"
	"go-telecrm/internal/logger"
	"go-telecrm/internal/middleware"
	"go-telecrm/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the "routes" group and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer starts Fiber in a goroutine and shuts it down with the app.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, leadRepo lead.LeadRepository, storeRepo store.StoreRepository, userRepo user.UserRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := leadRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure lead indexes: %v", err)
				}
				if err := storeRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure store indexes: %v", err)
				}
				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure user indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			NewFiberServer,

			// stores
			store.NewStoreRepository,
			store.NewStoreService,
			store.NewStoreController,

			// leads
			lead.NewLeadRepository,
			lead.NewLeadService,
			lead.NewLeadController,
			lead.NewResolver,

			// archive
			archive.NewArchiveRepository,
			archive.NewSQLMirror,
			archive.NewArchiveService,
			archive.NewArchiveController,
			fx.Annotate(
				func(repo archive.ArchiveRepository) lead.ArchiveIndex { return repo },
			),

			// sync
			sync_feature.NewReportsClient,
			sync_feature.NewSyncLogRepository,
			sync_feature.NewTracker,
			sync_feature.NewSyncService,
			sync_feature.NewSyncController,

			// import
			import_feature.NewImportService,
			import_feature.NewImportController,

			// users
			user.NewUserRepository,
			user.NewUserService,
			user.NewUserController,

			// scheduler
			cron_feature.NewScheduler,

			// routes
			AsRoute(store.NewStoreApi),
			AsRoute(lead.NewLeadApi),
			AsRoute(archive.NewArchiveApi),
			AsRoute(sync_feature.NewSyncApi),
			AsRoute(import_feature.NewImportApi),
			AsRoute(user.NewUserApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			cron_feature.RegisterScheduler,
		),
	).Run()
}
