package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/oakline/oakline-backend/api/controllers"
	"github.com/oakline/oakline-backend/api/routes"
	"github.com/oakline/oakline-backend/internal/aspects"
	"github.com/oakline/oakline-backend/internal/auth"
	"github.com/oakline/oakline-backend/internal/contracts"
	"github.com/oakline/oakline-backend/internal/invoices"
	"github.com/oakline/oakline-backend/internal/messages"
	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/properties"
	"github.com/oakline/oakline-backend/internal/resources"
	"github.com/oakline/oakline-backend/internal/roles"
	"github.com/oakline/oakline-backend/internal/users"
	"github.com/oakline/oakline-backend/pkg/config"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/metrics"
	"github.com/oakline/oakline-backend/pkg/migrate"
	"github.com/oakline/oakline-backend/pkg/redis"
	"github.com/oakline/oakline-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	health := map[string]controllers.Pinger{"db": dbClient}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		health["redis"] = redisClient
	}

	var uploader gcs.Uploader
	if cfg.GCS.BucketName != "" {
		gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap media storage", err)
			os.Exit(1)
		}
		defer gcsClient.Close()
		uploader = gcsClient
		health["gcs"] = gcsClient
	}

	resolver, err := aspects.NewResolver(uploader, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create aspect resolver", err)
		os.Exit(1)
	}

	registry := orchestrator.NewRegistry()
	for _, profile := range []orchestrator.Profile{
		users.Profile(resolver),
		contracts.Profile(resolver),
		invoices.Profile(resolver),
		properties.Profile(resolver),
		properties.UnitProfile(resolver),
	} {
		if err := registry.Register(profile); err != nil {
			logg.Error(context.Background(), "failed to register entity profile", err)
			os.Exit(1)
		}
	}

	orch, err := orchestrator.New(dbClient, registry, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orchestrator", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(dbClient, cfg.JWT, logg)
	if err != nil {
		fatal(logg, "auth service", err)
	}
	userService, err := users.NewService(dbClient, orch, logg)
	if err != nil {
		fatal(logg, "users service", err)
	}
	contractService, err := contracts.NewService(dbClient, orch, logg)
	if err != nil {
		fatal(logg, "contracts service", err)
	}
	invoiceService, err := invoices.NewService(dbClient, orch, logg)
	if err != nil {
		fatal(logg, "invoices service", err)
	}
	propertyService, err := properties.NewService(dbClient, orch, resolver, logg)
	if err != nil {
		fatal(logg, "properties service", err)
	}
	roleService, err := roles.NewService(dbClient, logg)
	if err != nil {
		fatal(logg, "roles service", err)
	}
	messageService, err := messages.NewService(dbClient, logg)
	if err != nil {
		fatal(logg, "messages service", err)
	}

	resourceServices, err := buildResources(dbClient)
	if err != nil {
		fatal(logg, "resource services", err)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	router := routes.NewRouter(routes.Deps{
		Cfg:       cfg,
		Logg:      logg,
		Redis:     redisClient,
		Metrics:   httpMetrics,
		Health:    health,
		Auth:      authService,
		Users:     userService,
		Contracts: contractService,
		Invoices:  invoiceService,
		Props:     propertyService,
		Roles:     roleService,
		Messages:  messageService,
		Resources: resourceServices,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func buildResources(dbClient *db.Client) (routes.ResourceServices, error) {
	var rs routes.ResourceServices
	var err error

	if rs.Media, err = resources.NewService[models.Media](dbClient, "media_id"); err != nil {
		return rs, err
	}
	if rs.Amenities, err = resources.NewService[models.Amenity](dbClient, "amenity_id"); err != nil {
		return rs, err
	}
	if rs.Utilities, err = resources.NewService[models.Utility](dbClient, "utility_id"); err != nil {
		return rs, err
	}
	if rs.PaymentTypes, err = resources.NewService[models.PaymentType](dbClient, "payment_type_id"); err != nil {
		return rs, err
	}
	if rs.ContractTypes, err = resources.NewService[models.ContractType](dbClient, "contract_type_id"); err != nil {
		return rs, err
	}
	if rs.TransactionTypes, err = resources.NewService[models.TransactionType](dbClient, "transaction_type_id"); err != nil {
		return rs, err
	}
	if rs.Transactions, err = resources.NewService[models.Transaction](dbClient, "transaction_id", "TransactionType"); err != nil {
		return rs, err
	}
	if rs.Companies, err = resources.NewService[models.Company](dbClient, "company_id"); err != nil {
		return rs, err
	}
	if rs.CalendarEvents, err = resources.NewService[models.CalendarEvent](dbClient, "calendar_event_id"); err != nil {
		return rs, err
	}
	if rs.MaintenanceRequests, err = resources.NewService[models.MaintenanceRequest](dbClient, "task_id"); err != nil {
		return rs, err
	}
	if rs.Tours, err = resources.NewService[models.Tour](dbClient, "tour_booking_id"); err != nil {
		return rs, err
	}
	if rs.PropertyAssignments, err = resources.NewService[models.PropertyAssignment](dbClient, "property_assignment_id"); err != nil {
		return rs, err
	}
	return rs, nil
}

func fatal(logg *logger.Logger, what string, err error) {
	ctx := logg.WithField(context.Background(), "component", what)
	logg.Error(ctx, "failed to create component", err)
	os.Exit(1)
}
