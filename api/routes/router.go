package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakline/oakline-backend/api/controllers"
	"github.com/oakline/oakline-backend/api/middleware"
	"github.com/oakline/oakline-backend/internal/auth"
	"github.com/oakline/oakline-backend/internal/contracts"
	"github.com/oakline/oakline-backend/internal/invoices"
	"github.com/oakline/oakline-backend/internal/messages"
	"github.com/oakline/oakline-backend/internal/properties"
	"github.com/oakline/oakline-backend/internal/resources"
	"github.com/oakline/oakline-backend/internal/roles"
	"github.com/oakline/oakline-backend/internal/users"
	"github.com/oakline/oakline-backend/pkg/config"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/metrics"
	"github.com/oakline/oakline-backend/pkg/redis"
)

// ResourceServices bundles the plain CRUD collections.
type ResourceServices struct {
	Media               resources.Service[models.Media]
	Amenities           resources.Service[models.Amenity]
	Utilities           resources.Service[models.Utility]
	PaymentTypes        resources.Service[models.PaymentType]
	ContractTypes       resources.Service[models.ContractType]
	TransactionTypes    resources.Service[models.TransactionType]
	Transactions        resources.Service[models.Transaction]
	Companies           resources.Service[models.Company]
	CalendarEvents      resources.Service[models.CalendarEvent]
	MaintenanceRequests resources.Service[models.MaintenanceRequest]
	Tours               resources.Service[models.Tour]
	PropertyAssignments resources.Service[models.PropertyAssignment]
}

// Deps carries everything the router mounts.
type Deps struct {
	Cfg       *config.Config
	Logg      *logger.Logger
	Redis     *redis.Client
	Metrics   *metrics.HTTPMetrics
	Health    map[string]controllers.Pinger
	Auth      auth.Service
	Users     users.Service
	Contracts contracts.Service
	Invoices  invoices.Service
	Props     properties.Service
	Roles     roles.Service
	Messages  messages.Service
	Resources ResourceServices
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(d.Logg),
		middleware.RequestID(d.Logg),
		middleware.Logging(d.Logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(nil),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		d.Cfg.AuthRateLimit.LoginWindow,
		d.Cfg.AuthRateLimit.LoginIPLimit,
		d.Cfg.AuthRateLimit.LoginEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Cfg))
		r.Get("/ready", controllers.HealthReady(d.Cfg, d.Logg, d.Health))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, d.Logg)).
		Post("/auth/", controllers.AuthLogin(d.Auth, d.Logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(d.Cfg.JWT, d.Logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UsersList(d.Users, d.Logg))
			r.Post("/", controllers.UsersCreate(d.Users, d.Logg))
			r.Post("/add_user_role", controllers.UsersAddRole(d.Users, d.Logg))
			r.Delete("/remove_user_role", controllers.UsersRemoveRole(d.Users, d.Logg))
			r.Get("/{id}", controllers.UsersGet(d.Users, d.Logg))
			r.Put("/{id}", controllers.UsersUpdate(d.Users, d.Logg))
			r.Delete("/{id}", controllers.UsersDelete(d.Users, d.Logg))
		})

		r.Route("/properties", func(r chi.Router) {
			r.Get("/", controllers.PropertiesList(d.Props, d.Logg))
			r.Post("/", controllers.PropertiesCreate(d.Props, d.Logg))
			r.Post("/link_property_to_media", controllers.PropertiesLinkMedia(d.Props, d.Logg))
			r.Get("/{id}", controllers.PropertiesGet(d.Props, d.Logg))
			r.Put("/{id}", controllers.PropertiesUpdate(d.Props, d.Logg))
			r.Delete("/{id}", controllers.PropertiesDelete(d.Props, d.Logg))
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", controllers.UnitsList(d.Props, d.Logg))
			r.Post("/", controllers.UnitsCreate(d.Props, d.Logg))
			r.Get("/{id}", controllers.UnitsGet(d.Props, d.Logg))
			r.Put("/{id}", controllers.UnitsUpdate(d.Props, d.Logg))
			r.Delete("/{id}", controllers.UnitsDelete(d.Props, d.Logg))
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Get("/", controllers.ContractsList(d.Contracts, d.Logg))
			r.Post("/", controllers.ContractsCreate(d.Contracts, d.Logg))
			r.Get("/{id}", controllers.ContractsGet(d.Contracts, d.Logg))
			r.Put("/{id}", controllers.ContractsUpdate(d.Contracts, d.Logg))
			r.Delete("/{id}", controllers.ContractsDelete(d.Contracts, d.Logg))
		})

		r.Route("/under_contracts", func(r chi.Router) {
			r.Get("/", controllers.UnderContractsList(d.Contracts, d.Logg))
			r.Get("/{id}", controllers.UnderContractsGet(d.Contracts, d.Logg))
			r.Delete("/{id}", controllers.UnderContractsDelete(d.Contracts, d.Logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoicesList(d.Invoices, d.Logg))
			r.Post("/", controllers.InvoicesCreate(d.Invoices, d.Logg))
			r.Get("/{id}", controllers.InvoicesGet(d.Invoices, d.Logg))
			r.Put("/{id}", controllers.InvoicesUpdate(d.Invoices, d.Logg))
			r.Delete("/{id}", controllers.InvoicesDelete(d.Invoices, d.Logg))
		})

		r.Route("/invoice", func(r chi.Router) {
			r.Get("/all_lease_due/", controllers.InvoicesAllLeaseDue(d.Invoices, d.Logg))
			r.Get("/user_lease_due/", controllers.InvoicesUserLeaseDue(d.Invoices, d.Logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", controllers.MessagesList(d.Messages, d.Logg))
			r.Post("/", controllers.MessagesCompose(d.Messages, d.Logg))
			r.Post("/reply/", controllers.MessagesReply(d.Messages, d.Logg))
			r.Get("/users/{userId}/{folder}", controllers.MessagesFolder(d.Messages, d.Logg))
			r.Get("/{id}", controllers.MessagesGet(d.Messages, d.Logg))
			r.Delete("/{id}", controllers.MessagesDelete(d.Messages, d.Logg))
		})

		r.Route("/roles", func(r chi.Router) {
			r.Get("/", controllers.RolesList(d.Roles, d.Logg))
			r.Post("/", controllers.RolesCreate(d.Roles, d.Logg))
			r.Post("/add_permission", controllers.RolesAddPermission(d.Roles, d.Logg))
			r.Get("/{id}", controllers.RolesGet(d.Roles, d.Logg))
			r.Put("/{id}", controllers.RolesUpdate(d.Roles, d.Logg))
			r.Delete("/{id}", controllers.RolesDelete(d.Roles, d.Logg))
		})

		r.Route("/permissions", func(r chi.Router) {
			r.Get("/", controllers.PermissionsList(d.Roles, d.Logg))
			r.Post("/", controllers.PermissionsCreate(d.Roles, d.Logg))
			r.Get("/{id}", controllers.PermissionsGet(d.Roles, d.Logg))
			r.Put("/{id}", controllers.PermissionsUpdate(d.Roles, d.Logg))
			r.Delete("/{id}", controllers.PermissionsDelete(d.Roles, d.Logg))
		})

		r.Route("/amenities", func(r chi.Router) {
			mountResource(r, d.Resources.Amenities, d.Logg)
			r.Post("/link_property_to_ammenity", controllers.PropertiesLinkAmenity(d.Props, d.Logg))
		})

		mountResourceRoute(r, "/media", d.Resources.Media, d.Logg)
		mountResourceRoute(r, "/utilities", d.Resources.Utilities, d.Logg)
		mountResourceRoute(r, "/payment_types", d.Resources.PaymentTypes, d.Logg)
		mountResourceRoute(r, "/contract_types", d.Resources.ContractTypes, d.Logg)
		mountResourceRoute(r, "/transaction_types", d.Resources.TransactionTypes, d.Logg)
		mountResourceRoute(r, "/transactions", d.Resources.Transactions, d.Logg)
		mountResourceRoute(r, "/companies", d.Resources.Companies, d.Logg)
		mountResourceRoute(r, "/calendar_events", d.Resources.CalendarEvents, d.Logg)
		mountResourceRoute(r, "/maintenance_requests", d.Resources.MaintenanceRequests, d.Logg)
		mountResourceRoute(r, "/tours", d.Resources.Tours, d.Logg)
		mountResourceRoute(r, "/property_assignments", d.Resources.PropertyAssignments, d.Logg)
	})

	return r
}

func mountResourceRoute[T any](r chi.Router, pattern string, svc resources.Service[T], logg *logger.Logger) {
	r.Route(pattern, func(r chi.Router) {
		mountResource(r, svc, logg)
	})
}

func mountResource[T any](r chi.Router, svc resources.Service[T], logg *logger.Logger) {
	r.Get("/", controllers.ResourceList(svc, logg))
	r.Post("/", controllers.ResourceCreate(svc, logg))
	r.Get("/{id}", controllers.ResourceGet(svc, logg))
	r.Put("/{id}", controllers.ResourceUpdate(svc, logg))
	r.Delete("/{id}", controllers.ResourceDelete(svc, logg))
}
