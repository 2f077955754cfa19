package http

import (
	nethttp "net/http"

	"github.com/chamalog/chamalog/internal/domain/user"
	"github.com/chamalog/chamalog/internal/http/handlers"
	"github.com/chamalog/chamalog/internal/http/middlewares"
	"github.com/chamalog/chamalog/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 8 << 20 // scanned label photos arrive base64 encoded

// Deps is everything the router mounts. Service fields are the handler-side
// interfaces so tests can substitute fakes.
type Deps struct {
	Env         string
	CORSOrigins []string

	Prom    *observability.Prom
	Metrics nethttp.Handler
	Tracing bool

	Tokens   middlewares.TokenVerifier
	Versions middlewares.VersionChecker

	// nil disables throttling of login and registration
	AuthLimiter *limiter.Limiter

	// minimum role for order status changes, deletes and pickup scans
	OrderMutationRole user.Role

	Auth      handlers.Authenticator
	Users     handlers.UserDirectory
	Stores    handlers.StoreDirectory
	Orders    handlers.OrderDesk
	Activity  handlers.ActivityFeed
	Addresses handlers.AddressLookup

	Checks map[string]handlers.Check
}

func NewRouter(d Deps) *gin.Engine {
	if d.Env != "dev" && d.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}

	mutationRole := d.OrderMutationRole
	if !mutationRole.IsValid() {
		mutationRole = user.RoleCustomer
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if d.Tracing {
		r.Use(otelgin.Middleware("chamalog-api"))
	}
	r.Use(middlewares.SecurityHeaders(d.Env == "prod"))
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.Use(middlewares.RequestLogger())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	// health, metrics and docs
	h := handlers.NewHealthHandler(d.Checks)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}
	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	authMw := middlewares.NewAuthMiddleware(d.Tokens, d.Versions)

	authHandler := handlers.NewAuthHandler(d.Auth, d.Prom)
	usersHandler := handlers.NewUsersHandler(d.Users)
	storesHandler := handlers.NewStoresHandler(d.Stores)
	ordersHandler := handlers.NewOrdersHandler(d.Orders)
	activitiesHandler := handlers.NewActivitiesHandler(d.Activity)
	cepHandler := handlers.NewCEPHandler(d.Addresses)

	api := r.Group("/api")
	api.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	api.Use(middlewares.RequireJSON())

	public := api.Group("")
	if d.AuthLimiter != nil {
		public.Use(middlewares.RateLimit(d.AuthLimiter))
	}
	public.POST("/login", authHandler.Login)
	public.POST("/registro", authHandler.Register)

	authed := api.Group("")
	authed.Use(authMw.RequireAuth())

	authed.GET("/me", authHandler.Me)
	authed.POST("/logout-all", authHandler.LogoutAll)

	admin := authMw.RequireRole(user.RoleAdmin)
	staff := authMw.RequireRole(user.RoleStaff)
	mutate := authMw.RequireRole(mutationRole)

	authed.GET("/usuarios", admin, usersHandler.List)
	authed.POST("/usuarios", admin, usersHandler.Create)
	authed.PUT("/usuarios/:id", admin, usersHandler.Update)
	authed.DELETE("/usuarios/:id", admin, usersHandler.Delete)

	authed.GET("/lojas", staff, storesHandler.List)
	authed.GET("/lojas/:id", staff, storesHandler.Get)
	authed.POST("/lojas", admin, storesHandler.Create)
	authed.PUT("/lojas/:id", admin, storesHandler.Update)
	authed.DELETE("/lojas/:id", admin, storesHandler.Delete)

	authed.GET("/pedidos", ordersHandler.List)
	authed.GET("/pedidos/motoboy", ordersHandler.ListForCourier)
	authed.POST("/pedidos/confirmar-transporte", mutate, ordersHandler.ConfirmTransport)
	authed.GET("/pedidos/:id", ordersHandler.Get)
	authed.POST("/pedidos", staff, ordersHandler.Create)
	authed.PUT("/pedidos/:id/status", mutate, ordersHandler.UpdateStatus)
	authed.DELETE("/pedidos/:id", mutate, ordersHandler.Delete)

	authed.GET("/pedido-estatisticas", ordersHandler.Stats)
	authed.POST("/etiquetas", ordersHandler.GenerateLabel)
	authed.POST("/validar-qr", ordersHandler.ValidateQR)
	authed.GET("/atividades-recentes", activitiesHandler.Recent)

	authed.GET("/cep/:cep", staff, cepHandler.Lookup)

	return r
}
