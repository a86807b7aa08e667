package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	tokenmanager "github.com/funtech-labs/orders-backend/internal/auth/token"
	"github.com/funtech-labs/orders-backend/internal/dal/interfaces/iuserrepo"
	"github.com/funtech-labs/orders-backend/internal/service/models/order"
	"github.com/funtech-labs/orders-backend/internal/service/models/user"
	createorder "github.com/funtech-labs/orders-backend/internal/transport/http/create_order"
	getorder "github.com/funtech-labs/orders-backend/internal/transport/http/get_order"
	listorders "github.com/funtech-labs/orders-backend/internal/transport/http/list_orders"
	authmw "github.com/funtech-labs/orders-backend/internal/transport/http/middleware/auth"
	"github.com/funtech-labs/orders-backend/internal/transport/http/register"
	tokenhandler "github.com/funtech-labs/orders-backend/internal/transport/http/token"
	updateorder "github.com/funtech-labs/orders-backend/internal/transport/http/update_order"
	"github.com/funtech-labs/orders-backend/pkg/http/middleware/trace"
	"github.com/funtech-labs/orders-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type authService interface {
	Register(ctx context.Context, email, password string) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type orderService interface {
	Create(ctx context.Context, userID int64, items []order.Item) (order.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) (*order.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]order.Order, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	authSvc  authService
	orderSvc orderService
	tokens   *tokenmanager.Manager
	userRepo iuserrepo.IUserRepository
}

func NewHTTPTransport(
	authSvc authService,
	orderSvc orderService,
	tokens *tokenmanager.Manager,
	userRepo iuserrepo.IUserRepository,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:   server,
		router:   router,
		authSvc:  authSvc,
		orderSvc: orderSvc,
		tokens:   tokens,
		userRepo: userRepo,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Post("/register/", h.register)
	h.router.Post("/token/", h.token)

	h.router.Group(func(r chi.Router) {
		r.Use(authmw.NewMiddleware(h.tokens, h.userRepo))
		r.Post("/orders/", h.createOrder)
		r.Get("/orders/{order_id}/", h.getOrder)
		r.Patch("/orders/{order_id}/", h.updateOrder)
		r.Get("/orders/user/{user_id}/", h.listOrders)
	})
}

// Router returns the underlying router, mainly for tests.
func (h *HTTPTransport) Router() *chi.Mux {
	return h.router
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	register.Register(w, r, h.authSvc)
}

func (h *HTTPTransport) token(w http.ResponseWriter, r *http.Request) {
	tokenhandler.Token(w, r, h.authSvc, h.tokens)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateOrder(w http.ResponseWriter, r *http.Request) {
	updateorder.UpdateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	rateLimit := viper.GetInt("server.http.rate_limit")
	if rateLimit == 0 {
		rateLimit = 100
	}
	router.Use(httprate.LimitByIP(rateLimit, time.Minute))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
