// Package server assembles the storefront's gin engine.
package server

import (
	"context"
	"net/http"

	"github.com/ekrishihub/storefront/internal/auth"
	"github.com/ekrishihub/storefront/internal/cart"
	"github.com/ekrishihub/storefront/internal/catalog"
	"github.com/ekrishihub/storefront/internal/credential"
	"github.com/ekrishihub/storefront/internal/guard"
	"github.com/ekrishihub/storefront/internal/middleware"
	"github.com/ekrishihub/storefront/internal/notify"
	"github.com/ekrishihub/storefront/internal/orders"
	"github.com/ekrishihub/storefront/internal/profile"
	"github.com/ekrishihub/storefront/internal/session"
	"github.com/ekrishihub/storefront/internal/tasks"
	"github.com/ekrishihub/storefront/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the components the router dispatches to
type Deps struct {
	Logger         *zap.Logger
	AllowedOrigins string
	Targets        guard.Targets
	// Health reports storage reachability; nil means always healthy
	Health         func(ctx context.Context) error

	Guard   *guard.Guard
	Session *session.State
	Feed    *notify.Feed

	Auth    *auth.Handler
	Catalog *catalog.Handler
	Tasks   *tasks.Handler
	Orders  *orders.Handler
	Cart    *cart.Handler
	Profile *profile.Handler
}

// router registers a route and its access requirement together
type router struct {
	engine *gin.Engine
	table  *guard.RouteTable
}

func (r router) public(method, path string, h gin.HandlerFunc) {
	r.engine.Handle(method, path, h)
}

func (r router) guarded(role credential.Role, method, path string, h gin.HandlerFunc) {
	r.table.Require(path, role)
	r.engine.Handle(method, path, h)
}

// NewRouter builds the engine. Every guarded route is listed in the returned table.
func NewRouter(d Deps) (*gin.Engine, *guard.RouteTable) {
	engine := gin.New()
	table := guard.NewRouteTable()

	// Navigation must wrap Guard and the handlers
	engine.Use(middleware.Recovery(d.Logger))
	engine.Use(middleware.Logger(d.Logger))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.CORS(d.AllowedOrigins))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.Navigation())
	engine.Use(middleware.Guard(d.Guard, table))

	r := router{engine: engine, table: table}

	// Operational
	r.public(http.MethodGet, "/health", health(d.Health))
	r.public(http.MethodGet, "/metrics", gin.WrapH(promhttp.Handler()))
	r.public(http.MethodGet, "/api/notifications", notifications(d.Feed))
	r.public(http.MethodGet, "/session", sessionView(d.Session))

	// Public views
	r.public(http.MethodGet, "/", home)
	for _, role := range []credential.Role{credential.RoleFarmer, credential.RoleCustomer} {
		login, register := d.Targets.LoginFor(role), registerPath(role)
		r.public(http.MethodGet, login, d.Auth.LoginView(role))
		r.public(http.MethodPost, login, d.Auth.Login(role))
		r.public(http.MethodGet, register, d.Auth.RegisterView(role))
		r.public(http.MethodPost, register, d.Auth.Register(role))
	}
	r.public(http.MethodPost, "/verify-otp", d.Auth.VerifyOTP)
	r.public(http.MethodPost, "/resend-otp", d.Auth.ResendOTP)
	r.public(http.MethodPost, "/logout", d.Auth.Logout)

	// Any signed-in user
	r.guarded("", http.MethodGet, "/profile", d.Profile.View)
	r.guarded("", http.MethodPut, "/profile", d.Profile.Update)

	// Customer views
	customer := credential.RoleCustomer
	r.guarded(customer, http.MethodGet, d.Targets.CustomerDashboard, dashboard(d.Session, "customer-dashboard"))
	r.guarded(customer, http.MethodGet, "/products", d.Catalog.Browse)
	r.guarded(customer, http.MethodGet, "/place-order/:productId", d.Orders.PlaceView)
	r.guarded(customer, http.MethodPost, "/place-order/:productId", d.Orders.Place)
	r.guarded(customer, http.MethodGet, "/my-orders", d.Orders.Mine)
	r.guarded(customer, http.MethodPatch, "/my-orders/:id", d.Orders.Update)
	r.guarded(customer, http.MethodDelete, "/my-orders/:id", d.Orders.Delete)
	r.guarded(customer, http.MethodPost, "/my-orders/pay", d.Orders.StartPayment)
	r.guarded(customer, http.MethodPost, "/my-orders/pay/settle", d.Orders.Settle)
	r.guarded(customer, http.MethodGet, "/order-history", d.Orders.History)
	r.guarded(customer, http.MethodGet, "/cart", d.Cart.View)
	r.guarded(customer, http.MethodDelete, "/cart", d.Cart.Clear)
	r.guarded(customer, http.MethodPost, "/cart/items", d.Cart.Add)
	r.guarded(customer, http.MethodPut, "/cart/items/:id", d.Cart.SetQuantity)
	r.guarded(customer, http.MethodDelete, "/cart/items/:id", d.Cart.Remove)

	// Farmer views
	farmer := credential.RoleFarmer
	r.guarded(farmer, http.MethodGet, d.Targets.FarmerDashboard, dashboard(d.Session, "farmer-dashboard"))
	r.guarded(farmer, http.MethodGet, "/tasks", d.Tasks.List)
	r.guarded(farmer, http.MethodPut, "/tasks/:id/status", d.Tasks.UpdateStatus)
	r.guarded(farmer, http.MethodDelete, "/tasks/:id", d.Tasks.Delete)
	r.guarded(farmer, http.MethodGet, "/add-task", d.Tasks.AddView)
	r.guarded(farmer, http.MethodPost, "/add-task", d.Tasks.Create)
	r.guarded(farmer, http.MethodGet, "/edit-task/:id", d.Tasks.EditView)
	r.guarded(farmer, http.MethodPut, "/edit-task/:id", d.Tasks.Update)
	r.guarded(farmer, http.MethodGet, "/product", d.Catalog.Manage)
	r.guarded(farmer, http.MethodDelete, "/product/:id", d.Catalog.Delete)
	r.guarded(farmer, http.MethodGet, "/add-product", d.Catalog.AddView)
	r.guarded(farmer, http.MethodPost, "/add-product", d.Catalog.Create)
	r.guarded(farmer, http.MethodGet, "/edit-product/:id", d.Catalog.EditView)
	r.guarded(farmer, http.MethodPut, "/edit-product/:id", d.Catalog.Update)
	r.guarded(farmer, http.MethodGet, "/farmer-orders", d.Orders.FarmerOrders)

	return engine, table
}

func registerPath(role credential.Role) string {
	if role == credential.RoleCustomer {
		return "/customer-register"
	}
	return "/farmer-register"
}

func health(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func home(c *gin.Context) {
	response.View(c, "home", nil)
}

func dashboard(live *session.State, view string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.View(c, view, live.Snapshot())
	}
}

func sessionView(live *session.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, live.Snapshot())
	}
}

// notifications hands pending toasts to the browser and empties the feed
func notifications(feed *notify.Feed) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := feed.Drain()
		if items == nil {
			items = []notify.Notification{}
		}
		response.Success(c, http.StatusOK, items)
	}
}
