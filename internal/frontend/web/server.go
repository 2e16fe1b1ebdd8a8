// Package web serves the server-rendered frontend and proxies form actions to the backend.
package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"store-manager/internal/frontend/session"
	"store-manager/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Backend is the subset of the backend API the frontend calls.
type Backend interface {
	Register(ctx context.Context, req model.RegisterRequest) error
	Login(ctx context.Context, username, password string) (string, error)
	ListProducts(ctx context.Context, token string) ([]model.Product, error)
	AddProduct(ctx context.Context, token string, req model.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, token string, id int64, req model.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, token string, id int64) error
	ListOrders(ctx context.Context, token string) ([]model.Order, error)
	AddOrder(ctx context.Context, token string, req model.OrderRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, token string, id int64) error
	Statistics(ctx context.Context, token string) (model.OrderStatistics, error)
}

// Options configures the session cookie.
type Options struct {
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
}

// Server holds the gin engine and its dependencies.
type Server struct {
	backend  Backend
	sessions session.Store
	opts     Options
	logger   zerolog.Logger
	engine   *gin.Engine
}

// New creates the frontend server with all routes registered.
func New(backend Backend, sessions session.Store, opts Options, logger zerolog.Logger) *Server {
	s := &Server{
		backend:  backend,
		sessions: sessions,
		opts:     opts,
		logger:   logger.With().Str("component", "web").Logger(),
		engine:   gin.New(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving the frontend.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger(s.logger))

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
	s.engine.SetHTMLTemplate(tmpl)

	s.engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard/main_dashboard")
	})
	s.engine.GET("/about", s.aboutPage)

	s.engine.GET("/login", s.loginPage)
	s.engine.POST("/login", s.login)
	s.engine.GET("/register", s.registerPage)
	s.engine.POST("/register", s.register)
	s.engine.POST("/logout", s.logout)

	authed := s.engine.Group("/", s.requireSession)
	{
		authed.GET("/dashboard/main_dashboard", s.dashboard)
		authed.GET("/dashboard/product_dashboard", s.productDashboard)
		authed.GET("/dashboard/order_dashboard", s.orderDashboard)

		products := authed.Group("/products")
		products.GET("/list", s.listProducts)
		products.GET("/add", s.addProductPage)
		products.POST("/add", s.addProduct)
		products.GET("/edit/:id", s.editProductPage)
		products.POST("/edit/:id", s.editProduct)
		products.POST("/delete/:id", s.deleteProduct)

		orders := authed.Group("/orders")
		orders.GET("/list", s.listOrders)
		orders.GET("/add", s.addOrderPage)
		orders.POST("/add", s.addOrder)
		orders.POST("/delete/:id", s.deleteOrder)
		orders.GET("/statistics", s.statistics)
	}
}

// requestLogger logs one line per request with zerolog.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", c.ClientIP()).
			Msg("request completed")
	}
}
