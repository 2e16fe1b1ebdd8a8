package router

import (
	"net/http"

	"store-manager/internal/auth"
	"store-manager/internal/handler"
	"store-manager/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers the router dispatches to.
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, authenticator middleware.Authenticator, policy auth.Policy, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	guard := func(op auth.Operation, fn http.HandlerFunc) http.Handler {
		return middleware.Authorize(policy, op, logger)(fn)
	}

	mux.Handle("POST /auth/register", guard(auth.OpRegister, h.Auth.Register))
	mux.Handle("POST /auth/login", guard(auth.OpLogin, h.Auth.Login))

	mux.Handle("GET /api/products/allProducts", guard(auth.OpListProducts, h.Product.List))
	mux.Handle("POST /api/products/addProduct", guard(auth.OpCreateProduct, h.Product.Create))
	mux.Handle("PUT /api/products/{id}", guard(auth.OpUpdateProduct, h.Product.Update))
	mux.Handle("DELETE /api/products/{id}", guard(auth.OpDeleteProduct, h.Product.Delete))

	mux.Handle("GET /api/orders/allOrders", guard(auth.OpListOrders, h.Order.List))
	mux.Handle("GET /api/orders/statistics", guard(auth.OpOrderStatistics, h.Order.Statistics))
	mux.Handle("POST /api/orders/addOrder", guard(auth.OpCreateOrder, h.Order.Create))
	mux.Handle("DELETE /api/orders/{id}", guard(auth.OpDeleteOrder, h.Order.Delete))

	// Apply middleware in order: Recovery -> CorrelationID -> Logging -> CORS -> Authenticate
	var handler http.Handler = mux
	handler = middleware.Authenticate(authenticator, logger, "/api/")(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CorrelationID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
