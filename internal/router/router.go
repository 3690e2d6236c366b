package router

import (
	"net/http"
	"strings"

	"neon-market/internal/auth"
	"neon-market/internal/handler"
	"neon-market/internal/middleware"
	"neon-market/internal/repository"

	"github.com/rs/zerolog"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Purchase     *handler.PurchaseHandler
	Order        *handler.OrderHandler
	Purchased    *handler.PurchasedHandler
	AdminProduct *handler.AdminProductHandler
	Auth         *handler.AuthHandler
}

// New creates the HTTP router with all routes and middleware configured.
// Session auth wraps everything except the health check and public catalogue;
// the admin surface is additionally gated on the cached role check.
func New(
	h Handlers,
	userRepo repository.UserRepository,
	roleCache *auth.RoleCache,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Public catalogue: /api/products and /api/products/{id}
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			h.Product.GetByID(w, r)
			return
		}
		h.Product.List(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Cart: collection on /api/cart, lines on /api/cart/items/{id}
	mux.HandleFunc("/api/cart", h.Cart.Cart)
	mux.HandleFunc("/api/cart/", h.Cart.Cart)
	mux.HandleFunc("/api/cart/items/", h.Cart.Item)

	// Checkout
	mux.HandleFunc("/api/purchase", h.Purchase.Purchase)

	// Order history: /api/orders and /api/orders/{id}
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/orders/") && r.URL.Path != "/api/orders/" {
			h.Order.GetByID(w, r)
			return
		}
		h.Order.List(w, r)
	}
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	// Redeemed goods: /api/purchased-products and /api/purchased-products/{id}
	purchasedRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/purchased-products/") && r.URL.Path != "/api/purchased-products/" {
			h.Purchased.UpdateStatus(w, r)
			return
		}
		h.Purchased.List(w, r)
	}
	mux.HandleFunc("/api/purchased-products", purchasedRouteHandler)
	mux.HandleFunc("/api/purchased-products/", purchasedRouteHandler)

	// Profile and session lifecycle
	mux.HandleFunc("/api/profile", h.Auth.Profile)
	mux.HandleFunc("/api/auth/logout", h.Auth.Logout)

	// Admin catalogue management, gated on the cached role check
	requireAdmin := middleware.RequireAdmin(roleCache, logger)
	adminProductRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/products" && r.URL.Path != "/api/admin/products/" {
			h.AdminProduct.Product(w, r)
			return
		}
		h.AdminProduct.Products(w, r)
	}
	mux.Handle("/api/admin/products", requireAdmin(http.HandlerFunc(adminProductRouteHandler)))
	mux.Handle("/api/admin/products/", requireAdmin(http.HandlerFunc(adminProductRouteHandler)))

	// Apply middleware in order: Recovery -> Logging -> CORS -> SessionAuth
	var root http.Handler = mux
	root = middleware.SessionAuth(userRepo, logger)(root)
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
