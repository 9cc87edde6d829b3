package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "stockledger/docs"
	"stockledger/internal/api/adjustment"
	"stockledger/internal/api/alert"
	"stockledger/internal/api/product"
	"stockledger/internal/api/stock"
	"stockledger/internal/api/supplier"
	"stockledger/internal/api/transfer"
	"stockledger/internal/api/user"
	"stockledger/internal/api/warehouse"
	"stockledger/internal/domain"
	"stockledger/internal/pkg/cache"
	"stockledger/internal/pkg/logger"
	"stockledger/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	User       *user.Handler
	Warehouse  *warehouse.Handler
	Product    *product.Handler
	Stock      *stock.Handler
	Transfer   *transfer.Handler
	Adjustment *adjustment.Handler
	Alert      *alert.Handler
	Supplier   *supplier.Handler
}

// RateLimit configura o limitador global. Limit <= 0 desativa.
type RateLimit struct {
	Limit  int
	Window time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// cacheClient pode ser nil; nesse caso o rate limiting fica desligado.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, rl RateLimit, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.PermissionMiddleware(domain.RoleAdmin)(next))
	}

	// --- Health check e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// --- Usuários (públicas) ---
	mux.HandleFunc("POST /v1/register", h.User.RegisterUserHandler)
	mux.HandleFunc("POST /v1/login", h.User.LoginUserHandler)

	// --- Armazéns: escrita restrita a administradores ---
	mux.HandleFunc("GET /v1/warehouses", auth(h.Warehouse.GetAllWarehousesHandler))
	mux.HandleFunc("POST /v1/warehouses", admin(h.Warehouse.CreateWarehouseHandler))
	mux.HandleFunc("GET /v1/warehouses/{id}", auth(h.Warehouse.GetWarehouseByIDHandler))
	mux.HandleFunc("PUT /v1/warehouses/{id}", admin(h.Warehouse.UpdateWarehouseHandler))
	mux.HandleFunc("DELETE /v1/warehouses/{id}", admin(h.Warehouse.DeleteWarehouseHandler))
	mux.HandleFunc("GET /v1/warehouses/{id}/managers", auth(h.Warehouse.ListMembersHandler))
	mux.HandleFunc("POST /v1/warehouses/{id}/managers", admin(h.Warehouse.AddMemberHandler))

	// --- Catálogo ---
	mux.HandleFunc("GET /v1/products", auth(h.Product.GetProductsHandler))
	mux.HandleFunc("POST /v1/products", admin(h.Product.CreateProductHandler))
	mux.HandleFunc("GET /v1/products/{id}", auth(h.Product.GetProductByIDHandler))

	// --- Fornecedores: qualquer usuário autenticado pode escrever ---
	mux.HandleFunc("GET /v1/suppliers", auth(h.Supplier.ListSuppliersHandler))
	mux.HandleFunc("POST /v1/suppliers", auth(h.Supplier.CreateSupplierHandler))
	mux.HandleFunc("GET /v1/suppliers/{id}", auth(h.Supplier.GetSupplierHandler))
	mux.HandleFunc("PUT /v1/suppliers/{id}", auth(h.Supplier.UpdateSupplierHandler))
	mux.HandleFunc("DELETE /v1/suppliers/{id}", auth(h.Supplier.DeleteSupplierHandler))
	mux.HandleFunc("GET /v1/suppliers/{id}/products", auth(h.Supplier.ListProductsHandler))
	mux.HandleFunc("POST /v1/suppliers/{id}/products", auth(h.Supplier.AddProductHandler))
	mux.HandleFunc("PUT /v1/suppliers/{id}/products/{variant_id}", auth(h.Supplier.UpdateProductPriceHandler))
	mux.HandleFunc("DELETE /v1/suppliers/{id}/products/{variant_id}", auth(h.Supplier.RemoveProductHandler))

	// --- Ledger de estoque ---
	mux.HandleFunc("GET /v1/stock/{warehouse_id}/{variant_id}", auth(h.Stock.GetStockHandler))
	mux.HandleFunc("POST /v1/transfers", auth(h.Transfer.ExecuteTransferHandler))
	mux.HandleFunc("GET /v1/transfers", auth(h.Transfer.ListTransfersHandler))
	mux.HandleFunc("GET /v1/transfers/{reference}", auth(h.Transfer.GetTransferHandler))
	mux.HandleFunc("POST /v1/adjustments", auth(h.Adjustment.ExecuteAdjustmentHandler))
	mux.HandleFunc("GET /v1/adjustments", auth(h.Adjustment.ListAdjustmentsHandler))
	mux.HandleFunc("GET /v1/alerts", auth(h.Alert.ListActiveAlertsHandler))

	return middleware.RateLimiter(cacheClient, rl.Limit, rl.Window, log)(mux)
}

// PingHandler é o health check do serviço.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
