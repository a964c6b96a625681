package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
	"github.com/vladislavdragonenkov/wms/internal/service/orders"
)

const requestTimeout = 15 * time.Second

// Dependencies — всё, что нужно маршрутизатору API.
type Dependencies struct {
	Orders    *orders.Service
	Catalog   domain.InventoryRepository
	Customers domain.CustomerRepository
	Health    http.Handler
	Logger    *log.Entry
}

// NewRouter собирает маршрутизатор API. Идентификатор сущности передаётся
// query-параметром id; неподдерживаемый метод даёт 405 в общем формате.
func NewRouter(deps Dependencies) *chi.Mux {
	logger := deps.Logger
	if logger == nil {
		logger = log.New().WithField("component", "httpapi")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	(&ordersHandler{svc: deps.Orders, logger: logger}).register(r)
	(&inventoryHandler{repo: deps.Catalog, logger: logger}).register(r)
	(&customersHandler{repo: deps.Customers, logger: logger}).register(r)

	if deps.Health != nil {
		r.Method(http.MethodGet, "/health", deps.Health)
	}

	return r
}
