package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/service/orders"
)

type ordersHandler struct {
	svc    *orders.Service
	logger *log.Entry
}

// orderRequest — шапка заказа плюс опциональный набор позиций. Отсутствие
// поля items при обновлении оставляет позиции и склад нетронутыми.
type orderRequest struct {
	orders.OrderInput
	Items *[]orders.ItemInput `json:"items"`
}

func (h *ordersHandler) register(r *chi.Mux) {
	r.Get("/orders", h.get)
	r.Post("/orders", h.create)
	r.Put("/orders", h.update)
	r.Delete("/orders", h.delete)
}

func (h *ordersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		list, err := h.svc.List(r.Context())
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *ordersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var items []orders.ItemInput
	if req.Items != nil {
		items = *req.Items
	}

	order, err := h.svc.Create(r.Context(), req.OrderInput, items)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *ordersHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "No order ID provided")
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := h.svc.Update(r.Context(), id, req.OrderInput, req.Items)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *ordersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "No order ID provided")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Order deleted successfully")
}
