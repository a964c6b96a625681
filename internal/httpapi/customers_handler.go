package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

type customersHandler struct {
	repo   domain.CustomerRepository
	logger *log.Entry
}

func (h *customersHandler) register(r *chi.Mux) {
	r.Get("/customers", h.get)
	r.Post("/customers", h.create)
	r.Put("/customers", h.update)
	r.Delete("/customers", h.delete)
}

func (h *customersHandler) get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		list, err := h.repo.List(r.Context())
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
		return
	}

	customer, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *customersHandler) create(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := domain.NewValidationError(customer.ValidateInvariants()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}

	created, err := h.repo.Create(r.Context(), customer)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *customersHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "No customer ID provided")
		return
	}

	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := domain.NewValidationError(customer.ValidateInvariants()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	customer.ID = id

	updated, err := h.repo.Update(r.Context(), customer)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *customersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "No customer ID provided")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Customer deleted successfully")
}
