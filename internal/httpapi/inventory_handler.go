package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/wms/internal/domain"
)

type inventoryHandler struct {
	repo   domain.InventoryRepository
	logger *log.Entry
}

func (h *inventoryHandler) register(r *chi.Mux) {
	r.Get("/inventory", h.get)
	r.Post("/inventory", h.create)
	r.Put("/inventory", h.update)
	r.Delete("/inventory", h.delete)
}

func (h *inventoryHandler) get(w http.ResponseWriter, r *http.Request) {
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

	item, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *inventoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := domain.NewValidationError(item.ValidateInvariants()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	created, err := h.repo.Create(r.Context(), item)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *inventoryHandler) update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "No item ID provided")
		return
	}

	var item domain.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := domain.NewValidationError(item.ValidateInvariants()); err != nil {
		writeError(w, h.logger, err)
		return
	}
	item.ID = id

	updated, err := h.repo.Update(r.Context(), item)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *inventoryHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "No item ID provided")
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeMessage(w, http.StatusOK, "Item deleted successfully")
}
