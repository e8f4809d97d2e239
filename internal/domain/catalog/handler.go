package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/socialboost/boost-api/internal/pkg/errorhandler"
	"github.com/socialboost/boost-api/internal/pkg/response"
	"github.com/socialboost/boost-api/internal/pkg/validator"
)

// Handler handles catalog HTTP requests
type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// List handles GET /services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.manager.List(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, err, "failed to list services")
		return
	}
	response.OK(w, items)
}

// Get handles GET /services/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	svc, err := h.manager.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, svc)
}

// Create handles POST /admin/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ServiceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	svc, err := h.manager.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.Created(w, svc)
}

// Update handles PUT /admin/services/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	svc, err := h.manager.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, svc)
}

// Delete handles DELETE /admin/services/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.manager.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid service ID")
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "Service not found")
	case errors.Is(err, ErrInvalidPrice):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrServiceInUse):
		response.Conflict(w, err.Error())
	default:
		errorhandler.Internal(r.Context(), w, err, "catalog operation failed")
	}
}
