package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/errorhandler"
	"github.com/socialboost/boost-api/internal/pkg/response"
	"github.com/socialboost/boost-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Place handles POST /orders
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req PlaceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	res, err := h.svc.Place(r.Context(), userID, PlaceInput{
		ServiceID:    req.ServiceID,
		Quantity:     req.Quantity,
		LinkOrTarget: req.LinkOrTarget,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"order":       res.Order,
		"transaction": res.Transaction,
		"balance":     res.Transaction.BalanceAfter,
	})
}

// My handles GET /orders/my
func (h *Handler) My(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	page, pageSize := Pagination(r, 10)
	items, total, err := h.svc.ListByUser(r.Context(), userID, page, pageSize)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err, "failed to list orders")
		return
	}

	response.WithMeta(w, items, response.NewMeta(total, page, pageSize))
}

// Get handles GET /orders/{id} for the order owner
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	o, err := h.svc.GetForUser(r.Context(), userID, id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.OK(w, o)
}

// Pagination reads page and page_size, falling back to defaultSize.
func Pagination(r *http.Request, defaultSize int) (int, int) {
	return response.PageParams(r, "page_size", defaultSize, 100)
}

// WriteError maps order errors to HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidStatus):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrOrderNotFound):
		response.NotFound(w, "Order not found")
	case errors.Is(err, ErrServiceNotFound):
		response.NotFound(w, "Service not found")
	case errors.Is(err, ErrProfileNotFound):
		response.NotFound(w, "Profile not found")
	case errors.Is(err, ErrProfileBlocked):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrQuantityOverLimit),
		errors.Is(err, ErrInvalidStatusTransition),
		errors.Is(err, ErrAlreadyRefunded):
		response.Conflict(w, err.Error())
	default:
		errorhandler.Internal(r.Context(), w, err, "order operation failed")
	}
}
