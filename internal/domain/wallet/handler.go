package wallet

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/errorhandler"
	"github.com/socialboost/boost-api/internal/pkg/response"
	"github.com/socialboost/boost-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

type DepositRequest struct {
	Amount int64 `json:"amount" validate:"gt=0"`
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Balance handles GET /wallet/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		errorhandler.Internal(r.Context(), w, err, "failed to read balance")
		return
	}

	response.OK(w, map[string]interface{}{"balance": balance})
}

// Deposit handles POST /wallet/deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req DepositRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	t, err := h.svc.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	response.OK(w, map[string]interface{}{"balance": t.BalanceAfter, "transaction": t})
}

// Transactions handles GET /wallet/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	page, limit := response.PageParams(r, "limit", 20, 100)

	items, total, err := h.svc.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err, "failed to list transactions")
		return
	}

	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// WriteError maps ledger errors to HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "amount must be a non-zero integer with the right sign")
	case errors.Is(err, ErrDescriptionRequired):
		response.BadRequest(w, "description is required")
	case errors.Is(err, ErrProfileNotFound):
		response.NotFound(w, "Profile not found")
	case errors.Is(err, ErrInsufficientBalance):
		response.Conflict(w, err.Error())
	default:
		errorhandler.Internal(r.Context(), w, err, "wallet operation failed")
	}
}
