package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/order"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/wallet"
	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/errorhandler"
	"github.com/socialboost/boost-api/internal/pkg/response"
	"github.com/socialboost/boost-api/internal/pkg/validator"
)

// Handler handles admin HTTP requests
type Handler struct {
	service  *Service
	services http.Handler
}

// NewHandler creates admin handler. services serves catalog management
// under /services.
func NewHandler(service *Service, services http.Handler) *Handler {
	return &Handler{service: service, services: services}
}

// --- Control center ---

// Control handles GET /admin/control
func (h *Handler) Control(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		errorhandler.Internal(r.Context(), w, err, "failed to build admin summary")
		return
	}
	response.OK(w, sum)
}

// --- Users ---

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := response.PageParams(r, "limit", 20, 100)

	filter := profile.ListFilter{
		Search: q.Get("search"),
		Role:   profile.Role(q.Get("role")),
		Page:   page,
		Limit:  limit,
	}
	items, total, err := h.service.profiles.List(r.Context(), filter)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err, "failed to list users")
		return
	}
	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// GetUser handles GET /admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.UserDetail(r.Context(), id)
	if err != nil {
		profile.WriteError(w, r, err)
		return
	}
	response.OK(w, detail)
}

// UpdateUser handles PATCH /admin/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req profile.AdminUpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actorID := middleware.GetUserID(r.Context())
	p, err := h.service.profiles.AdminUpdate(r.Context(), actorID, id, &req)
	if err != nil {
		profile.WriteError(w, r, err)
		return
	}

	h.service.Audit(r.Context(), actorID, ActionUserUpdate, "user", id.String(), r.RemoteAddr, req)
	response.OK(w, p)
}

// BlockUser handles POST /admin/users/{id}/block
func (h *Handler) BlockUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	p, err := h.service.profiles.Block(r.Context(), actorID, id)
	if err != nil {
		profile.WriteError(w, r, err)
		return
	}

	h.service.Audit(r.Context(), actorID, ActionUserBlock, "user", id.String(), r.RemoteAddr, nil)
	response.OK(w, p)
}

// AdjustBalance handles POST /admin/users/{id}/balance
func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req AdjustBalanceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	t, err := h.service.ledger.Adjust(r.Context(), id, req.Amount, req.Description)
	if err != nil {
		wallet.WriteError(w, r, err)
		return
	}

	h.service.Audit(r.Context(), middleware.GetUserID(r.Context()), ActionBalanceAdjust, "user", id.String(), r.RemoteAddr, req)
	response.OK(w, map[string]interface{}{"balance": t.BalanceAfter, "transaction": t})
}

// DeleteUser handles DELETE /admin/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	actorID := middleware.GetUserID(r.Context())
	if err := h.service.profiles.Delete(r.Context(), actorID, id); err != nil {
		profile.WriteError(w, r, err)
		return
	}

	h.service.Audit(r.Context(), actorID, ActionUserDelete, "user", id.String(), r.RemoteAddr, nil)
	response.NoContent(w)
}

// --- Orders ---

// ListOrders handles GET /admin/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, pageSize := order.Pagination(r, 20)
	q := r.URL.Query()

	filter := order.ListFilter{
		Search: q.Get("search"),
		Status: order.Status(q.Get("status")),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if raw := q.Get("user_id"); raw != "" {
		uid, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid user ID")
			return
		}
		filter.UserID = &uid
	}

	items, total, err := h.service.orders.List(r.Context(), filter)
	if err != nil {
		order.WriteError(w, r, err)
		return
	}
	response.WithMeta(w, items, response.NewMeta(total, page, pageSize))
}

// UpdateOrderStatus handles PATCH /admin/orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req order.StatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	o, err := h.service.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		order.WriteError(w, r, err)
		return
	}

	h.service.Audit(r.Context(), middleware.GetUserID(r.Context()), ActionOrderStatus, "order", strconv.FormatInt(id, 10), r.RemoteAddr, req)
	response.OK(w, o)
}

// RefundOrder handles POST /admin/orders/{id}/refund
func (h *Handler) RefundOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	res, err := h.service.orders.Refund(r.Context(), id)
	if err != nil {
		order.WriteError(w, r, err)
		return
	}

	h.service.Audit(r.Context(), middleware.GetUserID(r.Context()), ActionOrderRefund, "order", strconv.FormatInt(id, 10), r.RemoteAddr,
		map[string]int64{"amount": res.Transaction.Amount})
	response.OK(w, res)
}

// --- Ledger ---

// Transactions handles GET /admin/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := response.OffsetParams(r, 50, 200)

	filter := wallet.SearchFilter{
		Search: q.Get("search"),
		Type:   wallet.TransactionType(q.Get("type")),
		Sort:   q.Get("sort"),
		Desc:   q.Get("dir") != "asc",
		Limit:  limit,
		Offset: offset,
	}
	if raw := q.Get("user_id"); raw != "" {
		uid, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid user ID")
			return
		}
		filter.UserID = &uid
	}

	items, total, err := h.service.ledger.Search(r.Context(), filter)
	if err != nil {
		errorhandler.Internal(r.Context(), w, err, "failed to search transactions")
		return
	}
	response.WithMeta(w, items, response.NewOffsetMeta(total, limit, offset))
}

// --- Audit Logs ---

// AuditLogs handles GET /admin/audit
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := response.OffsetParams(r, 50, 100)

	logs, total, err := h.service.ListAuditLogs(r.Context(), AuditFilter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		errorhandler.Internal(r.Context(), w, err, "failed to list audit logs")
		return
	}

	response.WithMeta(w, logs, response.NewOffsetMeta(total, limit, offset))
}

func parseUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid order ID")
		return 0, false
	}
	return id, true
}
