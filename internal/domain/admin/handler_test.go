package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/domain/order"
	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/domain/wallet"
	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/response"
)

type fakeAuditRepo struct{ logs []*AuditLog }

func (f *fakeAuditRepo) CreateAuditLog(ctx context.Context, l *AuditLog) error {
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeAuditRepo) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error) {
	return f.logs, len(f.logs), nil
}

type fakeProfiles struct{ items map[uuid.UUID]*profile.Profile }

func (f *fakeProfiles) GetByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfiles) List(ctx context.Context, flt profile.ListFilter) ([]*profile.Profile, int, error) {
	out := []*profile.Profile{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeProfiles) AdminUpdate(ctx context.Context, actorID, id uuid.UUID, req *profile.AdminUpdateRequest) (*profile.Profile, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		if actorID == id {
			return nil, profile.ErrCannotModifySelf
		}
		p.Role = profile.Role(*req.Role)
	}
	return p, nil
}

func (f *fakeProfiles) Block(ctx context.Context, actorID, id uuid.UUID) (*profile.Profile, error) {
	blocked := string(profile.RoleBlocked)
	return f.AdminUpdate(ctx, actorID, id, &profile.AdminUpdateRequest{Role: &blocked})
}

func (f *fakeProfiles) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return profile.ErrCannotModifySelf
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProfiles) CountByRole(ctx context.Context) (map[profile.Role]int, error) {
	counts := map[profile.Role]int{}
	for _, p := range f.items {
		counts[p.Role]++
	}
	return counts, nil
}

type fakeOrders struct {
	statuses map[int64]order.Status
	refunded map[int64]bool
}

func (f *fakeOrders) List(ctx context.Context, flt order.ListFilter) ([]*order.Order, int, error) {
	return []*order.Order{}, 0, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id int64, to order.Status) (*order.Order, error) {
	from, ok := f.statuses[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	if from != to && !order.CanTransition(from, to) {
		return nil, order.ErrInvalidStatusTransition
	}
	f.statuses[id] = to
	return &order.Order{ID: id, Status: to}, nil
}

func (f *fakeOrders) Refund(ctx context.Context, id int64) (*order.Result, error) {
	if f.refunded[id] {
		return nil, order.ErrAlreadyRefunded
	}
	f.refunded[id] = true
	return &order.Result{
		Order:       &order.Order{ID: id, Status: f.statuses[id]},
		Transaction: &wallet.Transaction{Type: wallet.TypeRefund, Amount: 500},
	}, nil
}

func (f *fakeOrders) CountByStatus(ctx context.Context) (map[order.Status]int, error) {
	counts := map[order.Status]int{}
	for _, s := range f.statuses {
		counts[s]++
	}
	return counts, nil
}

type fakeLedger struct {
	balances   map[uuid.UUID]int64
	lastFilter wallet.SearchFilter
}

func (f *fakeLedger) Adjust(ctx context.Context, userID uuid.UUID, amount int64, description string) (*wallet.Transaction, error) {
	if f.balances[userID]+amount < 0 {
		return nil, wallet.ErrInsufficientBalance
	}
	f.balances[userID] += amount
	return &wallet.Transaction{UserID: userID, Type: wallet.TypeAdjustment, Amount: amount, BalanceAfter: f.balances[userID]}, nil
}

func (f *fakeLedger) Search(ctx context.Context, flt wallet.SearchFilter) ([]*wallet.Transaction, int, error) {
	f.lastFilter = flt
	return []*wallet.Transaction{}, 0, nil
}

func (f *fakeLedger) Totals(ctx context.Context) (*wallet.Totals, error) {
	return &wallet.Totals{Deposits: 1000, Orders: -400, Count: 3}, nil
}

type fakeCatalog int

func (c fakeCatalog) Count(ctx context.Context) (int, error) { return int(c), nil }

type fixture struct {
	router  http.Handler
	audit   *fakeAuditRepo
	orders  *fakeOrders
	ledger  *fakeLedger
	adminID uuid.UUID
	userID  uuid.UUID
}

func newFixture(role string) *fixture {
	adminID, userID := uuid.New(), uuid.New()
	f := &fixture{
		audit:   &fakeAuditRepo{},
		orders:  &fakeOrders{statuses: map[int64]order.Status{1: order.StatusPending, 2: order.StatusCompleted}, refunded: map[int64]bool{}},
		ledger:  &fakeLedger{balances: map[uuid.UUID]int64{userID: 100}},
		adminID: adminID,
		userID:  userID,
	}
	profiles := &fakeProfiles{items: map[uuid.UUID]*profile.Profile{
		adminID: {ID: adminID, Role: profile.RoleAdmin},
		userID:  {ID: userID, Role: profile.RoleUser},
	}}
	svc := NewService(f.audit, profiles, f.orders, f.ledger, fakeCatalog(4))

	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), adminID, role)))
		})
	}
	f.router = NewHandler(svc, nil).Routes(auth)
	return f
}

func (f *fixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	f := newFixture("user")
	if rec := f.do(http.MethodGet, "/control", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestControlSummary(t *testing.T) {
	f := newFixture("admin")
	rec := f.do(http.MethodGet, "/control", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Data Summary `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &out)
	if out.Data.Users != 2 || out.Data.Services != 4 || out.Data.Orders != 2 || out.Data.Ledger.Deposits != 1000 {
		t.Fatalf("unexpected summary %+v", out.Data)
	}
}

func TestOrderManagement(t *testing.T) {
	f := newFixture("admin")

	if rec := f.do(http.MethodPatch, "/orders/2/status", map[string]string{"status": "pending"}); rec.Code != http.StatusConflict {
		t.Fatalf("completed to pending: expected 409, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPatch, "/orders/1/status", map[string]string{"status": "shipped"}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown status: expected 422, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPatch, "/orders/1/status", map[string]string{"status": "processing"}); rec.Code != http.StatusOK {
		t.Fatalf("pending to processing: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPatch, "/orders/9/status", map[string]string{"status": "processing"}); rec.Code != http.StatusNotFound {
		t.Fatalf("missing order: expected 404, got %d", rec.Code)
	}

	if rec := f.do(http.MethodPost, "/orders/2/refund", nil); rec.Code != http.StatusOK {
		t.Fatalf("refund: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/orders/2/refund", nil); rec.Code != http.StatusConflict {
		t.Fatalf("second refund: expected 409, got %d", rec.Code)
	}

	actions := []string{}
	for _, l := range f.audit.logs {
		actions = append(actions, l.Action)
	}
	if len(actions) != 2 || actions[0] != ActionOrderStatus || actions[1] != ActionOrderRefund {
		t.Fatalf("expected status and refund audit entries, got %v", actions)
	}
}

func TestUserManagement(t *testing.T) {
	f := newFixture("admin")
	userPath := "/users/" + f.userID.String()

	if rec := f.do(http.MethodPost, userPath+"/balance", map[string]interface{}{"amount": -500, "description": "fix"}); rec.Code != http.StatusConflict {
		t.Fatalf("overdraft adjustment: expected 409, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, userPath+"/balance", map[string]interface{}{"amount": -50, "description": " "}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank description: expected 422, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, userPath+"/balance", map[string]interface{}{"amount": -50, "description": "chargeback"}); rec.Code != http.StatusOK {
		t.Fatalf("adjustment: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if f.ledger.balances[f.userID] != 50 {
		t.Fatalf("expected balance 50, got %d", f.ledger.balances[f.userID])
	}

	if rec := f.do(http.MethodPost, userPath+"/block", nil); rec.Code != http.StatusOK {
		t.Fatalf("block: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/users/"+f.adminID.String()+"/block", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("self block: expected 403, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, userPath, nil); rec.Code != http.StatusOK {
		t.Fatalf("detail: expected 200, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/users/"+uuid.NewString(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing user: expected 404, got %d", rec.Code)
	}
	if rec := f.do(http.MethodDelete, userPath, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
}

func TestTransactionSearchParams(t *testing.T) {
	f := newFixture("admin")
	uid := uuid.New()

	rec := f.do(http.MethodGet, "/transactions?search=Order&type=order&sort=amount&dir=asc&limit=10&offset=5&user_id="+uid.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := f.ledger.lastFilter
	if got.Search != "Order" || got.Type != wallet.TypeOrder || got.Sort != "amount" || got.Desc || got.Limit != 10 || got.Offset != 5 || *got.UserID != uid {
		t.Fatalf("unexpected filter %+v", got)
	}

	if rec := f.do(http.MethodGet, "/transactions?user_id=nope", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad user id: expected 400, got %d", rec.Code)
	}
}

func TestLedgerAndAuditListsCarryMeta(t *testing.T) {
	f := newFixture("admin")
	f.audit.logs = []*AuditLog{{Action: ActionOrderStatus}, {Action: ActionOrderRefund}}

	type listBody struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
		Meta    *response.Meta    `json:"meta"`
	}

	rec := f.do(http.MethodGet, "/audit?limit=1&offset=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit: expected 200, got %d", rec.Code)
	}
	var audit listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &audit); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	if len(audit.Data) != 2 || audit.Meta == nil || audit.Meta.Total != 2 || audit.Meta.Limit != 1 || audit.Meta.Page != 2 || audit.Meta.HasNext || !audit.Meta.HasPrev {
		t.Fatalf("unexpected audit body: %s", rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/transactions?limit=10&offset=99999999999", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("transactions: expected 200, got %d", rec.Code)
	}
	var txs listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode transactions: %v", err)
	}
	if txs.Meta == nil || txs.Meta.Total != 0 || txs.Meta.Limit != 10 {
		t.Fatalf("unexpected transactions body: %s", rec.Body.String())
	}
	if got := f.ledger.lastFilter.Offset; got != (response.MaxPage-1)*10 {
		t.Fatalf("expected clamped offset, got %d", got)
	}
}
