package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/response"
)

type orderAPIResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Order   Order `json:"order"`
		Balance int64 `json:"balance"`
	} `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), userID, "user")))
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func TestPlaceOrderEndpoint(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	repo.balances[userID] = 250000
	repo.services[1] = fakeService{name: "Followers", price: 100000}
	router := NewHandler(NewService(repo, nil, nil)).Routes(withUser(userID), passthrough)

	post := func(body interface{}) (*httptest.ResponseRecorder, orderAPIResponse) {
		var buf bytes.Buffer
		json.NewEncoder(&buf).Encode(body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", &buf))
		var out orderAPIResponse
		json.Unmarshal(rec.Body.Bytes(), &out)
		return rec, out
	}

	rec, body := post(map[string]interface{}{"service_id": 1, "quantity": 3, "link_or_target": "@acct", "total_price": 1})
	if rec.Code != http.StatusConflict || body.Error == nil || body.Error.Message != ErrInsufficientBalance.Error() {
		t.Fatalf("expected 409 insufficient balance, got %d %s", rec.Code, rec.Body.String())
	}

	rec, body = post(map[string]interface{}{"service_id": 1, "quantity": 2, "link_or_target": "@acct"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	if body.Data.Balance != 50000 || body.Data.Order.TotalPrice != 200000 {
		t.Fatalf("unexpected placement %+v", body.Data)
	}

	rec, _ = post(map[string]interface{}{"service_id": 1, "quantity": 0, "link_or_target": "@acct"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for zero quantity, got %d", rec.Code)
	}
}

func TestMyOrdersPagination(t *testing.T) {
	repo := newFakeRepo()
	userID := uuid.New()
	for i := 0; i < 12; i++ {
		seedPendingOrder(repo, userID, 10)
	}
	seedPendingOrder(repo, uuid.New(), 10)
	router := NewHandler(NewService(repo, nil, nil)).Routes(withUser(userID), passthrough)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my", nil))
	var out struct {
		Data []Order `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	json.Unmarshal(rec.Body.Bytes(), &out)
	if rec.Code != http.StatusOK || len(out.Data) != 10 || out.Meta.Total != 12 {
		t.Fatalf("expected first page of 10 out of 12, got %d items total %d (%d)", len(out.Data), out.Meta.Total, rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/my?page=2&page_size=10", nil))
	json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out.Data) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(out.Data))
	}
}

func TestGetOrderOfAnotherUserIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	id := seedPendingOrder(repo, uuid.New(), 10)
	router := NewHandler(NewService(repo, nil, nil)).Routes(withUser(uuid.New()), passthrough)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+strconv.FormatInt(id, 10), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPaginationClampsPage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/my?page=9223372036854775807&page_size=100", nil)
	page, size := Pagination(r, 10)
	if page != response.MaxPage || size != 100 {
		t.Fatalf("expected page %d size 100, got %d %d", response.MaxPage, page, size)
	}
	if offset := (page - 1) * size; offset < 0 || offset > response.MaxPage*size {
		t.Fatalf("offset out of range: %d", offset)
	}
}
