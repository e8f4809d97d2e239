package profile

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/middleware"
)

func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), userID, "user")))
		})
	}
}

func TestProfileRoutes(t *testing.T) {
	id := uuid.New()
	svc, _, _, _ := newTestService(t, newFakeRepo(&Profile{ID: id, FullName: "Ann", Role: RoleUser, WalletBalance: 7}))
	router := NewHandler(svc).Routes(withUser(id))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /me: expected 200, got %d", rec.Code)
	}
	var got struct {
		Data Profile `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Data.FullName != "Ann" || got.Data.WalletBalance != 7 {
		t.Fatalf("unexpected profile %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/me", bytes.NewBufferString(`{"full_name":"   "}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank name: expected 422, got %d", rec.Code)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("avatar", "me.png")
	part.Write(pngBytes(t))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/me/avatar", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("avatar upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/me/avatar", bytes.NewBufferString("nope"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing file: expected 400, got %d", rec.Code)
	}
}
