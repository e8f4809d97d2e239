package session

import (
	"net/http"

	"github.com/socialboost/boost-api/internal/domain/profile"
	"github.com/socialboost/boost-api/internal/pkg/errorhandler"
	"github.com/socialboost/boost-api/internal/pkg/response"
)

// Handler exposes the gate to clients deciding which view to show.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// View is the response of GET /session.
type View struct {
	State    State            `json:"state"`
	Profile  *profile.Profile `json:"profile"`
	Decision Decision         `json:"decision"`
}

// Get handles GET /session?path=&role=
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	gate := FromContext(r.Context())
	if gate == nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "SESSION_GATE_MISSING", "Session gate is not installed", nil)
		return
	}

	role := profile.Role(r.URL.Query().Get("role"))
	if role != "" && role != profile.RoleUser && role != profile.RoleAdmin {
		response.BadRequest(w, "role must be user or admin")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		path = UserLandingPath
	}

	response.OK(w, View{
		State:    gate.State(),
		Profile:  gate.Profile(),
		Decision: gate.Decide(path, role),
	})
}
