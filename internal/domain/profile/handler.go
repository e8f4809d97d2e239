package profile

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/socialboost/boost-api/internal/middleware"
	"github.com/socialboost/boost-api/internal/pkg/errorhandler"
	"github.com/socialboost/boost-api/internal/pkg/response"
	"github.com/socialboost/boost-api/internal/pkg/storage"
	"github.com/socialboost/boost-api/internal/pkg/validator"
)

// Handler handles profile HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMe handles GET /profiles/me
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	p, err := h.service.GetByID(r.Context(), userID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.OK(w, p)
}

// UpdateMe handles PATCH /profiles/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateMeRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.UpdateMe(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.OK(w, p)
}

// UploadAvatar handles POST /profiles/me/avatar (multipart field "avatar")
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxAvatarSize+64*1024)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	p, err := h.service.UploadAvatar(r.Context(), userID, file)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	response.OK(w, p)
}

// WriteError maps profile errors to HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.NotFound(w, "Profile not found")
	case errors.Is(err, ErrCannotModifySelf):
		response.Forbidden(w, err.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Avatar exceeds 5 MB")
	case errors.Is(err, storage.ErrInvalidMimeType), errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "Avatar must be a JPEG, PNG or GIF image")
	default:
		errorhandler.Internal(r.Context(), w, err, "profile operation failed")
	}
}
