package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/service"
	"github.com/ReyMursuli/assets-api/pkg/cryptox"
	"github.com/ReyMursuli/assets-api/pkg/httpx"
	"github.com/ReyMursuli/assets-api/pkg/slogx"
)

// envelope is the success wrapper used by the resource endpoints.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeData(w http.ResponseWriter, code int, data any) {
	httpx.WriteJSON(w, code, envelope{Success: true, Data: data})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// UserHandler serves the admin-only user management endpoints. Responses
// carry the redacted user view; hashes and TOTP secrets never leave the
// server.
type UserHandler struct {
	UserService *service.UserService
}

type userRequest struct {
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Role         string  `json:"role"`
	ProfileImage *string `json:"profileImage"`
}

func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.List(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list users", slog.Any("error", err))
		httpx.Internal().Write(w)
		return
	}

	public := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Redacted())
	}
	writeData(w, http.StatusOK, public)
}

func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid user id").Write(w)
		return
	}

	u, err := h.UserService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.NotFound("user not found").Write(w)
			return
		}
		httpx.Internal().Write(w)
		return
	}

	writeData(w, http.StatusOK, u.Redacted())
}

func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}

	u, err := h.UserService.Create(ctx, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		writeUserServiceError(w, l, err)
		return
	}

	writeData(w, http.StatusCreated, u.Redacted())
}

func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid user id").Write(w)
		return
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}

	u, err := h.UserService.Update(ctx, id, req.Username, req.Email, req.Role, req.ProfileImage)
	if err != nil {
		writeUserServiceError(w, l, err)
		return
	}

	writeData(w, http.StatusOK, u.Redacted())
}

func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid user id").Write(w)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.ValidationError("invalid JSON body").Write(w)
		return
	}
	if req.Password == "" {
		httpx.ValidationError("password is required").Write(w)
		return
	}

	if err := h.UserService.ChangePassword(ctx, id, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.NotFound("user not found").Write(w)
		case errors.Is(err, cryptox.ErrPasswordTooShort):
			httpx.ValidationError("password must be at least 6 characters").Write(w)
		default:
			httpx.Internal().Write(w)
		}
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		httpx.ValidationError("invalid user id").Write(w)
		return
	}

	if err := h.UserService.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.NotFound("user not found").Write(w)
			return
		}
		httpx.Internal().Write(w)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func writeUserServiceError(w http.ResponseWriter, l *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrMissingField):
		httpx.ValidationError("username, email and password are required").Write(w)
	case errors.Is(err, service.ErrInvalidEmail):
		httpx.ValidationError("email must be a valid address").Write(w)
	case errors.Is(err, service.ErrInvalidRole):
		httpx.ValidationError("role must be admin or responsible").Write(w)
	case errors.Is(err, cryptox.ErrPasswordTooShort):
		httpx.ValidationError("password must be at least 6 characters").Write(w)
	case errors.Is(err, service.ErrEmailTaken):
		httpx.ValidationError("email or username already registered").Write(w)
	case errors.Is(err, service.ErrUserNotFound):
		httpx.NotFound("user not found").Write(w)
	default:
		l.Error("user operation failed", slog.Any("error", err))
		httpx.Internal().Write(w)
	}
}
