package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/service"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/ReyMursuli/assets-api/pkg/httpx"
	"github.com/ReyMursuli/assets-api/pkg/jwtx"
	"github.com/ReyMursuli/assets-api/pkg/slogx"
)

// requireAuth authenticates the bearer token and, when roles are given,
// authorizes against them. The user is re-loaded from the store on every
// request so a deleted account or a changed role takes effect immediately,
// regardless of what the token claims say. The request context gains the
// live user and their scoping department id.
func (rt *Router) requireAuth(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := slogx.FromContext(ctx)

			token, ok := bearerToken(r)
			if !ok {
				httpx.Unauthenticated("missing bearer token").Write(w)
				return
			}

			claims, err := rt.Issuer.VerifyAccess(token)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					httpx.Unauthenticated("token expired").Write(w)
					return
				}
				httpx.Unauthenticated("invalid token").Write(w)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				httpx.Unauthenticated("invalid token").Write(w)
				return
			}

			u, err := rt.Store.Users().GetUserByID(ctx, userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httpx.Unauthenticated("user no longer exists").Write(w)
					return
				}
				l.Error("failed to load user", slog.Int64("user_id", userID), slog.Any("error", err))
				httpx.Internal().Write(w)
				return
			}

			if len(roles) > 0 && !roleAllowed(u.Role, roles) {
				httpx.Forbidden("insufficient role").Write(w)
				return
			}

			deptID, err := rt.AuthService.DepartmentID(ctx, u.ID)
			if err != nil {
				l.Error("failed to resolve department", slog.Int64("user_id", u.ID), slog.Any("error", err))
				httpx.Internal().Write(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(ctx, u, deptID)))
		})
	}
}

// requireAssetDepartmentAccess enforces department scoping on asset
// mutations. Admins pass unconditionally. A responsible user must have a
// department, and the asset being created or touched must belong to it: on
// create the request body's department is checked, on update and delete the
// stored asset's department is.
func (rt *Router) requireAssetDepartmentAccess() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			u, ok := UserFromContext(ctx)
			if !ok {
				httpx.Unauthenticated("missing bearer token").Write(w)
				return
			}

			if u.Role.Equals(domain.RoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}

			deptID := DepartmentIDFromContext(ctx)
			if deptID == nil {
				httpx.Forbidden("no department assigned").Write(w)
				return
			}

			switch r.Method {
			case http.MethodPost:
				body, err := io.ReadAll(r.Body)
				if err != nil {
					httpx.ValidationError("unreadable request body").Write(w)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))

				var probe struct {
					DepartmentID *int64 `json:"departmentId"`
				}
				if err := json.Unmarshal(body, &probe); err != nil {
					httpx.ValidationError("invalid JSON body").Write(w)
					return
				}
				if probe.DepartmentID == nil || *probe.DepartmentID != *deptID {
					httpx.Forbidden("asset belongs to another department").Write(w)
					return
				}

			case http.MethodPut, http.MethodDelete:
				assetID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
				if err != nil {
					httpx.ValidationError("invalid asset id").Write(w)
					return
				}

				a, err := rt.AssetService.GetByID(ctx, assetID)
				if err != nil {
					if errors.Is(err, service.ErrAssetNotFound) {
						httpx.NotFound("asset not found").Write(w)
						return
					}
					httpx.Internal().Write(w)
					return
				}
				if a.DepartmentID == nil || *a.DepartmentID != *deptID {
					httpx.Forbidden("asset belongs to another department").Write(w)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, a := range allowed {
		if role.Equals(a) {
			return true
		}
	}
	return false
}
