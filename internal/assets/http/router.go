package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
	"github.com/ReyMursuli/assets-api/internal/assets/service"
	"github.com/ReyMursuli/assets-api/internal/assets/store"
	"github.com/ReyMursuli/assets-api/pkg/httpx"
	"github.com/ReyMursuli/assets-api/pkg/jwtx"
	"github.com/ReyMursuli/assets-api/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	Issuer    *jwtx.Issuer
	Store     store.Store
	startTime time.Time
	logger    *slog.Logger

	AuthService       *service.AuthService
	TwoFactorService  *service.TwoFactorService
	UserService       *service.UserService
	DepartmentService *service.DepartmentService
	AssetService      *service.AssetService
}

func NewRouter(issuer *jwtx.Issuer, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:       http.NewServeMux(),
		Issuer:    issuer,
		Store:     st,
		startTime: time.Now(),
		logger:    logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerDepartments()
	r.registerAssets()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:      r.AuthService,
		TwoFactorService: r.TwoFactorService,
	}

	r.Mux.Handle("POST /auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /auth/refresh", http.HandlerFunc(h.HandleRefresh))

	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout), r.requireAuth()))
	r.Mux.Handle("POST /auth/2fa/setup",
		httpx.Chain(http.HandlerFunc(h.HandleTwoFactorSetup), r.requireAuth()))
	r.Mux.Handle("POST /auth/2fa/verify",
		httpx.Chain(http.HandlerFunc(h.HandleTwoFactorVerify), r.requireAuth()))
	r.Mux.Handle("POST /auth/2fa/disable",
		httpx.Chain(http.HandlerFunc(h.HandleTwoFactorDisable), r.requireAuth()))
}

func (r *Router) registerUsers() {
	h := &UserHandler{UserService: r.UserService}
	admin := r.requireAuth(domain.RoleAdmin)

	r.Mux.Handle("GET /users", httpx.Chain(http.HandlerFunc(h.HandleList), admin))
	r.Mux.Handle("POST /users", httpx.Chain(http.HandlerFunc(h.HandleCreate), admin))
	r.Mux.Handle("GET /users/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), admin))
	r.Mux.Handle("PUT /users/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), admin))
	r.Mux.Handle("DELETE /users/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), admin))
	r.Mux.Handle("PUT /users/{id}/password", httpx.Chain(http.HandlerFunc(h.HandleChangePassword), admin))
}

func (r *Router) registerDepartments() {
	h := &DepartmentHandler{DepartmentService: r.DepartmentService}
	admin := r.requireAuth(domain.RoleAdmin)

	r.Mux.Handle("GET /departments", httpx.Chain(http.HandlerFunc(h.HandleList), admin))
	r.Mux.Handle("POST /departments", httpx.Chain(http.HandlerFunc(h.HandleCreate), admin))
	r.Mux.Handle("GET /departments/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), admin))
	r.Mux.Handle("PUT /departments/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), admin))
	r.Mux.Handle("DELETE /departments/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), admin))
}

func (r *Router) registerAssets() {
	h := &AssetHandler{AssetService: r.AssetService}

	read := r.requireAuth(domain.RoleAdmin, domain.RoleResponsible)
	mutate := []httpx.Middleware{
		r.requireAuth(domain.RoleAdmin, domain.RoleResponsible),
		r.requireAssetDepartmentAccess(),
	}

	r.Mux.Handle("GET /assets", httpx.Chain(http.HandlerFunc(h.HandleList), read))
	r.Mux.Handle("GET /assets/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), read))
	r.Mux.Handle("POST /assets", httpx.Chain(http.HandlerFunc(h.HandleCreate), mutate...))
	r.Mux.Handle("PUT /assets/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), mutate...))
	r.Mux.Handle("DELETE /assets/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), mutate...))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.Store))
}
