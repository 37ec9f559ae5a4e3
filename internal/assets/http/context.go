package http

import (
	"context"

	"github.com/ReyMursuli/assets-api/internal/assets/domain"
)

type ctxKey int

const (
	ctxKeyUser ctxKey = iota
	ctxKeyDepartmentID
)

// UserFromContext returns the authenticated user injected by requireAuth.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(domain.User)
	return u, ok
}

// DepartmentIDFromContext returns the department the authenticated user is
// responsible for, nil when there is none. Only meaningful after
// requireAuth has run.
func DepartmentIDFromContext(ctx context.Context) *int64 {
	id, _ := ctx.Value(ctxKeyDepartmentID).(*int64)
	return id
}

func withUser(ctx context.Context, u domain.User, departmentID *int64) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUser, u)
	return context.WithValue(ctx, ctxKeyDepartmentID, departmentID)
}
