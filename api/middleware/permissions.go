package middleware

import (
	"context"
	"net/http"

	"github.com/rinsrhq/console-backend/api/responses"
	pkgerrors "github.com/rinsrhq/console-backend/pkg/errors"
	"github.com/rinsrhq/console-backend/pkg/enums"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

type pageAccessChecker interface {
	CanAccess(ctx context.Context, role enums.AdminRole, path string) bool
}

// RequirePage gates a route group behind the dashboard page permission for
// the actor's role. Access checks fail closed: unknown roles and resolver
// failures deny.
func RequirePage(checker pageAccessChecker, page string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.AdminRole(RoleFromContext(r.Context()))
			if !role.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role"))
				return
			}
			if checker == nil || !checker.CanAccess(r.Context(), role, page) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "page access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
