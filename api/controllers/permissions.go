package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/api/middleware"
	"github.com/rinsrhq/console-backend/api/responses"
	"github.com/rinsrhq/console-backend/internal/guard"
	"github.com/rinsrhq/console-backend/internal/permissions"
	"github.com/rinsrhq/console-backend/pkg/enums"
	pkgerrors "github.com/rinsrhq/console-backend/pkg/errors"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

// GetRolePermissions returns the allowed page prefixes for a role. Clients
// append a cache-busting `ts` query param; it is accepted and ignored.
func GetRolePermissions(resolver *permissions.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "permissions resolver unavailable"))
			return
		}

		role, err := enums.ParseAdminRole(chi.URLParam(r, "role"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		pages := resolver.AllowedPages(r.Context(), role)
		if pages == nil {
			pages = []string{}
		}

		responses.WriteSuccess(w, map[string]any{
			"role":         role,
			"allowedPages": pages,
		})
	}
}

// RefreshRolePermissions drops the cached page set for a role and refetches.
func RefreshRolePermissions(resolver *permissions.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "permissions resolver unavailable"))
			return
		}

		role, err := enums.ParseAdminRole(chi.URLParam(r, "role"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		pages := resolver.Refresh(r.Context(), role)
		if pages == nil {
			pages = []string{}
		}

		responses.WriteSuccess(w, map[string]any{
			"role":         role,
			"allowedPages": pages,
		})
	}
}

// EvaluateGuard answers whether the authenticated principal may view a path.
func EvaluateGuard(g *guard.Guard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "route guard unavailable"))
			return
		}

		path := strings.TrimSpace(r.URL.Query().Get("path"))
		if path == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "path query param required"))
			return
		}

		adminID, err := uuid.Parse(middleware.AdminIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}
		role, err := enums.ParseAdminRole(middleware.RoleFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		principal := &guard.Principal{ID: adminID, Role: role}
		if hubStr := middleware.HubIDFromContext(r.Context()); hubStr != "" {
			if hubID, err := uuid.Parse(hubStr); err == nil {
				principal.HubID = &hubID
			}
		}

		decision := g.Evaluate(r.Context(), principal, true, path)
		responses.WriteSuccess(w, decision)
	}
}
