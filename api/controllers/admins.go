package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/api/responses"
	"github.com/rinsrhq/console-backend/api/validators"
	"github.com/rinsrhq/console-backend/internal/admins"
	pkgerrors "github.com/rinsrhq/console-backend/pkg/errors"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

// CreateAdmin provisions a console admin with a one-time temp password.
func CreateAdmin(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admins service unavailable"))
			return
		}

		var body admins.CreateAdminRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListAdmins returns paginated admins, optionally scoped to one hub.
func ListAdmins(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admins service unavailable"))
			return
		}

		limit := 0
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = value
		}

		var hubID *uuid.UUID
		if hubStr := strings.TrimSpace(r.URL.Query().Get("hubId")); hubStr != "" {
			parsed, err := uuid.Parse(hubStr)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid hub id"))
				return
			}
			hubID = &parsed
		}

		result, err := svc.List(r.Context(), limit, strings.TrimSpace(r.URL.Query().Get("cursor")), hubID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetAdmin returns one admin by id.
func GetAdmin(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admins service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "adminID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid admin id"))
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// UpdateAdminPages replaces an admin's allowed page prefixes.
func UpdateAdminPages(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admins service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "adminID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid admin id"))
			return
		}

		var body admins.UpdateAllowedPagesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateAllowedPages(r.Context(), id, body.AllowedPages)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
