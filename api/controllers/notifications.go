package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rinsrhq/console-backend/api/middleware"
	"github.com/rinsrhq/console-backend/api/responses"
	"github.com/rinsrhq/console-backend/api/validators"
	"github.com/rinsrhq/console-backend/internal/notifications"
	"github.com/rinsrhq/console-backend/internal/unread"
	pkgerrors "github.com/rinsrhq/console-backend/pkg/errors"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

func principalID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(middleware.AdminIDFromContext(r.Context()))
}

// ListNotifications returns paginated notifications for the principal.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		adminID, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		params := notifications.ListParams{AdminID: adminID}

		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}

		params.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))

		if unreadStr := strings.TrimSpace(r.URL.Query().Get("unreadOnly")); unreadStr != "" {
			value, err := strconv.ParseBool(unreadStr)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unreadOnly value"))
				return
			}
			params.UnreadOnly = value
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UnreadNotificationGroups returns unread actionable notifications grouped
// by order id, newest group first.
func UnreadNotificationGroups(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		adminID, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		groups, err := svc.UnreadGroups(r.Context(), adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"groups": groups})
	}
}

// MarkNotificationRead marks a single notification as read.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		adminID, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		notificationID, err := uuid.Parse(chi.URLParam(r, "notificationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		if err := svc.MarkRead(r.Context(), adminID, notificationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}

type markGroupReadRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// MarkNotificationGroupRead marks a batch of notifications as read. The
// batch is not atomic; the response reports how many settled.
func MarkNotificationGroupRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		adminID, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		var body markGroupReadRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids := make([]uuid.UUID, 0, len(body.IDs))
		for _, raw := range body.IDs {
			id, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
				return
			}
			ids = append(ids, id)
		}

		result, batchErr := svc.MarkGroupRead(r.Context(), adminID, ids)
		if batchErr != nil && result.Marked == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, batchErr, "mark group read"))
			return
		}

		// Partial success still returns 200; the counts tell the client
		// which part of the batch needs a retry.
		responses.WriteSuccess(w, map[string]any{
			"requested": result.Requested,
			"marked":    result.Marked,
			"markedIds": result.MarkedIDs,
			"partial":   batchErr != nil,
		})
	}
}

// MarkAllNotificationsRead marks every unread notification for the principal.
func MarkAllNotificationsRead(svc notifications.Service, tracker *unread.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
			return
		}

		adminID, err := principalID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		count, err := svc.MarkAllRead(r.Context(), adminID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if tracker != nil {
			tracker.ResetAll(adminID.String())
		}
		responses.WriteSuccess(w, map[string]any{"marked": count})
	}
}

// UnreadOrderCount returns the number of distinct unread order ids tracked
// from live events.
func UnreadOrderCount(tracker *unread.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "unread tracker unavailable"))
			return
		}

		adminID := middleware.AdminIDFromContext(r.Context())
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		ids := tracker.IDs(adminID)
		if ids == nil {
			ids = []string{}
		}
		responses.WriteSuccess(w, map[string]any{
			"count":    tracker.Count(adminID),
			"orderIds": ids,
		})
	}
}

// AcknowledgeUnreadOrder removes one order id from the live unread set.
func AcknowledgeUnreadOrder(tracker *unread.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "unread tracker unavailable"))
			return
		}

		adminID := middleware.AdminIDFromContext(r.Context())
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderID"))
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id required"))
			return
		}

		tracker.Acknowledge(adminID, orderID)
		responses.WriteSuccess(w, map[string]any{"count": tracker.Count(adminID)})
	}
}

// ResetUnreadOrders empties the live unread set. Called when the admin
// opens the vendor orders listing.
func ResetUnreadOrders(tracker *unread.Tracker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if tracker == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "unread tracker unavailable"))
			return
		}

		adminID := middleware.AdminIDFromContext(r.Context())
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		tracker.ResetAll(adminID)
		responses.WriteSuccess(w, map[string]any{"count": 0})
	}
}
