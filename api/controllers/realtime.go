package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rinsrhq/console-backend/api/middleware"
	"github.com/rinsrhq/console-backend/api/responses"
	"github.com/rinsrhq/console-backend/internal/realtime"
	"github.com/rinsrhq/console-backend/pkg/config"
	pkgerrors "github.com/rinsrhq/console-backend/pkg/errors"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

// RealtimeSocket upgrades the connection and attaches it to the hub. The
// auth middleware runs before the upgrade, so the principal is already in
// the context; when its hub association is known the client joins that
// channel immediately.
func RealtimeSocket(hub *realtime.Hub, cfg config.RealtimeConfig, logg *logger.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			// Cross-origin policy is enforced by the CORS layer; the
			// websocket handshake accepts any origin that got this far.
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if hub == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "realtime hub unavailable"))
			return
		}

		adminID := middleware.AdminIDFromContext(r.Context())
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing principal"))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake failure to the client.
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "admin_id", adminID), "realtime.upgrade_failed")
			}
			return
		}

		client := realtime.NewClient(r.Context(), hub, conn, cfg, logg, adminID, middleware.HubIDFromContext(r.Context()))
		go client.WritePump(r.Context())
		go client.ReadPump(r.Context())
	}
}
