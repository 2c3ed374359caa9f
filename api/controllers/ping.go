package controllers

import (
	"net/http"

	"github.com/rinsrhq/console-backend/api/middleware"
	"github.com/rinsrhq/console-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if admin := middleware.AdminIDFromContext(r.Context()); admin != "" {
			payload["admin_id"] = admin
		}
		if hub := middleware.HubIDFromContext(r.Context()); hub != "" {
			payload["hub_id"] = hub
		}
		responses.WriteSuccess(w, payload)
	}
}
