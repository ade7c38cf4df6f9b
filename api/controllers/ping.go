package controllers

import (
	"net/http"

	"github.com/angelmondragon/homeservices-backend/api/middleware"
	"github.com/angelmondragon/homeservices-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

// PrivatePing echoes the authenticated member so clients can verify tokens.
func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"scope":             "member",
			"status":            "ok",
			"member_profile_id": middleware.MemberProfileIDFromContext(r.Context()),
		})
	}
}
