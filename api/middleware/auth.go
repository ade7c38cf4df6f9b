package middleware

import (
	"net/http"

	"github.com/angelmondragon/homeservices-backend/api/responses"
	"github.com/angelmondragon/homeservices-backend/api/validators"
	pkgAuth "github.com/angelmondragon/homeservices-backend/pkg/auth"
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
	"github.com/angelmondragon/homeservices-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the member.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := WithMemberProfileID(r.Context(), claims.MemberProfileID)
			if logg != nil {
				ctx = logg.WithMemberProfileID(ctx, claims.MemberProfileID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
