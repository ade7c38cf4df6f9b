package membercontext

import (
	"net/http"

	"github.com/angelmondragon/homeservices-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/homeservices-backend/pkg/errors"
)

// ResolveMemberProfileID extracts the authenticated member from the request.
func ResolveMemberProfileID(r *http.Request) (int64, error) {
	id := middleware.MemberProfileIDFromContext(r.Context())
	if id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "member context required")
	}
	return id, nil
}
