package middleware

import "context"

type contextKey string

const ctxMemberProfileID contextKey = "member_profile_id"

// MemberProfileIDFromContext returns the authenticated member, or 0 when the
// request did not pass Auth.
func MemberProfileIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxMemberProfileID).(int64); ok {
		return v
	}
	return 0
}

// WithMemberProfileID injects the member identifier into the context.
func WithMemberProfileID(ctx context.Context, memberProfileID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxMemberProfileID, memberProfileID)
}
