package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	memberIDKey contextKey = "memberID"
)

// WithMemberID adds the caller's member ID to the request context
func WithMemberID(r *http.Request, memberID string) *http.Request {
	ctx := context.WithValue(r.Context(), memberIDKey, memberID)
	return r.WithContext(ctx)
}

// GetMemberID retrieves the member ID from context, "" if not present
func GetMemberID(r *http.Request) string {
	memberID, _ := r.Context().Value(memberIDKey).(string)
	return memberID
}
