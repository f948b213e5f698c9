package middleware

import (
	"net/http"

	"saedshub/internal/httputil"
)

// MemberIDHeader carries the caller's member identifier, supplied by the
// authentication layer in front of this service.
const MemberIDHeader = "X-Member-ID"

// Identity copies the externally supplied member identifier into the request
// context. Verification happens upstream; an absent header just means the
// per-member download counters are skipped.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if memberID := r.Header.Get(MemberIDHeader); memberID != "" {
			r = httputil.WithMemberID(r, memberID)
		}
		next.ServeHTTP(w, r)
	})
}
