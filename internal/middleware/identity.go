package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// userIDKey is the context key under which the caller's user id is stored.
// Unexported so the only way in or out is through this package.
type userIDKey struct{}

// NewIdentity returns a middleware that reads the caller's user id from the
// X-User-ID header and stores it in the request context. Authentication
// itself happens upstream (gateway); this backend only needs the resolved
// identity. Requests without a valid UUID in the header are rejected with 401.
func NewIdentity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(r.Header.Get("X-User-ID"))
			if err != nil {
				http.Error(w, "missing or invalid X-User-ID header", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the caller's user id placed in the context by NewIdentity.
// The second return is false when the middleware did not run for this request.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey{}).(uuid.UUID)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Test helper for
// exercising handlers without the full middleware chain.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}
