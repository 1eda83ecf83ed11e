package middleware

import (
	"context"
	"net/http"

	"github.com/playtrackhq/playtrack/internal/api/apierr"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/services/identity"
)

type contextKey string

const userContextKey contextKey = "user"

// Header names for connect-style API authentication
const (
	HeaderAPIUser = "X-API-User"
	HeaderAPIKey  = "X-API-Key"
)

// Auth creates authentication middleware validating the API user/key headers
func Auth(identityService *identity.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			name := r.Header.Get(HeaderAPIUser)
			apiKey := r.Header.Get(HeaderAPIKey)
			if name == "" || apiKey == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			user, err := identityService.Authenticate(r.Context(), name, apiKey)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
