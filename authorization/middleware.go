package authorization

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satyajeet03/rentApp/domain"
	"github.com/satyajeet03/rentApp/errors"
)

type contextKey struct{}

// UserFromContext returns the user resolved by the auth middleware, nil on
// public routes.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(contextKey{}).(*domain.User)
	return user
}

// Middleware extracts the bearer token, verifies it and loads the referenced
// user onto the request context. Failures never reach the handler.
func Middleware(tokens *TokenService, users domain.UserStore, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			bearer := req.Header.Get("Authorization")
			if bearer == "" {
				unauthenticated(rw)
				return
			}

			parts := strings.Split(bearer, "Bearer ")
			if len(parts) != 2 {
				unauthenticated(rw)
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				logger.Warnf("rejected token: %s", err)
				unauthenticated(rw)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				unauthenticated(rw)
				return
			}

			user, err := users.Get(req.Context(), userID)
			if err != nil || user == nil {
				logger.Warnf("token for missing user %s", claims.UserID)
				unauthenticated(rw)
				return
			}

			ctx := context.WithValue(req.Context(), contextKey{}, user)
			next.ServeHTTP(rw, req.WithContext(ctx))
		})
	}
}

func unauthenticated(rw http.ResponseWriter) {
	rw.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(rw).Encode(map[string]string{"message": errors.Unauthenticated})
}
