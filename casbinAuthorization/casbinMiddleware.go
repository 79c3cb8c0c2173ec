package casbinAuthorization

import (
	"net/http"

	"github.com/casbin/casbin"
	"github.com/sirupsen/logrus"

	"github.com/satyajeet03/rentApp/authorization"
)

const anonymousRole = "anonymous"

func InitializeEnforcer(modelPath, policyPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcerSafe(modelPath, policyPath)
}

// CasbinMiddleware enforces the role policy against the request path and
// method. It runs after the auth middleware, so the resolved user (and its
// role) is already on the context; requests without one count as anonymous.
func CasbinMiddleware(enforcer *casbin.Enforcer, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			role := anonymousRole
			if user := authorization.UserFromContext(r.Context()); user != nil {
				role = string(user.Role)
			}

			res, err := enforcer.EnforceSafe(role, r.URL.Path, r.Method)
			if err != nil {
				logger.Error("Error enforcing authorization policy")
				http.Error(w, "unauthorized user", http.StatusUnauthorized)
				return
			}

			if !res {
				logger.Warnf("forbidden: role %s on %s %s", role, r.Method, r.URL.Path)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
