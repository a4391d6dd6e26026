package middleware

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/pkg/auth"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
)

// Authenticator guards individual routes. Missing tokens are 401, bad or expired ones 403.
type Authenticator struct {
	tokens *auth.Tokens
	log    *logger.Logger
}

func NewAuthenticator(tokens *auth.Tokens, log *logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, log: log}
}

func (a *Authenticator) Required(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := auth.TokenFromRequest(r)
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "Access Denied: No token provided")
			return
		}

		claims, err := a.tokens.Parse(token)
		if err != nil {
			a.log.Debug("Rejected token",
				"request_id", requestIDFrom(r),
				"path", r.URL.Path,
				"error", err,
			)
			writeJSONError(w, http.StatusForbidden, "Access Denied: Invalid or expired token")
			return
		}

		next(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)), ps)
	}
}

// Optional attaches the caller when a valid token is present and otherwise serves anonymously.
func (a *Authenticator) Optional(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token := auth.TokenFromRequest(r); token != "" {
			if claims, err := a.tokens.Parse(token); err == nil {
				r = r.WithContext(auth.ContextWithClaims(r.Context(), claims))
			}
		}
		next(w, r, ps)
	}
}

// RequireRole authenticates the caller and then checks its role.
func (a *Authenticator) RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	return a.Required(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims := auth.ClaimsFromContext(r.Context())
		for _, role := range roles {
			if claims.Role == role {
				next(w, r, ps)
				return
			}
		}
		writeJSONError(w, http.StatusForbidden, "Access Denied: Insufficient permissions")
	})
}
