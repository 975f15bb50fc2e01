package middleware

import (
	"guesthouse/pkg/auth"
	"guesthouse/pkg/errors"
	httputil "guesthouse/pkg/http"
	"guesthouse/pkg/logger"
	"net/http"
)

// Authentication verifies a bearer token when one is sent and stores the
// resulting identity on the request context. Requests without a token pass
// through anonymously; endpoints that need a caller reject them later.
func Authentication(verifier auth.Verifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := auth.BearerToken(header)
			if !ok {
				rejectUnauthenticated(w, log, r, "malformed Authorization header")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				rejectUnauthenticated(w, log, r, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

func rejectUnauthenticated(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Token verification failed",
		"request_id", RequestIDFromContext(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	_ = httputil.WriteError(w, errors.Unauthorized("Invalid or expired token"))
}
