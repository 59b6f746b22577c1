package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/httputil"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/requestcontext"
)

// actorClaims is the subset of token claims the service reads. Signature
// verification happens at the API gateway in front of this service; here the
// token is only a carrier of identity.
type actorClaims struct {
	jwt.RegisteredClaims
	Department string `json:"dept"`
}

// ActorIdentity extracts the calling user and department from the bearer
// token and threads them through the request context. Requests without a
// parseable token are rejected; every send needs an attributable actor.
func ActorIdentity(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized request",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, dErrors.Wrap(dErrors.CodeUnauthorized, "invalid or missing bearer token", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(r.Context(), actor)))
		})
	}
}

func actorFromHeader(header string) (requestcontext.ActorIdentity, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return requestcontext.ActorIdentity{}, fmt.Errorf("missing bearer token")
	}

	claims := &actorClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return requestcontext.ActorIdentity{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return requestcontext.ActorIdentity{}, fmt.Errorf("token has no subject")
	}

	return requestcontext.ActorIdentity{
		UserID:     claims.Subject,
		Department: claims.Department,
	}, nil
}
