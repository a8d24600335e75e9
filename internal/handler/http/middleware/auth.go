package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-onboarding/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token and keeps
// the raw token on the context so it can be forwarded to the payroll API.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, jwt.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "access" {
			response.HandleError(w, jwt.ErrInvalidToken)
			return
		}

		ctx := jwt.WithRawToken(r.Context(), jwtauth.TokenFromHeader(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
