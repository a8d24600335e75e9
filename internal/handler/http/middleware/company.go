package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-onboarding/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/jwt"
)

// RequireCompany rejects tokens without a company_id claim.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.CompanyIDFromContext(r.Context()); err != nil {
			response.HandleError(w, jwt.ErrCompanyIDRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
