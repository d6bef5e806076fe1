package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeledger/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/jwt"
)

// RequireApprover requires a manager or owner role.
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}
		if !claims.Role.CanApprove() {
			response.Forbidden(w, "Manager or owner role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
