package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeledger/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/jwt"
)

// AuthRequired rejects requests whose verified token does not carry access claims.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := jwt.ClaimsFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
