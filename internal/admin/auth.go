package admin

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"cartlock/internal/models"
)

// passwordAuth сверяет заголовок x-admin-password с настроенным
// секретом. Сравнение за постоянное время; несовпадение — 403,
// обработчик не вызывается.
func passwordAuth(password string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("x-admin-password")
			if subtle.ConstantTimeCompare([]byte(got), []byte(password)) != 1 {
				models.WriteJSON(w, http.StatusForbidden, map[string]any{
					"success": false, "error": "forbidden",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
