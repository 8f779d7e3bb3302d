package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-CleaningBooking/internal/api/handlers"
)

const (
	// AdminTokenHeader заголовок с токеном администратора
	AdminTokenHeader = "X-Admin-Token"

	msgMissingAdminToken = "требуется токен администратора"
	msgInvalidAdminToken = "неверный токен администратора"
)

// AdminToken пропускает только запросы с верным X-Admin-Token
// Пустой token в конфигурации закрывает админские маршруты полностью
func AdminToken(token string, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminTokenHeader)
			if provided == "" {
				logger.Warn("%s %s - Missing admin token", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingAdminToken)
				return
			}

			if token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				logger.Warn("%s %s - Invalid admin token", r.Method, r.URL.Path)
				handlers.RespondForbidden(w, msgInvalidAdminToken)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
