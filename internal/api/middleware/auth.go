package middleware

import (
	"net/http"
	"strings"

	"github.com/m04kA/holidaze-booking/internal/api/handlers"
	"github.com/m04kA/holidaze-booking/internal/integrations/credentials"
)

const (
	msgMalformedToken = "некорректный access token"
	msgMissingToken   = "необходимо войти в аккаунт"

	codeUnauthenticated = "unauthenticated"
)

// Auth кладет credential из заголовка Authorization: Bearer <token> в контекст запроса.
// Запрос без заголовка пропускается дальше: отсутствие токена обрабатывает проверка бронирования.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !strings.HasPrefix(header, "Bearer ") {
			handlers.RespondUnauthorized(w, msgMalformedToken)
			return
		}

		cred, err := credentials.FromToken(header)
		if err != nil {
			handlers.RespondUnauthorized(w, msgMalformedToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(credentials.WithCredential(r.Context(), cred)))
	})
}

// RequireAuth пропускает только запросы с credential в контексте.
// Ставится после Auth на маршруты, которые читают или меняют данные пользователя.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := credentials.Owner(r.Context()); !ok {
			handlers.RespondErrorCode(w, http.StatusUnauthorized, codeUnauthenticated, msgMissingToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}
