package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "user_id"

// identityHeader — заголовок внешнего идентификатора пользователя.
// Аутентификация выполняется вышестоящим шлюзом, сервис доверяет значению.
const identityHeader = "X-User-Id"

// Identity кладёт идентификатор пользователя из заголовка в контекст запроса.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(identityHeader)); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), userIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

// UserID возвращает идентификатор пользователя из контекста, если он есть.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RequireUser — обёртка для маршрутов, требующих идентификации.
func (s *Server) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); !ok {
			s.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing " + identityHeader + " header"})
			return
		}
		next(w, r)
	}
}

// QueryTimeout ограничивает время обработки запроса сверху: зависший
// апстрим отдаёт 503, а не держит соединение.
func (s *Server) QueryTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.queryTimeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
