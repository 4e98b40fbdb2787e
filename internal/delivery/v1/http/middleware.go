package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/DRSN-tech/pos-backend/internal/usecase"
	"github.com/DRSN-tech/pos-backend/pkg/e"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// AuthMiddleware проверяет Bearer-токен и кладёт ID владельца в контекст.
// Все данные в системе скоупятся по владельцу, поэтому без валидного токена
// запрос дальше не проходит.
func AuthMiddleware(tokens usecase.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			userID, err := tokens.Parse(token)
			if err != nil {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromCtx возвращает ID владельца, положенный AuthMiddleware.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, e.ErrUnauthorized
	}

	return userID, nil
}
