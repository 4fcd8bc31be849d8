package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m04kA/consultation-booking/internal/api/handlers"
)

const OperatorTokenHeader = "X-Operator-Token"

type operatorKey struct{}

// OperatorAuth проверка токена оператора (платежный вебхук, бэк-офис)
type OperatorAuth struct {
	token string
}

func NewOperatorAuth(token string) *OperatorAuth {
	return &OperatorAuth{token: token}
}

// Require пропускает только запросы с верным токеном оператора
func (a *OperatorAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			handlers.RespondUnauthorized(w, "operator token is required")
			return
		}
		if !a.valid(token) {
			handlers.RespondForbidden(w, "invalid operator token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), operatorKey{}, true)))
	})
}

// Detect помечает запрос как операторский, если токен верный, и пропускает остальные без изменений
func (a *OperatorAuth) Detect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := extractToken(r); token != "" && a.valid(token) {
			r = r.WithContext(context.WithValue(r.Context(), operatorKey{}, true))
		}
		next.ServeHTTP(w, r)
	})
}

// IsOperator сообщает, что запрос прошёл проверку токена оператора
func IsOperator(ctx context.Context) bool {
	ok, _ := ctx.Value(operatorKey{}).(bool)
	return ok
}

func (a *OperatorAuth) valid(token string) bool {
	if a.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) == 1
}

func extractToken(r *http.Request) string {
	if token := r.Header.Get(OperatorTokenHeader); token != "" {
		return token
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
