package handlers

import (
	"net/http"
	"strings"

	"procurement/internal/apperr"
	"procurement/internal/auth"
	"procurement/models"
)

// Authenticate проверяет Bearer токен и кладёт Actor в контекст запроса
func (h *Handler) Authenticate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				h.writeError(w, r, apperr.Forbidden("Unauthorized", nil).WithStatus(http.StatusUnauthorized))
				return
			}

			claims, err := auth.ValidateJWT(strings.TrimSpace(token), secret)
			if err != nil {
				h.writeError(w, r, apperr.Forbidden("Unauthorized", err).WithStatus(http.StatusUnauthorized))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), claims.Actor())))
		})
	}
}

// RequireRole lets the request through only for the listed roles.
func (h *Handler) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFrom(r)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			h.writeError(w, r, apperr.Forbidden("Access Denied!!!", nil))
		})
	}
}
