package testutils

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"procurement/internal/auth"
	"procurement/models"
)

// WithChiURLParams подставляет параметры пути в контекст chi запроса для тестов.
func WithChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for k, v := range params {
		chiCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// WithActor кладёт аутентифицированного пользователя в контекст запроса.
func WithActor(req *http.Request, actor models.Actor) *http.Request {
	return req.WithContext(auth.WithActor(req.Context(), actor))
}
