package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/vacuum-planner/internal/config"
)

type CtxKey int

const (
	CtxOperatorClaims CtxKey = iota
)

// Auth attaches the operator claims carried by the request cookies to the
// request context. Requests without valid cookies pass through anonymously.
func Auth(logger *slog.Logger, cookies *config.Cookies, jwt *config.JWT) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cookies.Token(r)
			if err != nil {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := jwt.ParseOperatorClaims(token)
			if err != nil {
				logger.Debug("rejected auth cookies", slog.Any("error", err))
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxOperatorClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func OperatorClaims(ctx context.Context) (*config.OperatorClaims, bool) {
	claims, ok := ctx.Value(CtxOperatorClaims).(*config.OperatorClaims)
	return claims, ok
}
