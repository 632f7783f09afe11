package httpd

import (
	"context"
	"net/http"
	"strings"

	"github.com/jackw9829/academic-tracker/internal/models"
	"github.com/jackw9829/academic-tracker/internal/service"
)

type contextKey string

const actorContextKey contextKey = "actor"

// RequireAuth проверяет bearer токен через identity provider и кладёт актора
// в контекст запроса.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Authorization header with bearer token is required")
			return
		}

		actor, err := service.ResolveToken(r.Context(), h.identityProvider, h.accountService, token)
		if err != nil {
			h.handleServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func actorFromContext(ctx context.Context) *models.Actor {
	actor, _ := ctx.Value(actorContextKey).(*models.Actor)
	return actor
}
