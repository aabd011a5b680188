package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"github.com/campuspool/campuspool/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const actorContextKey contextKey = "actor"

type AuthMiddleware struct {
	userRepo repository.UserRepository
	secret   []byte
}

func NewAuthMiddleware(userRepo repository.UserRepository, secret string) *AuthMiddleware {
	return &AuthMiddleware{userRepo: userRepo, secret: []byte(secret)}
}

// Handler authenticates the bearer token and loads the acting user into the
// request context. Services still re-check the actor's relationship to each
// entity; this only establishes who is calling.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			utils.Unauthorized(w, "missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			utils.Unauthorized(w, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.Unauthorized(w, "invalid token")
			return
		}
		userID, _ := claims["user_id"].(string)
		if userID == "" {
			utils.Unauthorized(w, "invalid token")
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), userID)
		if err != nil {
			utils.InternalError(w, "failed to load user")
			return
		}
		if user == nil {
			utils.Unauthorized(w, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the authenticated user, or nil outside the auth
// middleware.
func ActorFromContext(ctx context.Context) *models.User {
	actor, _ := ctx.Value(actorContextKey).(*models.User)
	return actor
}
