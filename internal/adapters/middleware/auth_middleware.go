package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// AuthMiddleware validates RS256 bearer tokens issued by the platform's auth
// service. Revoked tokens are looked up in Redis, where the auth service
// blacklists them on logout.
type AuthMiddleware struct {
	publicKey   *rsa.PublicKey
	redisClient *redis.Client
}

func NewAuthMiddleware(publicKey *rsa.PublicKey, redisClient *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey:   publicKey,
		redisClient: redisClient,
	}
}

type contextKey string

const (
	UserIDKey contextKey = "userID"
	RoleKey   contextKey = "role"
)

const blacklistPrefix = "blacklist:"

func (m *AuthMiddleware) RequireRole(roles []string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := parts[1]

		if m.revoked(r.Context(), tokenString) {
			http.Error(w, "token revoked", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.publicKey, nil
		})
		if err != nil || !token.Valid {
			log.Printf("Token validation failed: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			http.Error(w, "invalid token claims", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			http.Error(w, "invalid token: missing user ID", http.StatusUnauthorized)
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok || userRole == "" {
			http.Error(w, "invalid token: missing role", http.StatusUnauthorized)
			return
		}

		allowed := false
		for _, role := range roles {
			if userRole == role {
				allowed = true
				break
			}
		}
		if !allowed {
			log.Printf("Role mismatch: required one of %v, got %s", roles, userRole)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, RoleKey, userRole)

		next(w, r.WithContext(ctx))
	}
}

// revoked treats Redis failures as "not revoked" so an outage does not lock
// every caller out; the token signature check still applies.
func (m *AuthMiddleware) revoked(ctx context.Context, token string) bool {
	if m.redisClient == nil {
		return false
	}
	n, err := m.redisClient.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		log.Printf("Blacklist lookup failed: %v", err)
		return false
	}
	return n > 0
}
