package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"halwahouse/internal/kitchen"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const actorKey = "auth.actor"

// Claims carries the operator identity inside the JWT.
type Claims struct {
	ChefID string `json:"chef_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// GenerateToken signs a token for an operator. Used by the login flow and by
// tests; token issuance for real users lives with the identity provider.
func GenerateToken(secret []byte, chefID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		ChefID: chefID,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Middleware handles JWT authentication and places the acting operator on
// the request context. The engine itself never looks at session state; it
// only receives the Actor the handler passes in.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(actorKey, kitchen.Actor{ChefID: claims.ChefID, Role: claims.Role})
		c.Next()
	}
}

// ActorFrom returns the operator authenticated on this request.
func ActorFrom(c *gin.Context) kitchen.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(kitchen.Actor); ok {
			return actor
		}
	}
	return kitchen.Actor{}
}
