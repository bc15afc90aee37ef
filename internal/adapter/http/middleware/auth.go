package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

const principalKey = "authenticatedPrincipal"

// Claims is the token payload minted by the identity service.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Auth guards mutating and personal-data routes. It rejects the request
// before the handler runs, so a failed check never starts a side effect.
func Auth(jwtSecret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			log.Warn("Auth: missing or malformed Authorization header", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is not provided"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			log.Warn("Auth: token rejected", "path", c.FullPath(), "error", errString(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is invalid or has expired"})
			return
		}
		if claims.UserID == "" {
			log.Warn("Auth: token carries no user id", "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is invalid"})
			return
		}

		c.Set(principalKey, domain.Principal{ID: claims.UserID, Username: claims.Username})
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal, or a zero Principal on
// routes that did not pass through Auth.
func PrincipalFrom(c *gin.Context) domain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}

func errString(err error) string {
	if err == nil {
		return "token claims invalid"
	}
	return err.Error()
}
