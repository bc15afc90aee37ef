package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentease/listing-service/internal/listing/domain"
	"github.com/rentease/listing-service/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authedRouter(captured *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(testSecret, logger.NewNop()), func(c *gin.Context) {
		*captured = PrincipalFrom(c)
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthAcceptsValidToken(t *testing.T) {
	var got domain.Principal
	r := authedRouter(&got)

	token := signToken(t, testSecret, Claims{
		UserID:   "user-1",
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, domain.Principal{ID: "user-1", Username: "alice"}, got)
}

func TestAuthRejections(t *testing.T) {
	expired := signToken(t, testSecret, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	wrongKey := signToken(t, "other-secret", Claims{UserID: "user-1"})
	noUser := signToken(t, testSecret, Claims{})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc123"},
		{"bearer without token", "Bearer"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
		{"no user id claim", "Bearer " + noUser},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got domain.Principal
			r := authedRouter(&got)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, got.Authenticated(), "handler must not run")
		})
	}
}

func TestPrincipalFromWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	p := PrincipalFrom(c)
	assert.False(t, p.Authenticated())
}
