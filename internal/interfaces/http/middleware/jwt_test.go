package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecbunny/backend/internal/infrastructure/auth"
	"github.com/tecbunny/backend/internal/infrastructure/config"
)

func newJWTTestRouter(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddleware(svc, nil))
	engine.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	return engine
}

func newJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "0123456789abcdef0123456789abcdef",
		AccessTokenExpiration: expiration,
		Issuer:                "tecbunny-backend",
	})
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Run("passes a valid bearer token and exposes the user id", func(t *testing.T) {
		svc := newJWTService(15 * time.Minute)
		engine := newJWTTestRouter(svc)

		userID := uuid.New()
		token, _, err := svc.GenerateAccessToken(userID, "ada")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
	})

	t.Run("rejects a missing authorization header", func(t *testing.T) {
		engine := newJWTTestRouter(newJWTService(15 * time.Minute))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a non-bearer header", func(t *testing.T) {
		engine := newJWTTestRouter(newJWTService(15 * time.Minute))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reports an expired token distinctly", func(t *testing.T) {
		svc := newJWTService(-time.Minute)
		engine := newJWTTestRouter(svc)

		token, _, err := svc.GenerateAccessToken(uuid.New(), "ada")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		errInfo, ok := body["error"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "TOKEN_EXPIRED", errInfo["code"])
	})
}
