package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/mataju/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword("secret123", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestManager_TokenRoundtrip(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	user := &domain.User{ID: 7, Nickname: "Alice", Roles: "user,admin"}

	token, err := manager.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, claims, err := manager.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.Equal(t, "Alice", claims.Nickname)
	assert.Equal(t, "user,admin", claims.Roles)
}

func TestManager_ExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken(&domain.User{ID: 7})
	assert.NoError(t, err)

	_, _, err = manager.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_WrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateToken(&domain.User{ID: 7})
	assert.NoError(t, err)

	_, _, err = NewManager("secret-b", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newProtectedRouter(manager *Manager, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{RequireAuth(manager)}
	if adminOnly {
		handlers = append(handlers, RequireAdmin())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CallerID(c)})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestRequireAuth_MissingToken(t *testing.T) {
	router := newProtectedRouter(NewManager("test-secret", time.Hour), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_BadToken(t *testing.T) {
	router := newProtectedRouter(NewManager("test-secret", time.Hour), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	router := newProtectedRouter(manager, false)

	token, err := manager.GenerateToken(&domain.User{ID: 7, Roles: "user"})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestRequireAdmin_ForbidsPlainUser(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	router := newProtectedRouter(manager, true)

	token, err := manager.GenerateToken(&domain.User{ID: 7, Roles: "user"})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	manager := NewManager("test-secret", time.Hour)
	router := newProtectedRouter(manager, true)

	token, err := manager.GenerateToken(&domain.User{ID: 1, Roles: "user,admin"})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
