package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glassbird/internal/infrastructure/cache"
	"glassbird/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := security.NewTokenManager("secret", time.Minute)
	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(ContextUserID), "role": c.GetString(ContextRole)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.Generate("u-1", "student")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u-1","role":"student"}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(cache.NewMemoryKV())
	r := gin.New()
	r.POST("/login", limiter.Limit("login", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestIdentityCookies(t *testing.T) {
	r := gin.New()
	r.Use(Identity(false))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sid": c.GetString(ContextSessionID), "profile": c.GetString(ContextProfileID)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 2)

	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}
	require.Contains(t, byName, SessionCookie)
	require.Contains(t, byName, ProfileCookie)
	assert.Zero(t, byName[SessionCookie].MaxAge)
	assert.Equal(t, profileMaxAge, byName[ProfileCookie].MaxAge)
	assert.True(t, byName[SessionCookie].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(byName[SessionCookie])
	req.AddCookie(byName[ProfileCookie])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Result().Cookies())
	assert.Contains(t, w.Body.String(), byName[SessionCookie].Value)
}
