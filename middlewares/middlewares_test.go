package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/utils"
	"golang.org/x/time/rate"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetUint(ContextUserID),
			"role":    c.GetString(ContextRole),
		})
	})
	r.GET("/protected", chain...)
	return r
}

func do(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter(AuthMiddleware())
	token, err := utils.GenerateToken(11, "student")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/protected", token).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/protected", "Bearer nope").Code)

	w := do(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id": 11, "role": "student"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	r := newTestRouter(AuthMiddleware())
	token, err := utils.GenerateToken(12, "student")
	require.NoError(t, err)

	utils.BlacklistToken(token, time.Now().Add(time.Hour))
	w := do(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestWebSocketAuthMiddlewareUsesQueryToken(t *testing.T) {
	r := newTestRouter(WebSocketAuthMiddleware())
	token, err := utils.GenerateToken(13, "student")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/protected", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/protected?token="+token, "").Code)
}

func TestRequireRole(t *testing.T) {
	r := newTestRouter(AuthMiddleware(), RequireRole("admin"))
	student, _ := utils.GenerateToken(1, "student")
	admin, _ := utils.GenerateToken(2, "admin")

	assert.Equal(t, http.StatusForbidden, do(r, "/protected", "Bearer "+student).Code)
	assert.Equal(t, http.StatusOK, do(r, "/protected", "Bearer "+admin).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 60)
	r := newTestRouter(rl.RateLimit())

	assert.Equal(t, http.StatusOK, do(r, "/protected", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/protected", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/protected", "").Code)
}

func TestStrictRateLimiterAllowsBurstOfFive(t *testing.T) {
	r := newTestRouter(NewStrictRateLimiter())

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, do(r, "/protected", "").Code, "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/protected", "").Code)
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(RequestID())

	w := do(r, "/protected", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	r := newTestRouter(SecurityHeaders(), CORSMiddlewares("https://hostel.example"))

	w := do(r, "/protected", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "https://hostel.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterForgetsIdleIPs(t *testing.T) {
	rl := NewRateLimiter(2, 60)
	rl.ips["198.51.100.7"] = []time.Time{time.Now().Add(-2 * time.Hour)}
	rl.ips["198.51.100.8"] = []time.Time{time.Now()}
	r := newTestRouter(rl.RateLimit())

	require.Equal(t, http.StatusOK, do(r, "/protected", "").Code)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.ips, "198.51.100.7")
	assert.Contains(t, rl.ips, "198.51.100.8")
	assert.Len(t, rl.ips, 2)
}

func TestStrictLimiterForgetsIdleIPs(t *testing.T) {
	l := newIPLimiter(12*time.Second, 5)
	l.visitors["198.51.100.7"] = &visitor{
		limiter:  rate.NewLimiter(l.every, l.burst),
		lastSeen: time.Now().Add(-2 * time.Minute),
	}
	r := newTestRouter(strictLimit(l))

	require.Equal(t, http.StatusOK, do(r, "/protected", "").Code)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.visitors, "198.51.100.7")
	assert.Len(t, l.visitors, 1)
}
