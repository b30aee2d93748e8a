package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/response"
	"github.com/paperprep/paperprep-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(t *testing.T, expiry time.Duration) (*service.AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cfg := &config.Config{JWTSecret: "middleware-secret", JWTExpiry: expiry, BcryptCost: 4}
	return service.NewAuthService(cfg, rdb), mr
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func protectedRouter(auth *service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	chain := append([]gin.HandlerFunc{RequireUserJWT(auth), CheckLoginSession(auth)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetClaims(c).UserID})
	})
	r.GET("/me", chain...)
	r.GET("/ws", RequireWSAuth(auth), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUserJWT(t *testing.T) {
	auth, _ := newAuth(t, time.Hour)
	r := protectedRouter(auth)
	token, _, err := auth.GenerateToken(context.Background(), &model.User{ID: 7, Email: "a@b.c", Role: model.RoleUser})
	require.NoError(t, err)

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())

	w = get(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenRequired, errorCode(t, w))

	w = get(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenInvalid, errorCode(t, w))
}

func TestRequireUserJWTExpired(t *testing.T) {
	auth, _ := newAuth(t, -time.Minute)
	r := protectedRouter(auth)
	token, _, err := auth.GenerateToken(context.Background(), &model.User{ID: 1})
	require.NoError(t, err)

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenExpired, errorCode(t, w))
}

func TestCheckLoginSessionAfterLogout(t *testing.T) {
	auth, _ := newAuth(t, time.Hour)
	r := protectedRouter(auth)
	ctx := context.Background()

	token, _, err := auth.GenerateToken(ctx, &model.User{ID: 3})
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, auth.RevokeSession(ctx, claims.UserID, claims.ID))

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrSessionInvalidated, errorCode(t, w))
}

func TestRequireWSAuthUsesQueryToken(t *testing.T) {
	auth, _ := newAuth(t, time.Hour)
	r := protectedRouter(auth)
	token, _, err := auth.GenerateToken(context.Background(), &model.User{ID: 2})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(r, "/ws?token="+token, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/ws", "").Code)
}

func TestRequireAdmin(t *testing.T) {
	auth, _ := newAuth(t, time.Hour)
	r := protectedRouter(auth, RequireAdmin())
	ctx := context.Background()

	userToken, _, err := auth.GenerateToken(ctx, &model.User{ID: 1, Role: model.RoleUser})
	require.NoError(t, err)
	adminToken, _, err := auth.GenerateToken(ctx, &model.User{ID: 2, Role: model.RoleAdmin})
	require.NoError(t, err)

	w := get(r, "/me", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrAdminAccessOnly, errorCode(t, w))

	assert.Equal(t, http.StatusOK, get(r, "/me", adminToken).Code)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute, ByIP)
	rl.now = func() time.Time { return clock }

	r := gin.New()
	r.GET("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/login", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/login", "").Code)

	clock = clock.Add(20 * time.Second)
	w := get(r, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "40", w.Header().Get("Retry-After"))
	assert.Equal(t, response.ErrRateLimitExceeded, errorCode(t, w))

	clock = clock.Add(40 * time.Second)
	assert.Equal(t, http.StatusOK, get(r, "/login", "").Code)
}

func TestRateLimiterCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 1, time.Second, nil)
	rl.now = func() time.Time { return clock }

	ok, _ := rl.allow("a")
	require.True(t, ok)
	clock = clock.Add(10 * time.Second)
	rl.cleanup()
	assert.Empty(t, rl.visitors)
}

func compressRouter() *gin.Engine {
	r := gin.New()
	r.Use(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/big", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"text": strings.Repeat("paper ", 100)})
	})
	r.GET("/small", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/image", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", bytes.Repeat([]byte{1}, 512))
	})
	return r
}

func brGet(r http.Handler, path, encoding string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept-Encoding", encoding)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBrotliCompressesLargeJSON(t *testing.T) {
	r := compressRouter()

	w := brGet(r, "/big", "gzip, br")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))

	plain, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(plain, &body))
	assert.Equal(t, strings.Repeat("paper ", 100), body["text"])

	// The pooled writer is reused by the next response.
	w = brGet(r, "/big", "br")
	plain, err = io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Contains(t, string(plain), "paper paper")
}

func TestBrotliPassesThrough(t *testing.T) {
	r := compressRouter()

	w := brGet(r, "/small", "br")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = brGet(r, "/image", "br")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Len(t, w.Body.Bytes(), 512)

	w = brGet(r, "/big", "gzip")
	assert.Empty(t, w.Header().Get("Content-Encoding"))

	w = brGet(r, "/big", "br;q=0")
	assert.Empty(t, w.Header().Get("Content-Encoding"))
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/papers", CacheControl(300), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/papers", CacheControl(300), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/attempt", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "public, max-age=300", get(r, "/papers", "").Header().Get("Cache-Control"))
	assert.Equal(t, "no-store", get(r, "/attempt", "").Header().Get("Cache-Control"))

	req := httptest.NewRequest(http.MethodPost, "/papers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Cache-Control"))
}
