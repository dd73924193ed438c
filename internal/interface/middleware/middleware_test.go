package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/servicemart/internal/domain/entity"
	"github.com/oksasatya/servicemart/internal/infrastructure/memory"
	"github.com/oksasatya/servicemart/internal/infrastructure/redisstore"
	"github.com/oksasatya/servicemart/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRedis(t *testing.T) {
	mr, rdb := newRedis(t)
	r := gin.New()
	r.GET("/x", RateLimit(rdb, 2, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	mr.FastForward(time.Minute)
	w = do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitLocalFallback(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(nil, 3, time.Hour, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Forwarded-For", ip)
		return do(r, req).Code
	}
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, send("203.0.113.7"))
	}
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7"))
	assert.Equal(t, http.StatusOK, send("203.0.113.8"), "other callers keep their own budget")
}

func TestRateLimitBypass(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Forwarded-For", "10.1.2.3")
		assert.Equal(t, http.StatusOK, do(r, req).Code)
	}
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRealIP)) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", " 198.51.100.1 , 10.0.0.1")
	assert.Equal(t, "198.51.100.1", do(r, req).Body.String())

	req.Header.Set("CF-Connecting-IP", "192.0.2.9")
	assert.Equal(t, "192.0.2.9", do(r, req).Body.String())
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/id", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, "0b6f1c54-7a0e-4f8e-9d43-2b8e8b0f3f11")
	assert.Equal(t, "0b6f1c54-7a0e-4f8e-9d43-2b8e8b0f3f11", do(r, req).Body.String())

	req.Header.Set(HeaderRequestID, "<script>")
	assert.NotEqual(t, "<script>", do(r, req).Body.String())
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.POST("/up", MaxBodyBytes(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, httptest.NewRequest(http.MethodPost, "/up", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	w = do(r, httptest.NewRequest(http.MethodPost, "/up", strings.NewReader("0123")))
	assert.Equal(t, http.StatusOK, w.Code)
}

type authFixture struct {
	router   *gin.Engine
	store    *memory.Store
	sessions *redisstore.SessionStore
	jwt      *helpers.JWTManager
}

func newAuthFixture(t *testing.T) *authFixture {
	_, rdb := newRedis(t)
	f := &authFixture{
		router:   gin.New(),
		store:    memory.New(),
		sessions: redisstore.NewSessionStore(rdb),
		jwt:      helpers.NewJWTManager("secret", time.Hour),
	}
	auth := Auth(f.jwt, f.sessions, f.store.Accounts())
	f.router.GET("/me", auth, func(c *gin.Context) {
		c.String(http.StatusOK, AccountID(c)+"|"+string(Role(c))+"|"+CurrentAccount(c).Email)
	})
	f.router.GET("/store-only", auth, RequireRole(entity.RoleStore), func(c *gin.Context) { c.Status(http.StatusOK) })
	return f
}

func (f *authFixture) login(t *testing.T, a *entity.Account) *http.Cookie {
	t.Helper()
	sid := "sid-" + a.ID
	require.NoError(t, f.sessions.Create(context.Background(), sid, a.ID, a.Role, time.Hour))
	tok, _, err := f.jwt.Generate(a.ID, string(a.Role), sid)
	require.NoError(t, err)
	return &http.Cookie{Name: helpers.SessionCookie, Value: tok}
}

func (f *authFixture) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return do(f.router, req)
}

func TestAuth(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	u := &entity.Account{Role: entity.RoleUser, Email: "u@x.io", Name: "U", ApprovalStatus: entity.ApprovalApproved}
	require.NoError(t, f.store.Accounts().Create(ctx, u))
	cookie := f.login(t, u)

	assert.Equal(t, http.StatusUnauthorized, f.get("/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.get("/me", &http.Cookie{Name: helpers.SessionCookie, Value: "garbage"}).Code)

	w := f.get("/me", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID+"|user|u@x.io", w.Body.String())

	assert.Equal(t, http.StatusForbidden, f.get("/store-only", cookie).Code)

	u.Blocked = true
	require.NoError(t, f.store.Accounts().Update(ctx, u))
	assert.Equal(t, http.StatusForbidden, f.get("/me", cookie).Code)

	require.NoError(t, f.sessions.Delete(ctx, "sid-"+u.ID))
	assert.Equal(t, http.StatusUnauthorized, f.get("/me", cookie).Code)
}

func TestAuthRoleMustMatchAccount(t *testing.T) {
	f := newAuthFixture(t)
	st := &entity.Account{Role: entity.RoleStore, Email: "s@x.io", ApprovalStatus: entity.ApprovalApproved}
	require.NoError(t, f.store.Accounts().Create(context.Background(), st))
	cookie := f.login(t, st)
	assert.Equal(t, http.StatusOK, f.get("/store-only", cookie).Code)

	sid := "forged"
	require.NoError(t, f.sessions.Create(context.Background(), sid, st.ID, entity.RoleUser, time.Hour))
	tok, _, err := f.jwt.Generate(st.ID, string(entity.RoleUser), sid)
	require.NoError(t, err)
	w := f.get("/me", &http.Cookie{Name: helpers.SessionCookie, Value: tok})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
