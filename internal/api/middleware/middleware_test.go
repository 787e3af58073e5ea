package middleware

import (
	"StreamHub/internal/api/config"
	"StreamHub/internal/api/dto"
	"StreamHub/internal/pkg/consts"
	"StreamHub/internal/pkg/logger"
	"StreamHub/internal/pkg/response"
	"StreamHub/internal/pkg/security"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlacklist struct {
	keys map[string]string
	err  error
}

func (f *fakeBlacklist) GetValue(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.keys[key], nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newAdminRouter(blacklist TokenBlacklist) *gin.Engine {
	r := gin.New()
	r.Use(TraceMiddleware())
	admin := r.Group("/admin", AuthMiddleware(blacklist), CheckRoles(consts.RoleAdmin))
	admin.POST("/run", func(c *gin.Context) {
		response.Success(c, gin.H{"user_id": c.GetUint64("user_id")})
	})
	return r
}

func doRequest(r http.Handler, token string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/admin/run", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuthAndRoles(t *testing.T) {
	security.Init(config.JWTConfig{Secret: "mw-secret", Issuer: "StreamHub"})
	adminToken, err := security.GenerateToken(7, []string{consts.RoleAdmin})
	require.NoError(t, err)
	userToken, err := security.GenerateToken(8, []string{"USER"})
	require.NoError(t, err)

	blacklist := &fakeBlacklist{keys: map[string]string{}}
	r := newAdminRouter(blacklist)

	_, body := doRequest(r, "")
	assert.Equal(t, response.Unauthorized, body.Code)

	_, body = doRequest(r, "garbage")
	assert.Equal(t, response.Unauthorized, body.Code)

	_, body = doRequest(r, userToken)
	assert.Equal(t, response.Forbidden, body.Code)

	w, body := doRequest(r, adminToken)
	assert.Equal(t, response.Ok, body.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	sig, err := security.ExtractSignature(adminToken)
	require.NoError(t, err)
	blacklist.keys[consts.TokenBlacklistKey+sig] = "1"
	_, body = doRequest(r, adminToken)
	assert.Equal(t, response.Unauthorized, body.Code)
}

func TestAuth_BlacklistUnavailable(t *testing.T) {
	security.Init(config.JWTConfig{Secret: "mw-secret", Issuer: "StreamHub"})
	token, err := security.GenerateToken(7, []string{consts.RoleAdmin})
	require.NoError(t, err)

	r := newAdminRouter(&fakeBlacklist{err: errors.New("dial tcp: connection refused")})
	_, body := doRequest(r, token)
	assert.Equal(t, response.ServiceUnavailable, body.Code)
}

func TestTraceMiddleware_PropagatesHeader(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	var seen string
	r.GET("/t", func(c *gin.Context) {
		seen = logger.TraceIDFrom(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("X-Trace-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Trace-ID"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/t", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/t", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
