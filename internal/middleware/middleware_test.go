package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"design-o-pedia-go/internal/repository"
	"design-o-pedia-go/internal/service"
	"design-o-pedia-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	sessions := service.NewSessionService(
		token.NewJWTManager("secret", time.Hour),
		repository.NewMemoryReviewRepository(time.Hour),
		repository.NewMemoryArtifactRepository(time.Hour),
		nil,
	)
	r := gin.New()
	r.Use(RequestLogger(), SessionMiddleware(sessions, "dop_session", time.Hour))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).ID)
	})
	r.POST("/echo", func(c *gin.Context) {
		body, _ := c.GetRawData()
		c.Data(http.StatusOK, "text/plain", body)
	})
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "dop_session" {
			return ck
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionMiddleware_IssuesAndResumesSession(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)
	firstID := w.Body.String()
	require.NotEmpty(t, firstID)
	ck := sessionCookie(t, w)
	assert.True(t, ck.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(ck)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, firstID, w.Body.String())
}

func TestSessionMiddleware_BadCookieStartsNewSession(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "dop_session", Value: "garbage"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.NotEqual(t, "garbage", sessionCookie(t, w).Value)
}

func TestRequestLogger_KeepsBodyForHandler(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, `{"text":"hi"}`, w.Body.String())
}

func TestIsTextual(t *testing.T) {
	assert.True(t, isTextual("application/json"))
	assert.True(t, isTextual("application/x-www-form-urlencoded"))
	assert.False(t, isTextual("multipart/form-data"))
	assert.False(t, isTextual("image/png"))
}
