package middleware

import (
	"net/http"
	"time"

	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/service"
	"design-o-pedia-go/pkg/log"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionMiddleware 从 cookie 中恢复会话，令牌缺失或无效时创建新会话，
// 并把续期后的令牌写回 cookie。会话存入 Gin 上下文，供后续处理函数使用。
func SessionMiddleware(sessionService service.SessionService, cookieName string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, _ := c.Cookie(cookieName)

		session, newToken, err := sessionService.Resume(c.Request.Context(), tokenString)
		if err != nil {
			log.Error("恢复会话失败", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "会话初始化失败", "data": nil})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, newToken, int(ttl.Seconds()), "/", "", false, true)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// CurrentSession 返回 SessionMiddleware 注入的会话。
func CurrentSession(c *gin.Context) *model.SessionContext {
	return c.MustGet(sessionKey).(*model.SessionContext)
}

// ClearSessionCookie 让浏览器删除会话 cookie。
func ClearSessionCookie(c *gin.Context, cookieName string) {
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
}
