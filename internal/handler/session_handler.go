package handler

import (
	"design-o-pedia-go/internal/middleware"
	"design-o-pedia-go/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler 处理会话生命周期相关的请求。
type SessionHandler struct {
	sessions   service.SessionService
	cookieName string
}

// NewSessionHandler 创建一个新的 SessionHandler。
func NewSessionHandler(sessions service.SessionService, cookieName string) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookieName: cookieName}
}

// Current 返回当前会话的信息。
func (h *SessionHandler) Current(c *gin.Context) {
	respondOK(c, "success", middleware.CurrentSession(c).Info())
}

// End 结束当前会话：清除评论与产物，并让浏览器删除会话 cookie。
func (h *SessionHandler) End(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if err := h.sessions.End(c.Request.Context(), session.ID); err != nil {
		respondError(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.cookieName)
	respondOK(c, "会话已结束", nil)
}
