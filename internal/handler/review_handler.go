package handler

import (
	"design-o-pedia-go/internal/middleware"
	"design-o-pedia-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ReviewHandler 处理评论列表的 API 请求。
type ReviewHandler struct {
	reviews service.ReviewService
}

// NewReviewHandler 创建一个新的 ReviewHandler。
func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// SubmitReviewRequest 是提交评论的请求体。
type SubmitReviewRequest struct {
	Text string `json:"text"`
}

// List 返回当前会话最新在前的评论。
func (h *ReviewHandler) List(c *gin.Context) {
	session := middleware.CurrentSession(c)
	reviews, err := h.reviews.List(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "success", reviews)
}

// Submit 追加一条评论，成功后返回最新的列表。
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "无效的请求负载")
		return
	}

	session := middleware.CurrentSession(c)
	if err := h.reviews.Submit(c.Request.Context(), session.ID, req.Text); err != nil {
		respondError(c, err)
		return
	}
	reviews, err := h.reviews.List(c.Request.Context(), session.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, MsgReviewThanks, reviews)
}
