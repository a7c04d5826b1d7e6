// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"

	"design-o-pedia-go/internal/service"
	"design-o-pedia-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// 页面与 API 共用的用户提示文案。
const (
	MsgEmptyText        = "Please enter some text to generate an image."
	MsgReviewThanks     = "Thank you for your feedback!"
	MsgEmptyReview      = "Please write something before submitting."
	MsgExtracted        = "Text extracted successfully!"
	MsgUnsupportedImage = "Unsupported image type. Please upload a png, jpg or jpeg image."
	MsgNoUpload         = "Please upload an image first."
	MsgNoArtifact       = "No generated image to download."
	MsgInternal         = "Internal server error"
)

// statusFor 把业务错误映射为 HTTP 状态码。
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyText),
		errors.Is(err, service.ErrEmptyReview),
		errors.Is(err, service.ErrInvalidFontSize),
		errors.Is(err, service.ErrInvalidColor),
		errors.Is(err, service.ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoUpload), errors.Is(err, service.ErrNoArtifact):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor 返回展示给用户的错误文案，内部错误不暴露细节。
func messageFor(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		return MsgEmptyText
	case errors.Is(err, service.ErrEmptyReview):
		return MsgEmptyReview
	case errors.Is(err, service.ErrUnsupportedImage):
		return MsgUnsupportedImage
	case errors.Is(err, service.ErrNoUpload):
		return MsgNoUpload
	case errors.Is(err, service.ErrNoArtifact):
		return MsgNoArtifact
	case errors.Is(err, service.ErrInvalidFontSize), errors.Is(err, service.ErrInvalidColor):
		return err.Error()
	default:
		return MsgInternal
	}
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": message, "data": data})
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("处理请求失败, path: %s, error: %v", c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"code": status, "message": messageFor(err), "data": nil})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": message, "data": nil})
}
