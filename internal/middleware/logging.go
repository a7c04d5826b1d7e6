// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"design-o-pedia-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// maxLoggedBody 限制日志中记录的请求/响应体长度。
const maxLoggedBody = 2048

// bodyLogWriter 用于捕获响应体
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 实现了 io.Writer 接口，将响应写入 gin.ResponseWriter 和一个内部的 buffer
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// isTextual 判断内容类型是否适合直接写入日志，图片和上传表单只记录长度。
func isTextual(contentType string) bool {
	switch {
	case contentType == "":
		return true
	case strings.HasPrefix(contentType, "application/json"),
		strings.HasPrefix(contentType, "application/x-www-form-urlencoded"),
		strings.HasPrefix(contentType, "text/plain"):
		return true
	}
	return false
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

// RequestLogger 是一个 Gin 中间件，用于记录请求和响应日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		// 只缓存文本类请求体，multipart 上传不读入内存两次
		reqType := c.ContentType()
		var requestBody []byte
		if c.Request.Body != nil && isTextual(reqType) {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		respType := blw.Header().Get("Content-Type")
		responseBody := truncate(blw.body.Bytes())
		if !strings.HasPrefix(respType, "application/json") {
			responseBody = ""
		}

		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"requestContentType", reqType,
			"requestBody", truncate(requestBody),
			"responseContentType", respType,
			"responseBytes", blw.body.Len(),
			"responseBody", responseBody,
		)
	}
}
