package handler

import (
	"net/http"
	"time"

	"design-o-pedia-go/internal/middleware"
	"design-o-pedia-go/internal/service"
	"design-o-pedia-go/internal/web"

	"github.com/gin-gonic/gin"
)

// RouterConfig 汇总路由需要的服务与页面配置。
type RouterConfig struct {
	Converter  service.ConverterService
	Reviews    service.ReviewService
	Sessions   service.SessionService
	CookieName string
	SessionTTL time.Duration
	Page       PageOptions
	LogoFile   string // 存在时挂载到 /static/logo.png
}

// LogoURL 是 logo 的访问路径。
const LogoURL = "/static/logo.png"

// NewRouter 创建路由引擎并注册所有路由。
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "ok", "data": nil})
	})
	if cfg.LogoFile != "" {
		r.StaticFile(LogoURL, cfg.LogoFile)
		cfg.Page.LogoURL = LogoURL
	}

	pages := NewPageHandler(cfg.Converter, cfg.Reviews, cfg.Page)
	convert := NewConvertHandler(cfg.Converter)
	reviews := NewReviewHandler(cfg.Reviews)
	sessions := NewSessionHandler(cfg.Sessions, cfg.CookieName)
	progress := NewProgressHandler(cfg.Converter)

	// 以下路由都需要会话
	app := r.Group("/")
	app.Use(middleware.SessionMiddleware(cfg.Sessions, cfg.CookieName, cfg.SessionTTL))
	{
		app.GET("/", pages.Index)
		app.POST("/text-to-image", pages.GenerateImage)
		app.POST("/image-to-text/upload", pages.UploadImage)
		app.POST("/image-to-text/extract", pages.ExtractText)
		app.POST("/reviews", pages.SubmitReview)
		app.GET(DownloadPath, pages.Download)
	}

	apiV1 := r.Group("/api/v1")
	apiV1.Use(middleware.SessionMiddleware(cfg.Sessions, cfg.CookieName, cfg.SessionTTL))
	{
		convertGroup := apiV1.Group("/convert")
		{
			convertGroup.POST("/text-to-image", convert.TextToImage)
			convertGroup.POST("/image-to-text", convert.ImageToText)
			convertGroup.GET("/ws", progress.Handle)
		}

		reviewGroup := apiV1.Group("/reviews")
		{
			reviewGroup.GET("", reviews.List)
			reviewGroup.POST("", reviews.Submit)
		}

		apiV1.GET("/session", sessions.Current)
		apiV1.POST("/session/end", sessions.End)
	}
	return r, nil
}
