// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"design-o-pedia-go/internal/config"
	"design-o-pedia-go/internal/handler"
	"design-o-pedia-go/internal/repository"
	"design-o-pedia-go/internal/service"
	"design-o-pedia-go/pkg/database"
	"design-o-pedia-go/pkg/kafka"
	"design-o-pedia-go/pkg/log"
	"design-o-pedia-go/pkg/ocr"
	"design-o-pedia-go/pkg/render"
	"design-o-pedia-go/pkg/storage"
	"design-o-pedia-go/pkg/tika"
	"design-o-pedia-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 每次启动使用新的命名空间，进程重启后旧会话的数据不可见
	bootID := uuid.NewString()
	log.Infof("本次启动 ID: %s", bootID)

	// 3. 初始化会话存储
	var sweepers []repository.Sweeper
	var reviewRepo repository.ReviewRepository
	switch cfg.Session.Store {
	case "redis":
		database.InitRedis(cfg.Redis)
		defer database.CloseRedis()
		reviewRepo = repository.NewRedisReviewRepository(database.RDB, bootID, cfg.Session.TTL)
	default:
		memReviews := repository.NewMemoryReviewRepository(cfg.Session.TTL)
		sweepers = append(sweepers, memReviews)
		reviewRepo = memReviews
	}

	var artifactRepo repository.ArtifactRepository
	switch cfg.Artifacts.Backend {
	case "minio":
		storage.InitMinIO(cfg.MinIO)
		artifactRepo = repository.NewMinioArtifactRepository(storage.MinioClient, cfg.MinIO.BucketName, bootID)
	default:
		memArtifacts := repository.NewMemoryArtifactRepository(cfg.Session.TTL)
		sweepers = append(sweepers, memArtifacts)
		artifactRepo = memArtifacts
	}

	// 4. 初始化 Kafka 使用事件发送器（未配置 brokers 时不发送）
	publisher := kafka.NewPublisher(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("关闭 Kafka 发送器失败", err)
		}
	}()

	// 5. 初始化渲染与 OCR
	fonts := render.NewFontLoader(cfg.Render.FontName, cfg.Render.FontDirs)
	generator := render.NewGenerator(render.Options{
		Width:  cfg.Render.Width,
		Height: cfg.Render.Height,
		Anchor: image.Pt(cfg.Render.AnchorX, cfg.Render.AnchorY),
	}, fonts, nil)
	if fonts.Path() == "" {
		log.Infof("未找到字体 %s，文字转图片将使用默认字体", cfg.Render.FontName)
	}

	engine, err := ocr.NewEngine(cfg.OCR.Engine, cfg.OCR.Languages, tika.NewClient(cfg.Tika))
	if err != nil {
		log.Fatal("初始化 OCR 引擎失败", err)
	}
	log.Infof("OCR 引擎: %s", engine.Name())

	// 6. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(sessionSecret(cfg.Session.Secret), cfg.Session.TTL)
	converterService := service.NewConverterService(generator, engine, artifactRepo, publisher, service.ConverterOptions{
		Delay:           cfg.Converter.Delay,
		DefaultFontSize: cfg.Render.DefaultFontSize,
		DefaultColor:    cfg.Render.DefaultColor,
	})
	reviewService := service.NewReviewService(reviewRepo, publisher)
	sessionService := service.NewSessionService(jwtManager, reviewRepo, artifactRepo, publisher)

	// 7. 启动空闲会话回收
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	defer cancelSweep()
	go sweepIdleSessions(sweepCtx, cfg.Session.SweepInterval, sweepers)

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	logoFile := ""
	if info, err := os.Stat(cfg.Assets.LogoPath); err == nil && !info.IsDir() {
		logoFile = cfg.Assets.LogoPath
	} else {
		log.Infof("未找到 logo 文件 %s，页面不显示 logo", cfg.Assets.LogoPath)
	}
	r, err := handler.NewRouter(handler.RouterConfig{
		Converter:  converterService,
		Reviews:    reviewService,
		Sessions:   sessionService,
		CookieName: cfg.Session.CookieName,
		SessionTTL: cfg.Session.TTL,
		Page: handler.PageOptions{
			LogoWidth:       cfg.Assets.LogoWidth,
			DefaultFontSize: cfg.Render.DefaultFontSize,
			DefaultColor:    cfg.Render.DefaultColor,
		},
		LogoFile: logoFile,
	})
	if err != nil {
		log.Fatal("初始化路由失败", err)
	}

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	// 设置一个5秒的超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	log.Info("服务已优雅关闭")
}

// sessionSecret 返回会话令牌的签名密钥，未配置时每次启动随机生成。
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	log.Warnf("未配置 session.secret，使用随机密钥，重启后所有会话失效")
	return token.GenerateRandomString(32)
}

// sweepIdleSessions 定期回收内存存储中空闲超过 TTL 的会话。
func sweepIdleSessions(ctx context.Context, interval time.Duration, sweepers []repository.Sweeper) {
	if interval <= 0 || len(sweepers) == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed := 0
			for _, s := range sweepers {
				removed += s.Sweep(now)
			}
			if removed > 0 {
				log.Infof("已回收 %d 个空闲会话", removed)
			}
		}
	}
}
