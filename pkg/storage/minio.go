// Package storage提供了与对象存储服务（如 MinIO）交互的功能。
package storage

import (
	"context"

	"design-o-pedia-go/internal/config"
	"design-o-pedia-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient 是一个全局的 MinIO 客户端实例，仅在产物存储配置为 minio 时初始化。
var MinioClient *minio.Client

// InitMinIO 初始化 MinIO 客户端并确保指定的存储桶存在。
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("初始化 MinIO 客户端失败", err)
	}
	log.Info("MinIO 客户端初始化成功")

	// 检查存储桶是否存在，如果不存在则创建
	ctx := context.Background()
	exists, err := MinioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		log.Fatal("检查 MinIO 存储桶失败", err)
	}
	if exists {
		log.Infof("存储桶 '%s' 已存在", cfg.BucketName)
		return
	}

	log.Infof("存储桶 '%s' 不存在，正在创建...", cfg.BucketName)
	if err := MinioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
		log.Fatal("创建 MinIO 存储桶失败", err)
	}
	log.Infof("存储桶 '%s' 创建成功", cfg.BucketName)
}
