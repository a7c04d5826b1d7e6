package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"design-o-pedia-go/internal/model"

	"github.com/minio/minio-go/v7"
)

// ErrArtifactNotFound 表示会话中没有对应的产物。
var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactRepository 保存每个会话最近一次的生成图片和待识别上传图片。
// 每种 kind 只保留一份，新写入会覆盖旧的。
type ArtifactRepository interface {
	Put(ctx context.Context, sessionID string, kind model.ArtifactKind, artifact model.Artifact) error
	Get(ctx context.Context, sessionID string, kind model.ArtifactKind) (*model.Artifact, error)
	// Take 读取并删除产物，用于"下载后即释放"。
	Take(ctx context.Context, sessionID string, kind model.ArtifactKind) (*model.Artifact, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type memoryArtifactSession struct {
	artifacts map[model.ArtifactKind]model.Artifact
	touched   time.Time
}

// MemoryArtifactRepository 是进程内的 ArtifactRepository 实现。
type MemoryArtifactRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memoryArtifactSession
}

// NewMemoryArtifactRepository 创建一个进程内的产物存储。
func NewMemoryArtifactRepository(ttl time.Duration) *MemoryArtifactRepository {
	return &MemoryArtifactRepository{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memoryArtifactSession),
	}
}

func (r *MemoryArtifactRepository) Put(_ context.Context, sessionID string, kind model.ArtifactKind, artifact model.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &memoryArtifactSession{artifacts: make(map[model.ArtifactKind]model.Artifact)}
		r.sessions[sessionID] = s
	}
	artifact.Data = append([]byte(nil), artifact.Data...)
	s.artifacts[kind] = artifact
	s.touched = r.now()
	return nil
}

func (r *MemoryArtifactRepository) lookup(sessionID string, kind model.ArtifactKind, remove bool) (*model.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	a, ok := s.artifacts[kind]
	if !ok {
		return nil, ErrArtifactNotFound
	}
	s.touched = r.now()
	if remove {
		delete(s.artifacts, kind)
	}
	return &a, nil
}

func (r *MemoryArtifactRepository) Get(_ context.Context, sessionID string, kind model.ArtifactKind) (*model.Artifact, error) {
	return r.lookup(sessionID, kind, false)
}

func (r *MemoryArtifactRepository) Take(_ context.Context, sessionID string, kind model.ArtifactKind) (*model.Artifact, error) {
	return r.lookup(sessionID, kind, true)
}

func (r *MemoryArtifactRepository) DeleteSession(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

// Sweep 删除空闲超过 ttl 的会话产物，返回删除的会话数量。
func (r *MemoryArtifactRepository) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.touched) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

type minioArtifactRepository struct {
	client     *minio.Client
	bucketName string
	namespace  string
}

// NewMinioArtifactRepository 创建一个基于 MinIO 的产物存储，对象名按
// sessions/{namespace}/{sessionID}/{kind} 组织。
func NewMinioArtifactRepository(client *minio.Client, bucketName, namespace string) ArtifactRepository {
	return &minioArtifactRepository{client: client, bucketName: bucketName, namespace: namespace}
}

func (r *minioArtifactRepository) prefix(sessionID string) string {
	return fmt.Sprintf("sessions/%s/%s/", r.namespace, sessionID)
}

func (r *minioArtifactRepository) objectName(sessionID string, kind model.ArtifactKind) string {
	return r.prefix(sessionID) + string(kind)
}

func (r *minioArtifactRepository) Put(ctx context.Context, sessionID string, kind model.ArtifactKind, artifact model.Artifact) error {
	_, err := r.client.PutObject(ctx, r.bucketName, r.objectName(sessionID, kind),
		bytes.NewReader(artifact.Data), int64(len(artifact.Data)),
		minio.PutObjectOptions{
			ContentType:  artifact.ContentType,
			UserMetadata: map[string]string{"filename": artifact.FileName},
		})
	if err != nil {
		return fmt.Errorf("上传产物到 MinIO 失败: %w", err)
	}
	return nil
}

func (r *minioArtifactRepository) Get(ctx context.Context, sessionID string, kind model.ArtifactKind) (*model.Artifact, error) {
	objectName := r.objectName(sessionID, kind)
	object, err := r.client.GetObject(ctx, r.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("从 MinIO 读取产物失败: %w", err)
	}
	defer object.Close()

	info, err := object.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("获取 MinIO 对象信息失败: %w", err)
	}
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("读取 MinIO 对象流失败: %w", err)
	}
	return &model.Artifact{
		FileName:    info.UserMetadata["Filename"],
		ContentType: info.ContentType,
		Data:        data,
	}, nil
}

func (r *minioArtifactRepository) Take(ctx context.Context, sessionID string, kind model.ArtifactKind) (*model.Artifact, error) {
	a, err := r.Get(ctx, sessionID, kind)
	if err != nil {
		return nil, err
	}
	if err := r.client.RemoveObject(ctx, r.bucketName, r.objectName(sessionID, kind), minio.RemoveObjectOptions{}); err != nil {
		return nil, fmt.Errorf("删除 MinIO 产物失败: %w", err)
	}
	return a, nil
}

func (r *minioArtifactRepository) DeleteSession(ctx context.Context, sessionID string) error {
	objects := r.client.ListObjects(ctx, r.bucketName, minio.ListObjectsOptions{Prefix: r.prefix(sessionID), Recursive: true})
	for obj := range objects {
		if obj.Err != nil {
			return fmt.Errorf("列出会话产物失败: %w", obj.Err)
		}
		if err := r.client.RemoveObject(ctx, r.bucketName, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("删除 MinIO 产物失败: %w", err)
		}
	}
	return nil
}
