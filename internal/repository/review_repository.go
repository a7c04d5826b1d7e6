// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"design-o-pedia-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// ReviewRepository 定义了会话范围内评论列表的操作接口。
// 列表只追加、保持插入顺序，会话结束时整体清除。
type ReviewRepository interface {
	// Init 在会话第一次交互时初始化评论列表（已存在则不做任何事）。
	Init(ctx context.Context, sessionID string) error
	Append(ctx context.Context, sessionID string, entry model.ReviewEntry) error
	List(ctx context.Context, sessionID string) ([]model.ReviewEntry, error)
	Clear(ctx context.Context, sessionID string) error
}

// Sweeper 由需要主动回收空闲会话的内存存储实现。
type Sweeper interface {
	Sweep(now time.Time) int
}

type memoryReviewSession struct {
	entries []model.ReviewEntry
	touched time.Time
}

// MemoryReviewRepository 是进程内的 ReviewRepository 实现。
type MemoryReviewRepository struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memoryReviewSession
}

// NewMemoryReviewRepository 创建一个进程内的评论存储，空闲超过 ttl 的会话会被 Sweep 回收。
func NewMemoryReviewRepository(ttl time.Duration) *MemoryReviewRepository {
	return &MemoryReviewRepository{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memoryReviewSession),
	}
}

func (r *MemoryReviewRepository) session(sessionID string) *memoryReviewSession {
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &memoryReviewSession{entries: []model.ReviewEntry{}}
		r.sessions[sessionID] = s
	}
	s.touched = r.now()
	return s
}

func (r *MemoryReviewRepository) Init(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session(sessionID)
	return nil
}

func (r *MemoryReviewRepository) Append(_ context.Context, sessionID string, entry model.ReviewEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session(sessionID)
	s.entries = append(s.entries, entry)
	return nil
}

func (r *MemoryReviewRepository) List(_ context.Context, sessionID string) ([]model.ReviewEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session(sessionID)
	return append([]model.ReviewEntry(nil), s.entries...), nil
}

func (r *MemoryReviewRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

// Sweep 删除空闲超过 ttl 的会话，返回删除的数量。
func (r *MemoryReviewRepository) Sweep(now time.Time) int {
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

type redisReviewRepository struct {
	redisClient *redis.Client
	namespace   string
	ttl         time.Duration
}

// NewRedisReviewRepository 创建一个 Redis 评论存储。namespace 通常是进程启动 ID，
// 保证重启后旧会话的数据不可见；ttl 到期后 Redis 自动删除键。
func NewRedisReviewRepository(redisClient *redis.Client, namespace string, ttl time.Duration) ReviewRepository {
	return &redisReviewRepository{redisClient: redisClient, namespace: namespace, ttl: ttl}
}

func (r *redisReviewRepository) key(sessionID string) string {
	return fmt.Sprintf("session:%s:%s:reviews", r.namespace, sessionID)
}

func (r *redisReviewRepository) touch(ctx context.Context, key string) error {
	if r.ttl <= 0 {
		return nil
	}
	// 键不存在时 Expire 不生效，空列表在 Redis 中本就等同于不存在
	if err := r.redisClient.Expire(ctx, key, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh review ttl: %w", err)
	}
	return nil
}

func (r *redisReviewRepository) Init(ctx context.Context, sessionID string) error {
	return r.touch(ctx, r.key(sessionID))
}

func (r *redisReviewRepository) Append(ctx context.Context, sessionID string, entry model.ReviewEntry) error {
	key := r.key(sessionID)
	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal review: %w", err)
	}
	if err := r.redisClient.RPush(ctx, key, jsonData).Err(); err != nil {
		return fmt.Errorf("failed to append review: %w", err)
	}
	return r.touch(ctx, key)
}

func (r *redisReviewRepository) List(ctx context.Context, sessionID string) ([]model.ReviewEntry, error) {
	key := r.key(sessionID)
	values, err := r.redisClient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	entries := make([]model.ReviewEntry, 0, len(values))
	for _, v := range values {
		var entry model.ReviewEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal review: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := r.touch(ctx, key); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *redisReviewRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.redisClient.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear reviews: %w", err)
	}
	return nil
}
