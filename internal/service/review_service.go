package service

import (
	"context"
	"errors"
	"strings"

	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/repository"
	"design-o-pedia-go/pkg/events"
	"design-o-pedia-go/pkg/kafka"
	"design-o-pedia-go/pkg/log"
)

var ErrEmptyReview = errors.New("review is empty")

// ReviewService 定义了会话评论列表的业务操作。
type ReviewService interface {
	Submit(ctx context.Context, sessionID, text string) error
	List(ctx context.Context, sessionID string) ([]model.RankedReview, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	publisher kafka.Publisher
}

// NewReviewService 创建一个新的 ReviewService。
func NewReviewService(repo repository.ReviewRepository, publisher kafka.Publisher) ReviewService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &reviewService{repo: repo, publisher: publisher}
}

// Submit 追加一条评论。去掉首尾空白后为空则返回 ErrEmptyReview 且不修改列表；
// 否则保存未经裁剪的原文。
func (s *reviewService) Submit(ctx context.Context, sessionID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyReview
	}
	if err := s.repo.Append(ctx, sessionID, model.ReviewEntry{Text: text}); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, events.UsageEvent{
		Type:       events.TypeReviewAdded,
		SessionID:  sessionID,
		TextLength: len([]rune(text)),
	}); err != nil {
		log.Warnf("[ReviewService] 发送使用事件失败: %v", err)
	}
	return nil
}

// List 返回最新在前的评论，排名在每次读取时重新计算。
func (s *reviewService) List(ctx context.Context, sessionID string) ([]model.RankedReview, error) {
	entries, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return model.RankReviews(entries), nil
}
