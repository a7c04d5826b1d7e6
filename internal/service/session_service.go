package service

import (
	"context"
	"errors"
	"time"

	"design-o-pedia-go/internal/model"
	"design-o-pedia-go/internal/repository"
	"design-o-pedia-go/pkg/events"
	"design-o-pedia-go/pkg/kafka"
	"design-o-pedia-go/pkg/log"
	"design-o-pedia-go/pkg/token"

	"github.com/google/uuid"
)

// SessionService 管理会话的创建、恢复与结束。
type SessionService interface {
	// Resume 验证令牌并恢复会话；令牌缺失或无效时创建新会话。
	// 返回的 token 是续期后的令牌，调用方应写回 cookie。
	Resume(ctx context.Context, tokenString string) (session *model.SessionContext, newToken string, err error)
	End(ctx context.Context, sessionID string) error
}

type sessionService struct {
	jwtManager *token.JWTManager
	reviews    repository.ReviewRepository
	artifacts  repository.ArtifactRepository
	publisher  kafka.Publisher
}

// NewSessionService 创建一个新的 SessionService。
func NewSessionService(jwtManager *token.JWTManager, reviews repository.ReviewRepository, artifacts repository.ArtifactRepository, publisher kafka.Publisher) SessionService {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	return &sessionService{jwtManager: jwtManager, reviews: reviews, artifacts: artifacts, publisher: publisher}
}

func (s *sessionService) Resume(ctx context.Context, tokenString string) (*model.SessionContext, string, error) {
	session := &model.SessionContext{}
	if tokenString != "" {
		if claims, err := s.jwtManager.VerifyToken(tokenString); err == nil {
			session.ID = claims.SessionID()
			if claims.IssuedAt != nil {
				session.CreatedAt = claims.IssuedAt.Time
			}
		} else {
			log.Debugf("[SessionService] 会话令牌无效，创建新会话: %v", err)
		}
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
		session.CreatedAt = time.Now().Truncate(time.Second)
		log.Infof("[SessionService] 创建新会话: %s", session.ID)
	}

	// 首次交互时初始化评论列表
	if err := s.reviews.Init(ctx, session.ID); err != nil {
		return nil, "", err
	}

	signed, expiresAt, err := s.jwtManager.GenerateToken(session.ID, session.CreatedAt)
	if err != nil {
		return nil, "", err
	}
	session.ExpiresAt = expiresAt
	return session, signed, nil
}

// End 清除会话的评论与产物。
func (s *sessionService) End(ctx context.Context, sessionID string) error {
	err := errors.Join(
		s.reviews.Clear(ctx, sessionID),
		s.artifacts.DeleteSession(ctx, sessionID),
	)
	if err != nil {
		return err
	}
	log.Infof("[SessionService] 会话已结束: %s", sessionID)
	if err := s.publisher.Publish(ctx, events.UsageEvent{Type: events.TypeSessionEnded, SessionID: sessionID}); err != nil {
		log.Warnf("[SessionService] 发送使用事件失败: %v", err)
	}
	return nil
}
