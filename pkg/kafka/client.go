// Package kafka 提供了向 Kafka 发送使用事件的功能。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"design-o-pedia-go/internal/config"
	"design-o-pedia-go/pkg/events"
	"design-o-pedia-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// Publisher 定义了发送使用事件的接口，使业务层不依赖具体的消息队列。
type Publisher interface {
	Publish(ctx context.Context, event events.UsageEvent) error
	Close() error
}

// NopPublisher 丢弃所有事件，在未配置 Kafka 时使用。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, events.UsageEvent) error { return nil }
func (NopPublisher) Close() error                                     { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
}

// NewPublisher 根据配置创建 Publisher。Brokers 为空时返回 NopPublisher。
func NewPublisher(cfg config.KafkaConfig) Publisher {
	if strings.TrimSpace(cfg.Brokers) == "" {
		log.Info("未配置 Kafka brokers，使用事件不会被发送")
		return NopPublisher{}
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.Brokers, ",")...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	log.Info("Kafka 生产者初始化成功")
	return &kafkaPublisher{writer: w}
}

// Publish 发送一个使用事件，以会话 ID 作为消息 key 保证同一会话内有序。
func (p *kafkaPublisher) Publish(ctx context.Context, event events.UsageEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("序列化使用事件失败: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.SessionID), Value: value}); err != nil {
		return fmt.Errorf("发送使用事件失败: %w", err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
