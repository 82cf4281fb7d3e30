// Package messaging 实现领域事件发布
// 底层为RabbitMQ topic exchange,外层包一道熔断器:
// MQ持续不可用时快速失败,避免每次发布都等待连接超时。
package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/mq"
)

// EventPublisher RabbitMQ事件发布器
type EventPublisher struct {
	publisher *mq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
}

var _ event.Publisher = (*EventPublisher)(nil)

// NewEventPublisher 创建事件发布器
func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	publisher, err := mq.NewPublisher(url, exchange, "topic")
	if err != nil {
		return nil, err
	}

	breaker := circuitbreaker.New("event-publisher", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		logger.L.Warn("事件发布熔断器状态变更",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	})

	return &EventPublisher{publisher: publisher, breaker: breaker}, nil
}

// Publish 发布事件(尽力而为)
// 发布失败只返回错误供调用方记日志,不影响已提交的业务事务
func (p *EventPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return p.breaker.Execute(func() error {
		return p.publisher.Publish(ctx, routingKey, message)
	})
}

// Close 关闭底层连接
func (p *EventPublisher) Close() error {
	return p.publisher.Close()
}

// NopPublisher 空实现,MQ未启用时使用
type NopPublisher struct{}

var _ event.Publisher = (*NopPublisher)(nil)

// Publish 丢弃事件
func (NopPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return nil
}
