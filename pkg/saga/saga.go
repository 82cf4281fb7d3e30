// Package saga 实现带补偿的多步骤执行框架
//
// 用途：跨越多个存储边界的操作（如"提交订单"+"删除购物车"）无法放进
// 同一个数据库事务时，按顺序执行各步骤；某步失败则按逆序执行已完成
// 步骤的补偿操作，保证不残留半完成状态。
//
// 约束：
//   - Action和Compensate都必须幂等（补偿可能重试）
//   - 补偿使用独立Context执行，不受原Context超时影响
package saga

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/pkg/logger"
)

// Step 表示一个步骤
type Step struct {
	Name       string                          // 步骤名称（日志用）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作（可为nil）
}

// Saga 一次多步骤执行
type Saga struct {
	steps    []Step
	executed []Step
	timeout  time.Duration
}

// New 创建Saga
// timeout为0表示不限制整体执行时间
func New(timeout time.Duration) *Saga {
	return &Saga{
		steps:   make([]Step, 0, 4),
		timeout: timeout,
	}
}

// AddStep 添加步骤
// 步骤按添加顺序执行，按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 按顺序执行所有步骤
// 某步失败时，已完成步骤的补偿按逆序执行，然后返回该步的错误
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 补偿使用新Context，避免补偿本身也被同一超时打断
			s.compensate(context.Background())
			return fmt.Errorf("执行超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.Background())
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿
// 单个补偿失败只记日志，继续执行剩余补偿（尽最大努力）
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			logger.L.Error("补偿操作失败，需要人工介入",
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}
	s.executed = nil
}
