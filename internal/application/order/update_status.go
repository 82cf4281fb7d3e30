package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/pkg/logger"
)

// UpdateStatusUseCase 订单状态更新用例
type UpdateStatusUseCase struct {
	orderRepo order.Repository
	publisher event.Publisher
}

// NewUpdateStatusUseCase 创建订单状态更新用例
func NewUpdateStatusUseCase(orderRepo order.Repository, publisher event.Publisher) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{orderRepo: orderRepo, publisher: publisher}
}

// Execute 更新订单状态
// 状态机只允许前向流转,非法转换返回ErrInvalidStatusTransition
func (uc *UpdateStatusUseCase) Execute(ctx context.Context, orderID uint, target order.OrderStatus) (*order.Order, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	oldStatus := o.Status
	if err := o.TransitionTo(target); err != nil {
		return nil, err
	}

	if err := uc.orderRepo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	logger.L.Info("订单状态更新",
		zap.String("order_no", o.OrderNo),
		zap.String("from", oldStatus.String()),
		zap.String("to", target.String()))

	evt := event.OrderStatusChangedEvent{
		OrderID:   o.ID,
		OrderNo:   o.OrderNo,
		OldStatus: oldStatus.String(),
		NewStatus: target.String(),
		ChangedAt: time.Now(),
	}
	if err := uc.publisher.Publish(ctx, event.RoutingKeyOrderStatusChanged, evt); err != nil {
		logger.L.Warn("发布订单状态变更事件失败", zap.String("order_no", o.OrderNo), zap.Error(err))
	}

	return o, nil
}
