package order

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// GetOrderUseCase 订单查询用例
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单查询用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// GetByID 根据ID查询订单
func (uc *GetOrderUseCase) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	return uc.orderRepo.FindByID(ctx, id)
}

// GetByOrderNo 根据订单号查询订单
func (uc *GetOrderUseCase) GetByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	return uc.orderRepo.FindByOrderNo(ctx, orderNo)
}

// ListByCustomer 分页查询客户订单
func (uc *GetOrderUseCase) ListByCustomer(ctx context.Context, email string, page, pageSize int) ([]*order.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return uc.orderRepo.ListByCustomerEmail(ctx, email, page, pageSize)
}
